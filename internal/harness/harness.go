// Package harness replays allocate/free/reallocate operation traces against
// any backend satisfying the Allocator interface and reports throughput and
// utilization, per spec.md §6 (the "external harness" the core allocator
// treats as an out-of-scope consumer).
package harness

import (
	"bufio"
	"fmt"
	"io"
)

// Allocator is the minimal surface the harness drives. *segalloc.Allocator
// satisfies it directly; so does the libc comparison adapter in this
// package, letting cmd/allocbench switch backends without a type switch.
type Allocator interface {
	Alloc(n int) ([]byte, error)
	Free(b []byte)
}

// PayloadReporter is implemented by backends that can report their gross
// heap capacity (§4.8). Backends that can't (the libc adapter) are simply
// type-asserted away instead of being forced to fake a number.
type PayloadReporter interface {
	HeapPayloadBytes() int
}

// Stats mirrors the C benchmark's trace_stats_t.
type Stats struct {
	Ops, Allocs, Frees int
}

type slot struct {
	data   []byte
	active bool
}

// Runner replays one trace against Backend.
type Runner struct {
	Backend Allocator
	slots   []slot
}

// NewRunner prepares a Runner with numIDs empty slots.
func NewRunner(backend Allocator, numIDs int) *Runner {
	return &Runner{Backend: backend, slots: make([]slot, numIDs)}
}

// Result is everything one trace replay produces.
type Result struct {
	Stats         Stats
	ExpectedOps   int
	AvgUtilization float64
	UtilizationOK bool // false when the backend does not implement PayloadReporter
}

// Replay parses and executes every record in r per the trace replay format
// in spec.md §6: a header of num_ids/expected_ops, then any number of
// "a <id> <size>" / "f <id>" / "r <id> <size>" records.
func (run *Runner) Replay(r io.Reader) (Result, error) {
	br := bufio.NewReaderSize(r, 64*1024)

	var numIDs, expectedOps int
	if _, err := fmt.Fscan(br, &numIDs, &expectedOps); err != nil {
		return Result{}, fmt.Errorf("harness: invalid trace header: %w", err)
	}
	if numIDs != len(run.slots) {
		run.slots = make([]slot, numIDs)
	}

	reporter, hasReporter := run.Backend.(PayloadReporter)
	var stats Stats
	var totalLive int
	var utilAccum float64

	record := func() {
		if !hasReporter {
			return
		}
		heap := reporter.HeapPayloadBytes()
		if heap > 0 {
			utilAccum += float64(totalLive) / float64(heap)
		}
	}

	for {
		var op string
		if _, err := fmt.Fscan(br, &op); err != nil {
			if err == io.EOF {
				break
			}
			return Result{}, fmt.Errorf("harness: reading op: %w", err)
		}

		switch op {
		case "a":
			var id, size int
			if _, err := fmt.Fscan(br, &id, &size); err != nil {
				return Result{}, fmt.Errorf("harness: invalid alloc record: %w", err)
			}
			if id < 0 || id >= numIDs {
				return Result{}, fmt.Errorf("harness: alloc id %d out of range [0,%d)", id, numIDs)
			}
			run.freeSlot(id, &totalLive)
			b, err := run.Backend.Alloc(size)
			if err != nil {
				return Result{}, fmt.Errorf("harness: alloc id %d size %d: %w", id, size, err)
			}
			run.slots[id] = slot{data: b, active: true}
			totalLive += size
			stats.Allocs++
			stats.Ops++
			record()

		case "f":
			var id int
			if _, err := fmt.Fscan(br, &id); err != nil {
				return Result{}, fmt.Errorf("harness: invalid free record: %w", err)
			}
			if id < 0 || id >= numIDs {
				return Result{}, fmt.Errorf("harness: free id %d out of range [0,%d)", id, numIDs)
			}
			run.freeSlot(id, &totalLive)
			stats.Frees++
			stats.Ops++
			record()

		case "r":
			var id, size int
			if _, err := fmt.Fscan(br, &id, &size); err != nil {
				return Result{}, fmt.Errorf("harness: invalid realloc record: %w", err)
			}
			if id < 0 || id >= numIDs {
				return Result{}, fmt.Errorf("harness: realloc id %d out of range [0,%d)", id, numIDs)
			}
			if err := run.realloc(id, size, &totalLive); err != nil {
				return Result{}, fmt.Errorf("harness: realloc id %d size %d: %w", id, size, err)
			}
			stats.Ops++
			record()

		default:
			return Result{}, fmt.Errorf("harness: unknown op %q", op)
		}
	}

	for id := range run.slots {
		run.freeSlot(id, &totalLive)
	}

	res := Result{Stats: stats, ExpectedOps: expectedOps, UtilizationOK: hasReporter}
	if hasReporter && stats.Ops > 0 {
		res.AvgUtilization = utilAccum / float64(stats.Ops)
	}
	return res, nil
}

func (run *Runner) freeSlot(id int, totalLive *int) {
	s := run.slots[id]
	if !s.active {
		return
	}
	*totalLive -= len(s.data)
	run.Backend.Free(s.data)
	run.slots[id] = slot{}
}

// realloc implements the harness-level "logical realloc" from spec.md §6:
// it is built out of Alloc/Free, not a true reallocation primitive, since
// the core's public API never exposes one.
func (run *Runner) realloc(id, size int, totalLive *int) error {
	old := run.slots[id]

	if size == 0 {
		run.freeSlot(id, totalLive)
		return nil
	}

	if !old.active {
		b, err := run.Backend.Alloc(size)
		if err != nil {
			return err
		}
		run.slots[id] = slot{data: b, active: true}
		*totalLive += size
		return nil
	}

	b, err := run.Backend.Alloc(size)
	if err != nil {
		return err
	}
	copy(b, old.data)
	run.Backend.Free(old.data)
	*totalLive += size - len(old.data)
	run.slots[id] = slot{data: b, active: true}
	return nil
}
