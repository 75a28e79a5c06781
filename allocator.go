// Package segalloc implements a general-purpose dynamic memory allocator
// over a segregated free-list layout: six address-ordered free lists keyed
// by payload size class, first-fit search with cross-class fallback,
// threshold-gated splitting, and immediate-neighbor coalescing on free.
//
// The allocator manages one or more large chunks obtained from an
// underlying provider (an anonymous OS mmap by default) and keeps them for
// as long as the Allocator is in use; only Close, a terminal operation,
// unmaps them. See the Non-goals below.
//
// Non-goals: thread safety (callers must serialize access to an
// Allocator), shrinking chunks back to the provider, exact/best-fit
// search, defragmentation, and safety against a caller corrupting its own
// header. See SPEC_FULL.md for the full rationale.
package segalloc

import (
	"unsafe"
)

// Allocator allocates and frees memory out of chunks it grows on demand.
// Its zero value is ready for use. An Allocator is not safe for concurrent
// use; callers must serialize Alloc/Free/HeapPayloadBytes themselves.
type Allocator struct {
	free         freeLists
	totalPayload int
	provider     provider
	chunks       [][]byte
}

func (a *Allocator) prov() provider {
	if a.provider == nil {
		a.provider = osProvider{}
	}
	return a.provider
}

// Init resets a to a fresh state: all six free-list heads are cleared and
// the total-payload counter is reset to zero. Calling Init after work has
// been done abandons every chunk grown so far — they are never released to
// the provider, so Init should only be used for a genuine fresh start, not
// as a periodic reset (§4.9).
func (a *Allocator) Init() {
	a.free = freeLists{}
	a.totalPayload = 0
	a.chunks = nil
}

// Alloc returns a 16-aligned slice of at least n bytes, or (nil, nil) if
// n == 0. It returns ErrInvalidSize if n < 0, and an error wrapping
// ErrProviderExhausted if growing a new chunk was necessary and the
// provider refused the request (§4.4, §7).
func (a *Allocator) Alloc(n int) ([]byte, error) {
	if n < 0 {
		return nil, ErrInvalidSize
	}
	if n == 0 {
		return nil, nil
	}

	p := roundUp(n, alignment)
	block, err := a.acquire(p)
	if err != nil {
		return nil, err
	}
	if block == nil {
		return nil, nil
	}

	full := unsafe.Slice((*byte)(block.payload()), block.size())
	return full[:n], nil
}

// acquire finds (growing at most once) a free block of at least want
// payload bytes, splits it if worthwhile, marks it allocated, and returns
// its header. If growChunk fails, its error is returned. It returns
// (nil, nil) if no block is available even after a successful grow, which
// does not happen in practice, since a successful grow always yields a
// block big enough for its own target size.
func (a *Allocator) acquire(want int) (*blockHeader, error) {
	home := classOf(want)

	block, pred, class := a.findFit(home, want)
	if block == nil {
		if err := a.growChunk(want); err != nil {
			return nil, err
		}
		block, pred = a.free.findFirstFit(home, want)
		class = home
	}
	if block == nil {
		return nil, nil
	}

	a.free.unlink(class, pred, block)
	a.maybeSplit(block, want)
	block.setFields(block.size(), class, true, allocatedMarker)
	return block, nil
}

// Free releases a slice previously returned by Alloc. A slice with zero
// capacity (such as nil) is a no-op; any other slice, even one resliced to
// length zero, releases its whole block. Freeing a block whose header is not flagged allocated logs a
// double-free diagnostic and leaves all state unchanged (§4.6, §7).
func (a *Allocator) Free(b []byte) {
	b = b[:cap(b)]
	if len(b) == 0 {
		return
	}

	block := headerOf(unsafe.Pointer(&b[0]))
	if !block.allocated() {
		Log.WithFields(logFields{"pointer": block.payload()}).
			Warn("segalloc: double free detected, ignoring")
		return
	}

	a.releaseBlock(block)
}

// releaseBlock implements §4.6 steps 2-7 directly on a recovered header. It
// is also the path the splitter (split.go) re-enters with its remainder, a
// deliberate re-entrant call documented in the "Recursive free from
// splitter" design note: both callers want the same address-ordered insert
// and coalesce behavior.
func (a *Allocator) releaseBlock(block *blockHeader) {
	class := block.classIndex()
	block.setAllocated(false)

	pred := a.free.insertSorted(class, block)
	a.coalesce(block, pred, class)
}

// HeapPayloadBytes returns the cumulative payload_size contribution of
// every chunk grown since the last Init (§4.8). Init and Close reset it to
// zero; between them it is non-decreasing, and it is not sensitive
// to the current free/allocated split — it is a gross capacity measure,
// suitable as the denominator of a utilization metric.
func (a *Allocator) HeapPayloadBytes() int { return a.totalPayload }

// Close releases every chunk a has grown since the last Init back to the
// OS; chunks abandoned by an earlier Init are not released. It is a
// terminal operation, not the "shrink while live" the package's Non-goals
// exclude: callers must not use a after calling Close, and should not call
// it unless they actually want the backing mmaps returned (it's not
// necessary to Close before process exit).
func (a *Allocator) Close() error {
	var first error
	for _, buf := range a.chunks {
		if len(buf) == 0 {
			continue
		}
		if err := unmap(unsafe.Pointer(&buf[0]), len(buf)); err != nil && first == nil {
			first = err
		}
	}
	*a = Allocator{}
	return first
}
