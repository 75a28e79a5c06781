// Command allocbench is the trace-driven harness spec.md §1 treats as an
// out-of-scope external collaborator: it replays an allocate/free/
// reallocate operation trace against segalloc (or a libc baseline) and
// reports one CSV record per trace, per §6.
package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/gomem/segalloc"
	"github.com/gomem/segalloc/internal/harness"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var mode string
	var label string

	cmd := &cobra.Command{
		Use:   "allocbench <trace-file>",
		Short: "Replay an allocator trace and report throughput and utilization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], mode, label, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "segalloc", `backend to drive: "segalloc" or "libc"`)
	cmd.Flags().StringVar(&label, "label", "", "trace label for the CSV record (defaults to the trace file's base name)")
	return cmd
}

func run(tracePath, mode, label string, out io.Writer) error {
	f, err := os.Open(tracePath)
	if err != nil {
		return fmt.Errorf("allocbench: failed to open trace: %w", err)
	}
	defer f.Close()

	if label == "" {
		label = tracePath
		if idx := lastSlash(label); idx >= 0 {
			label = label[idx+1:]
		}
	}

	var backend harness.Allocator
	switch mode {
	case "segalloc":
		backend = &segalloc.Allocator{}
	case "libc":
		backend = harness.LibcAllocator{}
	default:
		return fmt.Errorf("allocbench: unknown --mode %q", mode)
	}

	runner := harness.NewRunner(backend, 0)

	start := time.Now()
	res, err := runner.Replay(f)
	elapsed := time.Since(start)
	if err != nil {
		return fmt.Errorf("allocbench: trace replay failed: %w", err)
	}

	if res.ExpectedOps != 0 && res.Stats.Ops != res.ExpectedOps {
		segalloc.Log.WithFields(segalloc.LogFields{
			"expected": res.ExpectedOps,
			"actual":   res.Stats.Ops,
			"trace":    tracePath,
		}).Warn("allocbench: op count mismatch")
	}

	elapsedMs := float64(elapsed) / float64(time.Millisecond)
	opsPerSec := 0.0
	nsPerOp := 0.0
	if elapsedMs > 0 {
		opsPerSec = float64(res.Stats.Ops) / (elapsedMs / 1000.0)
	}
	if res.Stats.Ops > 0 {
		nsPerOp = (elapsedMs * 1e6) / float64(res.Stats.Ops)
	}

	avgUtil := "nan"
	if res.UtilizationOK {
		avgUtil = strconv.FormatFloat(res.AvgUtilization, 'f', 6, 64)
	}

	w := csv.NewWriter(out)
	defer w.Flush()
	return w.Write([]string{
		mode,
		label,
		strconv.Itoa(res.Stats.Ops),
		strconv.FormatFloat(elapsedMs, 'f', 3, 64),
		strconv.FormatFloat(opsPerSec, 'f', 2, 64),
		strconv.FormatFloat(nsPerOp, 'f', 2, 64),
		strconv.Itoa(res.Stats.Allocs),
		strconv.Itoa(res.Stats.Frees),
		avgUtil,
	})
}

func lastSlash(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '/' {
			return i
		}
	}
	return -1
}
