package harness

// LibcAllocator is the harness's --mode=libc baseline, standing in for
// original_source/benchmark.c's USE_LIBC build: it drives Go's own
// allocator (make/GC) instead of segalloc, as a like-for-like comparison
// point (SPEC_FULL.md §3.1). It deliberately does not implement
// PayloadReporter — like the C baseline, it has no heap-size
// introspection, so utilization is left undefined for this mode (§6).
type LibcAllocator struct{}

func (LibcAllocator) Alloc(n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	return make([]byte, n), nil
}

func (LibcAllocator) Free([]byte) {}
