package segalloc

import "unsafe"

// AllocUnsafe is like Alloc except it returns an unsafe.Pointer rather than
// a slice, for callers that model storage as opaque addresses (the trace
// harness's "slots" are the motivating case). It is grounded directly on
// the teacher's UnsafeMalloc.
func (a *Allocator) AllocUnsafe(n int) (unsafe.Pointer, error) {
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

	return block.payload(), nil
}

// FreeUnsafe is like Free except its argument is an unsafe.Pointer
// previously returned by AllocUnsafe.
func (a *Allocator) FreeUnsafe(p unsafe.Pointer) {
	if p == nil {
		return
	}

	block := headerOf(p)
	if !block.allocated() {
		Log.WithFields(logFields{"pointer": p}).
			Warn("segalloc: double free detected, ignoring")
		return
	}

	a.releaseBlock(block)
}

// UsableSize reports the payload capacity of the block at p, which must
// have been returned by AllocUnsafe. It can be larger than the size
// originally requested, since the allocator may have handed out a block
// whole rather than splitting it (§4.5).
func UsableSize(p unsafe.Pointer) int {
	if p == nil {
		return 0
	}
	return headerOf(p).size()
}
