package segalloc

// maybeSplit decides whether to carve a remainder off block, which has
// already been unlinked from its free list and is large enough to serve
// want bytes. If it splits, it shortens block's header in place and
// releases the remainder through releaseBlock so it is address-inserted and
// coalesced exactly the way any other freed block would be (§4.5; see the
// "Recursive free from splitter" design note).
func (a *Allocator) maybeSplit(block *blockHeader, want int) {
	full := block.size()
	if full == want {
		return
	}

	remain := full - want
	neighbor := rightNeighbor(block)
	split := false
	switch {
	case !neighbor.isSentinel() && !neighbor.allocated() && remain > 0:
		split = true
	case remain >= int(headerSize)+alignment && remain >= (full+int(headerSize))/4:
		split = true
	}

	if !split {
		return
	}

	class := block.classIndex()
	block.setSize(want)

	remainder := headerAt(block, int(headerSize)+want)
	remainder.setFields(remain-int(headerSize), class, true, allocatedMarker)
	a.releaseBlock(remainder)
}
