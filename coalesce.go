package segalloc

// coalesce merges a newly inserted free block b, with known predecessor
// pred (possibly nil) and successor b.next (possibly nil), with its
// physically adjacent free neighbors, at most one right merge and one left
// merge, in that order (§4.7). It returns the block the merged span is now
// addressed by (b itself, or pred if a left merge happened).
func (a *Allocator) coalesce(b, pred *blockHeader, class int) *blockHeader {
	result := b

	if next := freeNext(b); next != nil && rightNeighbor(b) == next {
		merged := b.size() + next.size() + int(headerSize)
		afterNext := freeNext(next)
		b.setFields(merged, class, false, nil)
		setFreeNext(b, afterNext)
	}

	if pred != nil && rightNeighbor(pred) == result {
		merged := pred.size() + result.size() + int(headerSize)
		afterResult := freeNext(result)
		pred.setFields(merged, class, false, nil)
		setFreeNext(pred, afterResult)
		result = pred
	}

	return result
}
