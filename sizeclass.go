package segalloc

// classBounds holds the fixed, runtime-independent payload upper bound for
// every size class but the last, which catches everything above
// classBounds[len(classBounds)-1]. These thresholds are fixed and not
// tunable; the class index recorded in each block header depends on them.
var classBounds = [numClasses - 1]int{512, 2048, 8192, 16384, 32768}

// classOf returns the smallest class whose upper bound is >= size. It is
// used both to pick a list to search on Alloc and to record a block's class
// when a chunk is first carved (grow.go).
func classOf(size int) int {
	for i, bound := range classBounds {
		if size <= bound {
			return i
		}
	}
	return numClasses - 1
}
