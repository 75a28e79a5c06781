package segalloc

import "os"

// A provider obtains large, page-aligned regions of raw memory on behalf of
// the region grower (grow.go) and never sees them again: the core never
// returns a chunk to its provider (see the Non-goals in the package doc).
// Allocator.Close unmaps the chunks directly rather than through a
// provider.
//
// This mirrors spec.md's framing of "the underlying large-region provider"
// as an external collaborator; osProvider is the only implementation the
// package ships, grounded on the teacher's mmap0/unmap pair.
type provider interface {
	obtain(size int) ([]byte, error)
}

var (
	osPageSize = os.Getpagesize()
	osPageMask = osPageSize - 1
)

// osProvider satisfies chunk requests directly from the OS via an anonymous
// mmap, the same primitive the teacher package used for its own pages. The
// memory it returns is not managed by the Go garbage collector and is never
// moved, which is what lets block headers keep raw pointers into it across
// GC cycles.
type osProvider struct{}

func (osProvider) obtain(size int) ([]byte, error) {
	b, err := mmap0(size)
	if err != nil {
		return nil, err
	}
	return b, nil
}
