package segalloc

import "errors"

// ErrProviderExhausted is wrapped into the error Alloc returns when a chunk
// growth request (§4.3) is refused by the underlying provider. Apart from
// ErrInvalidSize for a negative size, this is the only condition that
// surfaces as an error rather than a null return or a logged diagnostic.
var ErrProviderExhausted = errors.New("segalloc: provider could not satisfy chunk request")

// ErrInvalidSize is returned by Alloc and AllocUnsafe for negative sizes,
// mirroring the teacher's "Malloc panics for size < 0" contract but as an
// error instead of a panic, since segalloc's public surface never panics
// on caller input.
var ErrInvalidSize = errors.New("segalloc: negative size requested")
