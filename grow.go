package segalloc

import (
	"fmt"
	"unsafe"
)

// growChunk requests a new chunk from the provider sized to comfortably fit
// a payloadSize allocation (§4.3), carves it into one free block plus a
// terminating sentinel, and inserts the free block into payloadSize's home
// class. It is grounded directly on original_source/umalloc.c's extend().
func (a *Allocator) growChunk(payloadSize int) error {
	minNeeded := payloadSize + int(headerSize)
	chunkSize := osPageSize / 4
	for minNeeded > chunkSize {
		chunkSize *= 2
	}

	requestSize := chunkSize + 3*int(headerSize)
	requestSize = roundUp(requestSize, alignment)

	buf, err := a.prov().obtain(requestSize)
	if err != nil {
		Log.WithFields(logFields{"requested_bytes": requestSize}).
			Warn("segalloc: provider refused chunk growth")
		return fmt.Errorf("segalloc: grow %d bytes: %w: %v", requestSize, ErrProviderExhausted, err)
	}

	base := (*blockHeader)(unsafe.Pointer(&buf[0]))
	home := classOf(payloadSize)
	freePayload := requestSize - 2*int(headerSize)

	base.setFields(freePayload, home, false, nil)

	sentinel := headerAt(base, int(headerSize)+freePayload)
	sentinel.setFields(0, home, true, sentinelMarker)

	a.free.insertSorted(home, base)
	a.totalPayload += freePayload
	a.chunks = append(a.chunks, buf)
	return nil
}
