// Package bsonbuf implements the growable byte buffer the BSON encoder and
// the wire message builders use to emit bytes in a single pass while still
// being able to back-patch length prefixes that are only known once the
// body they describe has been written.
package bsonbuf

import (
	"encoding/binary"
	"errors"
)

// ErrOutOfMemory is returned by Write/SaveSpace when the underlying slice
// cannot grow. Go's allocator panics rather than returning an error on
// exhaustion, so Buffer recovers that panic at the append boundary and
// reports it as an ordinary error instead, matching the "OOM is a distinct,
// non-fatal error" contract callers expect from the encoder.
var ErrOutOfMemory = errors.New("bsonbuf: out of memory")

// Buffer is an append-only byte buffer. Offsets returned by SaveSpace
// remain valid indices into Data() across subsequent Write/SaveSpace calls,
// even if the backing array is reallocated, because they are offsets, not
// pointers.
type Buffer struct {
	data []byte
}

// New returns an empty Buffer.
func New() *Buffer {
	return &Buffer{}
}

// NewWithCapacity returns an empty Buffer that pre-allocates room for n
// bytes, useful when the caller has a size hint (e.g. a declared document
// length) and wants to avoid repeated growth.
func NewWithCapacity(n int) *Buffer {
	return &Buffer{data: make([]byte, 0, n)}
}

// Write appends p to the buffer.
func (b *Buffer) Write(p []byte) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ErrOutOfMemory
		}
	}()
	b.data = append(b.data, p...)
	return len(p), nil
}

// WriteByte appends a single byte.
func (b *Buffer) WriteByte(c byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ErrOutOfMemory
		}
	}()
	b.data = append(b.data, c)
	return nil
}

// WriteCString appends s followed by a single NUL terminator. The caller is
// responsible for having validated that s contains no embedded NUL.
func (b *Buffer) WriteCString(s string) error {
	if _, err := b.Write([]byte(s)); err != nil {
		return err
	}
	return b.WriteByte(0x00)
}

// SaveSpace appends n zeroed bytes and returns the offset at which they
// start, so the caller can come back later (via PatchUint32) and
// fill them in once the value they describe is known.
func (b *Buffer) SaveSpace(n int) (offset int, err error) {
	offset = len(b.data)
	if _, err = b.Write(make([]byte, n)); err != nil {
		return 0, err
	}
	return offset, nil
}

// PatchUint32 overwrites the 4 bytes at offset with v, little-endian.
// offset must have come from a prior SaveSpace(4) call (or similarly sized
// reservation) on this same Buffer.
func (b *Buffer) PatchUint32(offset int, v uint32) {
	binary.LittleEndian.PutUint32(b.data[offset:offset+4], v)
}

// Position returns the current length of the buffer.
func (b *Buffer) Position() int {
	return len(b.data)
}

// Data returns the buffer's current contents. The returned slice aliases
// the buffer's storage and is only valid until the next Write/SaveSpace.
func (b *Buffer) Data() []byte {
	return b.data
}

// Free releases the buffer's storage. Safe to call more than once.
func (b *Buffer) Free() {
	b.data = nil
}
