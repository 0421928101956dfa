// Package wire assembles the MongoDB legacy wire protocol request messages
// that carry BSON payloads: INSERT, UPDATE, QUERY, and GET_MORE.
//
// http://docs.mongodb.org/meta-driver/latest/legacy/mongodb-wire-protocol/
package wire

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/blep/gobsonwire/internal/bsonbuf"
)

// headerLen is the size of the fixed message header every wire message
// begins with.
const headerLen = 16

// OpCode identifies the kind of operation a wire message carries.
//
// http://docs.mongodb.org/meta-driver/latest/legacy/mongodb-wire-protocol/#request-opcodes
type OpCode int32

const (
	OpUpdate  OpCode = 2001
	OpInsert  OpCode = 2002
	OpQuery   OpCode = 2004
	OpGetMore OpCode = 2005
)

func (c OpCode) String() string {
	switch c {
	case OpUpdate:
		return "UPDATE"
	case OpInsert:
		return "INSERT"
	case OpQuery:
		return "QUERY"
	case OpGetMore:
		return "GET_MORE"
	default:
		return fmt.Sprintf("OpCode(%d)", int32(c))
	}
}

// RequestID identifies one wire message; the response carrying the matching
// responseTo value correlates to it.
type RequestID int32

// newRequestID draws a fresh, unpredictable request identifier from the
// process-wide CSPRNG, mirroring the spec's "random 32-bit value generated
// per message" requirement without any module-level mutable counter state.
func newRequestID() (RequestID, error) {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("wire: generating requestID: %w", err)
	}
	return RequestID(binary.LittleEndian.Uint32(b[:])), nil
}

// writeHeader appends the 16-byte wire header at the current buffer
// position and returns the offset of the messageLength field, which the
// caller back-patches once the full message body has been written.
func writeHeader(buf *bsonbuf.Buffer, reqID RequestID, responseTo int32, op OpCode) (lenOffset int, err error) {
	lenOffset, err = buf.SaveSpace(4)
	if err != nil {
		return 0, err
	}
	if err := writeInt32(buf, int32(reqID)); err != nil {
		return 0, err
	}
	if err := writeInt32(buf, responseTo); err != nil {
		return 0, err
	}
	if err := writeInt32(buf, int32(op)); err != nil {
		return 0, err
	}
	return lenOffset, nil
}

func finishMessage(buf *bsonbuf.Buffer, lenOffset int) {
	buf.PatchUint32(lenOffset, uint32(buf.Position()-lenOffset))
}

func writeInt32(buf *bsonbuf.Buffer, v int32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	_, err := buf.Write(b[:])
	return err
}

func writeUint32(buf *bsonbuf.Buffer, v uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	_, err := buf.Write(b[:])
	return err
}

func writeInt64(buf *bsonbuf.Buffer, v int64) error {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(v))
	_, err := buf.Write(b[:])
	return err
}
