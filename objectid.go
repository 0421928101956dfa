package bson

import (
	"crypto/md5"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"os"
	"sync/atomic"
	"time"
)

// objectIDCounter is incremented atomically by NewObjectID; only its low 24
// bits are used, matching the 3-byte counter field of the classic
// MongoDB ObjectID layout.
var objectIDCounter uint32

// machineID is the first 3 bytes of the MD5 hash of the local hostname,
// computed once and reused for every ObjectID generated by this process.
var machineID = func() [3]byte {
	var id [3]byte
	name, err := os.Hostname()
	if err != nil {
		name = "unknown-host"
	}
	sum := md5.Sum([]byte(name))
	copy(id[:], sum[:3])
	return id
}()

// NewObjectID generates a new 12-byte ObjectID using the classic MongoDB
// layout: a 4-byte big-endian Unix timestamp, a 3-byte machine identifier,
// a 2-byte process ID, and a 3-byte incrementing counter.
//
//	+----------+------------+-------+-----------+
//	|  time(4) | machine(3) | pid(2)| counter(3) |
//	+----------+------------+-------+-----------+
func NewObjectID() ObjectID {
	var id ObjectID
	binary.BigEndian.PutUint32(id[0:4], uint32(time.Now().Unix()))
	copy(id[4:7], machineID[:])
	binary.BigEndian.PutUint16(id[7:9], uint16(os.Getpid()))

	counter := atomic.AddUint32(&objectIDCounter, 1) & 0x00FFFFFF
	var cbuf [4]byte
	binary.BigEndian.PutUint32(cbuf[:], counter)
	copy(id[9:12], cbuf[1:])

	return id
}

// ObjectIDFromHex parses the 24-character hex representation of an
// ObjectID.
func ObjectIDFromHex(s string) (ObjectID, error) {
	var id ObjectID
	b, err := hex.DecodeString(s)
	if err != nil {
		return id, fmt.Errorf("bson: invalid ObjectID hex %q: %w", s, err)
	}
	if len(b) != len(id) {
		return id, fmt.Errorf("bson: ObjectID must be %d bytes, got %d", len(id), len(b))
	}
	copy(id[:], b)
	return id, nil
}

// Hex returns the 24-character lowercase hex representation of id.
func (id ObjectID) Hex() string {
	return hex.EncodeToString(id[:])
}

func (id ObjectID) String() string {
	return id.Hex()
}
