package wire

import (
	"github.com/blep/gobsonwire/internal/bsonbuf"

	bson "github.com/blep/gobsonwire"
)

const (
	UpdateFlagUpsert = 1 << 0
	UpdateFlagMulti  = 1 << 1
)

// BuildUpdate assembles an UPDATE wire message. upsert and multi set the
// corresponding option bits. If safe is true, a getLastError follow-up
// message is appended sharing the same requestID.
func BuildUpdate(collection string, upsert, multi bool, selector, update *bson.Document, checkKeys, safe bool, lastErrorArgs *bson.Document) (reqID RequestID, out []byte, maxDocSize int, err error) {
	reqID, err = newRequestID()
	if err != nil {
		return 0, nil, 0, err
	}

	buf := bsonbuf.New()
	lenOffset, err := writeHeader(buf, reqID, 0, OpUpdate)
	if err != nil {
		buf.Free()
		return 0, nil, 0, err
	}
	if err := writeInt32(buf, 0); err != nil { // reserved
		buf.Free()
		return 0, nil, 0, err
	}
	if err := buf.WriteCString(collection); err != nil {
		buf.Free()
		return 0, nil, 0, err
	}

	var flags uint32
	if upsert {
		flags |= UpdateFlagUpsert
	}
	if multi {
		flags |= UpdateFlagMulti
	}
	if err := writeUint32(buf, flags); err != nil {
		buf.Free()
		return 0, nil, 0, err
	}

	selectorBytes, err := bson.Encode(selector, checkKeys)
	if err != nil {
		buf.Free()
		return 0, nil, 0, err
	}
	updateBytes, err := bson.Encode(update, checkKeys)
	if err != nil {
		buf.Free()
		return 0, nil, 0, err
	}
	maxDocSize = len(selectorBytes)
	if len(updateBytes) > maxDocSize {
		maxDocSize = len(updateBytes)
	}

	if _, err := buf.Write(selectorBytes); err != nil {
		buf.Free()
		return 0, nil, 0, err
	}
	if _, err := buf.Write(updateBytes); err != nil {
		buf.Free()
		return 0, nil, 0, err
	}
	finishMessage(buf, lenOffset)

	if safe {
		if err := appendSafeModeFollowUp(buf, reqID, lastErrorArgs); err != nil {
			buf.Free()
			return 0, nil, 0, err
		}
	}

	return reqID, buf.Data(), maxDocSize, nil
}
