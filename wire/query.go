package wire

import (
	"github.com/blep/gobsonwire/internal/bsonbuf"

	bson "github.com/blep/gobsonwire"
)

const (
	QueryFlagTailableCursor = 1 << 1
	QueryFlagSlaveOK        = 1 << 2
	QueryFlagNoCursorTimout = 1 << 4
	QueryFlagAwaitData      = 1 << 5
	QueryFlagExhaust        = 1 << 6
	QueryFlagPartial        = 1 << 7
)

// BuildQuery assembles a QUERY wire message. fieldSelector may be nil, in
// which case no field-selector document is written.
func BuildQuery(flags uint32, collection string, skip, limit int32, query, fieldSelector *bson.Document, checkKeys bool) (reqID RequestID, out []byte, maxDocSize int, err error) {
	reqID, err = newRequestID()
	if err != nil {
		return 0, nil, 0, err
	}

	buf := bsonbuf.New()
	lenOffset, err := writeHeader(buf, reqID, 0, OpQuery)
	if err != nil {
		buf.Free()
		return 0, nil, 0, err
	}
	if err := writeUint32(buf, flags); err != nil {
		buf.Free()
		return 0, nil, 0, err
	}
	if err := buf.WriteCString(collection); err != nil {
		buf.Free()
		return 0, nil, 0, err
	}
	if err := writeInt32(buf, skip); err != nil {
		buf.Free()
		return 0, nil, 0, err
	}
	if err := writeInt32(buf, limit); err != nil {
		buf.Free()
		return 0, nil, 0, err
	}

	queryBytes, err := bson.Encode(query, checkKeys)
	if err != nil {
		buf.Free()
		return 0, nil, 0, err
	}
	maxDocSize = len(queryBytes)
	if _, err := buf.Write(queryBytes); err != nil {
		buf.Free()
		return 0, nil, 0, err
	}

	if fieldSelector != nil {
		selBytes, err := bson.Encode(fieldSelector, checkKeys)
		if err != nil {
			buf.Free()
			return 0, nil, 0, err
		}
		if len(selBytes) > maxDocSize {
			maxDocSize = len(selBytes)
		}
		if _, err := buf.Write(selBytes); err != nil {
			buf.Free()
			return 0, nil, 0, err
		}
	}

	finishMessage(buf, lenOffset)
	return reqID, buf.Data(), maxDocSize, nil
}
