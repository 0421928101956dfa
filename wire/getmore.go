package wire

import "github.com/blep/gobsonwire/internal/bsonbuf"

// BuildGetMore assembles a GET_MORE wire message requesting more results
// for cursorID from collection. It carries no BSON document body.
func BuildGetMore(collection string, limit int32, cursorID int64) (reqID RequestID, out []byte, err error) {
	reqID, err = newRequestID()
	if err != nil {
		return 0, nil, err
	}

	buf := bsonbuf.New()
	lenOffset, err := writeHeader(buf, reqID, 0, OpGetMore)
	if err != nil {
		buf.Free()
		return 0, nil, err
	}
	if err := writeInt32(buf, 0); err != nil { // reserved
		buf.Free()
		return 0, nil, err
	}
	if err := buf.WriteCString(collection); err != nil {
		buf.Free()
		return 0, nil, err
	}
	if err := writeInt32(buf, limit); err != nil {
		buf.Free()
		return 0, nil, err
	}
	if err := writeInt64(buf, cursorID); err != nil {
		buf.Free()
		return 0, nil, err
	}
	finishMessage(buf, lenOffset)
	return reqID, buf.Data(), nil
}
