package wire

import (
	"github.com/blep/gobsonwire/internal/bsonbuf"

	bson "github.com/blep/gobsonwire"
)

// BuildInsert assembles an INSERT wire message inserting docs into
// collection. At least one document is required. checkKeys is forwarded to
// the BSON encoder for every document. If safe is true, a getLastError
// command message is appended right after the INSERT message, sharing its
// requestID.
//
// maxDocSize is the size in bytes of the largest single encoded document,
// which callers use to validate against a server's maximum BSON document
// size.
func BuildInsert(collection string, docs []*bson.Document, checkKeys, safe bool, lastErrorArgs *bson.Document) (reqID RequestID, out []byte, maxDocSize int, err error) {
	if len(docs) == 0 {
		return 0, nil, 0, bson.NewError(bson.InvalidOperation, collection, "cannot do an empty bulk insert")
	}

	reqID, err = newRequestID()
	if err != nil {
		return 0, nil, 0, err
	}

	buf := bsonbuf.New()
	lenOffset, err := writeHeader(buf, reqID, 0, OpInsert)
	if err != nil {
		buf.Free()
		return 0, nil, 0, err
	}
	if err := writeInt32(buf, 0); err != nil { // flags, reserved
		buf.Free()
		return 0, nil, 0, err
	}
	if err := buf.WriteCString(collection); err != nil {
		buf.Free()
		return 0, nil, 0, err
	}

	for _, doc := range docs {
		encoded, err := bson.Encode(doc, checkKeys)
		if err != nil {
			buf.Free()
			return 0, nil, 0, err
		}
		if len(encoded) > maxDocSize {
			maxDocSize = len(encoded)
		}
		if _, err := buf.Write(encoded); err != nil {
			buf.Free()
			return 0, nil, 0, err
		}
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
