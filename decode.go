package bson

import (
	"encoding/binary"
	"math"

	"github.com/google/uuid"
)

// minDocLen is the smallest legal BSON document: a 4-byte length plus the
// trailing NUL.
const minDocLen = 5

// cursor walks a byte slice left to right, failing with InvalidBSON the
// moment a read would run past the end rather than panicking.
type cursor struct {
	data []byte
	pos  int
	path string
}

func (c *cursor) remaining() int {
	return len(c.data) - c.pos
}

func (c *cursor) need(n int) error {
	if c.remaining() < n {
		return newError(InvalidBSON, c.path, "unexpected end of input, need %d bytes, have %d", n, c.remaining())
	}
	return nil
}

func (c *cursor) readByte() (byte, error) {
	if err := c.need(1); err != nil {
		return 0, err
	}
	b := c.data[c.pos]
	c.pos++
	return b, nil
}

func (c *cursor) readBytes(n int) ([]byte, error) {
	if err := c.need(n); err != nil {
		return nil, err
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

func (c *cursor) readCString() (string, error) {
	start := c.pos
	for {
		if c.pos >= len(c.data) {
			return "", newError(InvalidBSON, c.path, "unterminated cstring")
		}
		if c.data[c.pos] == 0x00 {
			s := string(c.data[start:c.pos])
			c.pos++
			return s, nil
		}
		c.pos++
	}
}

func (c *cursor) readUint32() (uint32, error) {
	b, err := c.readBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *cursor) readInt32() (int32, error) {
	v, err := c.readUint32()
	return int32(v), err
}

func (c *cursor) readInt64() (int64, error) {
	b, err := c.readBytes(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(b)), nil
}

func (c *cursor) readFloat64() (float64, error) {
	b, err := c.readBytes(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
}

// readString reads BSON "string" framing: int32 length (including the
// trailing NUL), then that many bytes, the last of which must be NUL.
func (c *cursor) readString() (string, error) {
	n, err := c.readInt32()
	if err != nil {
		return "", err
	}
	if n < 1 {
		return "", newError(InvalidBSON, c.path, "string length %d is invalid", n)
	}
	b, err := c.readBytes(int(n))
	if err != nil {
		return "", err
	}
	if b[len(b)-1] != 0x00 {
		return "", newError(InvalidBSON, c.path, "string is not NUL-terminated")
	}
	return string(b[:len(b)-1]), nil
}

// DecodeOne parses exactly one top-level document from data and returns it
// along with the unread tail. tzAware controls whether decoded DateTime
// values are reported as authoritatively UTC (see datetime.go).
func DecodeOne(data []byte, tzAware bool) (*Document, []byte, error) {
	if len(data) < minDocLen {
		return nil, nil, newError(InvalidBSON, "", "input too short: %d bytes", len(data))
	}
	declared := binary.LittleEndian.Uint32(data[0:4])
	if declared > uint32(len(data)) {
		return nil, nil, newError(InvalidBSON, "", "objsize too large: declared %d, have %d", declared, len(data))
	}
	if declared < minDocLen {
		return nil, nil, newError(InvalidBSON, "", "declared size %d smaller than minimum document", declared)
	}
	if data[declared-1] != 0x00 {
		return nil, nil, newError(InvalidBSON, "", "bad eoo: document does not end in a NUL byte")
	}

	c := &cursor{data: data[:declared]}
	c.pos = 4
	doc, err := decodeDocumentBody(c, "", 0, tzAware)
	if err != nil {
		return nil, nil, err
	}
	return doc, data[declared:], nil
}

// DecodeAll parses a back-to-back concatenation of documents until the
// input is exhausted.
func DecodeAll(data []byte, tzAware bool) ([]*Document, error) {
	var docs []*Document
	if len(data) >= 4 {
		if hint := binary.LittleEndian.Uint32(data[0:4]); hint > 0 && hint <= uint32(len(data)) {
			docs = make([]*Document, 0, len(data)/int(hint)+1)
		}
	}
	rest := data
	for len(rest) > 0 {
		doc, tail, err := DecodeOne(rest, tzAware)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
		rest = tail
	}
	return docs, nil
}

// decodeDocumentBody decodes the element stream following a document's
// length prefix and consumes the NUL type byte that ends it. Only DecodeOne
// checks beforehand that the last byte of the document is NUL; nested
// callers bound the cursor to the declared length and rely on the reads
// here failing if the stream runs past it.
func decodeDocumentBody(c *cursor, path string, depth int, tzAware bool) (*Document, error) {
	if depth > maxDepth {
		return nil, newError(InvalidBSON, path, "nesting too deep (max %d levels)", maxDepth)
	}
	doc := NewDocument()
	for {
		typ, err := c.readByte()
		if err != nil {
			return nil, err
		}
		if typ == 0x00 {
			break
		}
		name, err := c.readCString()
		if err != nil {
			return nil, err
		}
		elemPath := catpath(path, name)
		val, err := decodeValue(c, typ, elemPath, depth, tzAware)
		if err != nil {
			return nil, err
		}
		doc.Append(name, val)
	}
	return doc, nil
}

func decodeValue(c *cursor, typ byte, path string, depth int, tzAware bool) (Value, error) {
	switch typ {
	case typeDouble:
		f, err := c.readFloat64()
		return Double(f), err
	case typeString:
		s, err := c.readString()
		return String(s), err
	case typeDocument:
		if err := c.need(4); err != nil {
			return nil, err
		}
		n, err := peekUint32(c)
		if err != nil {
			return nil, err
		}
		if err := c.need(int(n)); err != nil {
			return nil, err
		}
		sub := &cursor{data: c.data[:c.pos+int(n)], pos: c.pos, path: path}
		c.pos += int(n)
		sub.pos += 4 // skip the length field we already accounted for
		body, err := decodeDocumentBody(sub, path, depth+1, tzAware)
		if err != nil {
			return nil, err
		}
		if ref, ok := dbRefFromDocument(body); ok {
			return ref, nil
		}
		return body, nil
	case typeArray:
		if err := c.need(4); err != nil {
			return nil, err
		}
		n, err := peekUint32(c)
		if err != nil {
			return nil, err
		}
		if err := c.need(int(n)); err != nil {
			return nil, err
		}
		sub := &cursor{data: c.data[:c.pos+int(n)], pos: c.pos + 4, path: path}
		c.pos += int(n)
		arr, err := decodeArrayBody(sub, path, depth+1, tzAware)
		if err != nil {
			return nil, err
		}
		return arr, nil
	case typeBinary:
		return decodeBinary(c, path)
	case typeUndefined:
		// Deprecated type; decodes to Null rather than a distinct
		// Undefined value, per spec.md §3.
		return Null{}, nil
	case typeObjectID:
		b, err := c.readBytes(12)
		if err != nil {
			return nil, err
		}
		var id ObjectID
		copy(id[:], b)
		return id, nil
	case typeBool:
		b, err := c.readByte()
		if err != nil {
			return nil, err
		}
		return Bool(b != 0x00), nil
	case typeDateTime:
		ms, err := c.readInt64()
		if err != nil {
			return nil, err
		}
		return dateTimeFromMillis(ms, tzAware), nil
	case typeNull:
		return Null{}, nil
	case typeRegex:
		pattern, err := c.readCString()
		if err != nil {
			return nil, err
		}
		flags, err := c.readCString()
		if err != nil {
			return nil, err
		}
		return Regex{Pattern: pattern, Flags: ParseRegexFlags(flags)}, nil
	case typeDBPointer:
		ns, err := c.readString()
		if err != nil {
			return nil, err
		}
		b, err := c.readBytes(12)
		if err != nil {
			return nil, err
		}
		var id ObjectID
		copy(id[:], b)
		// Deprecated type; decodes to a DBRef rather than a distinct
		// DBPointer value, per spec.md §3.
		return DBRef{Collection: ns, ID: id, Extra: NewDocument()}, nil
	case typeJSCode:
		s, err := c.readString()
		return JSCode(s), err
	case typeSymbol:
		// Deprecated type; decodes to String rather than a distinct
		// Symbol value, per spec.md §3.
		s, err := c.readString()
		return String(s), err
	case typeJSCodeWithScope:
		return decodeJSCodeWScope(c, path, depth, tzAware)
	case typeInt32:
		i, err := c.readInt32()
		return Int32(i), err
	case typeTimestamp:
		inc, err := c.readUint32()
		if err != nil {
			return nil, err
		}
		t, err := c.readUint32()
		if err != nil {
			return nil, err
		}
		return Timestamp{Time: t, Inc: inc}, nil
	case typeInt64:
		i, err := c.readInt64()
		return Int64(i), err
	case typeMinKey:
		return MinKey{}, nil
	case typeMaxKey:
		return MaxKey{}, nil
	default:
		return nil, newError(InvalidBSON, path, "unknown BSON type byte 0x%02X", typ)
	}
}

// peekUint32 reads the 4-byte length prefix at the cursor's current
// position without advancing it; callers use it to size the sub-slice they
// hand to a nested cursor, which then starts just past those 4 bytes.
func peekUint32(c *cursor) (uint32, error) {
	if err := c.need(4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(c.data[c.pos : c.pos+4]), nil
}

func decodeArrayBody(c *cursor, path string, depth int, tzAware bool) (Array, error) {
	var arr Array
	for {
		typ, err := c.readByte()
		if err != nil {
			return nil, err
		}
		if typ == 0x00 {
			break
		}
		if _, err := c.readCString(); err != nil { // index key, discarded
			return nil, err
		}
		val, err := decodeValue(c, typ, path, depth, tzAware)
		if err != nil {
			return nil, err
		}
		arr = append(arr, val)
	}
	return arr, nil
}

func decodeBinary(c *cursor, path string) (Value, error) {
	n, err := c.readInt32()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, newError(InvalidBSON, path, "binary length %d is negative", n)
	}
	subtype, err := c.readByte()
	if err != nil {
		return nil, err
	}
	switch subtype {
	case 2:
		// Old-style binary: an inner, redundant 4-byte length precedes
		// the payload; the outer length is inner length + 4.
		innerLen, err := c.readInt32()
		if err != nil {
			return nil, err
		}
		if innerLen != n-4 {
			return nil, newError(InvalidBSON, path, "old binary inner length %d does not match outer length %d", innerLen, n)
		}
		data, err := c.readBytes(int(innerLen))
		if err != nil {
			return nil, err
		}
		return Binary{Subtype: 2, Data: append([]byte(nil), data...)}, nil
	case 3:
		if n != 16 {
			return nil, newError(InvalidBSON, path, "UUID binary must be 16 bytes, got %d", n)
		}
		data, err := c.readBytes(16)
		if err != nil {
			return nil, err
		}
		id, err := uuid.FromBytes(reverseBytes(data))
		if err != nil {
			return nil, newError(InvalidBSON, path, "invalid UUID bytes: %v", err)
		}
		return id, nil
	default:
		data, err := c.readBytes(int(n))
		if err != nil {
			return nil, err
		}
		return Binary{Subtype: subtype, Data: append([]byte(nil), data...)}, nil
	}
}

func decodeJSCodeWScope(c *cursor, path string, depth int, tzAware bool) (Value, error) {
	if depth+1 > maxDepth {
		return nil, newError(InvalidBSON, path, "nesting too deep (max %d levels)", maxDepth)
	}
	if err := c.need(4); err != nil {
		return nil, err
	}
	totalLen, err := peekUint32(c)
	if err != nil {
		return nil, err
	}
	if err := c.need(int(totalLen)); err != nil {
		return nil, err
	}
	end := c.pos + int(totalLen)
	sub := &cursor{data: c.data[:end], pos: c.pos + 4, path: path}
	c.pos = end

	code, err := sub.readString()
	if err != nil {
		return nil, err
	}
	if err := sub.need(4); err != nil {
		return nil, err
	}
	sub.pos += 4 // skip the scope document's own length prefix
	scope, err := decodeDocumentBody(sub, path, depth+1, tzAware)
	if err != nil {
		return nil, err
	}
	return JSCodeWScope{Code: code, Scope: scope}, nil
}
