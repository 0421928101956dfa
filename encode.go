package bson

import (
	"math"
	"strconv"
	"strings"

	"github.com/blep/gobsonwire/internal/bsonbuf"
	"github.com/blep/gobsonwire/internal/strcheck"
)

// maxDepth bounds recursive descent into nested documents/arrays/scopes.
// Exceeding it fails with InvalidDocument instead of overflowing the Go
// stack on pathological input, per spec.md §4.1 and §9.
const maxDepth = 100

// Encode serializes doc to its BSON byte representation. If checkKeys is
// true, keys that start with '$' or contain '.' are rejected; keys
// containing an embedded NUL or invalid UTF-8 are always rejected
// regardless of checkKeys.
//
// If doc has an "_id" key, it is written first on the wire, ahead of every
// other top-level element, regardless of where it sits in doc's own
// iteration order; doc itself is left unmodified. Nested documents are
// encoded in their own stored order with no such promotion.
func Encode(doc *Document, checkKeys bool) ([]byte, error) {
	buf := bsonbuf.New()
	if err := encodeDocument(buf, doc, checkKeys, "", 0, true); err != nil {
		buf.Free()
		return nil, err
	}
	return buf.Data(), nil
}

func encodeDocument(buf *bsonbuf.Buffer, doc *Document, checkKeys bool, path string, depth int, topLevel bool) error {
	if depth > maxDepth {
		return newError(InvalidDocument, path, "nesting too deep (max %d levels)", maxDepth)
	}

	lenOffset, err := buf.SaveSpace(4)
	if err != nil {
		return newError(OutOfMemory, path, "%v", err)
	}

	skipID := false
	if topLevel {
		if idVal, ok := doc.Get("_id"); ok {
			skipID = true
			if err := encodeElement(buf, path, "_id", idVal, checkKeys, depth); err != nil {
				return err
			}
		}
	}

	for i := 0; i < doc.Len(); i++ {
		key, val, _ := doc.At(i)
		if skipID && key == "_id" {
			continue
		}
		if err := encodeElement(buf, path, key, val, checkKeys, depth); err != nil {
			return err
		}
	}

	if err := buf.WriteByte(0x00); err != nil {
		return newError(OutOfMemory, path, "%v", err)
	}

	buf.PatchUint32(lenOffset, uint32(buf.Position()-lenOffset))
	return nil
}

// encodeElement validates name and writes one document element: type byte,
// cstring key, type-dependent payload.
func encodeElement(buf *bsonbuf.Buffer, path, name string, val Value, checkKeys bool, depth int) error {
	if err := validateKey(name, checkKeys, path); err != nil {
		return err
	}
	return encodeValue(buf, path, name, val, checkKeys, depth)
}

func validateKey(key string, checkKeys bool, path string) error {
	if strcheck.HasNUL(key) {
		return newError(InvalidDocument, path, "key %q contains an embedded NUL", key)
	}
	if !strcheck.ValidUTF8(key) {
		return newError(InvalidStringData, path, "key %q is not valid UTF-8", key)
	}
	if checkKeys {
		if strings.HasPrefix(key, "$") {
			return newError(InvalidDocument, path, "key %q must not start with '$'", key)
		}
		if strings.Contains(key, ".") {
			return newError(InvalidDocument, path, "key %q must not contain '.'", key)
		}
	}
	return nil
}

func encodeValue(buf *bsonbuf.Buffer, path, name string, val Value, checkKeys bool, depth int) error {
	childPath := catpath(path, name)

	switch v := val.(type) {
	case nil:
		return writeTypeAndName(buf, typeNull, name)
	case Double:
		return encodeDouble(buf, name, v)
	case float64:
		return encodeDouble(buf, name, Double(v))
	case String:
		return encodeString(buf, typeString, name, string(v))
	case string:
		return encodeString(buf, typeString, name, v)
	case *Document:
		if err := writeTypeAndName(buf, typeDocument, name); err != nil {
			return err
		}
		return encodeDocument(buf, v, checkKeys, childPath, depth+1, false)
	case Array:
		return encodeArray(buf, childPath, name, v, checkKeys, depth)
	case []Value:
		return encodeArray(buf, childPath, name, Array(v), checkKeys, depth)
	case Binary:
		return encodeBinary(buf, name, v)
	case []byte:
		return encodeBinary(buf, name, Binary{Subtype: 0, Data: v})
	case UUID:
		raw, _ := v.MarshalBinary() // uuid.UUID.MarshalBinary never errors
		le := reverseBytes(raw)
		return encodeBinary(buf, name, Binary{Subtype: 3, Data: le})
	case Undefined:
		return writeTypeAndName(buf, typeUndefined, name)
	case ObjectID:
		return encodeObjectID(buf, name, v)
	case Bool:
		return encodeBool(buf, name, v)
	case bool:
		return encodeBool(buf, name, Bool(v))
	case DateTime:
		return encodeDateTime(buf, name, v)
	case Null:
		return writeTypeAndName(buf, typeNull, name)
	case Regex:
		return encodeRegex(buf, childPath, name, v)
	case DBPointer:
		return encodeDBPointer(buf, name, v)
	case DBRef:
		if err := writeTypeAndName(buf, typeDocument, name); err != nil {
			return err
		}
		return encodeDocument(buf, v.toDocument(), checkKeys, childPath, depth+1, false)
	case JSCode:
		return encodeString(buf, typeJSCode, name, string(v))
	case Symbol:
		return encodeString(buf, typeSymbol, name, string(v))
	case JSCodeWScope:
		return encodeJSCodeWScope(buf, childPath, name, v, checkKeys, depth)
	case Int32:
		return encodeInt32(buf, name, v)
	case int32:
		return encodeInt32(buf, name, Int32(v))
	case int16:
		return encodeInt32(buf, name, Int32(v))
	case int8:
		return encodeInt32(buf, name, Int32(v))
	case Timestamp:
		return encodeTimestamp(buf, name, v)
	case Int64:
		return encodeInt64(buf, name, v)
	case int64:
		return encodeInt64(buf, name, Int64(v))
	case int:
		return encodeInt(buf, name, v)
	case MinKey:
		return writeTypeAndName(buf, typeMinKey, name)
	case MaxKey:
		return writeTypeAndName(buf, typeMaxKey, name)
	default:
		return newError(InvalidDocument, childPath, "cannot encode value of type %T", val)
	}
}

// encodeInt picks Int32 when the value fits, Int64 when it needs 64 bits,
// per spec.md §4.1's integer width selection rule. Go's `int` is 64-bit on
// every platform this module targets, so the Overflow error this rule
// allows for cannot actually arise from a Go `int`; it exists for parity
// with the language-neutral contract and to keep the width switch total.
func encodeInt(buf *bsonbuf.Buffer, name string, v int) error {
	if v >= math.MinInt32 && v <= math.MaxInt32 {
		return encodeInt32(buf, name, Int32(v))
	}
	return encodeInt64(buf, name, Int64(v))
}

func writeTypeAndName(buf *bsonbuf.Buffer, typ byte, name string) error {
	if err := buf.WriteByte(typ); err != nil {
		return newError(OutOfMemory, name, "%v", err)
	}
	if err := buf.WriteCString(name); err != nil {
		return newError(OutOfMemory, name, "%v", err)
	}
	return nil
}

func encodeDouble(buf *bsonbuf.Buffer, name string, v Double) error {
	if err := writeTypeAndName(buf, typeDouble, name); err != nil {
		return err
	}
	return writeFloat64(buf, float64(v))
}

// encodeString writes a length-prefixed BSON string under typ (used for
// String 0x02, JSCode 0x0D and Symbol 0x0E, which share the same framing).
func encodeString(buf *bsonbuf.Buffer, typ byte, name, s string) error {
	if !strcheck.ValidUTF8(s) {
		return newError(InvalidStringData, name, "value is not valid UTF-8")
	}
	if err := writeTypeAndName(buf, typ, name); err != nil {
		return err
	}
	return writeString(buf, s)
}

func encodeArray(buf *bsonbuf.Buffer, path, name string, arr Array, checkKeys bool, depth int) error {
	if err := writeTypeAndName(buf, typeArray, name); err != nil {
		return err
	}
	if depth+1 > maxDepth {
		return newError(InvalidDocument, path, "nesting too deep (max %d levels)", maxDepth)
	}
	lenOffset, err := buf.SaveSpace(4)
	if err != nil {
		return newError(OutOfMemory, path, "%v", err)
	}
	for i, elem := range arr {
		idxKey := strconv.Itoa(i)
		if err := encodeValue(buf, path, idxKey, elem, checkKeys, depth+1); err != nil {
			return err
		}
	}
	if err := buf.WriteByte(0x00); err != nil {
		return newError(OutOfMemory, path, "%v", err)
	}
	buf.PatchUint32(lenOffset, uint32(buf.Position()-lenOffset))
	return nil
}

func encodeBinary(buf *bsonbuf.Buffer, name string, v Binary) error {
	if err := writeTypeAndName(buf, typeBinary, name); err != nil {
		return err
	}
	if v.Subtype == 2 {
		// Old-style binary: outer length is inner length + 4, and the
		// payload is preceded by its own redundant inner length.
		if err := writeUint32(buf, uint32(len(v.Data))+4); err != nil {
			return err
		}
		if err := buf.WriteByte(v.Subtype); err != nil {
			return err
		}
		if err := writeUint32(buf, uint32(len(v.Data))); err != nil {
			return err
		}
		_, err := buf.Write(v.Data)
		return err
	}
	if err := writeUint32(buf, uint32(len(v.Data))); err != nil {
		return err
	}
	if err := buf.WriteByte(v.Subtype); err != nil {
		return err
	}
	_, err := buf.Write(v.Data)
	return err
}

func encodeBool(buf *bsonbuf.Buffer, name string, v Bool) error {
	if err := writeTypeAndName(buf, typeBool, name); err != nil {
		return err
	}
	if v {
		return buf.WriteByte(0x01)
	}
	return buf.WriteByte(0x00)
}

func encodeDateTime(buf *bsonbuf.Buffer, name string, v DateTime) error {
	if err := writeTypeAndName(buf, typeDateTime, name); err != nil {
		return err
	}
	return writeInt64(buf, v.UnixMillis())
}

func encodeRegex(buf *bsonbuf.Buffer, path, name string, v Regex) error {
	if strcheck.HasNUL(v.Pattern) {
		return newError(InvalidDocument, path, "regex pattern contains an embedded NUL")
	}
	if !strcheck.ValidUTF8(v.Pattern) {
		return newError(InvalidStringData, path, "regex pattern is not valid UTF-8")
	}
	if err := writeTypeAndName(buf, typeRegex, name); err != nil {
		return err
	}
	if err := buf.WriteCString(v.Pattern); err != nil {
		return err
	}
	return buf.WriteCString(v.Flags.String())
}

func encodeDBPointer(buf *bsonbuf.Buffer, name string, v DBPointer) error {
	if err := writeTypeAndName(buf, typeDBPointer, name); err != nil {
		return err
	}
	if err := writeString(buf, v.Namespace); err != nil {
		return err
	}
	_, err := buf.Write(v.ID[:])
	return err
}

func encodeJSCodeWScope(buf *bsonbuf.Buffer, path, name string, v JSCodeWScope, checkKeys bool, depth int) error {
	if err := writeTypeAndName(buf, typeJSCodeWithScope, name); err != nil {
		return err
	}
	if depth+1 > maxDepth {
		return newError(InvalidDocument, path, "nesting too deep (max %d levels)", maxDepth)
	}
	lenOffset, err := buf.SaveSpace(4)
	if err != nil {
		return newError(OutOfMemory, path, "%v", err)
	}
	if err := writeString(buf, v.Code); err != nil {
		return err
	}
	scope := v.Scope
	if scope == nil {
		scope = NewDocument()
	}
	if err := encodeDocument(buf, scope, checkKeys, path, depth+1, false); err != nil {
		return err
	}
	buf.PatchUint32(lenOffset, uint32(buf.Position()-lenOffset))
	return nil
}

func encodeObjectID(buf *bsonbuf.Buffer, name string, v ObjectID) error {
	if err := writeTypeAndName(buf, typeObjectID, name); err != nil {
		return err
	}
	_, err := buf.Write(v[:])
	return err
}

func encodeInt32(buf *bsonbuf.Buffer, name string, v Int32) error {
	if err := writeTypeAndName(buf, typeInt32, name); err != nil {
		return err
	}
	return writeInt32(buf, int32(v))
}

func encodeInt64(buf *bsonbuf.Buffer, name string, v Int64) error {
	if err := writeTypeAndName(buf, typeInt64, name); err != nil {
		return err
	}
	return writeInt64(buf, int64(v))
}

func encodeTimestamp(buf *bsonbuf.Buffer, name string, v Timestamp) error {
	if err := writeTypeAndName(buf, typeTimestamp, name); err != nil {
		return err
	}
	if err := writeUint32(buf, v.Inc); err != nil {
		return err
	}
	return writeUint32(buf, v.Time)
}

// --- little-endian primitive writers -------------------------------------

func writeUint32(buf *bsonbuf.Buffer, v uint32) error {
	var b [4]byte
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
	_, err := buf.Write(b[:])
	return err
}

func writeInt32(buf *bsonbuf.Buffer, v int32) error {
	return writeUint32(buf, uint32(v))
}

func writeInt64(buf *bsonbuf.Buffer, v int64) error {
	u := uint64(v)
	var b [8]byte
	for i := 0; i < 8; i++ {
		b[i] = byte(u >> (8 * uint(i)))
	}
	_, err := buf.Write(b[:])
	return err
}

func writeFloat64(buf *bsonbuf.Buffer, v float64) error {
	return writeInt64(buf, int64(math.Float64bits(v)))
}

// writeString writes BSON "string" framing: int32 length (including the
// trailing NUL), the UTF-8 bytes, then the NUL.
func writeString(buf *bsonbuf.Buffer, s string) error {
	if err := writeUint32(buf, uint32(len(s)+1)); err != nil {
		return err
	}
	if _, err := buf.Write([]byte(s)); err != nil {
		return err
	}
	return buf.WriteByte(0x00)
}

func reverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		out[len(b)-1-i] = c
	}
	return out
}

// catpath joins name onto the dotted path used for error reporting, the
// same convention the teacher's encoder uses.
func catpath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}
