package bson

import "github.com/google/uuid"

// Wire type bytes, per the BSON specification.
const (
	typeDouble          = 0x01
	typeString          = 0x02
	typeDocument        = 0x03
	typeArray           = 0x04
	typeBinary          = 0x05
	typeUndefined       = 0x06 // decodes as Null
	typeObjectID        = 0x07
	typeBool            = 0x08
	typeDateTime        = 0x09
	typeNull            = 0x0A
	typeRegex           = 0x0B
	typeDBPointer       = 0x0C // decodes as DBRef
	typeJSCode          = 0x0D
	typeSymbol          = 0x0E // decodes as String
	typeJSCodeWithScope = 0x0F
	typeInt32           = 0x10
	typeTimestamp       = 0x11
	typeInt64           = 0x12
	typeMinKey          = 0xFF
	typeMaxKey          = 0x7F
)

// Value is the universe of values a Document can hold. It is satisfied by
// every concrete BSON type below; callers type-switch on it the way the
// decoder and encoder do internally.
//
//	switch v := val.(type) {
//	case bson.String:
//	case bson.Int32:
//	...
//	}
type Value interface{}

// Double is the BSON floating point type (wire tag 0x01).
type Double float64

// String is the BSON UTF-8 string type (wire tag 0x02).
type String string

// Array is the BSON array type (wire tag 0x04): an ordered sequence of
// values, encoded as a document whose keys are "0", "1", "2", ...
type Array []Value

// Binary is an opaque byte blob tagged with a BSON binary subtype (wire tag
// 0x05). Subtypes 0 (generic), 2 (old-style, redundant inner length) and 3
// (UUID, which decodes to the UUID type instead) are understood natively;
// any other subtype round-trips as Binary with Subtype preserved.
type Binary struct {
	Subtype byte
	Data    []byte
}

// Undefined is the deprecated BSON "undefined" type (wire tag 0x06). The
// encoder accepts it, but the decoder never produces one: a decoded
// Undefined is reported as Null, per spec.md §3.
type Undefined struct{}

// ObjectID is the 12-byte MongoDB object identifier (wire tag 0x07).
type ObjectID [12]byte

// Bool is the BSON boolean type (wire tag 0x08).
type Bool bool

// Null is the BSON null type (wire tag 0x0A).
type Null struct{}

// RegexFlags is a bitmask over the regex flag letters in the table below.
// Flag letters are internal to the codec; callers use the named
// constants.
type RegexFlags uint32

// Regex flag bits, per the BSON specification's flag table. FlagUnicode
// (letter 'u') is decode-accepted per the spec but has historically had no
// emitter bit; this implementation gives it one (see DESIGN.md) so that
// Regex values round-trip losslessly through Encode/Decode.
const (
	FlagCaseInsensitive RegexFlags = 1 << 1 // i
	FlagLocaleDependent RegexFlags = 1 << 2 // l
	FlagMultiline       RegexFlags = 1 << 3 // m
	FlagDotAll          RegexFlags = 1 << 4 // s
	FlagUnicode         RegexFlags = 1 << 5 // u (decode-accepted; see above)
	FlagExtended        RegexFlags = 1 << 6 // x
)

// Regex is the BSON regular expression type (wire tag 0x0B).
type Regex struct {
	Pattern string
	Flags   RegexFlags
}

// DBPointer is the deprecated BSON database-pointer type (wire tag 0x0C).
// The encoder accepts it, but the decoder never produces one: a decoded
// DBPointer is reported as a DBRef (Namespace becomes Collection, with no
// Extra fields), per spec.md §3.
type DBPointer struct {
	Namespace string
	ID        ObjectID
}

// JSCode is a bare JavaScript code string with no associated scope (wire
// tag 0x0D). Decode-only in the sense that a value with a non-empty Scope
// should use JSCodeWScope instead; the encoder accepts both.
type JSCode string

// Symbol is the deprecated BSON symbol type (wire tag 0x0E), a string with
// different wire framing semantics for older drivers. The encoder accepts
// it, but the decoder never produces one: a decoded Symbol is reported as
// String, per spec.md §3.
type Symbol string

// JSCodeWScope is JavaScript source paired with the variable bindings it
// closed over at the point it was stored (wire tag 0x0F).
type JSCodeWScope struct {
	Code  string
	Scope *Document
}

// Int32 is a signed 32-bit integer (wire tag 0x10).
type Int32 int32

// Timestamp is a MongoDB replication timestamp (wire tag 0x11): a Unix
// epoch second count paired with an ordinal within that second.
type Timestamp struct {
	Time uint32
	Inc  uint32
}

// Int64 is a signed 64-bit integer (wire tag 0x12).
type Int64 int64

// MinKey sorts below every other BSON value (wire tag 0xFF).
type MinKey struct{}

// MaxKey sorts above every other BSON value (wire tag 0x7F).
type MaxKey struct{}

// UUID is a RFC 4122 UUID, encoded as Binary subtype 3 using its
// little-endian byte representation.
type UUID = uuid.UUID
