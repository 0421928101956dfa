package bson

// element is one key/value pair inside a Document, in wire order.
type element struct {
	key   string
	value Value
}

// Document is an insertion-ordered mapping from string keys to Values. It
// is the root BSON container: the top-level argument to Encode, and what
// DecodeOne/DecodeAll produce.
//
// At most one "_id" key may exist; Encode promotes it to the first wire
// element of a top-level document regardless of where it sits in the
// insertion order (spec.md §4.1), without reordering the Document itself.
// Nested documents keep caller order untouched.
type Document struct {
	elements []element
	index    map[string]int
}

// NewDocument returns an empty Document.
func NewDocument() *Document {
	return &Document{index: make(map[string]int)}
}

// NewDocumentFromPairs builds a Document from key/value pairs supplied in
// order, e.g. NewDocumentFromPairs("a", Int32(1), "b", String("x")).
// Panics if called with an odd number of arguments or a non-string key,
// which would be a programmer mistake, not a runtime data error.
func NewDocumentFromPairs(kv ...interface{}) *Document {
	if len(kv)%2 != 0 {
		panic("bson: NewDocumentFromPairs requires an even number of arguments")
	}
	doc := NewDocument()
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic("bson: NewDocumentFromPairs keys must be strings")
		}
		doc.Append(key, kv[i+1])
	}
	return doc
}

// Len returns the number of elements in the document.
func (d *Document) Len() int {
	return len(d.elements)
}

// At returns the key and value at position i (0-based, wire order).
func (d *Document) At(i int) (key string, value Value, ok bool) {
	if i < 0 || i >= len(d.elements) {
		return "", nil, false
	}
	e := d.elements[i]
	return e.key, e.value, true
}

// Get returns the value stored under key, if any.
func (d *Document) Get(key string) (Value, bool) {
	i, ok := d.index[key]
	if !ok {
		return nil, false
	}
	return d.elements[i].value, true
}

// Has reports whether key is present.
func (d *Document) Has(key string) bool {
	_, ok := d.index[key]
	return ok
}

// Set stores val under key, overwriting the existing value in place if key
// is already present (preserving its position), or appending a new
// element if not.
func (d *Document) Set(key string, val Value) *Document {
	if i, ok := d.index[key]; ok {
		d.elements[i].value = val
		return d
	}
	return d.Append(key, val)
}

// Append always adds a new element at the end, even if key duplicates an
// existing one; the earlier element remains reachable only by position,
// not by Get, since Get resolves to the most recently indexed occurrence.
// Most callers want Set; Append exists for building documents whose wire
// form intentionally repeats a key (rare, but not a codec concern to
// forbid).
func (d *Document) Append(key string, val Value) *Document {
	d.index[key] = len(d.elements)
	d.elements = append(d.elements, element{key: key, value: val})
	return d
}

// Delete removes key if present.
func (d *Document) Delete(key string) *Document {
	i, ok := d.index[key]
	if !ok {
		return d
	}
	d.elements = append(d.elements[:i], d.elements[i+1:]...)
	delete(d.index, key)
	for k, idx := range d.index {
		if idx > i {
			d.index[k] = idx - 1
		}
	}
	return d
}

// Keys returns the document's keys in wire order.
func (d *Document) Keys() []string {
	keys := make([]string, len(d.elements))
	for i, e := range d.elements {
		keys[i] = e.key
	}
	return keys
}

// Equal reports whether d and other contain the same keys in the same
// order with equal values, comparing nested Documents/Arrays recursively.
// Used by the round-trip tests; not part of the wire contract.
func (d *Document) Equal(other *Document) bool {
	if d == nil || other == nil {
		return d == other
	}
	if d.Len() != other.Len() {
		return false
	}
	for i := range d.elements {
		ak, av, _ := d.At(i)
		bk, bv, _ := other.At(i)
		if ak != bk {
			return false
		}
		if !valuesEqual(av, bv) {
			return false
		}
	}
	return true
}

func valuesEqual(a, b Value) bool {
	switch at := a.(type) {
	case *Document:
		bt, ok := b.(*Document)
		return ok && at.Equal(bt)
	case Array:
		bt, ok := b.(Array)
		if !ok || len(at) != len(bt) {
			return false
		}
		for i := range at {
			if !valuesEqual(at[i], bt[i]) {
				return false
			}
		}
		return true
	case Binary:
		bt, ok := b.(Binary)
		if !ok || at.Subtype != bt.Subtype || len(at.Data) != len(bt.Data) {
			return false
		}
		for i := range at.Data {
			if at.Data[i] != bt.Data[i] {
				return false
			}
		}
		return true
	case JSCodeWScope:
		bt, ok := b.(JSCodeWScope)
		return ok && at.Code == bt.Code && at.Scope.Equal(bt.Scope)
	case DBRef:
		bt, ok := b.(DBRef)
		return ok && at.Collection == bt.Collection && at.Database == bt.Database &&
			at.HasDB == bt.HasDB && valuesEqual(at.ID, bt.ID) && at.Extra.Equal(bt.Extra)
	default:
		return a == b
	}
}
