package bson

// DBRef is a logical reference to a document in another (possibly the same)
// collection: $ref names the collection, $id identifies the document, and
// $db optionally names the database. Extra carries any additional fields
// that rode along in the same sub-document, in their original order.
//
// The decoder only promotes a sub-document to a DBRef when "$ref" is
// literally its first key (spec.md §4.2 and this module's Open Question
// decision in SPEC_FULL.md); a sub-document with $ref in another position
// decodes as a plain *Document.
type DBRef struct {
	Collection string
	ID         Value
	Database   string
	HasDB      bool
	Extra      *Document
}

// dbRefFromDocument extracts a DBRef from a sub-document whose first key is
// "$ref", removing the $ref/$id/$db keys it consumes. doc is mutated.
func dbRefFromDocument(doc *Document) (DBRef, bool) {
	if doc.Len() == 0 {
		return DBRef{}, false
	}
	firstKey, _, _ := doc.At(0)
	if firstKey != "$ref" {
		return DBRef{}, false
	}
	refVal, _ := doc.Get("$ref")
	ref, ok := refVal.(String)
	if !ok {
		return DBRef{}, false
	}
	id, hasID := doc.Get("$id")
	if !hasID {
		return DBRef{}, false
	}
	ref_ := DBRef{Collection: string(ref), ID: id}
	doc.Delete("$ref")
	doc.Delete("$id")
	if dbVal, ok := doc.Get("$db"); ok {
		if dbStr, ok := dbVal.(String); ok {
			ref_.Database = string(dbStr)
			ref_.HasDB = true
			doc.Delete("$db")
		}
	}
	ref_.Extra = doc
	return ref_, true
}

// toDocument serializes a DBRef back into its wire sub-document shape:
// $ref, $id, optional $db, then Extra's fields in their stored order.
func (r DBRef) toDocument() *Document {
	doc := NewDocument()
	doc.Append("$ref", String(r.Collection))
	doc.Append("$id", r.ID)
	if r.HasDB {
		doc.Append("$db", String(r.Database))
	}
	if r.Extra != nil {
		for i := 0; i < r.Extra.Len(); i++ {
			k, v, _ := r.Extra.At(i)
			doc.Append(k, v)
		}
	}
	return doc
}
