package bson

// Reach walks into a nested document following dot, a sequence of key
// names, and returns the value found at the end of the path. It returns
// false if any step along the way is missing or does not resolve to a
// container that has the next name.
//
// Reach descends through *Document by key, Array by decimal index
// ("0", "1", ...), and the named fields of Regex ("Pattern", "Flags"),
// DBPointer ("Namespace", "ID"), and JSCodeWScope ("Code", "Scope").
func (d *Document) Reach(dot ...string) (Value, bool) {
	var cur Value = d
	for _, name := range dot {
		next, ok := reachStep(cur, name)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

func reachStep(cur Value, name string) (Value, bool) {
	switch v := cur.(type) {
	case *Document:
		return v.Get(name)
	case Array:
		i, ok := arrayIndex(name, len(v))
		if !ok {
			return nil, false
		}
		return v[i], true
	case Regex:
		switch name {
		case "Pattern":
			return String(v.Pattern), true
		case "Flags":
			return Int32(v.Flags), true
		default:
			return nil, false
		}
	case DBPointer:
		switch name {
		case "Namespace":
			return String(v.Namespace), true
		case "ID":
			return v.ID, true
		default:
			return nil, false
		}
	case JSCodeWScope:
		switch name {
		case "Code":
			return String(v.Code), true
		case "Scope":
			return v.Scope, true
		default:
			return nil, false
		}
	case DBRef:
		switch name {
		case "Collection":
			return String(v.Collection), true
		case "ID":
			return v.ID, true
		case "Database":
			return String(v.Database), true
		default:
			return nil, false
		}
	default:
		return nil, false
	}
}

// arrayIndex parses name as a non-negative decimal index strictly less
// than n, mirroring how array elements are keyed on the wire.
func arrayIndex(name string, n int) (int, bool) {
	if name == "" {
		return 0, false
	}
	idx := 0
	for _, c := range name {
		if c < '0' || c > '9' {
			return 0, false
		}
		idx = idx*10 + int(c-'0')
	}
	if idx >= n {
		return 0, false
	}
	return idx, true
}
