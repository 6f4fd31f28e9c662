package record

import "strings"

// Lookup resolves a dot path such as "location.city" against a record.
//
// Returns (nil, false) when any segment is missing or when the walk reaches
// a non-object before the path is exhausted. A field explicitly set to null
// resolves to (Null{}, true).
//
// An empty path never matches.
func Lookup(obj Object, path string) (Value, bool) {
	if path == "" || obj == nil {
		return nil, false
	}

	var current Value = obj
	for _, segment := range strings.Split(path, ".") {
		o, ok := current.(Object)
		if !ok {
			return nil, false
		}
		next, exists := o[segment]
		if !exists {
			return nil, false
		}
		current = next
	}
	return current, true
}

// Present reports whether a resolved field holds a usable value:
// it exists and is not null.
func Present(v Value, ok bool) bool {
	if !ok || v == nil {
		return false
	}
	_, isNull := v.(Null)
	return !isNull
}
