package lookup

import (
	"unicode/utf8"

	"go.followtheprocess.codes/liquid/internal/scope"
)

// Synthetic property names understood by every container shape.
const (
	propertySize  = "size"
	propertyFirst = "first"
	propertyLast  = "last"
)

// Field looks up the named field of value, returning the result and whether
// there was one.
//
// "size", "first" and "last" are handled specially for the shapes that support them:
//
//   - size: the length of sequences, arrays and collections, the number of characters
//     in a string, and for maps the value stored under "size" if there is one, otherwise
//     the number of entries.
//   - first, last: the first or last element of a sequence or array, nothing if it's empty.
//
// Anything else (or a special name on a shape that doesn't support it) is looked up by
// key in maps and [Drop]s, or by name in a nested [scope.Scope]. Every other case
// yields no result rather than an error.
func Field(value any, name string) (any, bool) {
	if value == nil {
		return nil, false
	}

	switch name {
	case propertySize:
		if size, ok := sizeOf(value); ok {
			return size, true
		}
	case propertyFirst, propertyLast:
		if seq, ok := asSequence(value); ok {
			length := seq.len()
			if length == 0 {
				return nil, false
			}

			if name == propertyFirst {
				return seq.at(0), true
			}

			return seq.at(length - 1), true
		}
	}

	if m, ok := asMap(value); ok {
		return m.get(name)
	}

	if nested, ok := value.(*scope.Scope); ok {
		return nested.Get(name)
	}

	return nil, false
}

// sizeOf implements the "size" property, reporting false for shapes that
// have no notion of size.
func sizeOf(value any) (any, bool) {
	switch val := value.(type) {
	case string:
		return utf8.RuneCountInString(val), true
	case Collection:
		return val.Len(), true
	}

	if m, ok := asMap(value); ok {
		// An actual "size" key wins over the entry count
		if stored, ok := m.get(propertySize); ok {
			return stored, true
		}

		return m.len(), true
	}

	if seq, ok := asSequence(value); ok {
		return seq.len(), true
	}

	return nil, false
}
