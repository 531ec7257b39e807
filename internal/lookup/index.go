package lookup

import (
	"go.followtheprocess.codes/liquid/internal/compose"
)

// Index applies a subscript key to value, returning the result and whether
// there was one.
//
// A numeric key is a position into a sequence, array or [Collection], negative
// positions count back from the end and anything out of range yields no result.
// Numeric keys against any other shape yield no result.
//
// Any other key is converted to text and looked up with [Field], except against
// sequences and arrays which only accept numeric keys.
func Index(value, key any) (any, bool) {
	if value == nil {
		return nil, false
	}

	if index, ok := asInt(key); ok {
		return position(value, index)
	}

	if _, ok := asSequence(value); ok {
		return nil, false
	}

	return Field(value, compose.Text(key))
}

// position implements numeric subscripts.
func position(value any, index int) (any, bool) {
	if seq, ok := asSequence(value); ok {
		index, ok := normalise(index, seq.len())
		if !ok {
			return nil, false
		}

		return seq.at(index), true
	}

	if collection, ok := value.(Collection); ok {
		index, ok := normalise(index, collection.Len())
		if !ok {
			return nil, false
		}

		i := 0
		for item := range collection.All() {
			if i == index {
				return item, true
			}
			i++
		}

		return nil, false
	}

	return nil, false
}

// normalise resolves a possibly negative index against a container of the
// given length, reporting whether the result is in range.
func normalise(index, length int) (int, bool) {
	if index >= length {
		return 0, false
	}

	if index < 0 {
		index += length
		if index < 0 {
			return 0, false
		}
	}

	return index, true
}
