package lookup

import (
	"iter"
	"reflect"
)

// Drop is the capability of presenting a value as a name to value mapping.
//
// Any value implementing Drop can be indexed by name like a map, which is how
// host types expose fields to templates.
type Drop interface {
	// Fields returns the value's fields by name.
	Fields() map[string]any
}

// Collection is the capability of being a sized collection of values that
// has no native positional access, e.g. a set.
//
// Numeric subscripts on a Collection scan linearly to the requested position.
type Collection interface {
	// Len returns the number of elements in the collection.
	Len() int

	// All iterates over the elements.
	All() iter.Seq[any]
}

// asMap returns value's name to value view if it has one.
//
// Go maps are only map-shaped if their keys are strings (or a named string type).
func asMap(value any) (mapView, bool) {
	switch val := value.(type) {
	case map[string]any:
		return stringMap(val), true
	case Drop:
		return stringMap(val.Fields()), true
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String {
		return reflectMap{rv: rv}, true
	}

	return nil, false
}

// mapView is the minimal interface needed to treat something as a map.
type mapView interface {
	get(key string) (any, bool)
	len() int
}

type stringMap map[string]any

func (m stringMap) get(key string) (any, bool) {
	value, ok := m[key]
	return value, ok
}

func (m stringMap) len() int {
	return len(m)
}

// reflectMap adapts any map with string-kind keys.
type reflectMap struct {
	rv reflect.Value
}

func (m reflectMap) get(key string) (any, bool) {
	value := m.rv.MapIndex(reflect.ValueOf(key).Convert(m.rv.Type().Key()))
	if !value.IsValid() {
		return nil, false
	}

	return value.Interface(), true
}

func (m reflectMap) len() int {
	return m.rv.Len()
}

// asSequence returns value as a positional sequence if it is a Go slice or array.
func asSequence(value any) (sequence, bool) {
	if val, ok := value.([]any); ok {
		return anySlice(val), true
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return reflectSlice{rv: rv}, true
	default:
		return nil, false
	}
}

// sequence is the minimal interface needed for positional access.
type sequence interface {
	at(index int) any
	len() int
}

type anySlice []any

func (s anySlice) at(index int) any {
	return s[index]
}

func (s anySlice) len() int {
	return len(s)
}

type reflectSlice struct {
	rv reflect.Value
}

func (s reflectSlice) at(index int) any {
	return s.rv.Index(index).Interface()
}

func (s reflectSlice) len() int {
	return s.rv.Len()
}

// asInt reports whether key is a number, and if so, returns it truncated to an int.
func asInt(key any) (int, bool) {
	switch k := key.(type) {
	case int:
		return k, true
	case int64:
		return int(k), true
	case float64:
		return int(k), true
	}

	rv := reflect.ValueOf(key)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return int(rv.Uint()), true //nolint:gosec // Truncation is the documented behaviour
	case reflect.Float32, reflect.Float64:
		return int(rv.Float()), true
	default:
		return 0, false
	}
}

// Items returns the elements of value in iteration order and whether value
// is iterable at all: sequences, arrays and collections are, nothing else is.
func Items(value any) ([]any, bool) {
	if collection, ok := value.(Collection); ok {
		items := make([]any, 0, collection.Len())
		for item := range collection.All() {
			items = append(items, item)
		}

		return items, true
	}

	seq, ok := asSequence(value)
	if !ok {
		return nil, false
	}

	if val, ok := seq.(anySlice); ok {
		return []any(val), true
	}

	items := make([]any, seq.len())
	for i := range items {
		items[i] = seq.at(i)
	}

	return items, true
}

// Integer reports whether value is a number and if so returns it truncated to an int.
//
// It applies the same rules as numeric subscripts.
func Integer(value any) (int, bool) {
	return asInt(value)
}
