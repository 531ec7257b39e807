package scope

import (
	"iter"
	"maps"
	"slices"
)

// bindings is a name to value mapping that remembers insertion order.
type bindings struct {
	values map[string]any
	keys   []string
}

// newBindings returns bindings holding a copy of initial, inserted in
// sorted key order so enumeration is deterministic.
func newBindings(initial map[string]any) *bindings {
	b := &bindings{
		values: make(map[string]any, len(initial)),
		keys:   make([]string, 0, len(initial)),
	}

	for _, key := range slices.Sorted(maps.Keys(initial)) {
		b.set(key, initial[key])
	}

	return b
}

// get returns the value bound to key and whether it was present.
func (b *bindings) get(key string) (any, bool) {
	value, ok := b.values[key]
	return value, ok
}

// set binds key to value, returning the previous value if there was one.
func (b *bindings) set(key string, value any) (any, bool) {
	previous, existed := b.values[key]
	if !existed {
		b.keys = append(b.keys, key)
	}

	b.values[key] = value

	return previous, existed
}

// remove unbinds key, returning the removed value if there was one.
func (b *bindings) remove(key string) (any, bool) {
	value, ok := b.values[key]
	if !ok {
		return nil, false
	}

	delete(b.values, key)

	if index := slices.Index(b.keys, key); index != -1 {
		b.keys = slices.Delete(b.keys, index, index+1)
	}

	return value, true
}

// all iterates the bindings in insertion order.
func (b *bindings) all() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, key := range b.keys {
			if !yield(key, b.values[key]) {
				return
			}
		}
	}
}
