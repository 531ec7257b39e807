package render

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"go.followtheprocess.codes/liquid/internal/compose"
	"go.followtheprocess.codes/liquid/internal/lookup"
	"go.followtheprocess.codes/liquid/internal/scope"
)

// loopStackKey is the key in the for_stack registry holding the stack of active loops.
const loopStackKey = "stack"

// For is a for loop e.g. "{% for item in items limit:2 %}...{% else %}...{% endfor %}".
type For struct {
	// Collection is the expression being iterated over.
	Collection lookup.Expression

	// Limit, if not nil, caps the number of items iterated.
	Limit lookup.Expression

	// Offset, if not nil, skips that many items from the start.
	Offset lookup.Expression

	// Var is the name each item is bound to in the loop body.
	Var string

	// Body is rendered once per item.
	Body Block

	// Else is rendered instead of Body when there is nothing to iterate.
	Else Block

	// OffsetContinue starts the loop where the last loop with the same
	// name left off, "offset:continue".
	OffsetContinue bool

	// Reversed iterates the (offset and limited) items back to front.
	Reversed bool
}

// Name returns the name of the loop, used to identify it to "offset:continue"
// and in forloop.name.
func (f For) Name() string {
	return f.Var + "-" + f.Collection.String()
}

// Render implements [Node] for [For].
func (f For) Render(s *scope.Scope, out compose.Appender) error {
	value, err := f.Collection.Evaluate(s)
	if err != nil {
		return err
	}

	if value == nil {
		return f.Else.Render(s, out)
	}

	items := iterable(value)
	name := f.Name()

	from := 0
	if f.OffsetContinue {
		from, _ = lookup.Integer(s.Registry(scope.RegistryFor)[name])
	} else if f.Offset != nil {
		from, err = f.integer(s, f.Offset, "offset")
		if err != nil {
			return err
		}
	}

	from = min(max(from, 0), len(items))
	to := len(items)

	if f.Limit != nil {
		limit, err := f.integer(s, f.Limit, "limit")
		if err != nil {
			return err
		}

		to = min(from+max(limit, 0), len(items))
	}

	// The next "offset:continue" loop of the same name picks up from here
	s.Registry(scope.RegistryFor)[name] = to

	segment := slices.Clone(items[from:to])
	if len(segment) == 0 {
		return f.Else.Render(s, out)
	}

	if f.Reversed {
		slices.Reverse(segment)
	}

	stacks := s.Registry(scope.RegistryForStack)
	stack, _ := stacks[loopStackKey].([]*loop)

	current := &loop{name: name, length: len(segment)}
	if len(stack) > 0 {
		current.parent = stack[len(stack)-1]
	}

	stacks[loopStackKey] = append(stack, current)
	defer func() { stacks[loopStackKey] = stack }()

	body := s.Child(nil)
	for i, item := range segment {
		if err := s.IncrementIterations(); err != nil {
			return err
		}

		current.index = i
		body.Put(f.Var, item)
		body.Put(forloopName, current)

		if err := f.Body.Render(body, out); err != nil {
			return err
		}
	}

	return nil
}

// integer evaluates a loop parameter that must be a whole number.
func (f For) integer(s *scope.Scope, expr lookup.Expression, param string) (int, error) {
	value, err := expr.Evaluate(s)
	if err != nil {
		return 0, err
	}

	if value == nil {
		return 0, nil
	}

	if n, ok := lookup.Integer(value); ok {
		return n, nil
	}

	if text, ok := value.(string); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(text)); err == nil {
			return n, nil
		}
	}

	return 0, fmt.Errorf("for loop %s: %s must be a number, got %q", f.Name(), param, compose.Text(value))
}

// iterable returns the items a for loop iterates over when given value.
//
// Sequences and collections iterate their elements, maps iterate [key, value]
// pairs sorted by key and anything else is a single item.
func iterable(value any) []any {
	if items, ok := lookup.Items(value); ok {
		return items
	}

	if m, ok := value.(map[string]any); ok {
		pairs := make([]any, 0, len(m))
		for key, val := range m {
			pairs = append(pairs, []any{key, val})
		}

		slices.SortFunc(pairs, func(a, b any) int {
			return cmp.Compare(a.([]any)[0].(string), b.([]any)[0].(string)) //nolint:forcetypeassert // Built above
		})

		return pairs
	}

	if text, ok := value.(string); ok && text == "" {
		return nil
	}

	return []any{value}
}

// forloopName is the name the loop state is bound to inside a loop body.
const forloopName = "forloop"

// loop is the state of an active for loop, exposed to templates as "forloop".
type loop struct {
	parent *loop  // Enclosing loop, if any
	name   string // Loop name
	index  int    // Zero based index of the current item
	length int    // Number of items in the loop
}

// Fields implements [lookup.Drop] for a loop.
func (l *loop) Fields() map[string]any {
	var parent any
	if l.parent != nil {
		parent = l.parent
	}

	return map[string]any{
		"index":      l.index + 1,
		"index0":     l.index,
		"rindex":     l.length - l.index,
		"rindex0":    l.length - l.index - 1,
		"first":      l.index == 0,
		"last":       l.index == l.length-1,
		"length":     l.length,
		"name":       l.name,
		"parentloop": parent,
	}
}
