// Package lookup implements variable references: compiled paths into the data bound in a
// [scope.Scope], and the property and subscript operators used to walk them.
//
// A [Reference] is built once at parse time and evaluated many times, possibly concurrently
// from different render passes, so it holds no per-evaluation state.
package lookup

import (
	"fmt"
	"strconv"
	"strings"

	"go.followtheprocess.codes/liquid/internal/compose"
	"go.followtheprocess.codes/liquid/internal/scope"
)

// Expression is anything that evaluates to a value against a scope.
type Expression interface {
	// Evaluate computes the expression's value. A non-nil error is fatal to the
	// render pass, missing values are reported as nil.
	Evaluate(s *scope.Scope) (any, error)

	// String returns the expression as it was written in the source.
	String() string
}

// Literal is a constant [Expression].
type Literal struct {
	// Value is the constant value.
	Value any

	// Text is the source text of the literal, if empty a quoted or formatted
	// form of Value is used.
	Text string
}

// Evaluate implements [Expression] for [Literal].
func (l Literal) Evaluate(*scope.Scope) (any, error) {
	return l.Value, nil
}

// String implements [Expression] for [Literal].
func (l Literal) String() string {
	if l.Text != "" {
		return l.Text
	}

	switch val := l.Value.(type) {
	case nil:
		return "nil"
	case string:
		return strconv.Quote(val)
	default:
		return compose.Text(val)
	}
}

// Root is the first element of a reference.
type Root struct {
	// Name is the variable name, or when Indirect, the name of the variable holding
	// the real name.
	Name string

	// Indirect marks "@name" roots, where the text of the value bound to Name is used
	// as the name to look up.
	Indirect bool
}

// String returns the textual form of the root.
func (r Root) String() string {
	if r.Indirect {
		return "@" + r.Name
	}

	return r.Name
}

// Step is a single indexing step in a [Reference], either a [Property] or a [Subscript].
type Step interface {
	// String returns the textual form of the step e.g. ".name" or "[0]".
	String() string

	step() // Closes the set of steps
}

// Property is a step that looks up a field by a name fixed at parse time e.g. ".name".
type Property struct {
	Name string
}

// String implements [Step] for [Property].
func (p Property) String() string {
	return "." + p.Name
}

func (Property) step() {}

// Subscript is a step whose key is an expression, evaluated afresh against the
// scope every time e.g. "[i]".
type Subscript struct {
	Key Expression
}

// String implements [Step] for [Subscript].
func (s Subscript) String() string {
	return "[" + s.Key.String() + "]"
}

func (Subscript) step() {}

// Reference is a compiled variable reference: a root followed by a path of steps.
//
// The zero value is not useful, build one with [NewReference] or a struct literal.
type Reference struct {
	Root  Root
	Steps []Step
}

// NewReference returns a [Reference] rooted at name with the given steps.
func NewReference(name string, steps ...Step) Reference {
	return Reference{Root: Root{Name: name}, Steps: steps}
}

// String returns the full textual form of the reference, as used to identify it
// in errors.
func (r Reference) String() string {
	builder := &strings.Builder{}
	builder.WriteString(r.Root.String())

	for _, step := range r.Steps {
		builder.WriteString(step.String())
	}

	return builder.String()
}

// Evaluate resolves the reference against s.
//
// The root name is looked up in the scope chain and then in the environment map, the
// result is threaded through each step and a missing value at any point short circuits
// to nil. When strict variables are on, a nil result is recorded in the pass error log
// as a [VariableNotFoundError] and only returned as an error if the settings ask for
// strict violations to be raised.
func (r Reference) Evaluate(s *scope.Scope) (any, error) {
	value, err := r.walk(s)
	if err != nil {
		return nil, err
	}

	if value == nil {
		settings := s.Settings()
		if settings.StrictVariables {
			notFound := &VariableNotFoundError{Path: r.String()}
			s.RecordError(notFound)

			if settings.RaiseOnStrict {
				return nil, notFound
			}
		}
	}

	return value, nil
}

// walk does the actual resolution, without any strict mode handling.
func (r Reference) walk(s *scope.Scope) (any, error) {
	name := r.Root.Name
	if r.Root.Indirect {
		inner, _ := s.Get(name)
		// A nil inner value resolves the empty name
		name = compose.Text(inner)
	}

	value, ok := s.Get(name)
	if !ok || value == nil {
		value = s.Environment()[name]
	}

	for _, step := range r.Steps {
		if value == nil {
			return nil, nil
		}

		switch step := step.(type) {
		case Property:
			value, _ = Field(value, step.Name)
		case Subscript:
			key, err := step.Key.Evaluate(s)
			if err != nil {
				return nil, err
			}

			value, _ = Index(value, key)
		default:
			return nil, fmt.Errorf("unhandled reference step: %T", step)
		}
	}

	return value, nil
}
