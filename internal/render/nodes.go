package render

import (
	"go.followtheprocess.codes/liquid/internal/compose"
	"go.followtheprocess.codes/liquid/internal/lookup"
	"go.followtheprocess.codes/liquid/internal/scope"
)

// Text is literal template text, rendered unchanged.
type Text string

// Render implements [Node] for [Text].
func (t Text) Render(_ *scope.Scope, out compose.Appender) error {
	if t != "" {
		out.Append(string(t))
	}

	return nil
}

// Output is an output statement e.g. "{{ user.name }}".
//
// The value is appended as is, it's up to the composer to decide what it
// looks like in the finished output.
type Output struct {
	Expr lookup.Expression
}

// Render implements [Node] for [Output].
func (o Output) Render(s *scope.Scope, out compose.Appender) error {
	value, err := o.Expr.Evaluate(s)
	if err != nil {
		return err
	}

	if value != nil {
		out.Append(value)
	}

	return nil
}

// Assign binds the value of an expression to a name in the root scope
// e.g. "{% assign name = user.name %}".
type Assign struct {
	Expr lookup.Expression
	Name string
}

// Render implements [Node] for [Assign].
func (a Assign) Render(s *scope.Scope, _ compose.Appender) error {
	value, err := a.Expr.Evaluate(s)
	if err != nil {
		return err
	}

	s.PutRoot(a.Name, value)

	return nil
}

// Capture renders its body into a fresh appender and binds the result to a name
// in the root scope, producing no output of its own.
type Capture struct {
	Name string
	Body Block
}

// Render implements [Node] for [Capture].
func (c Capture) Render(s *scope.Scope, _ compose.Appender) error {
	captured := s.NewAppender(len(c.Body))
	if err := c.Body.Render(s, captured); err != nil {
		return err
	}

	s.PutRoot(c.Name, captured.Result())

	return nil
}
