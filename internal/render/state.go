package render

import (
	"strings"

	"go.followtheprocess.codes/liquid/internal/compose"
	"go.followtheprocess.codes/liquid/internal/lookup"
	"go.followtheprocess.codes/liquid/internal/scope"
)

// ifChangedKey is the key in the ifchanged registry holding the last output.
const ifChangedKey = "last"

// Cycle outputs the next of its values each time it is rendered, wrapping
// round at the end e.g. "{% cycle 'odd', 'even' %}".
//
// Cycles sharing a group share a position, without a group the position is
// shared by every cycle with the same values.
type Cycle struct {
	// Group, if not nil, names the cycle group.
	Group lookup.Expression

	// Values are the values cycled through, there is always at least one.
	Values []lookup.Expression
}

// Render implements [Node] for [Cycle].
func (c Cycle) Render(s *scope.Scope, out compose.Appender) error {
	if len(c.Values) == 0 {
		return nil
	}

	key, err := c.key(s)
	if err != nil {
		return err
	}

	positions := s.Registry(scope.RegistryCycle)
	position, _ := positions[key].(int)
	positions[key] = (position + 1) % len(c.Values)

	value, err := c.Values[position%len(c.Values)].Evaluate(s)
	if err != nil {
		return err
	}

	if value != nil {
		out.Append(value)
	}

	return nil
}

// key returns the registry key for the cycle's position.
func (c Cycle) key(s *scope.Scope) (string, error) {
	if c.Group != nil {
		group, err := c.Group.Evaluate(s)
		if err != nil {
			return "", err
		}

		return compose.Text(group), nil
	}

	values := make([]string, 0, len(c.Values))
	for _, value := range c.Values {
		values = append(values, value.String())
	}

	return strings.Join(values, ","), nil
}

// IfChanged renders its body but only outputs it if the result differs from
// the last time any ifchanged block in the pass was rendered.
type IfChanged struct {
	Body Block
}

// Render implements [Node] for [IfChanged].
func (i IfChanged) Render(s *scope.Scope, out compose.Appender) error {
	captured := s.NewAppender(len(i.Body))
	if err := i.Body.Render(s, captured); err != nil {
		return err
	}

	text := compose.Text(captured.Result())

	registry := s.Registry(scope.RegistryIfChanged)
	if last, ok := registry[ifChangedKey].(string); ok && last == text {
		return nil
	}

	registry[ifChangedKey] = text
	out.Append(text)

	return nil
}
