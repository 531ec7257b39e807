// Package render implements compiled templates: trees of nodes rendered against a scope
// chain into an output appender.
//
// A [Template] is immutable once built and may be executed by any number of concurrent
// render passes, each pass gets its own root scope, error log, iteration guard and appender.
package render

import (
	"context"
	"fmt"

	"go.followtheprocess.codes/liquid/internal/compose"
	"go.followtheprocess.codes/liquid/internal/scope"
	"go.followtheprocess.codes/liquid/internal/settings"
)

// Node is a single node in a compiled template.
type Node interface {
	// Render renders the node against s, appending its output to out.
	//
	// A returned error is fatal and aborts the render pass.
	Render(s *scope.Scope, out compose.Appender) error
}

// Block is a sequence of nodes rendered in order.
type Block []Node

// Render implements [Node] for a [Block].
func (b Block) Render(s *scope.Scope, out compose.Appender) error {
	for _, node := range b {
		if err := node.Render(s, out); err != nil {
			return err
		}
	}

	return nil
}

// Result is the outcome of a single render pass.
type Result struct {
	// Value is the finalised output of the pass's appender, a string for the
	// default composer.
	Value any

	// Errors is the pass error log, in the order the errors were recorded.
	Errors []error
}

// Template is a compiled template.
type Template struct {
	settings *settings.Settings // Shared read only by every pass

	// Name identifies the template in errors, typically the file it came from.
	Name string

	// Body is the top level sequence of nodes.
	Body Block
}

// New returns a new [Template].
//
// A nil settings means [settings.Default].
func New(name string, body Block, s *settings.Settings) *Template {
	if s == nil {
		s = settings.Default()
	}

	return &Template{
		Name:     name,
		Body:     body,
		settings: s,
	}
}

// Settings returns the settings the template renders with.
func (t *Template) Settings() *settings.Settings {
	return t.settings
}

// Execute performs a single render pass with the given root bindings.
//
// The pass error log is returned in the [Result] even when the pass fails, along with
// whatever output was produced up to the failure.
func (t *Template) Execute(ctx context.Context, bindings map[string]any) (Result, error) {
	root := scope.New(ctx, t.settings, bindings)
	out := root.NewAppender(len(t.Body))

	err := t.Body.Render(root, out)

	result := Result{
		Value:  out.Result(),
		Errors: root.Errors(),
	}

	if err != nil {
		return result, fmt.Errorf("could not render %s: %w", t.Name, err)
	}

	return result, nil
}

// Render performs a single render pass and returns the output as text.
func (t *Template) Render(ctx context.Context, bindings map[string]any) (string, error) {
	result, err := t.Execute(ctx, bindings)
	if err != nil {
		return "", err
	}

	return compose.Text(result.Value), nil
}
