package liquid

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.followtheprocess.codes/liquid/internal/format"
	"go.followtheprocess.codes/liquid/internal/scope"
	"go.followtheprocess.codes/liquid/internal/settings"
	"go.followtheprocess.codes/liquid/internal/syntax/parser"
)

// ResolveOptions are the options passed to the resolve subcommand.
type ResolveOptions struct {
	// Reference is the variable reference to resolve e.g. "user.addresses[0].city".
	Reference string

	// Data is the path to the data file providing the root bindings.
	Data string

	// Format is the output format, "yaml" or "json".
	Format string

	// Strict fails when the reference does not resolve to a value.
	Strict bool

	// Debug enables debug logging.
	Debug bool
}

// Resolve implements the resolve subcommand, it looks up a single reference in
// a data file and prints the value it resolves to.
func (app Liquid) Resolve(ctx context.Context, options ResolveOptions) error {
	logger := app.logger.Prefixed("resolve").With(slog.String("reference", options.Reference))
	logger.Debug("Resolving reference", slog.String("data", options.Data))

	if options.Reference == "" {
		return errors.New("a reference is required")
	}

	exporter, err := format.ExporterFor(options.Format)
	if err != nil {
		return err
	}

	ref, err := parser.ParseReference("reference", options.Reference)
	if err != nil {
		return err
	}

	bindings, err := loadData(options.Data)
	if err != nil {
		return err
	}

	config := settings.Default()
	config.StrictVariables = options.Strict
	config.RaiseOnStrict = options.Strict

	value, err := ref.Evaluate(scope.New(ctx, config, bindings))
	if err != nil {
		return err
	}

	logger.Debug("Resolved reference", slog.String("type", fmt.Sprintf("%T", value)))

	if err := exporter.Export(app.stdout, value); err != nil {
		return fmt.Errorf("could not write value: %w", err)
	}

	return nil
}
