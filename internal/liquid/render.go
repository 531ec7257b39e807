package liquid

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"time"

	"github.com/google/uuid"
	"go.followtheprocess.codes/liquid/internal/compose"
	"go.followtheprocess.codes/liquid/internal/format"
	"go.followtheprocess.codes/liquid/internal/render"
	"go.followtheprocess.codes/liquid/internal/settings"
	"go.followtheprocess.codes/liquid/internal/syntax/parser"
	"go.followtheprocess.codes/msg"
	"golang.org/x/sync/errgroup"
)

// RenderOptions are the options passed to the render subcommand.
type RenderOptions struct {
	// Template is the path to the template to render.
	Template string

	// Config is the path to an optional TOML or YAML settings file, flags
	// take precedence over anything it sets.
	Config string

	// Format is the structured output format used with Fragments, "yaml" or "json".
	Format string

	// Data are paths to data files, the template is rendered once per file
	// with the file's contents as the root bindings.
	//
	// Empty means a single render with no bindings.
	Data []string

	// Ask are names of environment values to prompt for before rendering.
	Ask []string

	// MaxRenderTime bounds each render pass, 0 means the config file value
	// or no limit.
	MaxRenderTime time.Duration

	// MaxIterations bounds the loop iterations of each render pass, 0 means the
	// config file value or no limit.
	MaxIterations int

	// Strict reports undefined variables as warnings.
	Strict bool

	// Raise fails the render on the first undefined variable, implies Strict.
	Raise bool

	// Fragments outputs the individual output fragments in Format rather than
	// the concatenated text.
	Fragments bool

	// Debug enables debug logging.
	Debug bool
}

// Validate reports whether the RenderOptions is valid, returning an error
// if it's not.
//
// nil means the options are valid.
func (r RenderOptions) Validate() error {
	var errs []error

	if r.Template == "" {
		errs = append(errs, errors.New("a template is required"))
	}

	if r.MaxIterations < 0 {
		errs = append(errs, fmt.Errorf("--max-iterations cannot be negative, got %d", r.MaxIterations))
	}

	if r.MaxRenderTime < 0 {
		errs = append(errs, fmt.Errorf("--max-render-time cannot be negative, got %s", r.MaxRenderTime))
	}

	if _, err := format.ExporterFor(r.Format); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// settings builds the render settings from the config file, if any, with the
// flags layered on top.
func (r RenderOptions) settings() (*settings.Settings, error) {
	var file settings.File

	if r.Config != "" {
		loaded, err := settings.Load(r.Config)
		if err != nil {
			return nil, err
		}

		file = loaded
	}

	config, err := file.Settings()
	if err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	if r.Strict {
		config.StrictVariables = true
	}

	if r.Raise {
		config.StrictVariables = true
		config.RaiseOnStrict = true
	}

	if r.MaxIterations != 0 {
		config.Limits.MaxIterations = r.MaxIterations
	}

	if r.MaxRenderTime != 0 {
		config.Limits.MaxRenderTime = r.MaxRenderTime
	}

	if r.Fragments {
		config.Composer = compose.Fragments{}
	}

	return config, nil
}

// Render implements the render subcommand.
//
// The template is compiled once and rendered concurrently against each data file, the
// outputs are written in the order the data files were given.
func (app Liquid) Render(ctx context.Context, options RenderOptions) error {
	logger := app.logger.Prefixed("render").With(slog.String("template", options.Template))
	logger.Debug(
		"Render configuration",
		slog.String("version", app.version),
		slog.String("options", fmt.Sprintf("%+v", options)),
	)

	if err := options.Validate(); err != nil {
		return err
	}

	config, err := options.settings()
	if err != nil {
		return err
	}

	if len(options.Ask) != 0 {
		answers, err := app.ask(ctx, options.Ask)
		if err != nil {
			return err
		}

		config.EnvironmentConfigurator = func(env map[string]any) {
			maps.Copy(env, answers)
		}
	}

	start := time.Now()

	tmpl, err := app.compile(options.Template, config)
	if err != nil {
		return err
	}

	logger.Debug("Compiled template", slog.Int("nodes", len(tmpl.Body)), slog.Duration("took", time.Since(start)))

	datasets := options.Data
	if len(datasets) == 0 {
		datasets = []string{""}
	}

	results := make([]render.Result, len(datasets))

	group, ctx := errgroup.WithContext(ctx)

	for i, path := range datasets {
		group.Go(func() error {
			passLogger := logger.With(slog.String("pass", uuid.NewString()), slog.String("data", path))

			bindings, err := loadData(path)
			if err != nil {
				return err
			}

			passLogger.Debug("Starting render pass", slog.Int("bindings", len(bindings)))

			passStart := time.Now()

			result, err := tmpl.Execute(ctx, bindings)
			if err != nil {
				return err
			}

			passLogger.Debug(
				"Finished render pass",
				slog.Duration("took", time.Since(passStart)),
				slog.Int("errors", len(result.Errors)),
			)

			results[i] = result

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}

	exporter, err := format.ExporterFor(options.Format)
	if err != nil {
		return err
	}

	for i, result := range results {
		if len(datasets) > 1 {
			fmt.Fprintf(app.stdout, "%s\n", bold.Text(datasets[i]))
		}

		if options.Fragments {
			if err := exporter.Export(app.stdout, result.Value); err != nil {
				return fmt.Errorf("could not write fragments: %w", err)
			}
		} else {
			fmt.Fprint(app.stdout, compose.Text(result.Value))
		}

		for _, recorded := range result.Errors {
			msg.Fwarn(app.stderr, "%s: %v", tmpl.Name, recorded)
		}
	}

	logger.Debug("Render complete", slog.Int("passes", len(datasets)), slog.Duration("took", time.Since(start)))

	return nil
}

// compile reads and parses the template at path, printing any syntax errors.
func (app Liquid) compile(path string, config *settings.Settings) (*render.Template, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read template: %w", err)
	}

	p := parser.New(path, src)

	body, err := p.Parse()
	if err != nil {
		app.printDiagnostics(p.Diagnostics())
		return nil, fmt.Errorf("%s has syntax errors: %w", path, err)
	}

	return render.New(path, body, config), nil
}
