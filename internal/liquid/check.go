package liquid

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"sync"

	"go.followtheprocess.codes/liquid/internal/syntax"
	"go.followtheprocess.codes/liquid/internal/syntax/parser"
	"go.followtheprocess.codes/msg"
	"golang.org/x/sync/errgroup"
)

// CheckOptions are the options passed to the check subcommand.
type CheckOptions struct {
	// Path is the path (file or directory) to check.
	Path string

	// Debug enables debug logging.
	Debug bool
}

// Check implements the check subcommand.
//
// Every template under the path is parsed concurrently, all diagnostics are printed
// in file order and any invalid template makes Check fail.
func (app Liquid) Check(ctx context.Context, options CheckOptions) error {
	logger := app.logger.Prefixed("check").With(slog.String("path", options.Path))
	logger.Debug("Checking path")

	info, err := os.Stat(options.Path)
	if err != nil {
		return fmt.Errorf("could not get path info: %w", err)
	}

	var paths []string

	if info.IsDir() {
		logger.Debug("Path is a directory")

		for path, err := range allFilesWithExtension(options.Path, TemplateExt) {
			if err != nil {
				return fmt.Errorf("could not walk %s: %w", options.Path, err)
			}

			paths = append(paths, path)
		}
	} else {
		logger.Debug("Path is a file")

		paths = []string{options.Path}
	}

	logger.Debug("Checking templates given by path", slog.Int("number", len(paths)))

	var (
		mu          sync.Mutex
		diagnostics []syntax.Diagnostic
		invalid     int
	)

	group, ctx := errgroup.WithContext(ctx)

	for _, path := range paths {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			diags, err := checkFile(path)
			if err != nil && len(diags) == 0 {
				return err
			}

			mu.Lock()
			defer mu.Unlock()

			if len(diags) != 0 {
				invalid++
				diagnostics = append(diagnostics, diags...)
			}

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}

	if invalid != 0 {
		slices.SortFunc(diagnostics, func(a, b syntax.Diagnostic) int {
			return syntax.ComparePosition(a.Position, b.Position)
		})

		app.printDiagnostics(diagnostics)

		return fmt.Errorf("%d of %d template(s) had syntax errors", invalid, len(paths))
	}

	for _, path := range paths {
		msg.Fsuccess(app.stdout, "%s is valid", path)
	}

	return nil
}

// checkFile runs a parse check on a single template.
func checkFile(path string) ([]syntax.Diagnostic, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read template: %w", err)
	}

	p := parser.New(path, src)

	// We don't actually care about the result, just that it parses
	_, err = p.Parse()

	return p.Diagnostics(), err
}
