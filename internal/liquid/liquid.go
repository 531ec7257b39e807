// Package liquid implements the functionality of the program, the CLI in package cmd is simply the
// entrypoint to exported functions and methods in this package.
package liquid

import (
	"fmt"
	"io"
	"io/fs"
	"iter"
	"path/filepath"

	"go.followtheprocess.codes/hue"
	"go.followtheprocess.codes/liquid/internal/syntax"
	"go.followtheprocess.codes/log"
)

// TemplateExt is the file extension of liquid templates.
const TemplateExt = ".liquid"

// Styles.
const (
	// bold is used for file names in headers.
	bold = hue.Bold

	// failure is used for the positions of syntax errors.
	failure = hue.Red | hue.Bold
)

// Liquid represents the liquid program.
type Liquid struct {
	stdin   io.Reader   // Prompts read from here
	stdout  io.Writer   // Normal program output is written here
	stderr  io.Writer   // Logs and errors are written here
	logger  *log.Logger // The logger for the application
	version string      // The app version
}

// New returns a new [Liquid].
func New(debug bool, version string, stdin io.Reader, stdout, stderr io.Writer) Liquid {
	level := log.LevelInfo
	if debug {
		level = log.LevelDebug
	}

	logger := log.New(stderr, log.WithLevel(level))

	return Liquid{
		stdin:   stdin,
		stdout:  stdout,
		stderr:  stderr,
		logger:  logger,
		version: version,
	}
}

// printDiagnostics writes syntax diagnostics to stderr, one per line.
func (app Liquid) printDiagnostics(diagnostics []syntax.Diagnostic) {
	for _, diag := range diagnostics {
		fmt.Fprintf(app.stderr, "%s: %s\n", failure.Text(diag.Position.String()), diag.Msg)
	}
}

// allFilesWithExtension returns an iterator over all filepaths under
// root with the matching extension, recursively.
//
// A call to allFilesWithExtension like this:
//
//	for file, err := range allFilesWithExtension(".", ".liquid") {
//	    // Loop body
//	}
//
// Is roughly equivalent to the following in bash:
//
//	for file in **/*.liquid; do { # stuff }; done
func allFilesWithExtension(root, ext string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}

			if d.Type().IsRegular() && filepath.Ext(d.Name()) == ext {
				if !yield(path, nil) {
					return fs.SkipAll
				}
			}

			return nil
		})
		if err != nil {
			yield("", err)
		}
	}
}
