package liquid_test

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
	"go.followtheprocess.codes/liquid/internal/liquid"
)

var update = flag.Bool("update", false, "Update testscript snapshots")

// list is a repeatable string flag.
type list []string

func (l *list) String() string { return strings.Join(*l, ",") }

func (l *list) Set(value string) error {
	*l = append(*l, value)
	return nil
}

func TestMain(m *testing.M) {
	testscript.Main(m, map[string]func(){
		"render": func() {
			var (
				options liquid.RenderOptions
				data    list
			)

			flags := flag.NewFlagSet("render", flag.ExitOnError)
			flags.Var(&data, "data", "Data file")
			flags.StringVar(&options.Config, "config", "", "Settings file")
			flags.StringVar(&options.Format, "format", "yaml", "Fragment format")
			flags.IntVar(&options.MaxIterations, "max-iterations", 0, "Iteration limit")
			flags.BoolVar(&options.Strict, "strict", false, "Strict variables")
			flags.BoolVar(&options.Raise, "raise", false, "Fail on undefined variables")
			flags.BoolVar(&options.Fragments, "fragments", false, "Output fragments")
			exitOn(flags.Parse(os.Args[1:]))

			options.Template = flags.Arg(0)
			options.Data = data

			app := liquid.New(false, "test", os.Stdin, os.Stdout, os.Stderr)
			exitOn(app.Render(context.Background(), options))
		},
		"check": func() {
			app := liquid.New(false, "test", os.Stdin, os.Stdout, os.Stderr)
			exitOn(app.Check(context.Background(), liquid.CheckOptions{Path: os.Args[1]}))
		},
		"resolve": func() {
			var options liquid.ResolveOptions

			flags := flag.NewFlagSet("resolve", flag.ExitOnError)
			flags.StringVar(&options.Data, "data", "", "Data file")
			flags.StringVar(&options.Format, "format", "yaml", "Output format")
			flags.BoolVar(&options.Strict, "strict", false, "Strict variables")
			exitOn(flags.Parse(os.Args[1:]))

			options.Reference = flags.Arg(0)

			app := liquid.New(false, "test", os.Stdin, os.Stdout, os.Stderr)
			exitOn(app.Resolve(context.Background(), options))
		},
	})
}

func TestRender(t *testing.T) {
	run(t, "render")
}

func TestCheck(t *testing.T) {
	run(t, "check")
}

func TestResolve(t *testing.T) {
	run(t, "resolve")
}

// run runs every testscript under testdata/dir.
func run(t *testing.T, dir string) {
	t.Helper()

	testscript.Run(t, testscript.Params{
		Dir:                 filepath.Join("testdata", dir),
		UpdateScripts:       *update,
		RequireExplicitExec: true,
		RequireUniqueNames:  true,
		Setup: func(e *testscript.Env) error {
			e.Setenv("NO_COLOR", "true")
			return nil
		},
	})
}

// exitOn prints err and exits non zero if it is not nil.
func exitOn(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1) //nolint:revive // redundant-test-main-exit, this is testscript main
	}
}
