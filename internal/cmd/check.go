package cmd

import (
	"context"

	"go.followtheprocess.codes/cli"
	"go.followtheprocess.codes/liquid/internal/liquid"
)

const checkLong = `
The path argument may be a directory or a file.

If it is the name of a .liquid file, then this file alone is checked
for validity.

If it is a directory, this directory is scanned recursively for all
files with the '.liquid' extension and any matching files will be validated.
`

// check returns the check subcommand.
func check() (*cli.Command, error) {
	var options liquid.CheckOptions

	return cli.New(
		"check",
		cli.Short("Check templates for syntax errors"),
		cli.Long(checkLong),
		cli.Arg(&options.Path, "path", "Path to check, may be directory or file", cli.ArgDefault(".")),
		cli.Flag(&options.Debug, "debug", 'd', "Enable debug logging"),
		cli.Run(func(ctx context.Context, cmd *cli.Command) error {
			app := liquid.New(options.Debug, version, cmd.Stdin(), cmd.Stdout(), cmd.Stderr())
			return app.Check(ctx, options)
		}),
	)
}
