package cmd

import (
	"context"

	"go.followtheprocess.codes/cli"
	"go.followtheprocess.codes/cli/flag"
	"go.followtheprocess.codes/liquid/internal/liquid"
)

const renderLong = `
The render command compiles a template and renders it once for every
data file given with '--data'. Data files may be JSON, YAML or TOML,
the top level object of each becomes the template's variables.

Render settings may be given in a TOML or YAML file with '--config',
any flags passed on the command line take precedence over the file.

With '--strict', every undefined variable is reported as a warning and
the render carries on, use '--raise' to fail on the first one instead.

Values that should never be shadowed by template variables, such as
secrets, may be supplied interactively with '--ask'.
`

// render returns the render subcommand.
func render() (*cli.Command, error) {
	var options liquid.RenderOptions

	return cli.New(
		"render",
		cli.Short("Render a template"),
		cli.Long(renderLong),
		cli.Arg(&options.Template, "template", "Path to the template to render"),
		cli.Flag(&options.Data, "data", flag.NoShortHand, "Data file(s) to render the template with"),
		cli.Flag(&options.Config, "config", 'c', "Path to a TOML or YAML settings file"),
		cli.Flag(&options.Ask, "ask", flag.NoShortHand, "Name(s) of environment values to prompt for"),
		cli.Flag(&options.Strict, "strict", 's', "Report undefined variables as warnings"),
		cli.Flag(&options.Raise, "raise", flag.NoShortHand, "Fail on the first undefined variable"),
		cli.Flag(&options.MaxIterations, "max-iterations", flag.NoShortHand, "Maximum loop iterations per render"),
		cli.Flag(&options.MaxRenderTime, "max-render-time", flag.NoShortHand, "Maximum time for each render"),
		cli.Flag(&options.Fragments, "fragments", flag.NoShortHand, "Output the individual output fragments"),
		cli.Flag(
			&options.Format,
			"format",
			'f',
			"Format for --fragments, yaml or json",
			cli.FlagDefault("yaml"),
		),
		cli.Flag(&options.Debug, "debug", 'd', "Enable debug logging"),
		cli.Run(func(ctx context.Context, cmd *cli.Command) error {
			app := liquid.New(options.Debug, version, cmd.Stdin(), cmd.Stdout(), cmd.Stderr())
			return app.Render(ctx, options)
		}),
	)
}
