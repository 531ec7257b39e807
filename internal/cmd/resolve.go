package cmd

import (
	"context"

	"go.followtheprocess.codes/cli"
	"go.followtheprocess.codes/cli/flag"
	"go.followtheprocess.codes/liquid/internal/liquid"
)

// resolve returns the resolve subcommand.
func resolve() (*cli.Command, error) {
	var options liquid.ResolveOptions

	return cli.New(
		"resolve",
		cli.Short("Resolve a variable reference against a data file"),
		cli.Arg(&options.Reference, "reference", "The reference to resolve e.g. 'user.addresses[0].city'"),
		cli.Flag(&options.Data, "data", flag.NoShortHand, "Data file providing the variables"),
		cli.Flag(&options.Format, "format", 'f', "Output format, yaml or json", cli.FlagDefault("yaml")),
		cli.Flag(&options.Strict, "strict", 's', "Fail if the reference does not resolve"),
		cli.Flag(&options.Debug, "debug", 'd', "Enable debug logging"),
		cli.Run(func(ctx context.Context, cmd *cli.Command) error {
			app := liquid.New(options.Debug, version, cmd.Stdin(), cmd.Stdout(), cmd.Stderr())
			return app.Resolve(ctx, options)
		}),
	)
}
