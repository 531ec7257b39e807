// Package cmd implements liquid's CLI.
package cmd

import (
	"go.followtheprocess.codes/cli"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

// Build builds and returns the liquid CLI.
func Build() (*cli.Command, error) {
	return cli.New(
		"liquid",
		cli.Short("Render and check Liquid templates"),
		cli.Version(version),
		cli.Commit(commit),
		cli.BuildDate(date),
		cli.Example("Render a template with some data", "liquid render ./page.liquid --data ./data.yaml"),
		cli.Example(
			"Render once per data file, failing on undefined variables",
			"liquid render ./page.liquid --data a.json --data b.toml --raise",
		),
		cli.Example("Look up a single value in a data file", "liquid resolve 'user.addresses[0].city' --data ./data.yaml"),
		cli.Example("Check for syntax errors in all templates (recursively)", "liquid check ./templates"),
		cli.SubCommands(render, resolve, check),
	)
}
