package liquid

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"
)

// ask prompts for a value for each of names, the answers are hidden as they are
// typed since they are typically secrets.
func (app Liquid) ask(ctx context.Context, names []string) (map[string]any, error) {
	values := make([]string, len(names))
	fields := make([]huh.Field, 0, len(names))

	for i, name := range names {
		input := huh.NewInput().
			Title(name).
			EchoMode(huh.EchoModePassword).
			Value(&values[i])

		fields = append(fields, input)
	}

	form := huh.NewForm(huh.NewGroup(fields...)).
		WithInput(app.stdin).
		WithOutput(app.stderr)

	if err := form.RunWithContext(ctx); err != nil {
		return nil, fmt.Errorf("could not prompt for environment values: %w", err)
	}

	answers := make(map[string]any, len(names))
	for i, name := range names {
		answers[name] = values[i]
	}

	return answers, nil
}
