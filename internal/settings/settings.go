// Package settings provides the render configuration shared, read only, by every
// scope in a render pass and by every concurrent pass over the same template.
package settings

import (
	"go.followtheprocess.codes/liquid/internal/compose"
	"go.followtheprocess.codes/liquid/internal/guard"
)

// Settings is the effective render configuration.
//
// A Settings must not be modified once a render pass has started using it.
type Settings struct {
	// Composer creates the appenders used to build render output, nil means
	// [compose.Concat].
	Composer compose.Composer

	// EnvironmentConfigurator, if set, is called exactly once per render pass to
	// populate the environment map, the first time the map is requested.
	EnvironmentConfigurator func(env map[string]any)

	// Limits bounds the work done by a single render pass.
	Limits guard.Limits

	// StrictVariables makes unresolved references reportable, each one is recorded
	// in the pass error log.
	StrictVariables bool

	// RaiseOnStrict makes the first strict variable violation abort the pass.
	//
	// Has no effect unless StrictVariables is set.
	RaiseOnStrict bool
}

// Default returns the default [Settings]: lenient variables, text output and no limits.
//
// Strict variables are soft by default, switching StrictVariables on records violations
// and finishes the pass unless RaiseOnStrict is set too.
func Default() *Settings {
	return &Settings{
		Composer: compose.Concat{},
	}
}

// NewAppender returns a fresh [compose.Appender] from the configured composer.
func (s *Settings) NewAppender(hint int) compose.Appender {
	if s == nil || s.Composer == nil {
		return compose.Concat{}.NewAppender(hint)
	}

	return s.Composer.NewAppender(hint)
}
