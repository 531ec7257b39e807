package settings

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"go.followtheprocess.codes/liquid/internal/compose"
	"go.yaml.in/yaml/v4"
)

// File is the on disk representation of [Settings], it may be written as
// TOML or YAML.
//
// Pointer fields distinguish "not set" from false so that unset keys keep
// their defaults.
type File struct {
	// StrictVariables sets [Settings.StrictVariables].
	StrictVariables *bool `toml:"strict-variables" yaml:"strict-variables"`

	// RaiseOnStrict sets [Settings.RaiseOnStrict].
	RaiseOnStrict *bool `toml:"raise-on-strict" yaml:"raise-on-strict"`

	// MaxRenderTime is a Go duration string e.g. "2s".
	MaxRenderTime string `toml:"max-render-time" yaml:"max-render-time"`

	// Composer is the name of a built in composer, see [compose.Lookup].
	Composer string `toml:"composer" yaml:"composer"`

	// MaxIterations sets the iteration ceiling, 0 means unlimited.
	MaxIterations int `toml:"max-iterations" yaml:"max-iterations"`
}

// Load reads a settings [File] from path, the format is chosen by the file
// extension: ".toml", ".yaml" or ".yml".
func Load(path string) (File, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("could not read settings file: %w", err)
	}

	var file File

	switch ext := filepath.Ext(path); ext {
	case ".toml":
		if _, err := toml.NewDecoder(bytes.NewReader(contents)).Decode(&file); err != nil {
			return File{}, fmt.Errorf("could not decode TOML settings %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(contents, &file); err != nil {
			return File{}, fmt.Errorf("could not decode YAML settings %s: %w", path, err)
		}
	default:
		return File{}, fmt.Errorf("unsupported settings format %q, expected .toml, .yaml or .yml", ext)
	}

	return file, nil
}

// Settings validates the file and builds the [Settings] it describes on top
// of [Default].
func (f File) Settings() (*Settings, error) {
	settings := Default()

	if f.StrictVariables != nil {
		settings.StrictVariables = *f.StrictVariables
	}

	if f.RaiseOnStrict != nil {
		settings.RaiseOnStrict = *f.RaiseOnStrict
	}

	var errs []error

	if f.MaxIterations < 0 {
		errs = append(errs, fmt.Errorf("max-iterations cannot be negative, got %d", f.MaxIterations))
	}

	settings.Limits.MaxIterations = f.MaxIterations

	if f.MaxRenderTime != "" {
		duration, err := time.ParseDuration(f.MaxRenderTime)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid max-render-time: %w", err))
		}

		settings.Limits.MaxRenderTime = duration
	}

	composer, err := compose.Lookup(f.Composer)
	if err != nil {
		errs = append(errs, err)
	}

	settings.Composer = composer

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return settings, nil
}
