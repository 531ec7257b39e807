package format

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
)

// TOMLImporter is an [Importer] that decodes a TOML document into root bindings.
type TOMLImporter struct{}

// Import implements [Importer] for [TOMLImporter].
func (t TOMLImporter) Import(r io.Reader) (map[string]any, error) {
	var bindings map[string]any

	if _, err := toml.NewDecoder(r).Decode(&bindings); err != nil {
		return nil, fmt.Errorf("could not decode TOML: %w", err)
	}

	return bindings, nil
}
