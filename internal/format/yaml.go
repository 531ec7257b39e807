package format

import (
	"errors"
	"fmt"
	"io"

	"go.yaml.in/yaml/v4"
)

const yamlIndent = 2

// YAMLExporter is an [Exporter] that writes values as YAML documents.
type YAMLExporter struct{}

// Export implements [Exporter] for [YAMLExporter] and exports the given value as
// a complete YAML document.
func (y YAMLExporter) Export(w io.Writer, value any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(yamlIndent)

	if err := encoder.Encode(value); err != nil {
		return err
	}

	return encoder.Close()
}

// YAMLImporter is an [Importer] that decodes a YAML mapping into root bindings.
type YAMLImporter struct{}

// Import implements [Importer] for [YAMLImporter].
//
// An empty document gives no bindings.
func (y YAMLImporter) Import(r io.Reader) (map[string]any, error) {
	var bindings map[string]any

	if err := yaml.NewDecoder(r).Decode(&bindings); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("could not decode YAML: %w", err)
	}

	if bindings == nil {
		bindings = make(map[string]any)
	}

	return bindings, nil
}
