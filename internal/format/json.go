package format

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONExporter is an [Exporter] that writes values as indented JSON documents.
type JSONExporter struct{}

// Export implements [Exporter] for [JSONExporter] and exports the given value
// as a complete JSON document.
func (j JSONExporter) Export(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	return encoder.Encode(value)
}

// JSONImporter is an [Importer] that decodes a JSON object into root bindings.
//
// Whole numbers decode as int64 rather than float64 so they render without
// a fractional part.
type JSONImporter struct{}

// Import implements [Importer] for [JSONImporter].
func (j JSONImporter) Import(r io.Reader) (map[string]any, error) {
	var bindings map[string]any

	decoder := json.NewDecoder(r)
	decoder.UseNumber()

	if err := decoder.Decode(&bindings); err != nil {
		return nil, fmt.Errorf("could not decode JSON: %w", err)
	}

	if bindings == nil {
		bindings = make(map[string]any)
	}

	for key, value := range bindings {
		bindings[key] = fromJSON(value)
	}

	return bindings, nil
}

// fromJSON replaces every [json.Number] under value with an int64 or a float64.
func fromJSON(value any) any {
	switch value := value.(type) {
	case json.Number:
		if n, err := value.Int64(); err == nil {
			return n
		}

		f, err := value.Float64()
		if err != nil {
			return value.String()
		}

		return f
	case map[string]any:
		for key, item := range value {
			value[key] = fromJSON(item)
		}

		return value
	case []any:
		for i, item := range value {
			value[i] = fromJSON(item)
		}

		return value
	default:
		return value
	}
}
