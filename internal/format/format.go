// Package format provides mechanisms for loading template data into root bindings and
// for writing rendered values back out in a structured format.
//
// Notably, the package provides the [Importer] and [Exporter] interfaces for doing this
// in a format-agnostic way, along with the built in JSON, YAML and TOML implementations.
package format

import (
	"fmt"
	"io"
	"path/filepath"
)

// Exporter is the interface defining a mechanism for writing a rendered value
// in an external format.
type Exporter interface {
	// Export writes value to w in the exporter's format.
	Export(w io.Writer, value any) error
}

// Importer is the interface defining a mechanism for importing template data
// from an external format.
type Importer interface {
	// Import decodes the document read from r into a set of root bindings.
	Import(r io.Reader) (map[string]any, error)
}

// ImporterFor returns the [Importer] for the data file at path, chosen
// by its extension.
func ImporterFor(path string) (Importer, error) {
	switch ext := filepath.Ext(path); ext {
	case ".json":
		return JSONImporter{}, nil
	case ".yaml", ".yml":
		return YAMLImporter{}, nil
	case ".toml":
		return TOMLImporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported data format %q, expected .json, .yaml, .yml or .toml", ext)
	}
}

// ExporterFor returns the named [Exporter], one of "yaml" or "json".
func ExporterFor(name string) (Exporter, error) {
	switch name {
	case "yaml", "":
		return YAMLExporter{}, nil
	case "json":
		return JSONExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q, expected yaml or json", name)
	}
}
