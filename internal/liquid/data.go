package liquid

import (
	"fmt"
	"os"

	"go.followtheprocess.codes/liquid/internal/format"
)

// loadData reads the data file at path into a set of root bindings, the format is
// chosen by the file extension.
//
// An empty path gives empty bindings.
func loadData(path string) (map[string]any, error) {
	if path == "" {
		return make(map[string]any), nil
	}

	importer, err := format.ImporterFor(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open data file: %w", err)
	}
	defer file.Close()

	bindings, err := importer.Import(file)
	if err != nil {
		return nil, fmt.Errorf("could not load data from %s: %w", path, err)
	}

	return bindings, nil
}
