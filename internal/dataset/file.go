package dataset

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadFile reads a Dataset from a JSON file using the API field names.
func LoadFile(path string) (*Dataset, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read dataset file %s: %w", path, err)
	}
	var ds Dataset
	if err := json.Unmarshal(content, &ds); err != nil {
		return nil, fmt.Errorf("could not parse dataset file %s: %w", path, err)
	}
	return &ds, nil
}

// WriteFile stores ds as indented JSON, e.g. to export the built-in fixtures.
func WriteFile(path string, ds *Dataset) error {
	content, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return fmt.Errorf("could not encode dataset: %w", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("could not write dataset file %s: %w", path, err)
	}
	return nil
}
