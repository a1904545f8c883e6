package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/topo/pkg/graph"
)

// WriteJSON encodes s in the seed format with current positions.
// The output can be re-imported with [ReadJSON].
func WriteJSON(s graph.Snapshot, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(fromSnapshot(s)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteYAML encodes s as a YAML seed.
func WriteYAML(s graph.Snapshot, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(fromSnapshot(s)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return enc.Close()
}

// ExportJSON writes s to a JSON file at path.
func ExportJSON(s graph.Snapshot, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(s, f)
}
