package io

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	topoerrors "github.com/matzehuels/topo/pkg/errors"
	"github.com/matzehuels/topo/pkg/graph"
)

// ReadJSON decodes a JSON seed from r. It does not close r.
func ReadJSON(r io.Reader) (graph.Data, error) {
	var s seed
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&s); err != nil {
		return graph.Data{}, topoerrors.Wrap(topoerrors.ErrCodeInvalidInput, err, "decode json")
	}
	return s.data()
}

// ReadYAML decodes a YAML seed from r. It does not close r.
func ReadYAML(r io.Reader) (graph.Data, error) {
	var s seed
	if err := yaml.NewDecoder(r).Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return graph.Data{}, topoerrors.Wrap(topoerrors.ErrCodeInvalidInput, err, "decode yaml")
	}
	return s.data()
}

// ReadTOML decodes a TOML seed from r. It does not close r.
func ReadTOML(r io.Reader) (graph.Data, error) {
	var s seed
	if _, err := toml.NewDecoder(r).Decode(&s); err != nil {
		return graph.Data{}, topoerrors.Wrap(topoerrors.ErrCodeInvalidInput, err, "decode toml")
	}
	return s.data()
}

// Read decodes a seed in the given format.
func Read(r io.Reader, format string) (graph.Data, error) {
	if err := topoerrors.ValidateFormat(format, Formats...); err != nil {
		return graph.Data{}, err
	}
	switch strings.ToLower(format) {
	case FormatYAML:
		return ReadYAML(r)
	case FormatTOML:
		return ReadTOML(r)
	default:
		return ReadJSON(r)
	}
}

// ReadBytes decodes an in-memory seed.
func ReadBytes(b []byte, format string) (graph.Data, error) {
	return Read(bytes.NewReader(b), format)
}

// Import reads the seed file at path, choosing the decoder from its
// extension.
func Import(path string) (graph.Data, error) {
	if err := topoerrors.ValidatePath(path); err != nil {
		return graph.Data{}, err
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return graph.Data{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return graph.Data{}, topoerrors.Wrap(topoerrors.ErrCodeFileNotFound, err, "seed file %s not found", path)
		}
		return graph.Data{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	d, err := Read(f, format)
	if err != nil {
		return graph.Data{}, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}
