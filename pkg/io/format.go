package io

import (
	"math"
	"path/filepath"
	"strings"

	topoerrors "github.com/matzehuels/topo/pkg/errors"
	"github.com/matzehuels/topo/pkg/graph"
)

// Seed formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// Formats lists the accepted seed formats.
var Formats = []string{FormatJSON, FormatYAML, FormatTOML}

// Extensions lists the seed file extensions FormatFromPath recognizes,
// without the leading dot.
var Extensions = []string{"json", "yaml", "yml", "toml"}

// FormatFromPath infers the seed format from a file extension.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", topoerrors.New(topoerrors.ErrCodeInvalidFormat,
			"cannot infer seed format from %q (want .json, .yaml, .yml or .toml)", filepath.Base(path))
	}
}

type seed struct {
	Nodes []nodeRecord `json:"nodes" yaml:"nodes" toml:"nodes"`
	Links []linkRecord `json:"links" yaml:"links" toml:"links"`
}

type nodeRecord struct {
	ID      any      `json:"id" yaml:"id" toml:"id"`
	X       float64  `json:"x" yaml:"x" toml:"x"`
	Y       float64  `json:"y" yaml:"y" toml:"y"`
	FX      *float64 `json:"fx,omitempty" yaml:"fx,omitempty" toml:"fx,omitempty"`
	FY      *float64 `json:"fy,omitempty" yaml:"fy,omitempty" toml:"fy,omitempty"`
	Radius  float64  `json:"radius,omitempty" yaml:"radius,omitempty" toml:"radius,omitempty"`
	Color   string   `json:"color,omitempty" yaml:"color,omitempty" toml:"color,omitempty"`
	Opacity float64  `json:"opacity,omitempty" yaml:"opacity,omitempty" toml:"opacity,omitempty"`
}

type linkRecord struct {
	Source  any     `json:"source" yaml:"source" toml:"source"`
	Target  any     `json:"target" yaml:"target" toml:"target"`
	Width   float64 `json:"width,omitempty" yaml:"width,omitempty" toml:"width,omitempty"`
	Color   string  `json:"color,omitempty" yaml:"color,omitempty" toml:"color,omitempty"`
	Opacity float64 `json:"opacity,omitempty" yaml:"opacity,omitempty" toml:"opacity,omitempty"`
}

func (s seed) data() (graph.Data, error) {
	d := graph.Data{
		Nodes: make([]graph.Node, 0, len(s.Nodes)),
		Links: make([]graph.LinkSpec, 0, len(s.Links)),
	}
	for i, r := range s.Nodes {
		id, err := graph.ParseID(r.ID)
		if err != nil {
			return graph.Data{}, topoerrors.Wrap(topoerrors.ErrCodeInvalidInput, err, "node %d", i)
		}
		d.Nodes = append(d.Nodes, graph.Node{
			ID: id, X: r.X, Y: r.Y, FX: r.FX, FY: r.FY,
			Radius: r.Radius, Color: r.Color, Opacity: r.Opacity,
		})
	}
	for i, r := range s.Links {
		src, err := graph.ParseID(r.Source)
		if err != nil {
			return graph.Data{}, topoerrors.Wrap(topoerrors.ErrCodeInvalidInput, err, "link %d source", i)
		}
		dst, err := graph.ParseID(r.Target)
		if err != nil {
			return graph.Data{}, topoerrors.Wrap(topoerrors.ErrCodeInvalidInput, err, "link %d target", i)
		}
		d.Links = append(d.Links, graph.LinkSpec{
			Source: src, Target: dst,
			LinkStyle: graph.LinkStyle{Width: r.Width, Color: r.Color, Opacity: r.Opacity},
		})
	}
	return d, nil
}

func fromSnapshot(s graph.Snapshot) seed {
	out := seed{
		Nodes: make([]nodeRecord, len(s.Nodes)),
		Links: make([]linkRecord, len(s.Links)),
	}
	for i, n := range s.Nodes {
		out.Nodes[i] = nodeRecord{
			ID: string(n.ID), X: round2(n.X), Y: round2(n.Y), FX: n.FX, FY: n.FY,
			Radius: n.Radius, Color: n.Color, Opacity: n.Opacity,
		}
	}
	for i, l := range s.Links {
		out.Links[i] = linkRecord{
			Source: string(l.Source.ID), Target: string(l.Target.ID),
			Width: l.Width, Color: l.Color, Opacity: l.Opacity,
		}
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
