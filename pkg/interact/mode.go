package interact

import (
	"github.com/matzehuels/topo/pkg/graph"
	"github.com/matzehuels/topo/pkg/scene"
)

// Mode is the gesture state of a controller.
type Mode int

const (
	ModeNormal Mode = iota
	ModeDrawingLink
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeDrawingLink:
		return "drawingLink"
	default:
		return "unknown"
	}
}

type state interface {
	mode() Mode
}

type normal struct{}

func (normal) mode() Mode { return ModeNormal }

// drawing is the pending link of an unfinished link-draw gesture.
type drawing struct {
	source graph.ID
	style  graph.LinkStyle
	line   scene.Primitive
}

func (*drawing) mode() Mode { return ModeDrawingLink }
