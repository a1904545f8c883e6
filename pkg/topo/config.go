package topo

import (
	"github.com/charmbracelet/log"

	topoerrors "github.com/matzehuels/topo/pkg/errors"
	"github.com/matzehuels/topo/pkg/graph"
	"github.com/matzehuels/topo/pkg/interact"
	"github.com/matzehuels/topo/pkg/scene"
)

// Config is supplied once to [New].
type Config struct {
	// Root names the mount target. It labels the engine in logs.
	Root   string
	Width  float64 `validate:"gt=0"`
	Height float64 `validate:"gt=0"`

	// Background handlers.
	OnClick       graph.BackgroundHandler
	OnContextmenu graph.BackgroundHandler
	// Node handlers, overridden by handlers set on an individual node.
	NodeOnClick       graph.NodeHandler
	NodeOnContextmenu graph.NodeHandler
	// OnReject receives failures of links completed by the draw gesture.
	OnReject func(spec graph.LinkSpec, err error)
	// OnModeChange fires on every interaction mode transition.
	OnModeChange func(from, to interact.Mode)

	// Surface is the drawing target. Nil selects an in-memory canvas of
	// Width×Height.
	Surface scene.Surface `validate:"-"`
	Logger  *log.Logger   `validate:"-"`

	Physics Physics
}

// Physics tunes the simulation and the drag gesture. Zero fields select the
// defaults from [DefaultPhysics].
type Physics struct {
	ChargeStrength    float64 `validate:"lte=0"`
	LinkDistance      float64 `validate:"gte=0"`
	CollideMargin     float64 `validate:"gte=0"`
	CollideIterations int     `validate:"gte=0,lte=16"`
	VelocityDecay     float64 `validate:"gte=0,lt=1"`
	AlphaMin          float64 `validate:"gte=0,lt=1"`
	DragAlphaTarget   float64 `validate:"gte=0,lte=1"`
	// ReheatAlpha is the activity a structural mutation raises alpha to.
	ReheatAlpha float64 `validate:"gte=0,lte=1"`
	// DeadZone is the pointer travel before a press becomes a drag.
	DeadZone float64 `validate:"gte=0"`
	Seed     int64
}

// DefaultPhysics returns the stock tuning.
func DefaultPhysics() Physics {
	return Physics{
		ChargeStrength:    -30,
		LinkDistance:      30,
		CollideMargin:     1,
		CollideIterations: 3,
		VelocityDecay:     0.4,
		AlphaMin:          0.001,
		DragAlphaTarget:   interact.DefaultDragAlphaTarget,
		ReheatAlpha:       0.3,
	}
}

func (p Physics) withDefaults() Physics {
	d := DefaultPhysics()
	if p.ChargeStrength == 0 {
		p.ChargeStrength = d.ChargeStrength
	}
	if p.LinkDistance == 0 {
		p.LinkDistance = d.LinkDistance
	}
	if p.CollideMargin == 0 {
		p.CollideMargin = d.CollideMargin
	}
	if p.CollideIterations == 0 {
		p.CollideIterations = d.CollideIterations
	}
	if p.VelocityDecay == 0 {
		p.VelocityDecay = d.VelocityDecay
	}
	if p.AlphaMin == 0 {
		p.AlphaMin = d.AlphaMin
	}
	if p.DragAlphaTarget == 0 {
		p.DragAlphaTarget = d.DragAlphaTarget
	}
	if p.ReheatAlpha == 0 {
		p.ReheatAlpha = d.ReheatAlpha
	}
	return p
}

// Validate checks the configuration. A supplied Surface must match Width
// and Height, since rendered positions are clamped to those bounds.
func (c Config) Validate() error {
	if err := topoerrors.ValidateStruct(c); err != nil {
		return err
	}
	if c.Surface != nil && (c.Surface.Width() != c.Width || c.Surface.Height() != c.Height) {
		return topoerrors.New(topoerrors.ErrCodeInvalidInput,
			"surface is %gx%g, config asks for %gx%g", c.Surface.Width(), c.Surface.Height(), c.Width, c.Height)
	}
	return nil
}
