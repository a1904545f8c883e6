package physics

import (
	"math"
	"slices"

	"github.com/matzehuels/topo/pkg/graph"
)

// Force contributes to node velocities on every tick.
type Force interface {
	// Initialize binds the force to the current node set. It is called
	// whenever the node set or the force itself is replaced.
	Initialize(nodes []*graph.Node, j *Jiggle)
	// Apply adds velocity for one tick at the given alpha.
	Apply(alpha float64)
}

// Options tunes the cooling schedule.
type Options struct {
	// AlphaMin is the activity level below which the simulation goes idle.
	AlphaMin float64
	// AlphaDecay is the fraction of the distance to the target covered per
	// tick. Zero derives it from AlphaMin for a 300 tick cool-down.
	AlphaDecay float64
	// VelocityDecay is the friction applied to velocities per tick.
	VelocityDecay float64
	// Seed drives the jiggle source.
	Seed int64
}

// DefaultOptions returns the stock cooling schedule.
func DefaultOptions() Options {
	return Options{
		AlphaMin:      0.001,
		VelocityDecay: 0.4,
	}
}

type namedForce struct {
	name  string
	force Force
}

// Simulation integrates node velocities under alpha cooling.
// It is not safe for concurrent use.
type Simulation struct {
	nodes  []*graph.Node
	forces []namedForce

	alpha         float64
	alphaMin      float64
	alphaDecay    float64
	alphaTarget   float64
	velocityDecay float64

	active bool
	ticks  int
	jiggle *Jiggle
	onTick func()
	onEnd  func()
}

// New returns an active simulation with no nodes and no forces.
func New(opts Options) *Simulation {
	if opts.AlphaMin <= 0 {
		opts.AlphaMin = DefaultOptions().AlphaMin
	}
	if opts.AlphaDecay <= 0 {
		opts.AlphaDecay = 1 - math.Pow(opts.AlphaMin, 1.0/300)
	}
	if opts.VelocityDecay <= 0 || opts.VelocityDecay >= 1 {
		opts.VelocityDecay = DefaultOptions().VelocityDecay
	}
	return &Simulation{
		alpha:         1,
		alphaMin:      opts.AlphaMin,
		alphaDecay:    opts.AlphaDecay,
		velocityDecay: 1 - opts.VelocityDecay,
		active:        true,
		jiggle:        NewJiggle(opts.Seed),
	}
}

// SetNodes replaces the node set and re-initializes every force against it.
func (s *Simulation) SetNodes(nodes []*graph.Node) {
	s.nodes = slices.Clone(nodes)
	for _, f := range s.forces {
		f.force.Initialize(s.nodes, s.jiggle)
	}
}

// Nodes returns the node set the simulation integrates.
func (s *Simulation) Nodes() []*graph.Node { return slices.Clone(s.nodes) }

// SetForce registers f under name, replacing any force with that name in
// place. A nil force removes the entry. Forces apply in registration order.
func (s *Simulation) SetForce(name string, f Force) {
	i := slices.IndexFunc(s.forces, func(nf namedForce) bool { return nf.name == name })
	if f == nil {
		if i >= 0 {
			s.forces = slices.Delete(s.forces, i, i+1)
		}
		return
	}
	f.Initialize(s.nodes, s.jiggle)
	if i >= 0 {
		s.forces[i].force = f
		return
	}
	s.forces = append(s.forces, namedForce{name: name, force: f})
}

// Force returns the force registered under name.
func (s *Simulation) Force(name string) (Force, bool) {
	for _, nf := range s.forces {
		if nf.name == name {
			return nf.force, true
		}
	}
	return nil, false
}

// OnTick sets the callback fired after every Step that advanced the layout.
func (s *Simulation) OnTick(fn func()) { s.onTick = fn }

// OnEnd sets the callback fired when the simulation cools below AlphaMin.
func (s *Simulation) OnEnd(fn func()) { s.onEnd = fn }

// Tick advances the layout n times without firing callbacks or touching the
// active flag.
func (s *Simulation) Tick(n int) {
	for range n {
		s.alpha += (s.alphaTarget - s.alpha) * s.alphaDecay
		for _, f := range s.forces {
			f.force.Apply(s.alpha)
		}
		for _, node := range s.nodes {
			integrate(node, s.velocityDecay)
		}
		s.ticks++
	}
}

func integrate(n *graph.Node, decay float64) {
	if n.FX == nil {
		n.VX *= decay
		n.X += n.VX
	} else {
		n.X = *n.FX
		n.VX = 0
	}
	if n.FY == nil {
		n.VY *= decay
		n.Y += n.VY
	} else {
		n.Y = *n.FY
		n.VY = 0
	}
}

// Step is the per-frame entry point. When active it ticks once, fires the
// tick callback and goes idle if alpha fell below AlphaMin. It reports
// whether a tick happened.
func (s *Simulation) Step() bool {
	if !s.active {
		return false
	}
	s.Tick(1)
	if s.onTick != nil {
		s.onTick()
	}
	if s.alpha < s.alphaMin {
		s.active = false
		if s.onEnd != nil {
			s.onEnd()
		}
	}
	return true
}

// Restart resumes stepping without resetting alpha.
func (s *Simulation) Restart() { s.active = true }

// Stop halts stepping.
func (s *Simulation) Stop() { s.active = false }

// Active reports whether Step will advance the layout.
func (s *Simulation) Active() bool { return s.active }

// Alpha returns the current activity level.
func (s *Simulation) Alpha() float64 { return s.alpha }

// SetAlpha sets the activity level, clamped to [0,1].
func (s *Simulation) SetAlpha(a float64) { s.alpha = clamp01(a) }

// AlphaTarget returns the level alpha decays toward.
func (s *Simulation) AlphaTarget() float64 { return s.alphaTarget }

// SetAlphaTarget sets the level alpha decays toward, clamped to [0,1].
func (s *Simulation) SetAlphaTarget(a float64) { s.alphaTarget = clamp01(a) }

// AlphaMin returns the idle threshold.
func (s *Simulation) AlphaMin() float64 { return s.alphaMin }

// Ticks returns the number of ticks run so far.
func (s *Simulation) Ticks() int { return s.ticks }

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
