package physics

import (
	"math"

	"github.com/matzehuels/topo/pkg/graph"
)

// =============================================================================
// Many-body
// =============================================================================

// ManyBody applies a pairwise force between all nodes. Negative strength
// repels. Every pair is summed directly.
type ManyBody struct {
	Strength    float64
	DistanceMin float64
	DistanceMax float64 // zero means unbounded

	nodes  []*graph.Node
	jiggle *Jiggle
}

// NewManyBody returns a repulsive many-body force with stock parameters.
func NewManyBody() *ManyBody {
	return &ManyBody{Strength: -30, DistanceMin: 1}
}

func (f *ManyBody) Initialize(nodes []*graph.Node, j *Jiggle) {
	f.nodes, f.jiggle = nodes, j
}

func (f *ManyBody) Apply(alpha float64) {
	min2 := f.DistanceMin * f.DistanceMin
	max2 := math.Inf(1)
	if f.DistanceMax > 0 {
		max2 = f.DistanceMax * f.DistanceMax
	}
	for i, ni := range f.nodes {
		for j, nj := range f.nodes {
			if i == j {
				continue
			}
			x, y := nj.X-ni.X, nj.Y-ni.Y
			l := x*x + y*y
			if l >= max2 {
				continue
			}
			if x == 0 {
				x = f.jiggle.Next()
				l += x * x
			}
			if y == 0 {
				y = f.jiggle.Next()
				l += y * y
			}
			if l < min2 {
				l = math.Sqrt(min2 * l)
			}
			w := f.Strength * alpha / l
			ni.VX += x * w
			ni.VY += y * w
		}
	}
}

// =============================================================================
// Link
// =============================================================================

// LinkForce pulls the endpoints of each link toward Distance apart. Each
// link's stiffness is the inverse of the smaller endpoint degree, and the
// correction is split between endpoints in proportion to degree so that hubs
// move less.
type LinkForce struct {
	Distance   float64
	Iterations int

	links     []*graph.Link
	active    []*graph.Link
	strengths []float64
	bias      []float64
	jiggle    *Jiggle
}

// NewLinkForce returns a link force over links with stock parameters.
func NewLinkForce(links []*graph.Link) *LinkForce {
	return &LinkForce{Distance: 30, Iterations: 1, links: links}
}

// Links returns the links the force was built over.
func (f *LinkForce) Links() []*graph.Link { return f.links }

// Initialize drops links whose endpoints are not in nodes so that the force
// never pulls on a node the simulation no longer integrates.
func (f *LinkForce) Initialize(nodes []*graph.Node, j *Jiggle) {
	f.jiggle = j
	live := make(map[*graph.Node]bool, len(nodes))
	for _, n := range nodes {
		live[n] = true
	}

	f.active = f.active[:0]
	count := make(map[*graph.Node]int)
	for _, l := range f.links {
		if !live[l.Source] || !live[l.Target] {
			continue
		}
		f.active = append(f.active, l)
		count[l.Source]++
		count[l.Target]++
	}

	f.strengths = make([]float64, len(f.active))
	f.bias = make([]float64, len(f.active))
	for i, l := range f.active {
		cs, ct := float64(count[l.Source]), float64(count[l.Target])
		f.strengths[i] = 1 / math.Min(cs, ct)
		f.bias[i] = cs / (cs + ct)
	}
}

func (f *LinkForce) Apply(alpha float64) {
	iters := max(f.Iterations, 1)
	for range iters {
		for i, l := range f.active {
			s, t := l.Source, l.Target
			x := t.X + t.VX - s.X - s.VX
			if x == 0 {
				x = f.jiggle.Next()
			}
			y := t.Y + t.VY - s.Y - s.VY
			if y == 0 {
				y = f.jiggle.Next()
			}
			d := math.Sqrt(x*x + y*y)
			d = (d - f.Distance) / d * alpha * f.strengths[i]
			x, y = x*d, y*d

			b := f.bias[i]
			t.VX -= x * b
			t.VY -= y * b
			s.VX += x * (1 - b)
			s.VY += y * (1 - b)
		}
	}
}

// =============================================================================
// Collide
// =============================================================================

// Collide treats nodes as circles and pushes overlapping pairs apart,
// relaxing Iterations times per tick. Heavier (larger) nodes move less.
type Collide struct {
	Radius     func(n *graph.Node) float64
	Strength   float64
	Iterations int

	nodes  []*graph.Node
	radii  []float64
	jiggle *Jiggle
}

// NewCollide returns a collision force using each node's radius plus margin.
func NewCollide(margin float64) *Collide {
	return &Collide{
		Radius:     func(n *graph.Node) float64 { return n.EffectiveRadius() + margin },
		Strength:   1,
		Iterations: 3,
	}
}

func (f *Collide) Initialize(nodes []*graph.Node, j *Jiggle) {
	f.nodes, f.jiggle = nodes, j
	f.radii = make([]float64, len(nodes))
	for i, n := range nodes {
		if f.Radius != nil {
			f.radii[i] = f.Radius(n)
		} else {
			f.radii[i] = 1
		}
	}
}

func (f *Collide) Apply(float64) {
	for range max(f.Iterations, 1) {
		for i, a := range f.nodes {
			ri := f.radii[i]
			ri2 := ri * ri
			xi, yi := a.X+a.VX, a.Y+a.VY
			for j := i + 1; j < len(f.nodes); j++ {
				b := f.nodes[j]
				rj := f.radii[j]
				r := ri + rj
				x, y := xi-b.X-b.VX, yi-b.Y-b.VY
				l := x*x + y*y
				if l >= r*r {
					continue
				}
				if x == 0 {
					x = f.jiggle.Next()
					l += x * x
				}
				if y == 0 {
					y = f.jiggle.Next()
					l += y * y
				}
				l = math.Sqrt(l)
				l = (r - l) / l * f.Strength
				x, y = x*l, y*l

				rj2 := rj * rj
				w := rj2 / (ri2 + rj2)
				a.VX += x * w
				a.VY += y * w
				b.VX -= x * (1 - w)
				b.VY -= y * (1 - w)
			}
		}
	}
}
