package scene

import (
	"math"

	topoerrors "github.com/matzehuels/topo/pkg/errors"
	"github.com/matzehuels/topo/pkg/graph"
)

// Class name prefixes for node and link primitives.
const (
	NodeClassPrefix = "node"
	LinkClassPrefix = "link"
)

// Temporary link style used while a link is being drawn.
const (
	TempLinkColor     = "red"
	TempLinkWidth     = 2.0
	TempLinkDashArray = "7, 5"
)

// NodeClass returns the class attribute of a node primitive.
func NodeClass(id graph.ID) string {
	return NodeClassPrefix + "-" + string(id)
}

// LinkClass returns the class attribute of a link primitive.
func LinkClass(p graph.Pair) string {
	return LinkClassPrefix + "-" + string(p.Source) + "-" + string(p.Target)
}

// Synchronizer binds graph entities to primitives on a surface. The binding
// lives only in its tables; entities reach their primitive through
// [Synchronizer.NodeElement] and [Synchronizer.LinkElement].
// It implements [graph.Releaser] and [graph.Elements].
type Synchronizer struct {
	surface Surface
	nodes   map[*graph.Node]Primitive
	links   map[*graph.Link]Primitive
	temps   map[Primitive]bool
}

// NewSynchronizer returns a synchronizer drawing onto s.
func NewSynchronizer(s Surface) *Synchronizer {
	return &Synchronizer{
		surface: s,
		nodes:   make(map[*graph.Node]Primitive),
		links:   make(map[*graph.Link]Primitive),
		temps:   make(map[Primitive]bool),
	}
}

// Surface returns the drawing target.
func (s *Synchronizer) Surface() Surface { return s.surface }

// BindNode creates the circle for n, clamped to the surface.
func (s *Synchronizer) BindNode(n *graph.Node) Primitive {
	p := s.surface.Append(LayerNodes, KindCircle)
	x, y := ClampPoint(n.X, n.Y, s.surface.Width(), s.surface.Height())
	p.SetAttr("class", NodeClass(n.ID))
	p.SetAttr("cx", x)
	p.SetAttr("cy", y)
	p.SetAttr("r", n.EffectiveRadius())
	p.SetAttr("fill", n.EffectiveColor())
	p.SetAttr("opacity", n.EffectiveOpacity())
	s.nodes[n] = p
	return p
}

// BindLink creates the line for l.
func (s *Synchronizer) BindLink(l *graph.Link) Primitive {
	p := s.surface.Append(LayerLinks, KindLine)
	p.SetAttr("class", LinkClass(l.Pair()))
	p.SetAttr("x1", l.Source.X)
	p.SetAttr("y1", l.Source.Y)
	p.SetAttr("x2", l.Target.X)
	p.SetAttr("y2", l.Target.Y)
	p.SetAttr("stroke-width", l.EffectiveWidth())
	p.SetAttr("stroke", l.EffectiveColor())
	p.SetAttr("opacity", l.EffectiveOpacity())
	s.links[l] = p
	return p
}

// ReleaseNode removes the circle bound to n.
func (s *Synchronizer) ReleaseNode(n *graph.Node) {
	if p, ok := s.nodes[n]; ok {
		p.Remove()
		delete(s.nodes, n)
	}
}

// ReleaseLink removes the line bound to l.
func (s *Synchronizer) ReleaseLink(l *graph.Link) {
	if p, ok := s.links[l]; ok {
		p.Remove()
		delete(s.links, l)
	}
}

// NodeElement returns the attribute view of the circle bound to n, or nil.
func (s *Synchronizer) NodeElement(n *graph.Node) graph.Element {
	if p, ok := s.nodes[n]; ok {
		return attrs{p}
	}
	return nil
}

// LinkElement returns the attribute view of the line bound to l, or nil.
func (s *Synchronizer) LinkElement(l *graph.Link) graph.Element {
	if p, ok := s.links[l]; ok {
		return attrs{p}
	}
	return nil
}

// attrs exposes only the attributes of a primitive.
type attrs struct{ p Primitive }

func (a attrs) Attr(name string) any          { return a.p.Attr(name) }
func (a attrs) SetAttr(name string, value any) { a.p.SetAttr(name, value) }

// Sync writes current positions into the bound primitives. Node circles are
// clamped to the surface bounds; the simulated coordinates are left alone.
// Link endpoints follow the simulated coordinates.
func (s *Synchronizer) Sync(nodes []*graph.Node, links []*graph.Link) {
	w, h := s.surface.Width(), s.surface.Height()
	for _, n := range nodes {
		p, ok := s.nodes[n]
		if !ok {
			continue
		}
		x, y := ClampPoint(n.X, n.Y, w, h)
		p.SetAttr("cx", x)
		p.SetAttr("cy", y)
	}
	for _, l := range links {
		p, ok := s.links[l]
		if !ok {
			continue
		}
		p.SetAttr("x1", l.Source.X)
		p.SetAttr("y1", l.Source.Y)
		p.SetAttr("x2", l.Target.X)
		p.SetAttr("y2", l.Target.Y)
	}
}

// ClampPoint limits (x, y) to [0,w]×[0,h].
func ClampPoint(x, y, w, h float64) (float64, float64) {
	return clamp(x, 0, w), clamp(y, 0, h)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// NodeAt returns the topmost node whose rendered circle contains (x, y).
// nodes must be in paint order.
func (s *Synchronizer) NodeAt(nodes []*graph.Node, x, y float64) *graph.Node {
	for i := len(nodes) - 1; i >= 0; i-- {
		p, ok := s.nodes[nodes[i]]
		if !ok {
			continue
		}
		cx, _ := Float(p, "cx")
		cy, _ := Float(p, "cy")
		r, ok := Float(p, "r")
		if !ok {
			r = graph.DefaultNodeRadius
		}
		if hitCircle(x, y, cx, cy, r) {
			return nodes[i]
		}
	}
	return nil
}

func hitCircle(x, y, cx, cy, r float64) bool {
	dx, dy := x-cx, y-cy
	return dx*dx+dy*dy <= r*r
}

// NewTempLine draws the dashed line shown while a link is being drawn,
// anchored at (x, y) at both ends.
func (s *Synchronizer) NewTempLine(x, y float64) Primitive {
	p := s.surface.Append(LayerLinks, KindLine)
	p.SetAttr("x1", x)
	p.SetAttr("y1", y)
	p.SetAttr("x2", x)
	p.SetAttr("y2", y)
	p.SetAttr("stroke-width", TempLinkWidth)
	p.SetAttr("stroke", TempLinkColor)
	p.SetAttr("stroke-dasharray", TempLinkDashArray)
	s.temps[p] = true
	return p
}

// ReleaseTemp removes a primitive created by NewTempLine.
func (s *Synchronizer) ReleaseTemp(p Primitive) {
	if p == nil {
		return
	}
	p.Remove()
	delete(s.temps, p)
}

// Clear removes every primitive the synchronizer owns.
func (s *Synchronizer) Clear() {
	for _, p := range s.links {
		p.Remove()
	}
	for _, p := range s.nodes {
		p.Remove()
	}
	for p := range s.temps {
		p.Remove()
	}
	clear(s.links)
	clear(s.nodes)
	clear(s.temps)
}

// Verify checks that every entity has exactly one live primitive and that
// the surface holds no primitive without an entity.
func (s *Synchronizer) Verify(nodes []*graph.Node, links []*graph.Link) error {
	if len(nodes) != len(s.nodes) {
		return topoerrors.New(topoerrors.ErrCodeInternal,
			"primitive table holds %d nodes, graph holds %d", len(s.nodes), len(nodes))
	}
	if len(links) != len(s.links) {
		return topoerrors.New(topoerrors.ErrCodeInternal,
			"primitive table holds %d links, graph holds %d", len(s.links), len(links))
	}

	owned := make(map[Primitive]bool, len(nodes)+len(links)+len(s.temps))
	for _, n := range nodes {
		p, ok := s.nodes[n]
		if !ok || p.Removed() {
			return topoerrors.New(topoerrors.ErrCodeInternal, "node(id: %s) has no primitive", n.ID)
		}
		owned[p] = true
	}
	for _, l := range links {
		p, ok := s.links[l]
		if !ok || p.Removed() {
			return topoerrors.New(topoerrors.ErrCodeInternal,
				"link(source: %s, target: %s) has no primitive", l.Source.ID, l.Target.ID)
		}
		owned[p] = true
	}
	for p := range s.temps {
		owned[p] = true
	}

	for _, layer := range Layers() {
		for _, p := range s.surface.Primitives(layer) {
			if !owned[p] {
				return topoerrors.New(topoerrors.ErrCodeInternal,
					"orphaned %s primitive (class %q) on layer %s", p.Kind(), String(p, "class"), layer.ClassName())
			}
		}
	}
	return nil
}
