package scene

import (
	"slices"
	"strconv"

	"github.com/matzehuels/topo/pkg/graph"
)

// Kind is the shape of a primitive.
type Kind int

const (
	KindCircle Kind = iota
	KindLine
)

func (k Kind) String() string {
	switch k {
	case KindCircle:
		return "circle"
	case KindLine:
		return "line"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Layer orders primitives on a surface. Higher layers paint on top.
type Layer int

const (
	LayerLinks Layer = iota
	LayerNodes
	numLayers
)

// ClassName returns the group class used when the layer is serialized.
func (l Layer) ClassName() string {
	switch l {
	case LayerLinks:
		return "links"
	case LayerNodes:
		return "nodes"
	default:
		return "layer-" + strconv.Itoa(int(l))
	}
}

// Layers returns every layer in paint order.
func Layers() []Layer { return []Layer{LayerLinks, LayerNodes} }

// Attr is one named attribute of a primitive.
type Attr struct {
	Name  string
	Value any
}

// Primitive is a retained shape on a surface.
type Primitive interface {
	graph.Element
	Kind() Kind
	Layer() Layer
	// Attrs returns the attributes in the order they were first set.
	Attrs() []Attr
	// Remove detaches the primitive from its surface. It is idempotent.
	Remove()
	Removed() bool
}

// Surface is the drawing target the engine renders into.
type Surface interface {
	Width() float64
	Height() float64
	// Append creates a primitive on top of the given layer.
	Append(layer Layer, kind Kind) Primitive
	// Primitives returns the live primitives of a layer in paint order.
	Primitives(layer Layer) []Primitive
}

// Canvas is an in-memory [Surface].
type Canvas struct {
	width, height float64
	layers        [numLayers][]*shape
}

// NewCanvas returns an empty canvas of the given size.
func NewCanvas(width, height float64) *Canvas {
	return &Canvas{width: width, height: height}
}

func (c *Canvas) Width() float64  { return c.width }
func (c *Canvas) Height() float64 { return c.height }

func (c *Canvas) Append(layer Layer, kind Kind) Primitive {
	if layer < 0 || layer >= numLayers {
		layer = LayerNodes
	}
	s := &shape{canvas: c, kind: kind, layer: layer, values: make(map[string]any)}
	c.layers[layer] = append(c.layers[layer], s)
	return s
}

func (c *Canvas) Primitives(layer Layer) []Primitive {
	if layer < 0 || layer >= numLayers {
		return nil
	}
	out := make([]Primitive, len(c.layers[layer]))
	for i, s := range c.layers[layer] {
		out[i] = s
	}
	return out
}

// Len returns the number of live primitives across all layers.
func (c *Canvas) Len() int {
	n := 0
	for _, l := range c.layers {
		n += len(l)
	}
	return n
}

// Clear removes every primitive.
func (c *Canvas) Clear() {
	for i := range c.layers {
		for _, s := range c.layers[i] {
			s.removed = true
		}
		c.layers[i] = nil
	}
}

type shape struct {
	canvas  *Canvas
	kind    Kind
	layer   Layer
	names   []string
	values  map[string]any
	removed bool
}

func (s *shape) Kind() Kind   { return s.kind }
func (s *shape) Layer() Layer { return s.layer }

func (s *shape) Attr(name string) any { return s.values[name] }

func (s *shape) SetAttr(name string, value any) {
	if _, ok := s.values[name]; !ok {
		s.names = append(s.names, name)
	}
	s.values[name] = value
}

func (s *shape) Attrs() []Attr {
	out := make([]Attr, len(s.names))
	for i, n := range s.names {
		out[i] = Attr{Name: n, Value: s.values[n]}
	}
	return out
}

func (s *shape) Remove() {
	if s.removed {
		return
	}
	s.removed = true
	l := s.canvas.layers[s.layer]
	if i := slices.Index(l, s); i >= 0 {
		s.canvas.layers[s.layer] = slices.Delete(l, i, i+1)
	}
}

func (s *shape) Removed() bool { return s.removed }

// Float reads a numeric attribute. Strings are parsed.
func Float(p graph.Element, name string) (float64, bool) {
	if p == nil {
		return 0, false
	}
	switch v := p.Attr(name).(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// String reads a string attribute.
func String(p graph.Element, name string) string {
	if p == nil {
		return ""
	}
	switch v := p.Attr(name).(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return formatValue(v)
	}
}
