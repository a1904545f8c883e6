package graph

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Visual defaults applied when a node or link leaves a style field at its
// zero value.
const (
	DefaultNodeRadius  = 5.0
	DefaultNodeColor   = "#000"
	DefaultNodeOpacity = 1.0
	DefaultLinkWidth   = 2.0
	DefaultLinkColor   = "#aaa"
	DefaultLinkOpacity = 1.0
)

// ID identifies a node.
type ID string

// maxExactFloatID is the largest integer a float64 holds exactly.
const maxExactFloatID = 1 << 53

// ParseID converts a decoded seed value into an ID. Strings are taken as-is;
// integral numbers become their decimal representation.
func ParseID(v any) (ID, error) {
	switch x := v.(type) {
	case ID:
		return x, nil
	case string:
		return ID(x), nil
	case int:
		return ID(strconv.Itoa(x)), nil
	case int64:
		return ID(strconv.FormatInt(x, 10)), nil
	case uint64:
		return ID(strconv.FormatUint(x, 10)), nil
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) {
			return "", fmt.Errorf("id %v is not an integer", x)
		}
		if math.Abs(x) > maxExactFloatID {
			return "", fmt.Errorf("id %v is out of range", x)
		}
		return ID(strconv.FormatInt(int64(x), 10)), nil
	case json.Number:
		if _, err := x.Int64(); err != nil {
			return "", fmt.Errorf("id %s is not an integer", x)
		}
		return ID(x.String()), nil
	case nil:
		return "", fmt.Errorf("id is missing")
	default:
		return "", fmt.Errorf("unsupported id type %T", v)
	}
}

// Element is the attribute view of a rendered primitive. Callers may style
// through it; they cannot remove or rebind the primitive.
type Element interface {
	Attr(name string) any
	SetAttr(name string, value any)
}

// Elements looks up the element bound to a live entity, or nil.
type Elements interface {
	NodeElement(n *Node) Element
	LinkElement(l *Link) Element
}

// Node is a vertex with simulation state and visual style.
//
// FX and FY pin the node when non-nil: the simulation holds it at that
// position and zeroes its velocity.
type Node struct {
	ID     ID
	X, Y   float64
	VX, VY float64
	FX, FY *float64

	Radius  float64
	Color   string
	Opacity float64

	// Per-node handlers take precedence over the engine-wide ones.
	OnClick       NodeHandler
	OnContextmenu NodeHandler

	el Element
}

// Pin fixes the node at (x, y).
func (n *Node) Pin(x, y float64) {
	n.FX, n.FY = &x, &y
}

// Unpin releases a pinned node.
func (n *Node) Unpin() {
	n.FX, n.FY = nil, nil
}

// Pinned reports whether the node is held in place.
func (n *Node) Pinned() bool {
	return n.FX != nil && n.FY != nil
}

// EffectiveRadius returns Radius, or DefaultNodeRadius when unset.
func (n *Node) EffectiveRadius() float64 {
	if n.Radius > 0 {
		return n.Radius
	}
	return DefaultNodeRadius
}

// EffectiveColor returns Color, or DefaultNodeColor when unset.
func (n *Node) EffectiveColor() string {
	if n.Color != "" {
		return n.Color
	}
	return DefaultNodeColor
}

// EffectiveOpacity returns Opacity, or DefaultNodeOpacity when unset.
func (n *Node) EffectiveOpacity() float64 {
	if n.Opacity > 0 {
		return n.Opacity
	}
	return DefaultNodeOpacity
}

// Element returns the primitive handle carried by a snapshot node. Nodes
// passed in by callers and nodes of an unrendered graph have none.
func (n *Node) Element() Element { return n.el }

// Clone returns a copy of n with its own pin coordinates and no element.
func (n *Node) Clone() *Node {
	c := *n
	c.el = nil
	if n.FX != nil {
		fx := *n.FX
		c.FX = &fx
	}
	if n.FY != nil {
		fy := *n.FY
		c.FY = &fy
	}
	return &c
}

// LinkStyle carries the visual attributes of a link. Zero fields fall back to
// the package defaults.
type LinkStyle struct {
	Width   float64
	Color   string
	Opacity float64
}

// Merge returns s with every non-zero field of o applied on top.
func (s LinkStyle) Merge(o LinkStyle) LinkStyle {
	if o.Width > 0 {
		s.Width = o.Width
	}
	if o.Color != "" {
		s.Color = o.Color
	}
	if o.Opacity > 0 {
		s.Opacity = o.Opacity
	}
	return s
}

// EffectiveWidth returns Width, or DefaultLinkWidth when unset.
func (s LinkStyle) EffectiveWidth() float64 {
	if s.Width > 0 {
		return s.Width
	}
	return DefaultLinkWidth
}

// EffectiveColor returns Color, or DefaultLinkColor when unset.
func (s LinkStyle) EffectiveColor() string {
	if s.Color != "" {
		return s.Color
	}
	return DefaultLinkColor
}

// EffectiveOpacity returns Opacity, or DefaultLinkOpacity when unset.
func (s LinkStyle) EffectiveOpacity() float64 {
	if s.Opacity > 0 {
		return s.Opacity
	}
	return DefaultLinkOpacity
}

// LinkSpec describes a link by endpoint ids, before resolution.
type LinkSpec struct {
	Source ID
	Target ID
	LinkStyle
}

// Link is an undirected edge between two nodes in the graph.
type Link struct {
	Source *Node
	Target *Node
	LinkStyle

	el Element
}

// Pair returns the endpoint ids of the link.
func (l *Link) Pair() Pair {
	return Pair{Source: l.Source.ID, Target: l.Target.ID}
}

// Element returns the primitive handle carried by a snapshot link.
func (l *Link) Element() Element { return l.el }

// Pair names a link by its endpoints. Order does not matter for lookup.
type Pair struct {
	Source ID
	Target ID
}

type pairKey struct{ a, b ID }

func (p Pair) key() pairKey {
	if p.Target < p.Source {
		return pairKey{p.Target, p.Source}
	}
	return pairKey{p.Source, p.Target}
}

// Button identifies the pointer button behind an event.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
)

func (b Button) String() string {
	switch b {
	case ButtonPrimary:
		return "primary"
	case ButtonSecondary:
		return "secondary"
	default:
		return "button(" + strconv.Itoa(int(b)) + ")"
	}
}

// PointerEvent is a pointer action in surface coordinates.
type PointerEvent struct {
	X, Y   float64
	Button Button
}

// Snapshot is a point-in-time view of the graph handed to callbacks. Nodes
// and links are detached copies: changing them leaves the graph alone. Their
// elements still address the live primitives.
type Snapshot struct {
	Nodes []*Node
	Links []*Link
}

// Node returns the snapshot node with the given id, or nil.
func (s Snapshot) Node(id ID) *Node {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// BackgroundHandler handles a pointer event on empty surface.
type BackgroundHandler func(ev PointerEvent, s Snapshot)

// NodeHandler handles a pointer event on a node.
type NodeHandler func(ev PointerEvent, n *Node, s Snapshot)

// Releaser is notified when the graph drops an entity.
type Releaser interface {
	ReleaseNode(n *Node)
	ReleaseLink(l *Link)
}

// Data is a batch of nodes and links to insert, typically decoded from a
// seed file.
type Data struct {
	Nodes []Node
	Links []LinkSpec
}
