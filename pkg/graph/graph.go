package graph

import (
	"slices"

	topoerrors "github.com/matzehuels/topo/pkg/errors"
)

// Graph is the authoritative node/link store. It is not safe for concurrent
// use; the engine drives it from a single control thread.
type Graph struct {
	nodes []*Node
	byID  map[ID]*Node
	links []*Link
	pairs map[pairKey]*Link
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		byID:  make(map[ID]*Node),
		pairs: make(map[pairKey]*Link),
	}
}

// InsertNode stores n. It fails with DUPLICATE_ID when a node with the same
// id is already present.
func (g *Graph) InsertNode(n *Node) error {
	if n == nil {
		return topoerrors.New(topoerrors.ErrCodeInvalidInput, "node is nil")
	}
	if _, ok := g.byID[n.ID]; ok {
		return topoerrors.New(topoerrors.ErrCodeDuplicateID, "node(id: %s) duplicated", n.ID)
	}
	g.byID[n.ID] = n
	g.nodes = append(g.nodes, n)
	return nil
}

// InsertLink resolves spec against the node set and stores the resulting
// link. Rules are checked in order: self-loop, duplicate pair, unresolved
// endpoint.
func (g *Graph) InsertLink(spec LinkSpec) (*Link, error) {
	if spec.Source == spec.Target {
		return nil, topoerrors.New(topoerrors.ErrCodeSelfLoop,
			"link(source: %s, target: %s) source can't equal to target", spec.Source, spec.Target)
	}
	k := Pair{Source: spec.Source, Target: spec.Target}.key()
	if _, ok := g.pairs[k]; ok {
		return nil, topoerrors.New(topoerrors.ErrCodeDuplicateLink,
			"link(source: %s, target: %s) duplicated", spec.Source, spec.Target)
	}
	src, okS := g.byID[spec.Source]
	dst, okT := g.byID[spec.Target]
	if !okS || !okT {
		return nil, topoerrors.New(topoerrors.ErrCodeUnresolvedEndpoint,
			"can not find link's source or target (source: %s, target: %s)", spec.Source, spec.Target)
	}

	l := &Link{Source: src, Target: dst, LinkStyle: spec.LinkStyle}
	g.pairs[k] = l
	g.links = append(g.links, l)
	return l, nil
}

// RemoveNodes drops every listed node together with its incident links.
// Absent ids are ignored. r, when non-nil, sees each link and node before it
// leaves the graph. It returns the number of nodes removed.
func (g *Graph) RemoveNodes(ids []ID, r Releaser) int {
	doomed := make(map[ID]bool, len(ids))
	for _, id := range ids {
		if _, ok := g.byID[id]; ok {
			doomed[id] = true
		}
	}
	if len(doomed) == 0 {
		return 0
	}

	g.links = slices.DeleteFunc(g.links, func(l *Link) bool {
		if !doomed[l.Source.ID] && !doomed[l.Target.ID] {
			return false
		}
		if r != nil {
			r.ReleaseLink(l)
		}
		delete(g.pairs, l.Pair().key())
		return true
	})
	g.nodes = slices.DeleteFunc(g.nodes, func(n *Node) bool {
		if !doomed[n.ID] {
			return false
		}
		if r != nil {
			r.ReleaseNode(n)
		}
		delete(g.byID, n.ID)
		return true
	})
	return len(doomed)
}

// RemoveLinks drops every live link matching one of pairs in either
// direction. Unmatched pairs are ignored. It returns the number of links
// removed.
func (g *Graph) RemoveLinks(pairs []Pair, r Releaser) int {
	doomed := make(map[*Link]bool, len(pairs))
	for _, p := range pairs {
		if l, ok := g.pairs[p.key()]; ok {
			doomed[l] = true
		}
	}
	if len(doomed) == 0 {
		return 0
	}

	g.links = slices.DeleteFunc(g.links, func(l *Link) bool {
		if !doomed[l] {
			return false
		}
		if r != nil {
			r.ReleaseLink(l)
		}
		delete(g.pairs, l.Pair().key())
		return true
	})
	return len(doomed)
}

// Clear drops every link and node, releasing each through r.
func (g *Graph) Clear(r Releaser) {
	if r != nil {
		for _, l := range g.links {
			r.ReleaseLink(l)
		}
		for _, n := range g.nodes {
			r.ReleaseNode(n)
		}
	}
	g.nodes, g.links = nil, nil
	clear(g.byID)
	clear(g.pairs)
}

// Node returns the node with the given id.
func (g *Graph) Node(id ID) (*Node, bool) {
	n, ok := g.byID[id]
	return n, ok
}

// Link returns the link between a and b, in either direction.
func (g *Graph) Link(a, b ID) (*Link, bool) {
	l, ok := g.pairs[Pair{Source: a, Target: b}.key()]
	return l, ok
}

// Nodes returns the live nodes in insertion order.
func (g *Graph) Nodes() []*Node { return slices.Clone(g.nodes) }

// Links returns the live links in insertion order.
func (g *Graph) Links() []*Link { return slices.Clone(g.links) }

// NodeCount returns the number of live nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// LinkCount returns the number of live links.
func (g *Graph) LinkCount() int { return len(g.links) }

// Degree returns the number of links touching id.
func (g *Graph) Degree(id ID) int {
	d := 0
	for _, l := range g.links {
		if l.Source.ID == id || l.Target.ID == id {
			d++
		}
	}
	return d
}

// Snapshot returns detached copies of every node and link, without elements.
func (g *Graph) Snapshot() Snapshot { return g.SnapshotWith(nil) }

// SnapshotWith returns detached copies of every node and link. Copied links
// point at the copied nodes. e, when non-nil, supplies each copy's element.
func (g *Graph) SnapshotWith(e Elements) Snapshot {
	s := Snapshot{
		Nodes: make([]*Node, 0, len(g.nodes)),
		Links: make([]*Link, 0, len(g.links)),
	}
	copies := make(map[*Node]*Node, len(g.nodes))
	for _, n := range g.nodes {
		c := n.Clone()
		if e != nil {
			c.el = e.NodeElement(n)
		}
		copies[n] = c
		s.Nodes = append(s.Nodes, c)
	}
	for _, l := range g.links {
		c := *l
		c.Source, c.Target = copies[l.Source], copies[l.Target]
		c.el = nil
		if e != nil {
			c.el = e.LinkElement(l)
		}
		s.Links = append(s.Links, &c)
	}
	return s
}

// Detach returns a detached copy of the node with the given id.
func (g *Graph) Detach(id ID, e Elements) (*Node, bool) {
	n, ok := g.byID[id]
	if !ok {
		return nil, false
	}
	c := n.Clone()
	if e != nil {
		c.el = e.NodeElement(n)
	}
	return c, true
}

// Check verifies that the id and pair indexes agree with the stored nodes
// and links. A failure is an INTERNAL_ERROR.
func (g *Graph) Check() error {
	if len(g.byID) != len(g.nodes) {
		return topoerrors.New(topoerrors.ErrCodeInternal,
			"id index holds %d nodes, graph holds %d", len(g.byID), len(g.nodes))
	}
	for _, n := range g.nodes {
		if g.byID[n.ID] != n {
			return topoerrors.New(topoerrors.ErrCodeInternal, "node(id: %s) is not indexed under its id", n.ID)
		}
	}
	if len(g.pairs) != len(g.links) {
		return topoerrors.New(topoerrors.ErrCodeInternal,
			"pair index holds %d links, graph holds %d", len(g.pairs), len(g.links))
	}
	for _, l := range g.links {
		if g.byID[l.Source.ID] != l.Source || g.byID[l.Target.ID] != l.Target {
			return topoerrors.New(topoerrors.ErrCodeInternal,
				"link(source: %s, target: %s) has a stale endpoint", l.Source.ID, l.Target.ID)
		}
		if g.pairs[l.Pair().key()] != l {
			return topoerrors.New(topoerrors.ErrCodeInternal,
				"link(source: %s, target: %s) is not indexed under its pair", l.Source.ID, l.Target.ID)
		}
	}
	return nil
}
