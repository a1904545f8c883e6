package physics

import (
	"math"
	"testing"

	"github.com/matzehuels/topo/pkg/graph"
)

func only(name string, f Force, nodes ...*graph.Node) *Simulation {
	s := New(DefaultOptions())
	s.SetNodes(nodes)
	s.SetForce(name, f)
	return s
}

func TestManyBodyRepels(t *testing.T) {
	a := &graph.Node{ID: "a", X: 0, Y: 0}
	b := &graph.Node{ID: "b", X: 10, Y: 0}
	s := only("charge", NewManyBody(), a, b)

	before := dist(a, b)
	s.Tick(1)
	if dist(a, b) <= before {
		t.Errorf("distance %v should grow from %v", dist(a, b), before)
	}
	if a.X >= 0 || b.X <= 10 {
		t.Errorf("nodes should move apart along x: a=%v b=%v", a.X, b.X)
	}
}

func TestManyBodySeparatesCoincidentNodes(t *testing.T) {
	a := &graph.Node{ID: "a", X: 5, Y: 5}
	b := &graph.Node{ID: "b", X: 5, Y: 5}
	s := only("charge", NewManyBody(), a, b)
	s.Tick(1)
	if a.X == b.X && a.Y == b.Y {
		t.Error("coincident nodes should be nudged apart")
	}
}

func TestLinkForceConvergesToDistance(t *testing.T) {
	a := &graph.Node{ID: "a", X: 0, Y: 0}
	b := &graph.Node{ID: "b", X: 200, Y: 0}
	lf := NewLinkForce([]*graph.Link{{Source: a, Target: b}})
	s := only("link", lf, a, b)

	s.Tick(1)
	if d := dist(a, b); d >= 200 {
		t.Errorf("first tick should pull nodes together, distance %v", d)
	}
	s.Tick(100)
	if d := dist(a, b); math.Abs(d-lf.Distance) > 1 {
		t.Errorf("distance = %v, want about %v", d, lf.Distance)
	}
}

func TestLinkForceBiasFavorsHubs(t *testing.T) {
	hub := &graph.Node{ID: "hub", X: 0, Y: 0}
	leaves := []*graph.Node{
		{ID: "l1", X: 100, Y: 0},
		{ID: "l2", X: -100, Y: 1},
		{ID: "l3", X: 0, Y: 100},
	}
	var links []*graph.Link
	for _, l := range leaves {
		links = append(links, &graph.Link{Source: l, Target: hub})
	}
	lf := NewLinkForce(links)
	s := only("link", lf, append([]*graph.Node{hub}, leaves...)...)

	if lf.bias[0] != 0.25 {
		t.Errorf("bias = %v, want 0.25", lf.bias[0])
	}
	if lf.strengths[0] != 1 {
		t.Errorf("strength = %v, want 1", lf.strengths[0])
	}

	s.Tick(1)
	hubMove := math.Hypot(hub.X, hub.Y)
	leafMove := math.Abs(leaves[0].X - 100)
	if hubMove >= leafMove {
		t.Errorf("hub moved %v, leaf moved %v; hub should move less", hubMove, leafMove)
	}
}

func TestCollideSeparatesOverlap(t *testing.T) {
	a := &graph.Node{ID: "a", X: 0, Y: 0, Radius: 5}
	b := &graph.Node{ID: "b", X: 1, Y: 0, Radius: 5}
	s := only("collide", NewCollide(1), a, b)

	s.Tick(20)
	if d := dist(a, b); d < 12 {
		t.Errorf("distance = %v, want at least the summed radii 12", d)
	}
}

func TestCollideLargerNodeMovesLess(t *testing.T) {
	big := &graph.Node{ID: "big", X: 0, Y: 0, Radius: 20}
	small := &graph.Node{ID: "small", X: 5, Y: 0, Radius: 2}
	s := only("collide", NewCollide(1), big, small)

	s.Tick(1)
	if math.Abs(big.X) >= math.Abs(small.X-5) {
		t.Errorf("big moved %v, small moved %v", math.Abs(big.X), math.Abs(small.X-5))
	}
}

func TestCollideIgnoresDistantNodes(t *testing.T) {
	a := &graph.Node{ID: "a", X: 0, Y: 0}
	b := &graph.Node{ID: "b", X: 100, Y: 0}
	s := only("collide", NewCollide(1), a, b)
	s.Tick(3)
	if a.X != 0 || b.X != 100 {
		t.Errorf("separated nodes moved: a=%v b=%v", a.X, b.X)
	}
}
