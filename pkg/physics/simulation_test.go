package physics

import (
	"math"
	"testing"

	"github.com/matzehuels/topo/pkg/graph"
)

func dist(a, b *graph.Node) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

func TestNewDefaults(t *testing.T) {
	s := New(DefaultOptions())
	if s.Alpha() != 1 {
		t.Errorf("Alpha = %v, want 1", s.Alpha())
	}
	if s.AlphaMin() != 0.001 {
		t.Errorf("AlphaMin = %v, want 0.001", s.AlphaMin())
	}
	if !s.Active() {
		t.Error("new simulation should be active")
	}

	s.Tick(1)
	want := 1 - (1 - math.Pow(0.001, 1.0/300))
	if math.Abs(s.Alpha()-want) > 1e-12 {
		t.Errorf("Alpha after one tick = %v, want %v", s.Alpha(), want)
	}
}

func TestStepCoolsDownAfterAboutThreeHundredTicks(t *testing.T) {
	s := New(DefaultOptions())
	s.SetNodes([]*graph.Node{{ID: "a"}})

	ticks, ends := 0, 0
	s.OnTick(func() { ticks++ })
	s.OnEnd(func() { ends++ })
	for s.Step() {
		if ticks > 1000 {
			t.Fatal("simulation never cooled down")
		}
	}
	if ticks < 299 || ticks > 301 {
		t.Errorf("cooled down after %d ticks, want about 300", ticks)
	}
	if ends != 1 {
		t.Errorf("OnEnd fired %d times, want 1", ends)
	}
	if s.Step() {
		t.Error("idle simulation should not step")
	}

	s.Restart()
	if !s.Step() {
		t.Error("Restart should resume stepping")
	}
}

func TestAlphaTargetKeepsSimulationWarm(t *testing.T) {
	s := New(DefaultOptions())
	s.SetAlphaTarget(0.1)
	s.Tick(2000)
	if math.Abs(s.Alpha()-0.1) > 1e-3 {
		t.Errorf("Alpha = %v, want about 0.1", s.Alpha())
	}
	s.SetAlphaTarget(5)
	if s.AlphaTarget() != 1 {
		t.Errorf("AlphaTarget should clamp to 1, got %v", s.AlphaTarget())
	}
}

func TestPinnedNodeHoldsStill(t *testing.T) {
	a := &graph.Node{ID: "a", X: 10, Y: 10}
	b := &graph.Node{ID: "b", X: 12, Y: 10}
	a.Pin(50, 60)

	s := New(DefaultOptions())
	s.SetNodes([]*graph.Node{a, b})
	s.SetForce("charge", NewManyBody())
	s.Tick(5)

	if a.X != 50 || a.Y != 60 {
		t.Errorf("pinned node at (%v,%v), want (50,60)", a.X, a.Y)
	}
	if a.VX != 0 || a.VY != 0 {
		t.Errorf("pinned node velocity = (%v,%v), want zero", a.VX, a.VY)
	}
	if b.X == 12 && b.Y == 10 {
		t.Error("free node should move")
	}
}

func TestSetForceReplaceAndRemove(t *testing.T) {
	s := New(DefaultOptions())
	first := NewManyBody()
	s.SetForce("collide", NewCollide(1))
	s.SetForce("charge", first)
	s.SetForce("link", NewLinkForce(nil))

	second := NewManyBody()
	s.SetForce("charge", second)
	if got, _ := s.Force("charge"); got != second {
		t.Error("SetForce should replace by name")
	}
	if s.forces[1].name != "charge" {
		t.Errorf("replaced force moved to position of %q", s.forces[1].name)
	}

	s.SetForce("charge", nil)
	if _, ok := s.Force("charge"); ok {
		t.Error("nil force should remove the entry")
	}
	if len(s.forces) != 2 {
		t.Errorf("len(forces) = %d, want 2", len(s.forces))
	}
}

func TestSetNodesReinitializesForces(t *testing.T) {
	a := &graph.Node{ID: "a"}
	b := &graph.Node{ID: "b", X: 100}
	c := &graph.Node{ID: "c", X: 200}
	links := []*graph.Link{{Source: a, Target: b}, {Source: b, Target: c}}

	s := New(DefaultOptions())
	lf := NewLinkForce(links)
	s.SetNodes([]*graph.Node{a, b, c})
	s.SetForce("link", lf)
	if len(lf.active) != 2 {
		t.Fatalf("active links = %d, want 2", len(lf.active))
	}

	s.SetNodes([]*graph.Node{a, b})
	if len(lf.active) != 1 {
		t.Fatalf("active links after dropping c = %d, want 1", len(lf.active))
	}
	s.Tick(1)
	if c.VX != 0 || c.X != 200 {
		t.Error("a node outside the simulation must not be touched")
	}
	if len(s.Nodes()) != 2 {
		t.Errorf("Nodes() = %d, want 2", len(s.Nodes()))
	}
}

func TestJiggleIsDeterministicAndNonZero(t *testing.T) {
	j1, j2 := NewJiggle(7), NewJiggle(7)
	for i := range 100 {
		a, b := j1.Next(), j2.Next()
		if a == 0 {
			t.Fatalf("jiggle %d returned zero", i)
		}
		if a != b {
			t.Fatalf("jiggle %d differs for same seed: %v vs %v", i, a, b)
		}
		if math.Abs(a) > jiggleScale {
			t.Fatalf("jiggle %d = %v exceeds scale", i, a)
		}
	}
}
