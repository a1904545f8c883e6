// Package topo is the caller-facing topology engine.
//
// A [Topo] owns one graph model, one force simulation and one scene, and
// keeps them consistent: every mutation validates against the graph first,
// binds or releases primitives second, and re-seeds the simulation last.
// Rejected operations change nothing and return a coded error from
// pkg/errors whose message names the offending ids.
//
// # Lifecycle
//
//	t, err := topo.New(topo.Config{Width: 600, Height: 600})
//	if err != nil { ... }
//	t.AddNode(graph.Node{ID: "0", X: 250, Y: 250})
//	t.AddNode(graph.Node{ID: "1", X: 300, Y: 300, Radius: 10})
//	t.AddLink(graph.LinkSpec{Source: "0", Target: "1"})
//
//	for t.Frame() { ... } // host animation loop
//
//	t.Destroy()
//
// The engine is single threaded. The host loop calls [Topo.Frame] once per
// animation frame and feeds pointer input through [Topo.PointerDown],
// [Topo.PointerMove] and [Topo.PointerUp] (or through the high-level
// gestures on [Topo.Interaction]). All calls must come from that one loop.
//
// Operations on a zero Topo or on one that has been destroyed fail with
// NOT_RENDERED.
package topo
