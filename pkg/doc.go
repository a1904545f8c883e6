// Package pkg holds the libraries behind topo, a force-directed topology
// engine.
//
// # Overview
//
// A topology is a set of nodes and undirected links laid out by a force
// simulation and drawn onto a retained scene that users can drag and edit.
// The libraries split along that flow:
//
//  1. [graph] - the model: nodes, links, identity and structural rules
//  2. [physics] - the simulation: many-body, link and collision forces
//  3. [scene] - primitives on a surface, kept in step with the model
//  4. [interact] - pointer gestures: drag, click, context menu, link drawing
//  5. [topo] - the public engine tying the above together
//
// Supporting packages: [io] reads seed files and writes snapshots,
// [render/nodelink] exports through Graphviz, [errors] classifies failures
// and [observability] carries metrics hooks.
//
// # Architecture
//
//	seed file ──[io]──▶ graph.Data
//	                        │ AddData
//	                        ▼
//	  pointer ──[interact]──▶ [topo] ──▶ [graph] ──▶ [scene] ──▶ surface
//	                        ▲              │
//	                        └──[physics]◀──┘ tick
//
// # Quick Start
//
//	t, err := topo.New(topo.Config{Width: 600, Height: 600})
//	if err != nil {
//	    return err
//	}
//	t.AddNode(graph.Node{ID: "a", X: 250, Y: 250})
//	t.AddNode(graph.Node{ID: "b", X: 300, Y: 300, Radius: 10})
//	t.AddLink(graph.LinkSpec{Source: "a", Target: "b"})
//	for t.Frame() {
//	    // redraw t.Surface()
//	}
//
// [graph]: github.com/matzehuels/topo/pkg/graph
// [physics]: github.com/matzehuels/topo/pkg/physics
// [scene]: github.com/matzehuels/topo/pkg/scene
// [interact]: github.com/matzehuels/topo/pkg/interact
// [topo]: github.com/matzehuels/topo/pkg/topo
// [io]: github.com/matzehuels/topo/pkg/io
// [render/nodelink]: github.com/matzehuels/topo/pkg/render/nodelink
// [errors]: github.com/matzehuels/topo/pkg/errors
// [observability]: github.com/matzehuels/topo/pkg/observability
package pkg
