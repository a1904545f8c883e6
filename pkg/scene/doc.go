// Package scene keeps the visual representation of a topology in step with
// its graph model.
//
// # Surfaces
//
// A [Surface] is anything that can hold retained circle and line primitives
// in two layers, links below nodes. [Canvas] is the in-memory implementation
// used by the engine, the terminal demo and the static exporters. Primitives
// expose attribute get/set only; callers can restyle them but cannot move
// them between layers or create new ones.
//
// # Synchronization
//
// A [Synchronizer] creates exactly one primitive per node and per link,
// writes the clamped node positions and link endpoints on every tick, and
// removes a primitive when the graph releases its entity. [Synchronizer.Verify]
// detects orphaned or missing primitives.
//
// # Output
//
// [WriteSVG] serializes a surface as an SVG document and [Rasterize] draws it
// onto a character grid for terminal hosts.
package scene
