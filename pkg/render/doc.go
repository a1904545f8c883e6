// Package render holds static renderers for laid-out topology snapshots.
//
// The live scene is drawn by [scene]; packages here turn a frozen
// [graph.Snapshot] into files for sharing:
//
//   - [nodelink]: Graphviz DOT with pinned positions, rendered to SVG or PNG
//
// [scene]: github.com/matzehuels/topo/pkg/scene
// [graph.Snapshot]: github.com/matzehuels/topo/pkg/graph#Snapshot
// [nodelink]: github.com/matzehuels/topo/pkg/render/nodelink
package render
