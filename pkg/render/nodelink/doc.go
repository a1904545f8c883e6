// Package nodelink renders topology snapshots through Graphviz.
//
// # Overview
//
// The force simulation already decides where every node goes, so the DOT
// produced here pins each node with pos="x,y!" and asks the neato engine to
// keep them. Graphviz is used for drawing only: circles sized by radius,
// filled with the node color, and undirected edges with the link width and
// color.
//
// # Usage
//
//	dot := nodelink.ToDOT(t.Snapshot(), nodelink.Options{Labels: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot)
//
// # Coordinates
//
// Snapshot coordinates are screen pixels with y pointing down. Graphviz
// points have y pointing up, so y is negated; inputscale=72 makes one pixel
// one point. Short hex colors ("#abc") are expanded and opacity below 1 is
// appended as an alpha byte, since Graphviz only understands #rrggbb[aa].
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz], which runs Graphviz in
// process, so no system installation is needed.
package nodelink
