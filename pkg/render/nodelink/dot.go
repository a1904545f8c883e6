package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/topo/pkg/graph"
)

// Options configures DOT generation.
type Options struct {
	// Labels draws the node id next to each circle.
	Labels bool
	// Background fills the canvas; empty means transparent.
	Background string
}

// ToDOT converts a snapshot into Graphviz DOT with every node pinned at its
// simulated position.
func ToDOT(s graph.Snapshot, opts Options) string {
	bg := opts.Background
	if bg == "" {
		bg = "transparent"
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  overlap=true;\n")
	buf.WriteString("  splines=false;\n")
	fmt.Fprintf(&buf, "  bgcolor=%q;\n", dotColor(bg, 1))
	buf.WriteString("  node [shape=circle, style=filled, fixedsize=true, penwidth=0, fontsize=10];\n")
	buf.WriteString("\n")

	for _, n := range s.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", string(n.ID), strings.Join(nodeAttrs(n, opts.Labels), ", "))
	}

	buf.WriteString("\n")
	for _, l := range s.Links {
		fmt.Fprintf(&buf, "  %q -- %q [%s];\n", string(l.Source.ID), string(l.Target.ID),
			strings.Join(linkAttrs(l), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n *graph.Node, labels bool) []string {
	d := 2 * n.EffectiveRadius() / 72
	attrs := []string{
		fmt.Sprintf("pos=\"%s,%s!\"", num(n.X), num(-n.Y)),
		fmt.Sprintf("width=%s", strconv.FormatFloat(d, 'f', 4, 64)),
		fmt.Sprintf("fillcolor=%q", dotColor(n.EffectiveColor(), n.EffectiveOpacity())),
	}
	if labels {
		attrs = append(attrs, fmt.Sprintf("xlabel=%q", string(n.ID)), `label=""`)
	} else {
		attrs = append(attrs, `label=""`)
	}
	return attrs
}

func linkAttrs(l *graph.Link) []string {
	return []string{
		fmt.Sprintf("penwidth=%s", num(l.EffectiveWidth())),
		fmt.Sprintf("color=%q", dotColor(l.EffectiveColor(), l.EffectiveOpacity())),
	}
}

func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

// dotColor maps a CSS-style color to one Graphviz accepts.
// Named colors pass through unchanged; opacity is dropped for them.
func dotColor(c string, opacity float64) string {
	if !strings.HasPrefix(c, "#") {
		return c
	}
	hex := c[1:]
	switch len(hex) {
	case 3, 4:
		var b strings.Builder
		for _, r := range hex {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		hex = b.String()
	case 6, 8:
	default:
		return c
	}
	if len(hex) == 6 && opacity < 1 {
		a := int(math.Round(math.Max(0, opacity) * 255))
		hex += fmt.Sprintf("%02x", a)
	}
	return "#" + strings.ToLower(hex)
}

// RenderSVG renders DOT to SVG using the neato engine.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	var buf bytes.Buffer
	if err := render(ctx, dot, graphviz.SVG, &buf); err != nil {
		return nil, err
	}
	return normalizeViewBox(buf.Bytes()), nil
}

// RenderPNG renders DOT to PNG using the neato engine.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	var buf bytes.Buffer
	if err := render(ctx, dot, graphviz.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func render(ctx context.Context, dot string, format graphviz.Format, w io.Writer) error {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	gv.SetLayout(graphviz.NEATO)
	if err := gv.Render(ctx, g, format, w); err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}
	return nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.-]+)\s+([0-9.-]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz root tag (sized in pt) with one
// sized in pixels so the output scales like the live scene.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
