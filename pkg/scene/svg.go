package scene

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"math"
	"strconv"
)

// SVGOption configures [WriteSVG].
type SVGOption func(*svgWriter)

type svgWriter struct {
	background string
	viewBox    bool
}

// WithBackground paints a full-size rectangle behind the scene.
func WithBackground(color string) SVGOption { return func(w *svgWriter) { w.background = color } }

// WithViewBox adds a viewBox so the document scales with its container.
func WithViewBox() SVGOption { return func(w *svgWriter) { w.viewBox = true } }

// RenderSVG returns the SVG document for s.
func RenderSVG(s Surface, opts ...SVGOption) []byte {
	var buf bytes.Buffer
	_ = WriteSVG(&buf, s, opts...)
	return buf.Bytes()
}

// WriteSVG serializes s as an SVG document with one group per layer.
func WriteSVG(w io.Writer, s Surface, opts ...SVGOption) error {
	var cfg svgWriter
	for _, opt := range opts {
		opt(&cfg)
	}

	var buf bytes.Buffer
	wd, ht := formatValue(s.Width()), formatValue(s.Height())
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" display="block" width="%s" height="%s"`, wd, ht)
	if cfg.viewBox {
		fmt.Fprintf(&buf, ` viewBox="0 0 %s %s"`, wd, ht)
	}
	buf.WriteString(">\n")
	if cfg.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", html.EscapeString(cfg.background))
	}

	for _, layer := range Layers() {
		fmt.Fprintf(&buf, `  <g class="%s">`+"\n", layer.ClassName())
		for _, p := range s.Primitives(layer) {
			buf.WriteString("    <")
			buf.WriteString(p.Kind().String())
			for _, a := range p.Attrs() {
				fmt.Fprintf(&buf, ` %s="%s"`, a.Name, html.EscapeString(formatValue(a.Value)))
			}
			buf.WriteString("/>\n")
		}
		buf.WriteString("  </g>\n")
	}
	buf.WriteString("</svg>\n")

	_, err := w.Write(buf.Bytes())
	return err
}

// formatValue renders numbers with at most two decimals.
func formatValue(v any) string {
	switch x := v.(type) {
	case float64:
		return strconv.FormatFloat(math.Round(x*100)/100, 'f', -1, 64)
	case float32:
		return formatValue(float64(x))
	case int:
		return strconv.Itoa(x)
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(v)
	}
}
