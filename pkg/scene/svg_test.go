package scene

import (
	"strings"
	"testing"

	"github.com/matzehuels/topo/pkg/graph"
)

func TestWriteSVGLayersAndAttributes(t *testing.T) {
	_, _, c := newBound(t)
	out := string(RenderSVG(c, WithViewBox(), WithBackground("#fff")))

	for _, want := range []string{
		`width="600" height="600" viewBox="0 0 600 600"`,
		`<rect width="100%" height="100%" fill="#fff"/>`,
		`<line class="link-0-1" x1="250" y1="250" x2="300" y2="300" stroke-width="2" stroke="#aaa" opacity="1"/>`,
		`<circle class="node-1" cx="300" cy="300" r="10" fill="#f00" opacity="1"/>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("SVG missing %q\n%s", want, out)
		}
	}
	if strings.Index(out, `class="links"`) > strings.Index(out, `class="nodes"`) {
		t.Error("links layer must be written before the nodes layer")
	}
}

func TestWriteSVGEscapesAndRounds(t *testing.T) {
	c := NewCanvas(10, 10)
	s := NewSynchronizer(c)
	n := &graph.Node{ID: `a"b`, X: 1.23456}
	s.BindNode(n)

	out := string(RenderSVG(c))
	if !strings.Contains(out, `class="node-a&#34;b"`) {
		t.Errorf("class not escaped:\n%s", out)
	}
	if !strings.Contains(out, `cx="1.23"`) {
		t.Errorf("cx not rounded:\n%s", out)
	}
}
