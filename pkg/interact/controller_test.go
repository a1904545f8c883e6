package interact

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"

	topoerrors "github.com/matzehuels/topo/pkg/errors"
	"github.com/matzehuels/topo/pkg/graph"
	"github.com/matzehuels/topo/pkg/scene"
)

// fakeEngine backs the controller with a real graph and synchronizer.
type fakeEngine struct {
	g       *graph.Graph
	sync    *scene.Synchronizer
	canvas  *scene.Canvas
	running bool
	added   []graph.LinkSpec
}

func newFakeEngine(t *testing.T) *fakeEngine {
	t.Helper()
	e := &fakeEngine{g: graph.New(), canvas: scene.NewCanvas(600, 600), running: true}
	e.sync = scene.NewSynchronizer(e.canvas)
	for _, n := range []*graph.Node{
		{ID: "a", X: 100, Y: 100},
		{ID: "b", X: 300, Y: 300, Radius: 10},
		{ID: "c", X: 500, Y: 100},
	} {
		if err := e.g.InsertNode(n); err != nil {
			t.Fatal(err)
		}
		e.sync.BindNode(n)
	}
	return e
}

func (e *fakeEngine) Node(id graph.ID) (*graph.Node, bool) { return e.g.Node(id) }
func (e *fakeEngine) NodeAt(x, y float64) *graph.Node      { return e.sync.NodeAt(e.g.Nodes(), x, y) }
func (e *fakeEngine) Snapshot() graph.Snapshot             { return e.g.SnapshotWith(e.sync) }
func (e *fakeEngine) NewTempLine(x, y float64) scene.Primitive {
	return e.sync.NewTempLine(x, y)
}
func (e *fakeEngine) ReleaseTemp(p scene.Primitive) { e.sync.ReleaseTemp(p) }
func (e *fakeEngine) Running() bool                 { return e.running }

func (e *fakeEngine) AddLink(spec graph.LinkSpec) (graph.Snapshot, error) {
	e.added = append(e.added, spec)
	l, err := e.g.InsertLink(spec)
	if err != nil {
		return graph.Snapshot{}, err
	}
	e.sync.BindLink(l)
	return e.g.SnapshotWith(e.sync), nil
}

type fakeHeater struct {
	target    float64
	restarts  int
	targetLog []float64
}

func (h *fakeHeater) SetAlphaTarget(a float64) {
	h.target = a
	h.targetLog = append(h.targetLog, a)
}
func (h *fakeHeater) Restart() { h.restarts++ }

func newController(t *testing.T, handlers Handlers) (*Controller, *fakeEngine, *fakeHeater) {
	t.Helper()
	e := newFakeEngine(t)
	h := &fakeHeater{}
	c := New(e, h, Options{Handlers: handlers, Logger: log.New(io.Discard)})
	return c, e, h
}

func node(t *testing.T, e *fakeEngine, id graph.ID) *graph.Node {
	t.Helper()
	n, ok := e.g.Node(id)
	if !ok {
		t.Fatalf("node %s missing", id)
	}
	return n
}

func TestStartAddLinkThenClickNodeCreatesLink(t *testing.T) {
	var modes []string
	c, e, _ := newController(t, Handlers{
		OnModeChange: func(from, to Mode) { modes = append(modes, from.String()+">"+to.String()) },
	})

	if !c.StartAddLink("a", graph.LinkStyle{Color: "green"}) {
		t.Fatal("StartAddLink should accept a known id")
	}
	if c.Mode() != ModeDrawingLink {
		t.Fatalf("Mode = %s, want drawingLink", c.Mode())
	}
	line := c.TempLine()
	if line == nil {
		t.Fatal("expected a temporary line")
	}
	if x, _ := scene.Float(line, "x1"); x != 100 {
		t.Errorf("temp line x1 = %v, want source x 100", x)
	}

	c.ClickNode(graph.PointerEvent{X: 300, Y: 300}, node(t, e, "b"))

	if c.Mode() != ModeNormal {
		t.Errorf("Mode = %s after completion", c.Mode())
	}
	if !line.Removed() || c.TempLine() != nil {
		t.Error("temporary line should be discarded")
	}
	l, ok := e.g.Link("a", "b")
	if !ok {
		t.Fatal("link a-b was not created")
	}
	if l.Color != "green" {
		t.Errorf("link color = %q, want override green", l.Color)
	}
	if len(modes) != 2 || modes[0] != "normal>drawingLink" || modes[1] != "drawingLink>normal" {
		t.Errorf("mode transitions = %v", modes)
	}
	if err := e.sync.Verify(e.g.Nodes(), e.g.Links()); err != nil {
		t.Errorf("Verify: %v", err)
	}
}

func TestBackgroundClickAfterCompletionOnlyFiresCallback(t *testing.T) {
	clicks := 0
	c, e, _ := newController(t, Handlers{
		OnClick: func(graph.PointerEvent, graph.Snapshot) { clicks++ },
	})
	c.StartAddLink("a", graph.LinkStyle{})
	c.ClickNode(graph.PointerEvent{}, node(t, e, "b"))
	before := e.g.LinkCount()

	c.ClickBackground(graph.PointerEvent{X: 5, Y: 5})

	if clicks != 1 {
		t.Errorf("background clicks = %d, want 1", clicks)
	}
	if e.g.LinkCount() != before || len(e.added) != 1 {
		t.Error("background click must not mutate links")
	}
}

func TestCompletionFailureGoesToReject(t *testing.T) {
	var rejected []topoerrors.Code
	c, e, _ := newController(t, Handlers{
		OnReject: func(_ graph.LinkSpec, err error) { rejected = append(rejected, topoerrors.GetCode(err)) },
	})

	c.StartAddLink("a", graph.LinkStyle{})
	c.ClickNode(graph.PointerEvent{}, node(t, e, "a"))

	if c.Mode() != ModeNormal {
		t.Errorf("Mode = %s, want normal after a rejected completion", c.Mode())
	}
	if len(rejected) != 1 || rejected[0] != topoerrors.ErrCodeSelfLoop {
		t.Errorf("rejections = %v, want [SELF_LOOP]", rejected)
	}
	if e.g.LinkCount() != 0 {
		t.Error("rejected link must not be stored")
	}
}

func TestBackgroundCancelsDrawing(t *testing.T) {
	tests := []struct {
		name string
		act  func(c *Controller)
	}{
		{"click", func(c *Controller) { c.ClickBackground(graph.PointerEvent{}) }},
		{"contextmenu", func(c *Controller) { c.ContextmenuBackground(graph.PointerEvent{}) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fired := 0
			cb := func(graph.PointerEvent, graph.Snapshot) { fired++ }
			c, e, _ := newController(t, Handlers{OnClick: cb, OnContextmenu: cb})
			c.StartAddLink("a", graph.LinkStyle{})
			line := c.TempLine()

			tt.act(c)

			if c.Mode() != ModeNormal {
				t.Errorf("Mode = %s, want normal", c.Mode())
			}
			if !line.Removed() {
				t.Error("temporary line should be removed")
			}
			if fired != 1 {
				t.Errorf("callback fired %d times, want 1", fired)
			}
			if _, _, ok := c.Pending(); ok {
				t.Error("pending link should be cleared")
			}
			if e.g.LinkCount() != 0 {
				t.Error("cancel must not create links")
			}
		})
	}
}

func TestStartAddLinkUnknownIDIsIgnored(t *testing.T) {
	c, e, _ := newController(t, Handlers{})
	if c.StartAddLink("zzz", graph.LinkStyle{}) {
		t.Error("unknown id should be rejected")
	}
	if c.Mode() != ModeNormal || len(e.canvas.Primitives(scene.LayerLinks)) != 0 {
		t.Error("unknown id must not change state")
	}
}

func TestStartAddLinkTwiceReplacesPending(t *testing.T) {
	c, e, _ := newController(t, Handlers{})
	c.StartAddLink("a", graph.LinkStyle{})
	first := c.TempLine()
	c.StartAddLink("c", graph.LinkStyle{Width: 4})

	if !first.Removed() {
		t.Error("first temporary line should be discarded")
	}
	src, style, _ := c.Pending()
	if src != "c" || style.Width != 4 {
		t.Errorf("pending = %s %+v", src, style)
	}
	if got := len(e.canvas.Primitives(scene.LayerLinks)); got != 1 {
		t.Errorf("link layer holds %d primitives, want 1", got)
	}
}

func TestMoveUpdatesTempLine(t *testing.T) {
	c, _, _ := newController(t, Handlers{})
	c.Move(graph.PointerEvent{X: 1, Y: 1})

	c.StartAddLink("a", graph.LinkStyle{})
	c.Move(graph.PointerEvent{X: 42, Y: 24})
	line := c.TempLine()
	if x, _ := scene.Float(line, "x2"); x != 42 {
		t.Errorf("x2 = %v, want 42", x)
	}
	if y, _ := scene.Float(line, "y2"); y != 24 {
		t.Errorf("y2 = %v, want 24", y)
	}
}

func TestNodeHandlersPreferPerNode(t *testing.T) {
	var got []string
	c, e, _ := newController(t, Handlers{
		NodeOnClick:       func(_ graph.PointerEvent, n *graph.Node, _ graph.Snapshot) { got = append(got, "cfg-click:"+string(n.ID)) },
		NodeOnContextmenu: func(_ graph.PointerEvent, n *graph.Node, _ graph.Snapshot) { got = append(got, "cfg-menu:"+string(n.ID)) },
	})
	b := node(t, e, "b")
	b.OnClick = func(_ graph.PointerEvent, n *graph.Node, _ graph.Snapshot) { got = append(got, "own-click:"+string(n.ID)) }

	c.ClickNode(graph.PointerEvent{}, node(t, e, "a"))
	c.ClickNode(graph.PointerEvent{}, b)
	c.ContextmenuNode(graph.PointerEvent{}, b)

	want := []string{"cfg-click:a", "own-click:b", "cfg-menu:b"}
	if len(got) != len(want) {
		t.Fatalf("calls = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("call %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestNodeContextmenuKeepsDrawing(t *testing.T) {
	menus := 0
	c, e, _ := newController(t, Handlers{
		NodeOnContextmenu: func(graph.PointerEvent, *graph.Node, graph.Snapshot) { menus++ },
	})
	c.StartAddLink("a", graph.LinkStyle{})
	c.ContextmenuNode(graph.PointerEvent{}, node(t, e, "b"))
	if menus != 1 || c.Mode() != ModeDrawingLink {
		t.Errorf("menus = %d, mode = %s", menus, c.Mode())
	}
}

func TestDragLifecycle(t *testing.T) {
	tests := []struct {
		name       string
		running    bool
		wantPinned bool
	}{
		{"running releases pin", true, false},
		{"stopped keeps pin", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, e, h := newController(t, Handlers{})
			e.running = tt.running
			n := node(t, e, "a")

			c.DragStart(n)
			if h.target != DefaultDragAlphaTarget || h.restarts != 1 {
				t.Errorf("drag start: target=%v restarts=%d", h.target, h.restarts)
			}
			if !n.Pinned() || *n.FX != 100 || *n.FY != 100 {
				t.Error("drag start should pin at the current position")
			}

			c.Drag(n, 700, -20)
			if *n.FX != 700 || *n.FY != -20 {
				t.Errorf("pin = (%v,%v), want (700,-20)", *n.FX, *n.FY)
			}

			c.DragEnd(n)
			if h.target != 0 {
				t.Errorf("alpha target after drag = %v, want 0", h.target)
			}
			if n.Pinned() != tt.wantPinned {
				t.Errorf("Pinned = %v, want %v", n.Pinned(), tt.wantPinned)
			}
		})
	}
}

func TestPointerPressReleaseClicks(t *testing.T) {
	var clicked []string
	c, _, h := newController(t, Handlers{
		OnClick:     func(graph.PointerEvent, graph.Snapshot) { clicked = append(clicked, "bg") },
		NodeOnClick: func(_ graph.PointerEvent, n *graph.Node, _ graph.Snapshot) { clicked = append(clicked, string(n.ID)) },
	})

	c.PointerDown(graph.PointerEvent{X: 301, Y: 302})
	c.PointerUp(graph.PointerEvent{X: 301, Y: 302})
	c.PointerDown(graph.PointerEvent{X: 10, Y: 500})
	c.PointerUp(graph.PointerEvent{X: 10, Y: 500})

	if len(clicked) != 2 || clicked[0] != "b" || clicked[1] != "bg" {
		t.Errorf("clicks = %v, want [b bg]", clicked)
	}
	if h.restarts != 0 {
		t.Error("a click must not start a drag")
	}
}

func TestPointerDragKeepsGrabOffset(t *testing.T) {
	clicks := 0
	c, e, h := newController(t, Handlers{
		NodeOnClick: func(graph.PointerEvent, *graph.Node, graph.Snapshot) { clicks++ },
	})
	b := node(t, e, "b")

	c.PointerDown(graph.PointerEvent{X: 305, Y: 300})
	c.PointerMove(graph.PointerEvent{X: 315, Y: 320})

	if c.Dragging() != b {
		t.Fatal("expected b to be dragged")
	}
	if *b.FX != 310 || *b.FY != 320 {
		t.Errorf("pin = (%v,%v), want (310,320)", *b.FX, *b.FY)
	}

	c.PointerUp(graph.PointerEvent{X: 315, Y: 320})
	if clicks != 0 {
		t.Error("a drag must not end in a click")
	}
	if b.Pinned() {
		t.Error("running simulation should release the pin")
	}
	if len(h.targetLog) != 2 || h.targetLog[1] != 0 {
		t.Errorf("alpha targets = %v", h.targetLog)
	}
}

func TestPointerDeadZone(t *testing.T) {
	e := newFakeEngine(t)
	h := &fakeHeater{}
	c := New(e, h, Options{DeadZone: 4, Logger: log.New(io.Discard)})

	c.PointerDown(graph.PointerEvent{X: 100, Y: 100})
	c.PointerMove(graph.PointerEvent{X: 102, Y: 101})
	if c.Dragging() != nil {
		t.Error("movement inside the dead zone must not drag")
	}
	c.PointerMove(graph.PointerEvent{X: 110, Y: 100})
	if c.Dragging() == nil {
		t.Error("movement past the dead zone should drag")
	}
}

func TestPointerSecondaryButtonOpensMenus(t *testing.T) {
	var got []string
	c, _, _ := newController(t, Handlers{
		OnContextmenu:     func(graph.PointerEvent, graph.Snapshot) { got = append(got, "bg") },
		NodeOnContextmenu: func(_ graph.PointerEvent, n *graph.Node, _ graph.Snapshot) { got = append(got, string(n.ID)) },
	})
	c.PointerDown(graph.PointerEvent{X: 100, Y: 100, Button: graph.ButtonSecondary})
	c.PointerDown(graph.PointerEvent{X: 200, Y: 500, Button: graph.ButtonSecondary})

	if len(got) != 2 || got[0] != "a" || got[1] != "bg" {
		t.Errorf("menus = %v, want [a bg]", got)
	}
}

func TestPointerClickCompletesDrawing(t *testing.T) {
	c, e, _ := newController(t, Handlers{})
	c.StartAddLink("a", graph.LinkStyle{})
	c.PointerMove(graph.PointerEvent{X: 499, Y: 101})
	c.PointerDown(graph.PointerEvent{X: 499, Y: 101})
	c.PointerUp(graph.PointerEvent{X: 499, Y: 101})

	if _, ok := e.g.Link("a", "c"); !ok {
		t.Error("pointer click on c should complete the link")
	}
	if c.Mode() != ModeNormal {
		t.Errorf("Mode = %s", c.Mode())
	}
}

func TestReset(t *testing.T) {
	clicks := 0
	c, _, _ := newController(t, Handlers{OnClick: func(graph.PointerEvent, graph.Snapshot) { clicks++ }})
	c.StartAddLink("a", graph.LinkStyle{})
	c.PointerDown(graph.PointerEvent{X: 100, Y: 100})
	c.Reset()

	if c.Mode() != ModeNormal || c.Dragging() != nil || c.TempLine() != nil {
		t.Error("Reset should clear all gesture state")
	}
	c.PointerUp(graph.PointerEvent{})
	if clicks != 0 {
		t.Error("Reset must not fire callbacks")
	}
}

func TestNodeHandlersReceiveCopies(t *testing.T) {
	c, e, _ := newController(t, Handlers{
		NodeOnClick: func(_ graph.PointerEvent, n *graph.Node, _ graph.Snapshot) { n.ID = "c" },
	})
	b := node(t, e, "b")
	c.ClickNode(graph.PointerEvent{}, b)

	if b.ID != "b" {
		t.Fatalf("handler renamed the live node to %s", b.ID)
	}
	if err := e.g.Check(); err != nil {
		t.Errorf("Check: %v", err)
	}
}

func TestDragResolvesCopies(t *testing.T) {
	c, e, _ := newController(t, Handlers{})
	b := node(t, e, "b")
	cp := e.Snapshot().Node("b")

	c.DragStart(cp)
	c.Drag(cp, 1, 2)
	if !b.Pinned() || *b.FX != 1 || *b.FY != 2 {
		t.Fatalf("live node pin = %v,%v", b.FX, b.FY)
	}
	c.DragEnd(cp)
	if b.Pinned() {
		t.Error("drag end should release the live node")
	}

	c.DragStart(&graph.Node{ID: "ghost"})
	c.DragEnd(&graph.Node{ID: "ghost"})
}
