package interact

import (
	"math"

	"github.com/charmbracelet/log"

	topoerrors "github.com/matzehuels/topo/pkg/errors"
	"github.com/matzehuels/topo/pkg/graph"
	"github.com/matzehuels/topo/pkg/observability"
	"github.com/matzehuels/topo/pkg/scene"
)

// DefaultDragAlphaTarget is the simulation activity held while a node is
// dragged.
const DefaultDragAlphaTarget = 0.1

// Engine is the part of the topology the controller acts on.
type Engine interface {
	Node(id graph.ID) (*graph.Node, bool)
	// NodeAt hit-tests rendered circles, topmost first.
	NodeAt(x, y float64) *graph.Node
	Snapshot() graph.Snapshot
	AddLink(spec graph.LinkSpec) (graph.Snapshot, error)
	NewTempLine(x, y float64) scene.Primitive
	ReleaseTemp(p scene.Primitive)
	// Running reports whether the simulation is globally started.
	Running() bool
}

// Heater nudges the simulation while a node is dragged.
type Heater interface {
	SetAlphaTarget(a float64)
	Restart()
}

// Handlers are the caller callbacks. Every field is optional.
type Handlers struct {
	OnClick           graph.BackgroundHandler
	OnContextmenu     graph.BackgroundHandler
	NodeOnClick       graph.NodeHandler
	NodeOnContextmenu graph.NodeHandler

	// OnReject receives the failure of a link completed by the draw gesture.
	OnReject func(spec graph.LinkSpec, err error)
	// OnModeChange fires on every mode transition.
	OnModeChange func(from, to Mode)
}

// Options configures a Controller.
type Options struct {
	Handlers Handlers
	// DragAlphaTarget defaults to DefaultDragAlphaTarget.
	DragAlphaTarget float64
	// DeadZone is how far, in surface units, a press must travel before it
	// becomes a drag. Zero means any movement drags.
	DeadZone float64
	Logger   *log.Logger
}

type press struct {
	button   graph.Button
	node     *graph.Node
	startX   float64
	startY   float64
	nodeX    float64
	nodeY    float64
	dragging bool
}

// Controller dispatches pointer input. It is not safe for concurrent use.
type Controller struct {
	engine   Engine
	heater   Heater
	handlers Handlers
	target   float64
	deadZone float64
	logger   *log.Logger

	state state
	press *press
}

// New returns a controller in normal mode.
func New(e Engine, h Heater, opts Options) *Controller {
	if opts.DragAlphaTarget <= 0 {
		opts.DragAlphaTarget = DefaultDragAlphaTarget
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Controller{
		engine:   e,
		heater:   h,
		handlers: opts.Handlers,
		target:   opts.DragAlphaTarget,
		deadZone: math.Max(opts.DeadZone, 0),
		logger:   opts.Logger,
		state:    normal{},
	}
}

// Mode returns the current gesture state.
func (c *Controller) Mode() Mode { return c.state.mode() }

// Pending returns the source id and style overrides of the link being drawn.
func (c *Controller) Pending() (graph.ID, graph.LinkStyle, bool) {
	d, ok := c.state.(*drawing)
	if !ok {
		return "", graph.LinkStyle{}, false
	}
	return d.source, d.style, true
}

// TempLine returns the dashed line of the link being drawn, or nil.
func (c *Controller) TempLine() scene.Primitive {
	if d, ok := c.state.(*drawing); ok {
		return d.line
	}
	return nil
}

func (c *Controller) transition(next state) {
	from, to := c.state.mode(), next.mode()
	c.state = next
	if from == to {
		return
	}
	c.logger.Debug("interaction mode", "from", from, "to", to)
	observability.Engine().OnModeChange(from.String(), to.String())
	if c.handlers.OnModeChange != nil {
		c.handlers.OnModeChange(from, to)
	}
}

// =============================================================================
// Link drawing
// =============================================================================

// StartAddLink enters drawing mode with id as the pending source. style is
// merged over the link defaults when the link is completed. An unknown id is
// ignored and reported as false. A gesture already in progress is cancelled
// first.
func (c *Controller) StartAddLink(id graph.ID, style graph.LinkStyle) bool {
	n, ok := c.engine.Node(id)
	if !ok {
		c.logger.Debug("start add link ignored", "id", id, "reason", "unknown node")
		return false
	}
	c.discardPending()
	line := c.engine.NewTempLine(n.X, n.Y)
	c.transition(&drawing{source: id, style: style, line: line})
	return true
}

// Cancel abandons a link being drawn. It is a no-op in normal mode.
func (c *Controller) Cancel() {
	if c.discardPending() {
		c.transition(normal{})
	}
}

func (c *Controller) discardPending() bool {
	d, ok := c.state.(*drawing)
	if !ok {
		return false
	}
	c.engine.ReleaseTemp(d.line)
	d.line = nil
	return true
}

func (c *Controller) complete(d *drawing, target graph.ID) {
	spec := graph.LinkSpec{Source: d.source, Target: target, LinkStyle: d.style}
	c.engine.ReleaseTemp(d.line)
	d.line = nil
	c.transition(normal{})

	if _, err := c.engine.AddLink(spec); err != nil {
		code := topoerrors.GetCode(err)
		c.logger.Warn("link rejected", "source", spec.Source, "target", spec.Target, "code", code, "err", err)
		observability.Engine().OnReject(string(code))
		if c.handlers.OnReject != nil {
			c.handlers.OnReject(spec, err)
		}
	}
}

// =============================================================================
// Clicks and context menus
// =============================================================================

// ClickBackground cancels a pending link, then calls OnClick.
func (c *Controller) ClickBackground(ev graph.PointerEvent) {
	c.Cancel()
	if c.handlers.OnClick != nil {
		c.handlers.OnClick(ev, c.engine.Snapshot())
	}
}

// ContextmenuBackground cancels a pending link, then calls OnContextmenu.
func (c *Controller) ContextmenuBackground(ev graph.PointerEvent) {
	c.Cancel()
	if c.handlers.OnContextmenu != nil {
		c.handlers.OnContextmenu(ev, c.engine.Snapshot())
	}
}

// ClickNode completes a pending link at n, or calls the node's click handler
// in normal mode. A handler set on the node wins over NodeOnClick.
func (c *Controller) ClickNode(ev graph.PointerEvent, n *graph.Node) {
	if d, ok := c.state.(*drawing); ok {
		c.complete(d, n.ID)
		return
	}
	if h := pick(n.OnClick, c.handlers.NodeOnClick); h != nil {
		c.callNode(h, ev, n)
	}
}

// ContextmenuNode calls the node's context menu handler in either mode.
func (c *Controller) ContextmenuNode(ev graph.PointerEvent, n *graph.Node) {
	if h := pick(n.OnContextmenu, c.handlers.NodeOnContextmenu); h != nil {
		c.callNode(h, ev, n)
	}
}

// callNode hands h the snapshot copy of n, never the engine's own node.
func (c *Controller) callNode(h graph.NodeHandler, ev graph.PointerEvent, n *graph.Node) {
	s := c.engine.Snapshot()
	if cp := s.Node(n.ID); cp != nil {
		n = cp
	} else {
		n = n.Clone()
	}
	h(ev, n, s)
}

func pick(own, fallback graph.NodeHandler) graph.NodeHandler {
	if own != nil {
		return own
	}
	return fallback
}

// Move tracks the pointer. While drawing, the loose end of the temporary
// line follows it.
func (c *Controller) Move(ev graph.PointerEvent) {
	if d, ok := c.state.(*drawing); ok && d.line != nil {
		d.line.SetAttr("x2", ev.X)
		d.line.SetAttr("y2", ev.Y)
	}
}

// =============================================================================
// Dragging
// =============================================================================

// DragStart pins n where it is and raises the simulation's alpha target so
// the layout keeps relaxing around it.
func (c *Controller) DragStart(n *graph.Node) {
	if n = c.live(n); n == nil {
		return
	}
	c.heater.SetAlphaTarget(c.target)
	c.heater.Restart()
	n.Pin(n.X, n.Y)
}

// Drag moves the pin of n to (x, y).
func (c *Controller) Drag(n *graph.Node, x, y float64) {
	if n = c.live(n); n != nil {
		n.Pin(x, y)
	}
}

// DragEnd drops the alpha target and, while the simulation is running,
// releases the pin. A stopped simulation keeps the node where it was left;
// stopping mid-drag therefore takes effect here.
func (c *Controller) DragEnd(n *graph.Node) {
	c.heater.SetAlphaTarget(0)
	if n = c.live(n); n != nil && c.engine.Running() {
		n.Unpin()
	}
}

// live resolves n, possibly a snapshot copy, to the engine's node.
func (c *Controller) live(n *graph.Node) *graph.Node {
	if n == nil {
		return nil
	}
	l, ok := c.engine.Node(n.ID)
	if !ok {
		return nil
	}
	return l
}

// =============================================================================
// Raw pointer input
// =============================================================================

// PointerDown starts a press. A secondary press opens the context menu of
// whatever is under the pointer.
func (c *Controller) PointerDown(ev graph.PointerEvent) {
	hit := c.engine.NodeAt(ev.X, ev.Y)
	if ev.Button == graph.ButtonSecondary {
		if hit != nil {
			c.ContextmenuNode(ev, hit)
		} else {
			c.ContextmenuBackground(ev)
		}
		return
	}
	if c.press != nil {
		c.PointerUp(ev)
	}
	p := &press{button: ev.Button, node: hit, startX: ev.X, startY: ev.Y}
	if hit != nil {
		p.nodeX, p.nodeY = hit.X, hit.Y
	}
	c.press = p
}

// PointerMove updates the temporary line and drives an active drag. The node
// keeps its offset from the pointer.
func (c *Controller) PointerMove(ev graph.PointerEvent) {
	c.Move(ev)

	p := c.press
	if p == nil || p.node == nil {
		return
	}
	dx, dy := ev.X-p.startX, ev.Y-p.startY
	if !p.dragging {
		if math.Hypot(dx, dy) <= c.deadZone {
			return
		}
		p.dragging = true
		c.DragStart(p.node)
	}
	c.Drag(p.node, p.nodeX+dx, p.nodeY+dy)
}

// PointerUp ends a press: it finishes a drag, or turns an unmoved press into
// a click on the node or background under the pointer.
func (c *Controller) PointerUp(ev graph.PointerEvent) {
	p := c.press
	c.press = nil
	if p == nil {
		return
	}
	if p.dragging {
		c.DragEnd(p.node)
		return
	}

	ev.Button = p.button
	hit := c.engine.NodeAt(ev.X, ev.Y)
	switch {
	case hit != nil && hit == p.node:
		c.ClickNode(ev, hit)
	case hit == nil && p.node == nil:
		c.ClickBackground(ev)
	}
}

// Dragging returns the node being dragged, or nil.
func (c *Controller) Dragging() *graph.Node {
	if c.press != nil && c.press.dragging {
		return c.press.node
	}
	return nil
}

// Reset abandons any press and pending link without firing callbacks.
func (c *Controller) Reset() {
	c.press = nil
	if c.discardPending() {
		c.transition(normal{})
	}
}
