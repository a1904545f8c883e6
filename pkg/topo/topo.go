package topo

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	topoerrors "github.com/matzehuels/topo/pkg/errors"
	"github.com/matzehuels/topo/pkg/graph"
	"github.com/matzehuels/topo/pkg/interact"
	"github.com/matzehuels/topo/pkg/observability"
	"github.com/matzehuels/topo/pkg/physics"
	"github.com/matzehuels/topo/pkg/scene"
)

// Force names registered on the simulation, in application order.
const (
	ForceCollide = "collide"
	ForceCharge  = "charge"
	ForceLink    = "link"
)

// Topo is a live topology engine. The zero value is not rendered; use [New].
type Topo struct {
	id      string
	cfg     Config
	physics Physics
	logger  *log.Logger

	graph *graph.Graph
	sync  *scene.Synchronizer
	sim   *physics.Simulation
	ctrl  *interact.Controller

	running  bool
	rendered bool
}

// New validates cfg and builds a rendered engine with an empty graph.
func New(cfg Config) (*Topo, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := cfg.Physics.withDefaults()

	surface := cfg.Surface
	if surface == nil {
		surface = scene.NewCanvas(cfg.Width, cfg.Height)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	t := &Topo{
		id:      uuid.NewString(),
		cfg:     cfg,
		physics: p,
		graph:   graph.New(),
		sync:    scene.NewSynchronizer(surface),
		running: true,
	}
	t.logger = logger.With("topo", shortID(t.id))
	if cfg.Root != "" {
		t.logger = t.logger.With("root", cfg.Root)
	}

	t.sim = physics.New(physics.Options{
		AlphaMin:      p.AlphaMin,
		VelocityDecay: p.VelocityDecay,
		Seed:          p.Seed,
	})
	collide := physics.NewCollide(p.CollideMargin)
	collide.Iterations = p.CollideIterations
	charge := physics.NewManyBody()
	charge.Strength = p.ChargeStrength
	t.sim.SetForce(ForceCollide, collide)
	t.sim.SetForce(ForceCharge, charge)
	t.sim.SetForce(ForceLink, t.newLinkForce())
	t.sim.OnTick(t.ticked)

	t.ctrl = interact.New(engineView{t}, t.sim, interact.Options{
		Handlers: interact.Handlers{
			OnClick:           cfg.OnClick,
			OnContextmenu:     cfg.OnContextmenu,
			NodeOnClick:       cfg.NodeOnClick,
			NodeOnContextmenu: cfg.NodeOnContextmenu,
			OnReject:          cfg.OnReject,
			OnModeChange:      cfg.OnModeChange,
		},
		DragAlphaTarget: p.DragAlphaTarget,
		DeadZone:        p.DeadZone,
		Logger:          t.logger,
	})

	t.rendered = true
	t.logger.Debug("topology rendered", "width", cfg.Width, "height", cfg.Height)
	return t, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func (t *Topo) check() error {
	if t == nil || !t.rendered {
		return topoerrors.New(topoerrors.ErrCodeNotRendered, "topology is not rendered")
	}
	return nil
}

// ID returns the instance id used in logs.
func (t *Topo) ID() string {
	if t == nil {
		return ""
	}
	return t.id
}

// =============================================================================
// Mutation API
// =============================================================================

// AddData inserts a batch. Nodes go in before links. A record that breaks a
// rule is skipped and its error collected; the rest of the batch still
// commits. The returned error is only set when the engine is not rendered.
func (t *Topo) AddData(d graph.Data) (graph.Snapshot, []error, error) {
	if err := t.check(); err != nil {
		return graph.Snapshot{}, nil, err
	}

	var rejected []error
	added := 0
	for _, n := range d.Nodes {
		if err := t.insertNode(n); err != nil {
			rejected = append(rejected, err)
			continue
		}
		added++
	}
	for _, spec := range d.Links {
		if err := t.insertLink(spec); err != nil {
			rejected = append(rejected, err)
			continue
		}
		added++
	}

	t.reseed(added > 0)
	t.logger.Debug("data added", "nodes", len(d.Nodes), "links", len(d.Links), "rejected", len(rejected))
	t.record("addData", nil)
	return t.snapshot(), rejected, nil
}

// AddNode inserts one node. It fails with DUPLICATE_ID if the id is live.
func (t *Topo) AddNode(n graph.Node) (graph.Snapshot, error) {
	if err := t.check(); err != nil {
		return graph.Snapshot{}, err
	}
	if err := t.insertNode(n); err != nil {
		t.record("addNode", err)
		return graph.Snapshot{}, err
	}
	t.reseed(true)
	t.logger.Debug("node added", "id", n.ID)
	t.record("addNode", nil)
	return t.snapshot(), nil
}

// AddLink inserts one link. It fails with SELF_LOOP, DUPLICATE_LINK or
// UNRESOLVED_ENDPOINT, checked in that order.
func (t *Topo) AddLink(spec graph.LinkSpec) (graph.Snapshot, error) {
	if err := t.check(); err != nil {
		return graph.Snapshot{}, err
	}
	if err := t.insertLink(spec); err != nil {
		t.record("addLink", err)
		return graph.Snapshot{}, err
	}
	t.reseed(true)
	t.logger.Debug("link added", "source", spec.Source, "target", spec.Target)
	t.record("addLink", nil)
	return t.snapshot(), nil
}

// RemoveNodes removes the listed nodes and every link touching them. Absent
// ids are ignored.
func (t *Topo) RemoveNodes(ids ...graph.ID) (graph.Snapshot, error) {
	if err := t.check(); err != nil {
		return graph.Snapshot{}, err
	}
	n := t.graph.RemoveNodes(ids, t.sync)
	t.reseed(n > 0)
	t.logger.Debug("nodes removed", "requested", len(ids), "removed", n)
	t.record("removeNodes", nil)
	return t.snapshot(), nil
}

// RemoveLinks removes the links matching pairs in either direction.
// Unmatched pairs are ignored.
func (t *Topo) RemoveLinks(pairs ...graph.Pair) (graph.Snapshot, error) {
	if err := t.check(); err != nil {
		return graph.Snapshot{}, err
	}
	n := t.graph.RemoveLinks(pairs, t.sync)
	t.reseed(n > 0)
	t.logger.Debug("links removed", "requested", len(pairs), "removed", n)
	t.record("removeLinks", nil)
	return t.snapshot(), nil
}

func (t *Topo) insertNode(in graph.Node) error {
	n := in.Clone()
	if err := t.graph.InsertNode(n); err != nil {
		return err
	}
	t.sync.BindNode(n)
	return nil
}


func (t *Topo) insertLink(spec graph.LinkSpec) error {
	l, err := t.graph.InsertLink(spec)
	if err != nil {
		return err
	}
	t.sync.BindLink(l)
	return nil
}

func (t *Topo) newLinkForce() *physics.LinkForce {
	lf := physics.NewLinkForce(t.graph.Links())
	lf.Distance = t.physics.LinkDistance
	return lf
}

// reseed hands the simulation the current node list and a fresh link force.
// When heat is set the simulation is warmed up and restarted so the change
// settles visibly.
func (t *Topo) reseed(heat bool) {
	t.sim.SetNodes(t.graph.Nodes())
	t.sim.SetForce(ForceLink, t.newLinkForce())
	if !heat {
		return
	}
	if t.sim.Alpha() < t.physics.ReheatAlpha {
		t.sim.SetAlpha(t.physics.ReheatAlpha)
	}
	t.sim.Restart()
}

func (t *Topo) record(op string, err error) {
	observability.Engine().OnMutation(op, t.graph.NodeCount(), t.graph.LinkCount(), err)
	if err != nil {
		t.logger.Debug("operation rejected", "op", op, "code", topoerrors.GetCode(err), "err", err)
	}
}

// =============================================================================
// Simulation control
// =============================================================================

// StartSimulation lets every node move freely again.
func (t *Topo) StartSimulation() error {
	if err := t.check(); err != nil {
		return err
	}
	t.running = true
	for _, n := range t.graph.Nodes() {
		n.Unpin()
	}
	t.logger.Debug("simulation started")
	return nil
}

// StopSimulation pins every node where it currently is. A drag in progress
// keeps its pin at drag end.
func (t *Topo) StopSimulation() error {
	if err := t.check(); err != nil {
		return err
	}
	t.running = false
	for _, n := range t.graph.Nodes() {
		n.Pin(n.X, n.Y)
	}
	t.logger.Debug("simulation stopped")
	return nil
}

// Running reports whether the simulation is globally started.
func (t *Topo) Running() bool { return t != nil && t.running }

// Frame advances the layout by one animation frame. It reports whether the
// simulation is still active.
func (t *Topo) Frame() bool {
	if t.check() != nil {
		return false
	}
	start := time.Now()
	if !t.sim.Step() {
		return false
	}
	observability.Engine().OnTick(t.sim.Alpha(), time.Since(start))
	return t.sim.Active()
}

// Tick runs n simulation ticks without waiting for frames, then syncs the
// scene once. Headless layouts use it.
func (t *Topo) Tick(n int) error {
	if err := t.check(); err != nil {
		return err
	}
	t.sim.Tick(n)
	t.ticked()
	return nil
}

// Settle runs frames until the simulation goes idle, ctx is done or
// maxTicks frames have run (0 means no limit). It returns the frames run.
func (t *Topo) Settle(ctx context.Context, maxTicks int) (int, error) {
	start := time.Now()
	ticks, err := t.settle(ctx, maxTicks)
	observability.Export().OnLayoutComplete(ctx, ticks, time.Since(start), err)
	return ticks, err
}

func (t *Topo) settle(ctx context.Context, maxTicks int) (int, error) {
	if err := t.check(); err != nil {
		return 0, err
	}
	ticks := 0
	for maxTicks <= 0 || ticks < maxTicks {
		if err := ctx.Err(); err != nil {
			return ticks, err
		}
		if !t.sim.Active() {
			break
		}
		t.Frame()
		ticks++
	}
	t.logger.Debug("layout settled", "ticks", ticks, "alpha", t.sim.Alpha())
	return ticks, nil
}

func (t *Topo) ticked() {
	t.sync.Sync(t.graph.Nodes(), t.graph.Links())
}

// =============================================================================
// Interaction
// =============================================================================

// StartAddLink enters link-drawing mode from node id. style overrides the
// link defaults when the link is completed. An unknown id is ignored.
func (t *Topo) StartAddLink(id graph.ID, style graph.LinkStyle) error {
	if err := t.check(); err != nil {
		return err
	}
	t.ctrl.StartAddLink(id, style)
	return nil
}

// PointerDown feeds a pointer press in surface coordinates.
func (t *Topo) PointerDown(ev graph.PointerEvent) {
	if t.check() == nil {
		t.ctrl.PointerDown(ev)
	}
}

// PointerMove feeds pointer motion in surface coordinates.
func (t *Topo) PointerMove(ev graph.PointerEvent) {
	if t.check() == nil {
		t.ctrl.PointerMove(ev)
	}
}

// PointerUp feeds a pointer release in surface coordinates.
func (t *Topo) PointerUp(ev graph.PointerEvent) {
	if t.check() == nil {
		t.ctrl.PointerUp(ev)
	}
}

// Mode returns the interaction mode.
func (t *Topo) Mode() interact.Mode {
	if t.check() != nil {
		return interact.ModeNormal
	}
	return t.ctrl.Mode()
}

// Interaction returns the gesture controller for hosts that hit-test
// themselves. Nil when not rendered.
func (t *Topo) Interaction() *interact.Controller {
	if t.check() != nil {
		return nil
	}
	return t.ctrl
}

// =============================================================================
// Accessors
// =============================================================================

// Snapshot returns detached copies of the nodes and links. Each carries an
// element for styling its live primitive.
func (t *Topo) Snapshot() graph.Snapshot {
	if t.check() != nil {
		return graph.Snapshot{}
	}
	return t.snapshot()
}

func (t *Topo) snapshot() graph.Snapshot { return t.graph.SnapshotWith(t.sync) }

// Node returns a detached copy of the node with the given id.
func (t *Topo) Node(id graph.ID) (*graph.Node, bool) {
	if t.check() != nil {
		return nil, false
	}
	return t.graph.Detach(id, t.sync)
}

// Simulation returns the force simulation.
func (t *Topo) Simulation() *physics.Simulation {
	if t.check() != nil {
		return nil
	}
	return t.sim
}

// Surface returns the drawing target.
func (t *Topo) Surface() scene.Surface {
	if t.check() != nil {
		return nil
	}
	return t.sync.Surface()
}

// Width returns the canvas width.
func (t *Topo) Width() float64 { return t.cfg.Width }

// Height returns the canvas height.
func (t *Topo) Height() float64 { return t.cfg.Height }

// Verify cross-checks the graph indexes, the primitive table and the
// simulation's node and link view. A failure is an INTERNAL_ERROR.
func (t *Topo) Verify() error {
	if err := t.check(); err != nil {
		return err
	}
	if err := t.graph.Check(); err != nil {
		return fmt.Errorf("graph: %w", err)
	}
	nodes, links := t.graph.Nodes(), t.graph.Links()
	if err := t.sync.Verify(nodes, links); err != nil {
		return fmt.Errorf("scene: %w", err)
	}

	simNodes := t.sim.Nodes()
	if len(simNodes) != len(nodes) {
		return topoerrors.New(topoerrors.ErrCodeInternal,
			"simulation holds %d nodes, graph holds %d", len(simNodes), len(nodes))
	}
	for i, n := range simNodes {
		if nodes[i] != n {
			return topoerrors.New(topoerrors.ErrCodeInternal, "simulation node %d is not node(id: %s)", i, nodes[i].ID)
		}
	}

	f, ok := t.sim.Force(ForceLink)
	lf, isLink := f.(*physics.LinkForce)
	if !ok || !isLink {
		return topoerrors.New(topoerrors.ErrCodeInternal, "simulation has no link force")
	}
	simLinks := lf.Links()
	if len(simLinks) != len(links) {
		return topoerrors.New(topoerrors.ErrCodeInternal,
			"link force holds %d links, graph holds %d", len(simLinks), len(links))
	}
	for i, l := range simLinks {
		if links[i] != l {
			return topoerrors.New(topoerrors.ErrCodeInternal,
				"link force link %d is not link(source: %s, target: %s)", i, links[i].Source.ID, links[i].Target.ID)
		}
	}
	return nil
}

// Destroy removes every primitive, stops the simulation and marks the
// engine as not rendered. Later operations fail with NOT_RENDERED.
func (t *Topo) Destroy() {
	if t.check() != nil {
		return
	}
	t.ctrl.Reset()
	t.sim.Stop()
	t.sim.OnTick(nil)
	t.graph.Clear(t.sync)
	t.sync.Clear()
	t.sim.SetNodes(nil)
	t.sim.SetForce(ForceLink, t.newLinkForce())
	t.rendered = false
	t.logger.Debug("topology destroyed")
}

// engineView exposes the engine to the gesture controller without widening
// the public API.
type engineView struct{ t *Topo }

func (v engineView) Node(id graph.ID) (*graph.Node, bool) { return v.t.graph.Node(id) }
func (v engineView) Snapshot() graph.Snapshot             { return v.t.snapshot() }
func (v engineView) Running() bool                        { return v.t.running }

func (v engineView) NodeAt(x, y float64) *graph.Node {
	return v.t.sync.NodeAt(v.t.graph.Nodes(), x, y)
}

func (v engineView) AddLink(spec graph.LinkSpec) (graph.Snapshot, error) {
	return v.t.AddLink(spec)
}

func (v engineView) NewTempLine(x, y float64) scene.Primitive {
	return v.t.sync.NewTempLine(x, y)
}

func (v engineView) ReleaseTemp(p scene.Primitive) { v.t.sync.ReleaseTemp(p) }
