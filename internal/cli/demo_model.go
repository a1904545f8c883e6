package cli

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/matzehuels/topo/internal/config"
	"github.com/matzehuels/topo/pkg/graph"
	"github.com/matzehuels/topo/pkg/interact"
	"github.com/matzehuels/topo/pkg/scene"
	"github.com/matzehuels/topo/pkg/topo"
)

// chromeRows is the number of terminal rows used by the status and help bars.
const chromeRows = 2

var (
	styleBadgeNormal  = lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(lipgloss.Color("0")).Background(colorCyan)
	styleBadgeDrawing = lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(lipgloss.Color("0")).Background(colorYellow)
	styleStatus       = lipgloss.NewStyle().Foreground(colorGray)
	styleHelp         = lipgloss.NewStyle().Foreground(colorDim)
	styleLabel        = lipgloss.NewStyle().Foreground(colorWhite)
)

type frameMsg time.Time

func nextFrame(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// demoModel hosts a topology engine in a bubbletea program. Terminal cells
// are mapped onto the engine surface; the scene is rasterized every frame.
type demoModel struct {
	topo     *topo.Topo
	rejected []error

	interval time.Duration
	labels   bool
	cols     int
	rows     int

	// pressed is the button held since the last press, for release events
	// that do not carry one.
	pressed  graph.Button
	selected graph.ID
	menu     graph.ID
	status   string
	frames   int
}

func newDemoModel(cfg *config.Config, tc topo.Config, d graph.Data) (*demoModel, error) {
	m := &demoModel{
		interval: cfg.Demo.FrameInterval,
		labels:   cfg.Demo.Labels,
		cols:     80,
		rows:     24 - chromeRows,
	}

	tc.OnClick = func(graph.PointerEvent, graph.Snapshot) {
		m.selected, m.menu = "", ""
		m.status = ""
	}
	tc.OnContextmenu = func(ev graph.PointerEvent, _ graph.Snapshot) {
		m.menu = ""
		m.status = fmt.Sprintf("background at %.0f,%.0f", ev.X, ev.Y)
	}
	tc.NodeOnClick = func(_ graph.PointerEvent, n *graph.Node, _ graph.Snapshot) {
		m.selected, m.menu = n.ID, ""
		m.status = fmt.Sprintf("selected %s", n.ID)
	}
	tc.NodeOnContextmenu = func(_ graph.PointerEvent, n *graph.Node, _ graph.Snapshot) {
		m.selected, m.menu = n.ID, n.ID
		m.status = fmt.Sprintf("%s: [l] add link  [x] remove", n.ID)
	}
	tc.OnReject = func(spec graph.LinkSpec, err error) {
		m.status = fmt.Sprintf("link %s-%s refused: %v", spec.Source, spec.Target, err)
	}
	tc.OnModeChange = func(_, to interact.Mode) {
		if to == interact.ModeNormal && strings.HasPrefix(m.status, "drawing") {
			m.status = ""
		}
	}

	t, rejected, err := buildEngine(tc, d)
	if err != nil {
		return nil, err
	}
	m.topo, m.rejected = t, rejected
	if len(rejected) > 0 {
		m.status = fmt.Sprintf("%d seed records skipped", len(rejected))
	}
	return m, nil
}

func (m *demoModel) Init() tea.Cmd {
	return nextFrame(m.interval)
}

func (m *demoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		if m.topo.Frame() {
			m.frames++
		}
		return m, nextFrame(m.interval)
	case tea.WindowSizeMsg:
		m.cols = max(msg.Width, 1)
		m.rows = max(msg.Height-chromeRows, 1)
	case tea.MouseMsg:
		m.mouse(msg)
	case tea.KeyMsg:
		return m, m.key(msg.String())
	}
	return m, nil
}

// toSurface maps the center of a terminal cell onto the engine surface.
func (m *demoModel) toSurface(col, row int) (float64, float64) {
	x := (float64(col) + 0.5) * m.topo.Width() / float64(m.cols)
	y := (float64(row) + 0.5) * m.topo.Height() / float64(m.rows)
	return x, y
}

// snap moves a pointer that lands on a node's glyph cell onto the node, so
// small circles stay clickable at terminal resolution.
func (m *demoModel) snap(col, row int, x, y float64) (float64, float64) {
	sx := float64(m.cols) / m.topo.Width()
	sy := float64(m.rows) / m.topo.Height()
	nodes := m.topo.Snapshot().Nodes
	for i := len(nodes) - 1; i >= 0; i-- {
		el := nodes[i].Element()
		cx, okx := scene.Float(el, "cx")
		cy, oky := scene.Float(el, "cy")
		if okx && oky && int(cx*sx) == col && int(cy*sy) == row {
			return cx, cy
		}
	}
	return x, y
}

func (m *demoModel) mouse(msg tea.MouseMsg) {
	if msg.Y >= m.rows {
		return
	}
	x, y := m.toSurface(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		var b graph.Button
		switch msg.Button {
		case tea.MouseButtonLeft:
			b = graph.ButtonPrimary
		case tea.MouseButtonRight:
			b = graph.ButtonSecondary
		default:
			return
		}
		x, y = m.snap(msg.X, msg.Y, x, y)
		m.pressed = b
		m.topo.PointerDown(graph.PointerEvent{X: x, Y: y, Button: b})
	case tea.MouseActionMotion:
		m.topo.PointerMove(graph.PointerEvent{X: x, Y: y, Button: m.pressed})
	case tea.MouseActionRelease:
		if m.topo.Interaction().Dragging() == nil {
			x, y = m.snap(msg.X, msg.Y, x, y)
		}
		m.topo.PointerUp(graph.PointerEvent{X: x, Y: y, Button: m.pressed})
	}
}

func (m *demoModel) key(k string) tea.Cmd {
	switch k {
	case "q", "ctrl+c":
		return tea.Quit
	case " ", "space":
		if m.topo.Running() {
			_ = m.topo.StopSimulation()
			m.status = "simulation stopped"
		} else {
			_ = m.topo.StartSimulation()
			m.status = "simulation started"
		}
	case "n":
		m.addNode()
	case "l":
		m.startLink()
	case "x", "delete":
		m.removeSelected()
	case "u":
		m.unlinkSelected()
	case "r":
		sim := m.topo.Simulation()
		sim.SetAlpha(1)
		sim.Restart()
		m.status = "reheated"
	case "esc":
		m.topo.Interaction().Cancel()
		m.menu = ""
	}
	return nil
}

// addNode drops a node near the selection, or at the canvas center, and
// links it to the selection.
func (m *demoModel) addNode() {
	x, y := m.topo.Width()/2, m.topo.Height()/2
	if n, ok := m.topo.Node(m.selected); ok {
		x, y = n.X, n.Y
	}
	x += rand.Float64()*20 - 10
	y += rand.Float64()*20 - 10

	id := graph.ID(uuid.NewString()[:8])
	if _, err := m.topo.AddNode(graph.Node{ID: id, X: x, Y: y, Radius: 6, Color: "#598", Opacity: 0.9}); err != nil {
		m.status = err.Error()
		return
	}
	if m.selected != "" {
		if _, err := m.topo.AddLink(graph.LinkSpec{Source: m.selected, Target: id}); err != nil {
			m.status = err.Error()
			return
		}
	}
	m.selected = id
	m.status = fmt.Sprintf("added %s", id)
}

func (m *demoModel) startLink() {
	if m.selected == "" {
		m.status = "select a node first"
		return
	}
	_ = m.topo.StartAddLink(m.selected, graph.LinkStyle{})
	m.menu = ""
	if m.topo.Mode() == interact.ModeDrawingLink {
		m.status = fmt.Sprintf("drawing link from %s, click the target", m.selected)
	}
}

func (m *demoModel) removeSelected() {
	if m.selected == "" {
		return
	}
	id := m.selected
	_, _ = m.topo.RemoveNodes(id)
	m.selected, m.menu = "", ""
	m.status = fmt.Sprintf("removed %s", id)
}

func (m *demoModel) unlinkSelected() {
	if m.selected == "" {
		return
	}
	var pairs []graph.Pair
	for _, l := range m.topo.Snapshot().Links {
		if l.Source.ID == m.selected || l.Target.ID == m.selected {
			pairs = append(pairs, l.Pair())
		}
	}
	_, _ = m.topo.RemoveLinks(pairs...)
	m.status = fmt.Sprintf("removed %d links of %s", len(pairs), m.selected)
}

func (m *demoModel) View() string {
	r := scene.Rasterize(m.topo.Surface(), m.cols, m.rows)
	if m.labels {
		m.drawLabels(r)
	}

	var b strings.Builder
	b.WriteString(r.Render(paint))
	b.WriteByte('\n')
	b.WriteString(m.statusLine())
	b.WriteByte('\n')
	b.WriteString(styleHelp.Render("drag move · click select · right-click menu · space start/stop · n add · l link · x remove · q quit"))
	return b.String()
}

func (m *demoModel) drawLabels(r *scene.Raster) {
	sx := float64(m.cols) / m.topo.Width()
	sy := float64(m.rows) / m.topo.Height()
	for _, n := range m.topo.Snapshot().Nodes {
		cx, _ := scene.Float(n.Element(), "cx")
		cy, _ := scene.Float(n.Element(), "cy")
		r.Write(int(cx*sx)+2, int(cy*sy), string(n.ID), "")
	}
}

func (m *demoModel) statusLine() string {
	badge := styleBadgeNormal.Render(m.topo.Mode().String())
	if m.topo.Mode() == interact.ModeDrawingLink {
		badge = styleBadgeDrawing.Render(m.topo.Mode().String())
	}

	state := "stopped"
	if m.topo.Running() {
		state = "running"
	}
	snap := m.topo.Snapshot()
	parts := []string{
		fmt.Sprintf("%d nodes", len(snap.Nodes)),
		fmt.Sprintf("%d links", len(snap.Links)),
		fmt.Sprintf("α %.3f", m.topo.Simulation().Alpha()),
		state,
	}
	if m.selected != "" {
		parts = append(parts, styleLabel.Render("▸ "+string(m.selected)))
	}
	line := badge + " " + styleStatus.Render(strings.Join(parts, " · "))
	if m.status != "" {
		line += "  " + m.status
	}
	return line
}

// paint colors a raster run. The default node color is black, which would
// vanish on dark terminals, so it is drawn in the foreground color.
func paint(color, text string) string {
	if hex, ok := namedColors[strings.ToLower(color)]; ok {
		color = hex
	}
	if color == graph.DefaultNodeColor || color == "#000000" {
		return text
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(text)
}

// namedColors resolves the CSS names seeds commonly use; terminal colors
// only accept hex or ANSI numbers.
var namedColors = map[string]string{
	"black":  "#000000",
	"white":  "#ffffff",
	"red":    "#ff0000",
	"green":  "#008000",
	"blue":   "#0000ff",
	"yellow": "#ffff00",
	"orange": "#ffa500",
	"purple": "#800080",
	"gray":   "#808080",
	"grey":   "#808080",
}
