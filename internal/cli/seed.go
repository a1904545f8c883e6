package cli

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/topo/internal/config"
	"github.com/matzehuels/topo/pkg/graph"
	topoio "github.com/matzehuels/topo/pkg/io"
	"github.com/matzehuels/topo/pkg/topo"
)

// demoData is the graph used when no seed file is given.
func demoData() graph.Data {
	return graph.Data{
		Nodes: []graph.Node{
			{ID: "red", X: 250, Y: 250, Radius: 5, Color: "red"},
			{ID: "green", X: 300, Y: 300, Radius: 10, Color: "green"},
			{ID: "blue", X: 370, Y: 170, Radius: 15, Color: "blue"},
		},
		Links: []graph.LinkSpec{
			{Source: "red", Target: "green", LinkStyle: graph.LinkStyle{Width: 2, Color: "#aaa"}},
			{Source: "green", Target: "blue", LinkStyle: graph.LinkStyle{Width: 6, Color: "red"}},
		},
	}
}

// loadSeed imports path, or returns the demo graph for an empty path.
func loadSeed(path string) (graph.Data, error) {
	if path == "" {
		return demoData(), nil
	}
	return topoio.Import(path)
}

// engineConfig maps the file configuration onto an engine configuration.
func engineConfig(cfg *config.Config, logger *log.Logger) topo.Config {
	return topo.Config{
		Root:    appName,
		Width:   cfg.Canvas.Width,
		Height:  cfg.Canvas.Height,
		Logger:  logger,
		Physics: cfg.EnginePhysics(),
	}
}

// buildEngine creates an engine and inserts d. Records the engine refused are
// returned alongside it.
func buildEngine(tc topo.Config, d graph.Data) (*topo.Topo, []error, error) {
	t, err := topo.New(tc)
	if err != nil {
		return nil, nil, err
	}
	_, rejected, err := t.AddData(d)
	if err != nil {
		return nil, nil, err
	}
	return t, rejected, nil
}
