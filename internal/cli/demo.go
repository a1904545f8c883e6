package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/topo/internal/metrics"
	topoerrors "github.com/matzehuels/topo/pkg/errors"
	"github.com/matzehuels/topo/pkg/observability"
)

// demoCommand creates the interactive terminal editor.
func (c *CLI) demoCommand() *cobra.Command {
	var (
		metricsAddr string
		logFile     string
	)

	cmd := &cobra.Command{
		Use:   "demo [seed]",
		Short: "Edit a topology interactively in the terminal",
		Long: `Open the force layout in the terminal.

Mouse: drag nodes, click a node to select it, right-click a node for its
menu, click the background to clear the selection. While drawing a link,
click the target node; click the background to cancel.

Keys:
  space  start/stop the simulation      n  add a node
  l      draw a link from the selection  x  remove the selection
  u      remove links of the selection  r  reheat
  esc    cancel link drawing            q  quit

Without a seed the built-in demo graph is used.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeSeed,
		RunE: func(cmd *cobra.Command, args []string) error {
			var input string
			if len(args) == 1 {
				input = args[0]
			}
			return c.runDemo(cmd.Context(), input, metricsAddr, logFile)
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")
	cmd.Flags().StringVar(&logFile, "log-file", "", "write engine logs to this file")
	return cmd
}

func (c *CLI) runDemo(ctx context.Context, input, metricsAddr, logFile string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if metricsAddr == "" {
		metricsAddr = cfg.Demo.MetricsAddr
	}

	data, err := loadSeed(input)
	if err != nil {
		return err
	}

	// The terminal belongs to the TUI; logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := newLogger(logOut, c.Logger.GetLevel())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if metricsAddr != "" {
		collector := metrics.NewCollector(appName)
		observability.SetEngineHooks(collector)
		observability.SetExportHooks(collector)
		defer observability.Reset()
		go func() {
			if err := metrics.Serve(ctx, metricsAddr, collector.Router(), logger); err != nil {
				logger.Error("metrics server", "err", err)
			}
		}()
	}

	m, err := newDemoModel(cfg, engineConfig(cfg, logger), data)
	if err != nil {
		return err
	}
	defer m.topo.Destroy()
	for _, e := range m.rejected {
		logger.Warn("record skipped", "code", topoerrors.GetCode(e), "err", e)
	}

	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)
	if _, err := p.Run(); err != nil {
		return err
	}

	snap := m.topo.Snapshot()
	printSuccess("Demo closed")
	printStats(len(snap.Nodes), len(snap.Links), m.frames)
	return nil
}
