// Package cli implements the topo command-line interface.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/topo/internal/config"
	"github.com/matzehuels/topo/pkg/buildinfo"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "topo"

	// defaultMaxTicks bounds headless layouts that never go idle.
	defaultMaxTicks = 2000
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath is set by --config; empty means the XDG default.
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Topo lays out and edits force-directed topology diagrams",
		Long:         `Topo is a force-directed node-link engine. It lays out seed graphs headlessly, checks them for rule violations, and hosts an interactive editor in the terminal.`,
		Version:      buildinfo.Resolved(),
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: "+config.Path()+")")

	root.AddCommand(c.demoCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the configuration selected by --config.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("config loaded", "path", c.configPathOrDefault())
	return cfg, nil
}

func (c *CLI) configPathOrDefault() string {
	if c.configPath != "" {
		return c.configPath
	}
	return config.Path()
}
