package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/topo/internal/config"
)

// configCommand groups the config file helpers.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConfigInit(force)
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	cmd.AddCommand(initCmd)
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConfigShow()
		},
	})
	return cmd
}

func (c *CLI) runConfigInit(force bool) error {
	path := c.configPathOrDefault()
	if _, err := os.Stat(path); err == nil && !force {
		printInfo("%s already exists (use --force to overwrite)", path)
		return nil
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if err := config.Save(path, config.Default()); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	printSuccess("Config written")
	printFile(path)
	return nil
}

func (c *CLI) runConfigShow() error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	printKeyValue("file", c.configPathOrDefault())
	printKeyValue("canvas", fmt.Sprintf("%gx%g", cfg.Canvas.Width, cfg.Canvas.Height))
	printKeyValue("charge", fmt.Sprintf("%g", cfg.Physics.ChargeStrength))
	printKeyValue("link", fmt.Sprintf("%g", cfg.Physics.LinkDistance))
	printKeyValue("collide", fmt.Sprintf("margin %g, %d iterations", cfg.Physics.CollideMargin, cfg.Physics.CollideIterations))
	printKeyValue("decay", fmt.Sprintf("%g", cfg.Physics.VelocityDecay))
	printKeyValue("frame", cfg.Demo.FrameInterval.String())
	if cfg.Demo.MetricsAddr != "" {
		printKeyValue("metrics", cfg.Demo.MetricsAddr)
	}
	return nil
}
