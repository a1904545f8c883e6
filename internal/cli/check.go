package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	topoerrors "github.com/matzehuels/topo/pkg/errors"
	topoio "github.com/matzehuels/topo/pkg/io"
)

// checkCommand creates the check command that validates a seed file.
func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <seed>",
		Short: "Report records of a seed file the engine would reject",
		Long: `Load a seed file into an engine and report every node or link that
breaks a graph rule: duplicate ids, duplicate links, self-loops and links
whose endpoints do not exist. Exits non-zero when anything is rejected.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeSeed,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCheck(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runCheck(_ context.Context, path string) error {
	data, err := topoio.Import(path)
	if err != nil {
		return err
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	t, rejected, err := buildEngine(engineConfig(cfg, c.Logger), data)
	if err != nil {
		return err
	}
	defer t.Destroy()
	if err := t.Verify(); err != nil {
		return err
	}

	snap := t.Snapshot()
	if len(rejected) == 0 {
		printSuccess("%s is valid", path)
		printStats(len(snap.Nodes), len(snap.Links), 0)
		return nil
	}

	printError("%s: %d of %d records rejected", path, len(rejected), len(data.Nodes)+len(data.Links))
	for _, e := range rejected {
		printDetail("%-20s %s", topoerrors.GetCode(e), e)
	}
	return fmt.Errorf("%d records rejected", len(rejected))
}
