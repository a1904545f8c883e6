package cli

import (
	"github.com/spf13/cobra"

	topoio "github.com/matzehuels/topo/pkg/io"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for topo.

Besides subcommands and flags, the scripts complete seed files for demo,
layout and check (only .json, .yaml, .yml and .toml files are offered) and
the output formats of layout --format.

To load completions:

Bash:
  $ source <(topo completion bash)

Zsh:
  $ topo completion zsh > "${fpath[1]}/_topo"

Fish:
  $ topo completion fish | source

PowerShell:
  PS> topo completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(w)
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(w)
			}
			return nil
		},
	}

	return cmd
}

// completeSeed offers seed files for the single positional argument.
func completeSeed(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return topoio.Extensions, cobra.ShellCompDirectiveFilterFileExt
}

// completeLayoutFormats offers the formats accepted by layout --format.
func completeLayoutFormats(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return layoutFormats, cobra.ShellCompDirectiveNoFileComp
}
