package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackplan/pkg/cost"
	"github.com/matzehuels/stackplan/pkg/geometry"
)

// completionCommand prints a shell completion script.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for stackplan. Besides commands and
flags it completes direction names, cost kinds and graph formats.

  bash:        source <(stackplan completion bash)
  zsh:         stackplan completion zsh > "${fpath[1]}/_stackplan"
  fish:        stackplan completion fish > ~/.config/fish/completions/stackplan.fish
  powershell:  stackplan completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, out := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			default:
				return root.GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

// completeValues completes a flag from a fixed list. For comma-separated
// list flags only the part after the last comma is matched.
func completeValues(values []string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		head, tail := "", toComplete
		if i := strings.LastIndex(toComplete, ","); i >= 0 {
			head, tail = toComplete[:i+1], toComplete[i+1:]
		}
		var out []string
		for _, v := range values {
			if strings.HasPrefix(v, tail) {
				out = append(out, head+v)
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	}
}

func directionNames() []string {
	names := make([]string, len(geometry.Directions))
	for i, d := range geometry.Directions {
		names[i] = d.String()
	}
	return names
}

// registerPlanCompletions completes the flags added by planFlags.register.
func registerPlanCompletions(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("direction", completeValues(directionNames()))
	_ = cmd.RegisterFlagCompletionFunc("cost", completeValues(cost.Kinds))
}
