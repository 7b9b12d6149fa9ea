package cli

import (
	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [issue]",
	Short: "Resolve tracker issues without merging anything",
	Long: `Walk one or more tracker issues through the resolution flow: show the
issue, collect a closing comment and fix versions, and transition it to
Resolved/Fixed. The issue may be given as a bare number or a full key;
without an argument the tool prompts.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	workflow, cfg, err := setup()
	if err != nil {
		return err
	}

	initial := ""
	if len(args) == 1 {
		initial = args[0]
	}

	// Without a merge there is no picked-branch list; fix-version
	// defaulting falls back to the integration branch.
	return workflow.ResolveLoop(cmd.Context(), initial, []string{cfg.Repo.DefaultBranch})
}
