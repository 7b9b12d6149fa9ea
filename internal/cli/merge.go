package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mkarlsen/prmerge/internal/ui"
)

var mergeCmd = &cobra.Command{
	Use:   "merge <pr-number>",
	Short: "Merge a pull request into its base branch and push",
	Long: `Fetch a pull request from the code host, merge or squash it into its
base branch, push the result to the canonical remote, offer cherry-picks
into release branches, and resolve the tracker issues it references.

With --local the workflow stops after the commit for inspection and nothing
is pushed. Temporary branches are always cleaned up, whichever way the run
ends.`,
	Args: cobra.ExactArgs(1),
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().Bool("local", false, "stop before pushing, for local inspection")
	rootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	number, err := strconv.Atoi(args[0])
	if err != nil || number <= 0 {
		return fmt.Errorf("invalid PR number %q", args[0])
	}
	local, _ := cmd.Flags().GetBool("local")

	workflow, _, err := setup()
	if err != nil {
		return err
	}

	fmt.Println(ui.RenderBanner(local))
	return workflow.Run(cmd.Context(), number, local)
}
