package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mkarlsen/prmerge/internal/config"
	"github.com/mkarlsen/prmerge/internal/github"
	"github.com/mkarlsen/prmerge/internal/ui"
	"github.com/mkarlsen/prmerge/internal/update"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the prmerge version",
	RunE:  runVersion,
}

func init() {
	versionCmd.Flags().Bool("check", false, "check for a newer release")
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, args []string) error {
	fmt.Println("prmerge", Version)

	check, _ := cmd.Flags().GetBool("check")
	if !check {
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	source := github.NewClient(cfg.Project.GithubAPIBase, cfg.Project.Slug, cfg.GithubToken, nil)
	latest, err := update.CheckForUpdate(cmd.Context(), source, Version, cfg.Update.Repo)
	if err != nil {
		return fmt.Errorf("update check failed: %w", err)
	}
	cfg.RecordUpdateCheck()
	_ = cfg.Save()

	if latest == "" {
		fmt.Println(ui.Dim("Already up to date."))
		return nil
	}
	fmt.Println(ui.Warn(fmt.Sprintf("A newer release is available: %s", latest)))
	return nil
}
