package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mkarlsen/prmerge/internal/config"
	"github.com/mkarlsen/prmerge/internal/git"
	"github.com/mkarlsen/prmerge/internal/ui"
)

var remotesCmd = &cobra.Command{
	Use:   "setup-remotes",
	Short: "Create the code-host and canonical push remotes",
	RunE:  runSetupRemotes,
}

func init() {
	rootCmd.AddCommand(remotesCmd)
}

func runSetupRemotes(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	repoPath := cfg.RepoPath()
	if !git.IsGitRepo(repoPath) {
		return fmt.Errorf("%s is not a git repository (set PRMERGE_REPO)", repoPath)
	}
	shell := git.NewShell(repoPath)

	remotes := []struct {
		name string
		url  string
	}{
		{cfg.Remotes.Github, cfg.GithubRemoteURL()},
		{cfg.Remotes.Push, cfg.PushRemoteURL()},
	}
	for _, r := range remotes {
		if git.HasRemote(repoPath, r.name) {
			fmt.Println(ui.Dim(fmt.Sprintf("Remote %q already exists, skipping.", r.name)))
			continue
		}
		if err := shell.AddRemote(cmd.Context(), r.name, r.url); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Added remote %q -> %s", r.name, r.url)))
	}
	return nil
}
