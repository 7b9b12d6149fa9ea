// Package cli wires the cobra command surface. The core workflow lives in
// internal/merge; commands here only load config, build collaborators, and
// hand off.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mkarlsen/prmerge/internal/config"
	"github.com/mkarlsen/prmerge/internal/git"
	"github.com/mkarlsen/prmerge/internal/github"
	"github.com/mkarlsen/prmerge/internal/jira"
	"github.com/mkarlsen/prmerge/internal/logger"
	"github.com/mkarlsen/prmerge/internal/merge"
	"github.com/mkarlsen/prmerge/internal/prompt"
)

var rootCmd = &cobra.Command{
	Use:          "prmerge",
	Short:        "Merge pull requests into the canonical repository and reconcile the issue tracker",
	SilenceUsage: true,
}

// Execute runs the CLI and exits nonzero on any failure, including operator
// aborts.
func Execute() {
	logger.SetDebug(os.Getenv("PRMERGE_DEBUG") != "")
	defer logger.Close()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads config and builds the workflow with its real collaborators.
func setup() (*merge.Workflow, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	repoPath := cfg.RepoPath()
	if !git.IsGitRepo(repoPath) {
		return nil, nil, fmt.Errorf("%s is not a git repository (set PRMERGE_REPO)", repoPath)
	}
	if cfg.Repo.DefaultBranch == "" {
		branch, err := git.DetectDefaultBranch(repoPath, cfg.Remotes.Push)
		if err != nil {
			return nil, nil, err
		}
		cfg.Repo.DefaultBranch = branch
	}

	shell := git.NewShell(repoPath)
	shell.SetEcho(os.Stdout)

	hub := github.NewClient(cfg.Project.GithubAPIBase, cfg.Project.Slug, cfg.GithubToken, nil)
	tracker := jira.NewClient(cfg.Project.JiraAPIBase, cfg.JiraUsername, cfg.JiraPassword, nil)

	return merge.New(cfg, shell, hub, tracker, prompt.NewTerminal()), cfg, nil
}
