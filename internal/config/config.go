package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Repo    RepoConfig    `toml:"repo"`
	Remotes RemotesConfig `toml:"remotes"`
	Project ProjectConfig `toml:"project"`
	Update  UpdateConfig  `toml:"update"`

	// Credentials come from the environment only and are never written
	// back to the config file.
	GithubToken  string `toml:"-"`
	JiraUsername string `toml:"-"`
	JiraPassword string `toml:"-"`
}

type RepoConfig struct {
	// Path is the local clone the tool operates in.
	Path string `toml:"path"`
	// DefaultBranch is the canonical integration branch. Empty means
	// detect it from the repository.
	DefaultBranch string `toml:"default_branch"`
}

type RemotesConfig struct {
	// Github is the remote pointing at the host serving pull requests.
	Github string `toml:"github"`
	// Push is the canonical remote merged commits are pushed to.
	Push string `toml:"push"`
	// GithubURL and PushURL are used by setup-remotes. Empty values are
	// derived from the project slug.
	GithubURL string `toml:"github_url"`
	PushURL   string `toml:"push_url"`
}

type ProjectConfig struct {
	// Slug is the "owner/name" of the canonical repository.
	Slug string `toml:"slug"`
	// IssueKey is the tracker project keyword, e.g. "AIRFLOW".
	IssueKey string `toml:"issue_key"`
	// ReleaseBranchPrefix is stripped from release branch names when
	// matching them against unreleased tracker versions.
	ReleaseBranchPrefix string `toml:"release_branch_prefix"`
	GithubAPIBase       string `toml:"github_api_base"`
	JiraAPIBase         string `toml:"jira_api_base"`
	// TempBranchPrefix names the local branches the tool creates and
	// unconditionally deletes on exit.
	TempBranchPrefix string `toml:"temp_branch_prefix"`
}

type UpdateConfig struct {
	Enabled        bool      `toml:"enabled"`
	LastCheck      time.Time `toml:"last_check"`
	SkippedVersion string    `toml:"skipped_version"`
	Repo           string    `toml:"repo"`
}

func DefaultConfig() *Config {
	return &Config{
		Repo: RepoConfig{
			Path: ".",
		},
		Remotes: RemotesConfig{
			Github: "github",
			Push:   "apache",
		},
		Project: ProjectConfig{
			Slug:                "apache/incubator-airflow",
			IssueKey:            "AIRFLOW",
			ReleaseBranchPrefix: "v",
			GithubAPIBase:       "https://api.github.com",
			JiraAPIBase:         "https://issues.apache.org/jira",
			TempBranchPrefix:    "PR_TOOL_",
		},
		Update: UpdateConfig{
			Enabled: true,
			Repo:    "mkarlsen/prmerge",
		},
	}
}

func configPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "prmerge.toml"), nil
}

// Load reads the config file (creating it with defaults on first run) and
// applies environment overrides on top.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	path, err := configPath()
	if err != nil {
		cfg.ApplyEnv()
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			_ = cfg.Save() // Best effort save
			cfg.ApplyEnv()
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	cfg.ApplyEnv()
	return cfg, nil
}

// ApplyEnv layers environment variables over the file-backed settings.
// Everything the workflow consumes can be driven from the environment alone.
func (c *Config) ApplyEnv() {
	setIfEnv(&c.Repo.Path, "PRMERGE_REPO")
	setIfEnv(&c.Repo.DefaultBranch, "PRMERGE_DEFAULT_BRANCH")
	setIfEnv(&c.Remotes.Github, "PRMERGE_GITHUB_REMOTE")
	setIfEnv(&c.Remotes.Push, "PRMERGE_PUSH_REMOTE")
	setIfEnv(&c.Project.Slug, "PRMERGE_PROJECT_SLUG")
	setIfEnv(&c.Project.IssueKey, "PRMERGE_ISSUE_KEY")
	setIfEnv(&c.Project.GithubAPIBase, "GITHUB_API_BASE")
	setIfEnv(&c.Project.JiraAPIBase, "JIRA_API_BASE")
	setIfEnv(&c.GithubToken, "GITHUB_OAUTH_KEY")
	setIfEnv(&c.JiraUsername, "JIRA_USERNAME")
	setIfEnv(&c.JiraPassword, "JIRA_PASSWORD")
}

func setIfEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// RepoPath returns the repository path with a leading tilde expanded.
func (c *Config) RepoPath() string {
	return expandTilde(c.Repo.Path)
}

// GithubRemoteURL returns the pull-request remote URL, derived from the
// project slug when unset.
func (c *Config) GithubRemoteURL() string {
	if c.Remotes.GithubURL != "" {
		return c.Remotes.GithubURL
	}
	return "https://github.com/" + c.Project.Slug + ".git"
}

// PushRemoteURL returns the canonical remote URL, derived from the project
// slug when unset.
func (c *Config) PushRemoteURL() string {
	if c.Remotes.PushURL != "" {
		return c.Remotes.PushURL
	}
	return "git@github.com:" + c.Project.Slug + ".git"
}

// ShouldCheckForUpdate returns true if update check is enabled and 24h since
// the last check.
func (c *Config) ShouldCheckForUpdate() bool {
	if !c.Update.Enabled {
		return false
	}
	return time.Since(c.Update.LastCheck) > 24*time.Hour
}

// RecordUpdateCheck updates the last check time.
func (c *Config) RecordUpdateCheck() {
	c.Update.LastCheck = time.Now()
}

func expandTilde(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
