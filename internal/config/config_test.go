package config

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Project.Slug != "apache/incubator-airflow" {
		t.Errorf("Slug = %q", cfg.Project.Slug)
	}
	if cfg.Project.IssueKey != "AIRFLOW" {
		t.Errorf("IssueKey = %q", cfg.Project.IssueKey)
	}
	if cfg.Project.TempBranchPrefix != "PR_TOOL_" {
		t.Errorf("TempBranchPrefix = %q", cfg.Project.TempBranchPrefix)
	}
	if cfg.Remotes.Github != "github" || cfg.Remotes.Push != "apache" {
		t.Errorf("remotes = %+v", cfg.Remotes)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("PRMERGE_REPO", "/work/airflow")
	t.Setenv("PRMERGE_PROJECT_SLUG", "acme/widgets")
	t.Setenv("PRMERGE_ISSUE_KEY", "WIDGET")
	t.Setenv("PRMERGE_PUSH_REMOTE", "upstream")
	t.Setenv("GITHUB_OAUTH_KEY", "tok123")
	t.Setenv("JIRA_USERNAME", "releasebot")
	t.Setenv("JIRA_PASSWORD", "hunter2")

	cfg := DefaultConfig()
	cfg.ApplyEnv()

	if cfg.Repo.Path != "/work/airflow" {
		t.Errorf("Path = %q", cfg.Repo.Path)
	}
	if cfg.Project.Slug != "acme/widgets" || cfg.Project.IssueKey != "WIDGET" {
		t.Errorf("project = %+v", cfg.Project)
	}
	if cfg.Remotes.Push != "upstream" {
		t.Errorf("Push remote = %q", cfg.Remotes.Push)
	}
	if cfg.GithubToken != "tok123" || cfg.JiraUsername != "releasebot" || cfg.JiraPassword != "hunter2" {
		t.Errorf("credentials not read from environment")
	}
}

func TestApplyEnvEmptyValuesKeepDefaults(t *testing.T) {
	t.Setenv("PRMERGE_ISSUE_KEY", "")

	cfg := DefaultConfig()
	cfg.ApplyEnv()
	if cfg.Project.IssueKey != "AIRFLOW" {
		t.Errorf("IssueKey = %q, want default kept", cfg.Project.IssueKey)
	}
}

func TestRemoteURLs(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.GithubRemoteURL(); got != "https://github.com/apache/incubator-airflow.git" {
		t.Errorf("GithubRemoteURL = %q", got)
	}
	if got := cfg.PushRemoteURL(); got != "git@github.com:apache/incubator-airflow.git" {
		t.Errorf("PushRemoteURL = %q", got)
	}

	cfg.Remotes.GithubURL = "https://example.com/mirror.git"
	cfg.Remotes.PushURL = "git@example.com:canonical.git"
	if got := cfg.GithubRemoteURL(); got != "https://example.com/mirror.git" {
		t.Errorf("GithubRemoteURL override = %q", got)
	}
	if got := cfg.PushRemoteURL(); got != "git@example.com:canonical.git" {
		t.Errorf("PushRemoteURL override = %q", got)
	}
}

func TestShouldCheckForUpdate(t *testing.T) {
	cfg := DefaultConfig()

	if !cfg.ShouldCheckForUpdate() {
		t.Errorf("never-checked config should want a check")
	}

	cfg.RecordUpdateCheck()
	if cfg.ShouldCheckForUpdate() {
		t.Errorf("just-checked config should not want a check")
	}

	cfg.Update.LastCheck = time.Now().Add(-25 * time.Hour)
	if !cfg.ShouldCheckForUpdate() {
		t.Errorf("stale check should want a check")
	}

	cfg.Update.Enabled = false
	if cfg.ShouldCheckForUpdate() {
		t.Errorf("disabled update check should never want a check")
	}
}

func TestExpandTilde(t *testing.T) {
	if got := expandTilde("/abs/path"); got != "/abs/path" {
		t.Errorf("expandTilde = %q", got)
	}
	if got := expandTilde("~/airflow"); got == "~/airflow" {
		t.Errorf("tilde was not expanded")
	}
}
