package git

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	pexec "github.com/mkarlsen/prmerge/internal/exec"
)

func newTestShell() (*Shell, *pexec.MockExecutor) {
	mock := pexec.NewMockExecutor()
	return NewShellWithExecutor("/tmp/repo", mock), mock
}

func TestRunTrimsTrailingWhitespace(t *testing.T) {
	shell, mock := newTestShell()
	mock.AddExactMatch("git", []string{"rev-parse", "HEAD"},
		pexec.MockResponse{Stdout: []byte("abc123\n")})

	out, err := shell.Run(context.Background(), "rev-parse", "HEAD")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out != "abc123" {
		t.Errorf("Run output = %q, want %q", out, "abc123")
	}
}

func TestRunCommandError(t *testing.T) {
	shell, mock := newTestShell()
	mock.AddExactMatch("git", []string{"checkout", "nope"}, pexec.MockResponse{
		Stderr: []byte("error: pathspec 'nope' did not match\n"),
		Err:    errors.New("exit status 1"),
	})

	_, err := shell.Run(context.Background(), "checkout", "nope")
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("error type = %T, want *CommandError", err)
	}
	if cmdErr.Stderr != "error: pathspec 'nope' did not match" {
		t.Errorf("Stderr = %q", cmdErr.Stderr)
	}
	if !strings.Contains(cmdErr.Error(), "git checkout nope") {
		t.Errorf("Error() = %q, want the command line in it", cmdErr.Error())
	}
}

func TestRunEcho(t *testing.T) {
	shell, _ := newTestShell()
	var buf bytes.Buffer
	shell.SetEcho(&buf)

	if _, err := shell.Run(context.Background(), "fetch", "apache", "master:TMP"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got := buf.String(); got != "git fetch apache master:TMP\n" {
		t.Errorf("echo = %q", got)
	}
}

func TestCurrentRef(t *testing.T) {
	t.Run("on a branch", func(t *testing.T) {
		shell, mock := newTestShell()
		mock.AddExactMatch("git", []string{"rev-parse", "--abbrev-ref", "HEAD"},
			pexec.MockResponse{Stdout: []byte("master\n")})

		ref, err := shell.CurrentRef(context.Background())
		if err != nil {
			t.Fatalf("CurrentRef failed: %v", err)
		}
		if ref != "master" {
			t.Errorf("CurrentRef = %q, want master", ref)
		}
	})

	t.Run("detached head falls back to hash", func(t *testing.T) {
		shell, mock := newTestShell()
		mock.AddExactMatch("git", []string{"rev-parse", "--abbrev-ref", "HEAD"},
			pexec.MockResponse{Stdout: []byte("HEAD\n")})
		mock.AddExactMatch("git", []string{"rev-parse", "HEAD"},
			pexec.MockResponse{Stdout: []byte("abc123def\n")})

		ref, err := shell.CurrentRef(context.Background())
		if err != nil {
			t.Fatalf("CurrentRef failed: %v", err)
		}
		if ref != "abc123def" {
			t.Errorf("CurrentRef = %q, want abc123def", ref)
		}
	})
}

func TestLocalBranches(t *testing.T) {
	shell, mock := newTestShell()
	mock.AddExactMatch("git", []string{"branch"}, pexec.MockResponse{
		Stdout: []byte("  master\n* PR_TOOL_MERGE_PR_42_MASTER\n  feature/x\n"),
	})

	got, err := shell.LocalBranches(context.Background())
	if err != nil {
		t.Fatalf("LocalBranches failed: %v", err)
	}
	want := []string{"master", "PR_TOOL_MERGE_PR_42_MASTER", "feature/x"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("LocalBranches = %v, want %v", got, want)
	}
}

func TestCommitArgs(t *testing.T) {
	t.Run("with author", func(t *testing.T) {
		shell, mock := newTestShell()
		if err := shell.Commit(context.Background(), "Jane <jane@example.com>", "subject", "body"); err != nil {
			t.Fatalf("Commit failed: %v", err)
		}
		calls := mock.Calls()
		if len(calls) != 1 {
			t.Fatalf("calls = %d, want 1", len(calls))
		}
		want := []string{"commit", "--no-verify", "--author", "Jane <jane@example.com>", "-m", "subject", "-m", "body"}
		if !reflect.DeepEqual(calls[0].Args, want) {
			t.Errorf("args = %v, want %v", calls[0].Args, want)
		}
	})

	t.Run("without author", func(t *testing.T) {
		shell, mock := newTestShell()
		if err := shell.Commit(context.Background(), "", "subject"); err != nil {
			t.Fatalf("Commit failed: %v", err)
		}
		want := []string{"commit", "--no-verify", "-m", "subject"}
		if !reflect.DeepEqual(mock.Calls()[0].Args, want) {
			t.Errorf("args = %v, want %v", mock.Calls()[0].Args, want)
		}
	})
}

func TestPushArgs(t *testing.T) {
	shell, mock := newTestShell()
	if err := shell.Push(context.Background(), "apache", "TMP_BRANCH", "master"); err != nil {
		t.Fatalf("Push failed: %v", err)
	}
	want := []string{"push", "apache", "TMP_BRANCH:master"}
	if !reflect.DeepEqual(mock.Calls()[0].Args, want) {
		t.Errorf("args = %v, want %v", mock.Calls()[0].Args, want)
	}
}

func TestCherryPickContinueArgs(t *testing.T) {
	shell, mock := newTestShell()
	if err := shell.CherryPickContinue(context.Background()); err != nil {
		t.Fatalf("CherryPickContinue failed: %v", err)
	}
	want := []string{"-c", "core.editor=true", "cherry-pick", "--continue"}
	if !reflect.DeepEqual(mock.Calls()[0].Args, want) {
		t.Errorf("args = %v, want %v", mock.Calls()[0].Args, want)
	}
}

func TestAmendInteractiveUsesTerminal(t *testing.T) {
	shell, mock := newTestShell()
	if err := shell.AmendInteractive(context.Background()); err != nil {
		t.Fatalf("AmendInteractive failed: %v", err)
	}
	call := mock.Calls()[0]
	if !call.Interactive {
		t.Errorf("amend did not run interactively")
	}
	want := []string{"commit", "--amend"}
	if !reflect.DeepEqual(call.Args, want) {
		t.Errorf("args = %v, want %v", call.Args, want)
	}
}

func TestIsDefaultBranch(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"master", true},
		{"main", true},
		{"v1-9-stable", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsDefaultBranch(tt.name); got != tt.want {
			t.Errorf("IsDefaultBranch(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
