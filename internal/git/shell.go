// Package git wraps the git CLI for mutations and go-git for read-only
// repository inspection. Mutations go through the CLI so the operator's SSH
// agent, editor, and merge drivers apply.
package git

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	pexec "github.com/mkarlsen/prmerge/internal/exec"
)

// CommandError reports a git invocation that exited non-zero.
type CommandError struct {
	Args       []string
	ExitStatus int
	Stderr     string
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("git %s: exit status %d", strings.Join(e.Args, " "), e.ExitStatus)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

// Shell runs git commands in a fixed working directory through an injected
// executor. Output is captured stdout with trailing whitespace trimmed.
type Shell struct {
	executor pexec.CommandExecutor
	dir      string
	echo     io.Writer
}

// NewShell creates a Shell for the given repository path using the real
// executor.
func NewShell(dir string) *Shell {
	return &Shell{executor: pexec.NewRealExecutor(), dir: dir}
}

// NewShellWithExecutor creates a Shell with a custom executor, primarily for
// tests.
func NewShellWithExecutor(dir string, executor pexec.CommandExecutor) *Shell {
	return &Shell{executor: executor, dir: dir}
}

// SetEcho makes the shell write each command line to w before running it.
func (s *Shell) SetEcho(w io.Writer) {
	s.echo = w
}

// Dir returns the working directory commands run in.
func (s *Shell) Dir() string {
	return s.dir
}

// Run executes git with the given arguments and returns captured stdout with
// trailing whitespace trimmed. A non-zero exit returns a *CommandError
// carrying the exit status and stderr.
func (s *Shell) Run(ctx context.Context, args ...string) (string, error) {
	if s.echo != nil {
		fmt.Fprintf(s.echo, "git %s\n", strings.Join(args, " "))
	}

	stdout, stderr, err := s.executor.Run(ctx, s.dir, "git", args...)
	if err != nil {
		status := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			status = exitErr.ExitCode()
		}
		return "", &CommandError{
			Args:       args,
			ExitStatus: status,
			Stderr:     strings.TrimSpace(string(stderr)),
		}
	}
	return strings.TrimRight(string(stdout), " \t\r\n"), nil
}

// RunInteractive executes git attached to the operator's terminal, for
// commands that open an editor.
func (s *Shell) RunInteractive(ctx context.Context, args ...string) error {
	if s.echo != nil {
		fmt.Fprintf(s.echo, "git %s\n", strings.Join(args, " "))
	}
	if err := s.executor.Interactive(ctx, s.dir, "git", args...); err != nil {
		status := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			status = exitErr.ExitCode()
		}
		return &CommandError{Args: args, ExitStatus: status}
	}
	return nil
}
