package git

import (
	"context"
	"strings"
)

// CurrentRef returns the checked-out branch name, or the bare commit hash
// when HEAD is detached.
func (s *Shell) CurrentRef(ctx context.Context) (string, error) {
	ref, err := s.Run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	if ref == "HEAD" {
		return s.Run(ctx, "rev-parse", "HEAD")
	}
	return ref, nil
}

// Fetch fetches a refspec from a remote into a local branch.
func (s *Shell) Fetch(ctx context.Context, remote, refspec string) error {
	_, err := s.Run(ctx, "fetch", remote, refspec)
	return err
}

// Checkout switches the working tree to the given ref.
func (s *Shell) Checkout(ctx context.Context, ref string) error {
	_, err := s.Run(ctx, "checkout", ref)
	return err
}

// ResetHard discards all working tree changes.
func (s *Shell) ResetHard(ctx context.Context) error {
	_, err := s.Run(ctx, "reset", "--hard")
	return err
}

// DeleteBranch force-deletes a local branch.
func (s *Shell) DeleteBranch(ctx context.Context, name string) error {
	_, err := s.Run(ctx, "branch", "-D", name)
	return err
}

// LocalBranches lists local branch names.
func (s *Shell) LocalBranches(ctx context.Context) ([]string, error) {
	out, err := s.Run(ctx, "branch")
	if err != nil {
		return nil, err
	}
	var branches []string
	for _, line := range strings.Split(out, "\n") {
		name := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "*"))
		if name != "" {
			branches = append(branches, name)
		}
	}
	return branches, nil
}

// MergeSquash stages the squashed contents of branch without committing.
func (s *Shell) MergeSquash(ctx context.Context, branch string) error {
	_, err := s.Run(ctx, "merge", branch, "--squash")
	return err
}

// MergeNoFF merges branch with a merge commit carrying the given message.
func (s *Shell) MergeNoFF(ctx context.Context, branch, message string) error {
	_, err := s.Run(ctx, "merge", branch, "--no-ff", "-m", message)
	return err
}

// CherryPick applies the given commit with a sign-off and source reference.
func (s *Shell) CherryPick(ctx context.Context, hash string) error {
	_, err := s.Run(ctx, "cherry-pick", "-sx", hash)
	return err
}

// CherryPickContinue finishes a cherry-pick after the operator staged the
// conflict resolution.
func (s *Shell) CherryPickContinue(ctx context.Context) error {
	_, err := s.Run(ctx, "-c", "core.editor=true", "cherry-pick", "--continue")
	return err
}

// Commit creates a commit from the given message fragments, each passed as
// its own -m flag. An empty author leaves attribution untouched.
func (s *Shell) Commit(ctx context.Context, author string, fragments ...string) error {
	args := []string{"commit", "--no-verify"}
	if author != "" {
		args = append(args, "--author", author)
	}
	for _, f := range fragments {
		args = append(args, "-m", f)
	}
	_, err := s.Run(ctx, args...)
	return err
}

// Amend rewrites the last commit with the given message fragments, keeping
// the recorded author.
func (s *Shell) Amend(ctx context.Context, fragments ...string) error {
	args := []string{"commit", "--amend", "--no-verify"}
	for _, f := range fragments {
		args = append(args, "-m", f)
	}
	_, err := s.Run(ctx, args...)
	return err
}

// AmendInteractive opens the operator's editor on the last commit message.
func (s *Shell) AmendInteractive(ctx context.Context) error {
	return s.RunInteractive(ctx, "commit", "--amend")
}

// LastCommitMessage returns the full message of the last commit.
func (s *Shell) LastCommitMessage(ctx context.Context) (string, error) {
	return s.Run(ctx, "log", "-1", "--pretty=format:%B")
}

// Push pushes a local ref to a branch on the remote.
func (s *Shell) Push(ctx context.Context, remote, local, dst string) error {
	_, err := s.Run(ctx, "push", remote, local+":"+dst)
	return err
}

// RevParse resolves a ref to its full commit hash.
func (s *Shell) RevParse(ctx context.Context, ref string) (string, error) {
	return s.Run(ctx, "rev-parse", ref)
}

// AddRemote registers a remote.
func (s *Shell) AddRemote(ctx context.Context, name, url string) error {
	_, err := s.Run(ctx, "remote", "add", name, url)
	return err
}
