package merge

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// Session is the mutable state of a single merge run. It is created when the
// workflow starts and torn down unconditionally when the workflow exits,
// whatever the exit path: working changes are discarded, temporary branches
// are deleted, and the starting ref is restored.
type Session struct {
	// ID tags log lines from this run.
	ID string

	// StartRef is the ref checked out when the run began.
	StartRef string

	// Squash records the chosen merge mode.
	Squash bool

	// HadConflicts is set once the operator resolved a merge conflict.
	HadConflicts bool

	// MergeHash is the commit the push produced, used for cherry-picks.
	MergeHash string

	// TargetBranches lists every branch merged or picked into, in order.
	// It drives the tracker's fix-version defaulting.
	TargetBranches []string
}

// NewSession creates a session rooted at the given starting ref.
func NewSession(startRef string) *Session {
	return &Session{ID: uuid.NewString(), StartRef: startRef}
}

// RecordTarget notes a branch that received this change.
func (s *Session) RecordTarget(branch string) {
	for _, b := range s.TargetBranches {
		if b == branch {
			return
		}
	}
	s.TargetBranches = append(s.TargetBranches, branch)
}

// cleanup restores the working tree: discard working changes, return to the
// starting ref, and delete every temporary branch. Errors are logged and
// swallowed; cleanup runs on error paths and must not mask the original
// failure. A fresh context is used so cleanup still runs after cancellation.
func (w *Workflow) cleanup(s *Session) {
	ctx := context.Background()
	log := w.log.With("session", s.ID)

	if err := w.shell.ResetHard(ctx); err != nil {
		log.Warn("cleanup: reset failed", "error", err)
	}
	if s.StartRef != "" {
		if err := w.shell.Checkout(ctx, s.StartRef); err != nil {
			log.Warn("cleanup: checkout failed", "ref", s.StartRef, "error", err)
		}
	}

	branches, err := w.shell.LocalBranches(ctx)
	if err != nil {
		log.Warn("cleanup: listing branches failed", "error", err)
		return
	}
	for _, b := range branches {
		if strings.HasPrefix(b, w.cfg.Project.TempBranchPrefix) {
			if err := w.shell.DeleteBranch(ctx, b); err != nil {
				log.Warn("cleanup: branch delete failed", "branch", b, "error", err)
			}
		}
	}
}
