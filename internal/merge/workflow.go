// Package merge drives a pull request from fetched to
// merged-and-optionally-picked-and-issues-resolved. The workflow is
// single-threaded and cooperative: every external action blocks, and the
// only suspension points are operator prompts. Cleanup of temporary branches
// and the starting ref is unconditional on every exit path.
package merge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mkarlsen/prmerge/internal/config"
	"github.com/mkarlsen/prmerge/internal/git"
	"github.com/mkarlsen/prmerge/internal/github"
	"github.com/mkarlsen/prmerge/internal/jira"
	"github.com/mkarlsen/prmerge/internal/logger"
	"github.com/mkarlsen/prmerge/internal/normalize"
	"github.com/mkarlsen/prmerge/internal/prompt"
	"github.com/mkarlsen/prmerge/internal/ui"
)

// CodeHost is the code-host surface the workflow consumes.
type CodeHost interface {
	PullRequest(ctx context.Context, number int) (*github.PullRequest, error)
	Commits(ctx context.Context, number int) ([]github.Commit, error)
	IssueEvents(ctx context.Context, number int) ([]github.Event, error)
	Branches(ctx context.Context) ([]github.Branch, error)
}

// Tracker is the issue-tracker surface the resolution flow consumes.
type Tracker interface {
	Issue(ctx context.Context, key string) (*jira.Issue, error)
	ProjectVersions(ctx context.Context, projectKey string) ([]jira.Version, error)
	Transitions(ctx context.Context, key string) ([]jira.Transition, error)
	Resolutions(ctx context.Context) ([]jira.Resolution, error)
	TransitionIssue(ctx context.Context, key, transitionID, resolutionID string, fixVersions []string, comment string) error
}

// Workflow orchestrates git, the code host, the tracker, and the operator
// through a single merge run.
type Workflow struct {
	cfg     *config.Config
	shell   *git.Shell
	hub     CodeHost
	tracker Tracker
	prompt  prompt.Prompter
	norm    *normalize.Normalizer
	out     io.Writer
	log     *slog.Logger
}

// New wires a workflow from its collaborators.
func New(cfg *config.Config, shell *git.Shell, hub CodeHost, tracker Tracker, p prompt.Prompter) *Workflow {
	return &Workflow{
		cfg:     cfg,
		shell:   shell,
		hub:     hub,
		tracker: tracker,
		prompt:  p,
		norm:    normalize.New(cfg.Project.IssueKey),
		out:     os.Stdout,
		log:     logger.WithComponent("merge"),
	}
}

// SetOutput redirects workflow narration, primarily for tests.
func (w *Workflow) SetOutput(out io.Writer) {
	w.out = out
}

func (w *Workflow) printf(format string, args ...any) {
	fmt.Fprintf(w.out, format+"\n", args...)
}

// Run merges PR number into its base branch. In local mode the workflow
// pauses for inspection after the commit and never pushes.
func (w *Workflow) Run(ctx context.Context, number int, localMode bool) error {
	startRef, err := w.shell.CurrentRef(ctx)
	if err != nil {
		return fmt.Errorf("cannot determine current ref: %w", err)
	}
	s := NewSession(startRef)
	defer w.cleanup(s)

	log := w.log.With("session", s.ID, "pr", number)
	log.Info("starting merge", "startRef", startRef, "local", localMode)

	pr, err := w.hub.PullRequest(ctx, number)
	if err != nil {
		return err
	}
	commits, err := w.hub.Commits(ctx, number)
	if err != nil {
		return err
	}
	events, err := w.hub.IssueEvents(ctx, number)
	if err != nil {
		return err
	}

	w.printSummary(pr, commits)

	title, err := w.confirmTitle(pr.Title)
	if err != nil {
		return err
	}
	pr.Title = title

	if hasMergedEvent(events) {
		w.printf("%s", ui.Warn(fmt.Sprintf("PR #%d already has a merged event on record.", number)))
		backport, err := w.prompt.Confirm("Skip merging and only cherry-pick the existing commit?", true)
		if err != nil {
			return err
		}
		if backport {
			return w.backportOnly(ctx, s, pr)
		}
	}

	if pr.Mergeable != nil && !*pr.Mergeable {
		w.printf("%s", ui.Warn("The code host reports this PR as not automatically mergeable."))
		ok, err := w.prompt.Confirm("Continue anyway (conflicts will need manual resolution)?", false)
		if err != nil {
			return err
		}
		if !ok {
			return prompt.ErrAborted
		}
	}

	target := pr.Base.Ref
	prBranch := fmt.Sprintf("%sMERGE_PR_%d", w.cfg.Project.TempBranchPrefix, number)
	targetBranch := fmt.Sprintf("%s_%s", prBranch, strings.ToUpper(target))

	if err := w.shell.Fetch(ctx, w.cfg.Remotes.Github, fmt.Sprintf("pull/%d/head:%s", number, prBranch)); err != nil {
		return fmt.Errorf("fetching PR head: %w", err)
	}
	if err := w.shell.Fetch(ctx, w.cfg.Remotes.Push, fmt.Sprintf("%s:%s", target, targetBranch)); err != nil {
		return fmt.Errorf("fetching target branch %s: %w", target, err)
	}

	mode, err := w.prompt.Select("Merge mode", []string{"squash", "merge commit"}, 0)
	if err != nil {
		return err
	}
	s.Squash = mode == "squash"

	if err := w.shell.Checkout(ctx, targetBranch); err != nil {
		return err
	}

	if s.Squash {
		err = w.squashMerge(ctx, s, pr, commits, prBranch)
	} else {
		err = w.commitMerge(ctx, s, pr, prBranch)
	}
	if err != nil {
		return err
	}

	if localMode {
		w.printf("%s", ui.Success("Merge committed locally."))
		if err := w.prompt.Pause("Inspect the result, then press enter to clean up:"); err != nil {
			return err
		}
		return nil
	}

	ok, err := w.prompt.Confirm(fmt.Sprintf("Push merge to %s/%s?", w.cfg.Remotes.Push, target), true)
	if err != nil {
		return err
	}
	if !ok {
		return prompt.ErrAborted
	}
	if err := w.shell.Push(ctx, w.cfg.Remotes.Push, targetBranch, target); err != nil {
		return fmt.Errorf("push to %s/%s failed: %w", w.cfg.Remotes.Push, target, err)
	}
	hash, err := w.shell.RevParse(ctx, targetBranch)
	if err != nil {
		return err
	}
	s.MergeHash = shortHash(hash)
	s.RecordTarget(target)
	log.Info("merge pushed", "hash", s.MergeHash, "target", target)
	w.printf("%s", ui.Success(fmt.Sprintf("Pull request #%d merged into %s as %s.", number, target, s.MergeHash)))

	if err := w.cherryPickLoop(ctx, s, number); err != nil {
		return err
	}

	return w.resolveDiscovered(ctx, s, pr, commits)
}

// backportOnly re-applies an already-merged change to additional branches
// without merging again.
func (w *Workflow) backportOnly(ctx context.Context, s *Session, pr *github.PullRequest) error {
	hash, err := w.prompt.Input("Commit hash to backport:", "")
	if err != nil {
		return err
	}
	if hash == "" {
		return prompt.ErrAborted
	}
	s.MergeHash = hash
	if err := w.cherryPickLoop(ctx, s, pr.Number); err != nil {
		return err
	}
	commits, err := w.hub.Commits(ctx, pr.Number)
	if err != nil {
		return err
	}
	return w.resolveDiscovered(ctx, s, pr, commits)
}

// squashMerge collapses the PR into one commit on the target branch.
func (w *Workflow) squashMerge(ctx context.Context, s *Session, pr *github.PullRequest, commits []github.Commit, prBranch string) error {
	if err := w.shell.MergeSquash(ctx, prBranch); err != nil {
		if err := w.recoverConflict(ctx, s, err); err != nil {
			return err
		}
	}

	author, fragments, err := w.buildSquashMessage(ctx, pr, commits, s.HadConflicts)
	if err != nil {
		return err
	}
	if err := w.shell.Commit(ctx, author, fragments...); err != nil {
		return fmt.Errorf("commit failed: %w", err)
	}

	amend, err := w.prompt.Confirm("Edit the commit message before finishing?", false)
	if err != nil {
		return err
	}
	if amend {
		if err := w.shell.AmendInteractive(ctx); err != nil {
			return fmt.Errorf("amend failed: %w", err)
		}
	}

	return w.ensureClosePhrase(ctx, pr)
}

// commitMerge merges with a merge commit; a single fixed message, no
// reference scraping, no author re-attribution.
func (w *Workflow) commitMerge(ctx context.Context, s *Session, pr *github.PullRequest, prBranch string) error {
	message := fmt.Sprintf("Merge pull request #%d from %s/%s", pr.Number, pr.User.Login, pr.Head.Ref)
	if err := w.shell.MergeNoFF(ctx, prBranch, message); err != nil {
		if err := w.recoverConflict(ctx, s, err); err != nil {
			return err
		}
		if err := w.shell.Commit(ctx, "", message); err != nil {
			return fmt.Errorf("commit failed: %w", err)
		}
	}
	return nil
}

// buildSquashMessage assembles the ordered message fragments and picks the
// commit author.
func (w *Workflow) buildSquashMessage(ctx context.Context, pr *github.PullRequest, commits []github.Commit, hadConflicts bool) (author string, fragments []string, err error) {
	var commitTexts []string
	for _, c := range commits {
		commitTexts = append(commitTexts, c.Commit.Message)
	}
	refs := w.norm.References(append([]string{pr.Title, pr.Body}, commitTexts...)...)

	var subject, trailing string
	if len(commits) == 1 {
		subject, trailing = splitSubject(commits[0].Commit.Message)
	} else {
		subject = pr.Title
	}
	subject = w.norm.Normalize(subject+" "+strings.Join(refs, " "), false)

	if w.norm.Normalize(subject, true) == "" {
		w.printf("%s", ui.Warn("The commit message contains no issue reference."))
		ok, cerr := w.prompt.Confirm("Proceed without a reference?", false)
		if cerr != nil {
			return "", nil, cerr
		}
		if !ok {
			return "", nil, prompt.ErrAborted
		}
	}

	fragments = append(fragments, subject)
	if trailing != "" {
		fragments = append(fragments, wrap(trailing, bodyWrapWidth))
	}

	if hadConflicts {
		name, _ := w.shell.Run(ctx, "config", "user.name")
		email, _ := w.shell.Run(ctx, "config", "user.email")
		fragments = append(fragments, wrap(fmt.Sprintf("Conflicts resolved by %s <%s>.", name, email), bodyWrapWidth))
	}

	if strings.TrimSpace(pr.Body) != "" {
		include, cerr := w.prompt.Confirm("Include the PR body in the commit message?", false)
		if cerr != nil {
			return "", nil, cerr
		}
		if include {
			fragments = append(fragments, wrap(stripMentions(pr.Body), bodyWrapWidth))
		}
	}

	if len(commits) > 1 {
		include, cerr := w.prompt.Confirm(fmt.Sprintf("Append all %d commit messages?", len(commits)), false)
		if cerr != nil {
			return "", nil, cerr
		}
		if include {
			for _, text := range commitTexts {
				fragments = append(fragments, wrap(text, bodyWrapWidth))
			}
		}
	}

	fragments = append(fragments, closeLine(pr.Number, pr.User.Login, pr.Head.Ref))

	authors := authorsByFrequency(commits)
	switch len(authors) {
	case 0:
		author = ""
	case 1:
		author = authors[0]
	default:
		author, err = w.prompt.Select("Primary author", authors, 0)
		if err != nil {
			return "", nil, err
		}
	}
	return author, fragments, nil
}

// ensureClosePhrase reconstructs the commit when an interactive amend
// removed the close trailer the code host matches against.
func (w *Workflow) ensureClosePhrase(ctx context.Context, pr *github.PullRequest) error {
	message, err := w.shell.LastCommitMessage(ctx)
	if err != nil {
		return err
	}
	phrase := fmt.Sprintf("Closes #%d", pr.Number)
	if strings.Contains(message, phrase) {
		return nil
	}
	w.printf("%s", ui.Warn("Close phrase missing from commit message; re-appending it."))
	return w.shell.Amend(ctx, strings.TrimSpace(message), closeLine(pr.Number, pr.User.Login, pr.Head.Ref))
}

// recoverConflict hands a failed merge or pick to the operator. Conflicts
// are never auto-resolved; the workflow resumes once the operator confirms
// the resolution is staged.
func (w *Workflow) recoverConflict(ctx context.Context, s *Session, cause error) error {
	w.printf("%s", ui.Error("Merge reported conflicts:"))
	w.printf("  %v", cause)
	w.printf("Resolve them in another terminal, stage the files with 'git add', then continue.")
	ok, err := w.prompt.Confirm("Conflicts resolved and staged?", false)
	if err != nil {
		return err
	}
	if !ok {
		return prompt.ErrAborted
	}
	s.HadConflicts = true
	return nil
}

// cherryPickLoop offers repeated picks of the merged commit into other
// branches; each pick is its own fetch/checkout/pick/push sub-workflow.
func (w *Workflow) cherryPickLoop(ctx context.Context, s *Session, number int) error {
	for {
		again, err := w.prompt.Confirm("Cherry-pick this change into another branch?", false)
		if err != nil {
			return err
		}
		if !again {
			return nil
		}
		if err := w.cherryPickOne(ctx, s, number); err != nil {
			return err
		}
	}
}

func (w *Workflow) cherryPickOne(ctx context.Context, s *Session, number int) error {
	branches, err := w.hub.Branches(ctx)
	if err != nil {
		return err
	}
	def := latestReleaseBranch(branches, w.cfg.Project.ReleaseBranchPrefix)

	var target string
	for {
		target, err = w.prompt.Input("Target branch:", def)
		if err != nil {
			return err
		}
		if branchExists(branches, target) {
			break
		}
		w.printf("%s", ui.Warn(fmt.Sprintf("No branch %q on the canonical repository.", target)))
	}

	pickBranch := fmt.Sprintf("%sPICK_PR_%d_%s", w.cfg.Project.TempBranchPrefix, number, strings.ToUpper(target))
	if err := w.shell.Fetch(ctx, w.cfg.Remotes.Push, fmt.Sprintf("%s:%s", target, pickBranch)); err != nil {
		return fmt.Errorf("fetching %s: %w", target, err)
	}
	if err := w.shell.Checkout(ctx, pickBranch); err != nil {
		return err
	}
	if err := w.shell.CherryPick(ctx, s.MergeHash); err != nil {
		if err := w.recoverConflict(ctx, s, err); err != nil {
			return err
		}
		if err := w.shell.CherryPickContinue(ctx); err != nil {
			return fmt.Errorf("cherry-pick continue failed: %w", err)
		}
	}

	ok, err := w.prompt.Confirm(fmt.Sprintf("Push pick to %s/%s?", w.cfg.Remotes.Push, target), true)
	if err != nil {
		return err
	}
	if !ok {
		return prompt.ErrAborted
	}
	if err := w.shell.Push(ctx, w.cfg.Remotes.Push, pickBranch, target); err != nil {
		return fmt.Errorf("push to %s/%s failed: %w", w.cfg.Remotes.Push, target, err)
	}
	hash, err := w.shell.RevParse(ctx, pickBranch)
	if err != nil {
		return err
	}
	s.RecordTarget(target)
	w.printf("%s", ui.Success(fmt.Sprintf("Cherry-picked into %s as %s.", target, shortHash(hash))))
	return nil
}

// resolveDiscovered walks every reference found in the PR's title, body,
// and commit messages through the tracker resolution flow. A failure on one
// issue does not stop the others.
func (w *Workflow) resolveDiscovered(ctx context.Context, s *Session, pr *github.PullRequest, commits []github.Commit) error {
	texts := []string{pr.Title, pr.Body}
	for _, c := range commits {
		texts = append(texts, c.Commit.Message)
	}
	refs := w.norm.References(texts...)
	if len(refs) == 0 {
		w.printf("%s", ui.Dim("No tracker references discovered; nothing to resolve."))
		return nil
	}

	ok, err := w.prompt.Confirm(fmt.Sprintf("Resolve %d tracker issue(s) (%s)?", len(refs), strings.Join(refs, ", ")), true)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	for _, ref := range refs {
		if err := w.ResolveIssue(ctx, ref, s.TargetBranches); err != nil {
			if errors.Is(err, prompt.ErrAborted) {
				return err
			}
			w.printf("%s", ui.Error(fmt.Sprintf("Could not resolve %s: %v", ref, err)))
		}
	}
	return nil
}

// confirmTitle offers the normalized title when it differs from the PR's.
func (w *Workflow) confirmTitle(title string) (string, error) {
	normalized := w.norm.Normalize(title, false)
	if normalized == title {
		return title, nil
	}
	w.printf("Original title: %s", title)
	w.printf("Normalized as:  %s", normalized)
	use, err := w.prompt.Confirm("Use the normalized title?", true)
	if err != nil {
		return "", err
	}
	if use {
		return normalized, nil
	}
	return title, nil
}

func (w *Workflow) printSummary(pr *github.PullRequest, commits []github.Commit) {
	w.printf("%s", ui.Title(fmt.Sprintf("PR #%d: %s", pr.Number, pr.Title)))
	w.printf("%s %s", ui.Label("URL:"), pr.URL)
	w.printf("%s %s -> %s", ui.Label("Branches:"), ui.Branch(pr.Head.Ref), ui.Branch(pr.Base.Ref))
	w.printf("%s %s", ui.Label("Author:"), pr.User.Login)
	w.printf("%s %d", ui.Label("Commits:"), len(commits))
}

func hasMergedEvent(events []github.Event) bool {
	for _, e := range events {
		if e.Event == "merged" {
			return true
		}
	}
	return false
}

func branchExists(branches []github.Branch, name string) bool {
	for _, b := range branches {
		if b.Name == name {
			return true
		}
	}
	return false
}

// latestReleaseBranch returns the highest-sorted branch carrying the release
// prefix, as the cherry-pick default.
func latestReleaseBranch(branches []github.Branch, prefix string) string {
	var latest string
	for _, b := range branches {
		if prefix != "" && strings.HasPrefix(b.Name, prefix) && b.Name > latest {
			latest = b.Name
		}
	}
	return latest
}

func shortHash(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}
