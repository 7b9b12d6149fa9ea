package merge

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mkarlsen/prmerge/internal/jira"
	"github.com/mkarlsen/prmerge/internal/prompt"
	"github.com/mkarlsen/prmerge/internal/ui"
)

// ResolveIssue walks one tracker issue through the resolution flow:
// display, confirm, comment, fix versions, transition. A tracker failure is
// fatal to this issue only; callers decide whether to continue with others.
func (w *Workflow) ResolveIssue(ctx context.Context, key string, mergedBranches []string) error {
	issue, err := w.tracker.Issue(ctx, key)
	if err != nil {
		return err
	}

	status := issue.Fields.Status.Name
	if status == "Resolved" || status == "Closed" {
		w.printf("%s", ui.Dim(fmt.Sprintf("%s is already %s; nothing to do.", key, status)))
		return nil
	}

	w.printf("%s", ui.Title(fmt.Sprintf("%s: %s", key, issue.Fields.Summary)))
	w.printf("%s %s", ui.Label("Status:"), status)
	if issue.Fields.Assignee.DisplayName != "" {
		w.printf("%s %s", ui.Label("Assignee:"), issue.Fields.Assignee.DisplayName)
	}

	ok, err := w.prompt.Confirm(fmt.Sprintf("Resolve %s as Fixed?", key), true)
	if err != nil {
		return err
	}
	if !ok {
		w.printf("%s", ui.Dim("Skipped."))
		return nil
	}

	comment, err := w.prompt.Input("Closing comment (optional):", "")
	if err != nil {
		return err
	}

	versions, err := w.tracker.ProjectVersions(ctx, w.cfg.Project.IssueKey)
	if err != nil {
		return err
	}
	defaults := DefaultFixVersions(mergedBranches, w.cfg.Project.ReleaseBranchPrefix, versions)

	fixVersions, err := w.askFixVersions(versions, defaults)
	if err != nil {
		return err
	}

	transitions, err := w.tracker.Transitions(ctx, key)
	if err != nil {
		return err
	}
	transitionID := ""
	for _, t := range transitions {
		if strings.Contains(strings.ToLower(t.Name), "resolve") {
			transitionID = t.ID
			break
		}
	}
	if transitionID == "" {
		return fmt.Errorf("issue %s has no resolve transition available", key)
	}

	resolutions, err := w.tracker.Resolutions(ctx)
	if err != nil {
		return err
	}
	resolutionID := ""
	for _, r := range resolutions {
		if r.Name == "Fixed" {
			resolutionID = r.ID
			break
		}
	}

	if err := w.tracker.TransitionIssue(ctx, key, transitionID, resolutionID, fixVersions, comment); err != nil {
		return err
	}
	w.printf("%s", ui.Success(fmt.Sprintf("%s resolved as Fixed (fix versions: %s).", key, strings.Join(fixVersions, ", "))))
	return nil
}

// askFixVersions lets the operator override the defaulted fix versions,
// retrying until every named version exists in the project.
func (w *Workflow) askFixVersions(versions []jira.Version, defaults []string) ([]string, error) {
	known := make(map[string]bool, len(versions))
	for _, v := range versions {
		known[v.Name] = true
	}
	for {
		raw, err := w.prompt.Input("Fix versions (comma separated, empty for none):", strings.Join(defaults, ","))
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(raw) == "" {
			return nil, nil
		}
		var out []string
		valid := true
		for _, part := range strings.Split(raw, ",") {
			name := strings.TrimSpace(part)
			if name == "" {
				continue
			}
			if !known[name] {
				w.printf("%s", ui.Warn(fmt.Sprintf("No version %q in the project.", name)))
				valid = false
				break
			}
			out = append(out, name)
		}
		if valid {
			return out, nil
		}
	}
}

// ResolveLoop drives tracker-only resolution: validate the reference
// (retrying on malformed input), resolve it, and offer to resolve more.
// The initial reference may be empty, in which case the operator is asked.
func (w *Workflow) ResolveLoop(ctx context.Context, initial string, branches []string) error {
	ref := ""
	if initial != "" {
		parsed, err := w.norm.ParseReference(initial)
		if err != nil {
			return err
		}
		ref = parsed
	}
	for {
		for ref == "" {
			in, err := w.prompt.Input("Issue to resolve (number or key):", "")
			if err != nil {
				return err
			}
			parsed, perr := w.norm.ParseReference(in)
			if perr != nil {
				w.printf("%s", ui.Warn(perr.Error()))
				continue
			}
			ref = parsed
		}
		if err := w.ResolveIssue(ctx, ref, branches); err != nil {
			if errors.Is(err, prompt.ErrAborted) {
				return err
			}
			w.printf("%s", ui.Error(fmt.Sprintf("Could not resolve %s: %v", ref, err)))
		}
		again, err := w.prompt.Confirm("Resolve another issue?", false)
		if err != nil {
			return err
		}
		if !again {
			return nil
		}
		ref = ""
	}
}
