// Package prompt abstracts operator interaction so the merge workflow can be
// driven by a real terminal in production and by scripted answers in tests.
// Every prompt blocks until the operator answers; declining or cancelling
// surfaces ErrAborted, which the workflow treats as a clean abort.
package prompt

import "errors"

// ErrAborted indicates the operator cancelled the run.
var ErrAborted = errors.New("aborted by operator")

// Prompter is the operator-interaction capability injected into the
// workflow.
type Prompter interface {
	// Confirm asks a yes/no question. Enter picks the default.
	Confirm(label string, def bool) (bool, error)

	// Input asks for a line of free text, pre-filled with def.
	Input(label, def string) (string, error)

	// Select asks the operator to pick one of options, cursor starting
	// at def. Returns the chosen option.
	Select(label string, options []string, def int) (string, error)

	// Pause blocks until the operator presses enter.
	Pause(label string) error
}
