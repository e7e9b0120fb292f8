// Package executor invokes a hook's underlying program against its selected
// files inside its resolved environment, capturing output, exit status, and
// side-effect file modifications.
package executor

import "time"

// Status classifies a hook instance's outcome.
type Status string

// Outcome statuses.
const (
	// StatusPassed means the hook ran and exited zero. The Modified flag may
	// still be set; "passed but modified" is surfaced distinctly because the
	// run's exit code treats it as modification-required.
	StatusPassed Status = "passed"

	// StatusFailed means the invoked checker reported a non-zero exit status.
	// Expected, routine, reported per instance.
	StatusFailed Status = "failed"

	// StatusSkipped means the hook legitimately did not run: its stages do
	// not include the selected stage, or its filtered file set was empty
	// while pass_filenames was set. A normal, successful outcome.
	StatusSkipped Status = "skipped"

	// StatusError means a resolution error prevented the hook from running
	// at all (definition, source, or environment failure), or the hook
	// program crashed rather than reporting a result.
	StatusError Status = "error"

	// StatusIncomplete means the run was canceled before this hook produced
	// an outcome.
	StatusIncomplete Status = "incomplete"
)

// Outcome captures the result of one hook instance run. Created once,
// immutable, consumed only by the run aggregator.
type Outcome struct {
	HookID   string        `json:"hook_id"`
	Name     string        `json:"name"`
	Status   Status        `json:"status"`
	ExitCode int           `json:"exit_code"`
	Stdout   string        `json:"stdout,omitempty"`
	Stderr   string        `json:"stderr,omitempty"`
	Modified bool          `json:"files_modified"`
	Duration time.Duration `json:"duration_ns"`
	// SkipReason explains a StatusSkipped outcome.
	SkipReason string `json:"skip_reason,omitempty"`
	// Err carries the classified error for StatusFailed/StatusError outcomes.
	Err error `json:"-"`
}

// Failed reports whether the outcome counts against the run's exit status.
// Modified-but-passed outcomes count: the working tree requires another look.
func (o Outcome) Failed() bool {
	return o.Status == StatusFailed || (o.Status == StatusPassed && o.Modified)
}
