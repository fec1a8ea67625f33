package runner

import (
	"fmt"
	"time"

	"github.com/gridci/gridci/pkg/plan"
)

// EntryStatus is the outcome of one plan entry.
type EntryStatus string

const (
	StatusPassed  EntryStatus = "passed"
	StatusFailed  EntryStatus = "failed"
	StatusSkipped EntryStatus = "skipped"
)

// CommandFailure records which command of an entry failed. It is isolated to
// its entry; sibling entries keep running.
type CommandFailure struct {
	Entry   string
	Command string
	Err     error
}

func (e *CommandFailure) Error() string {
	return fmt.Sprintf("entry %s: command %q failed: %v", e.Entry, e.Command, e.Err)
}

func (e *CommandFailure) Unwrap() error {
	return e.Err
}

// EntryResult is the outcome of one plan entry.
type EntryResult struct {
	Entry    plan.Entry    `json:"entry"`
	Status   EntryStatus   `json:"status"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Report aggregates the outcome of executing a plan. Results are in plan
// entry order regardless of execution interleaving.
type Report struct {
	RunID      string        `json:"run_id"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Results    []EntryResult `json:"results"`
}

// Failed reports whether any entry failed. The process exit code follows
// this: non-zero iff some entry failed.
func (r *Report) Failed() bool {
	for _, res := range r.Results {
		if res.Status == StatusFailed {
			return true
		}
	}
	return false
}

// Counts tallies results by status.
func (r *Report) Counts() (passed, failed, skipped int) {
	for _, res := range r.Results {
		switch res.Status {
		case StatusPassed:
			passed++
		case StatusFailed:
			failed++
		case StatusSkipped:
			skipped++
		}
	}
	return passed, failed, skipped
}
