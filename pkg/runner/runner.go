// Package runner executes an assembled plan through a CommandExecutor.
// Distinct cells are independent and run through a bounded worker pool; the
// phases of one cell always run in order on a single worker, basic before
// concurrent. A failing entry marks only itself failed.
package runner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/gridci/gridci/pkg/exec"
	"github.com/gridci/gridci/pkg/plan"
)

// Options configures plan execution.
type Options struct {
	// MaxParallelCells caps how many cells execute concurrently. Zero or
	// negative means 3.
	MaxParallelCells int
}

// Runner executes plans.
type Runner struct {
	executor exec.CommandExecutor
	opts     Options
	log      *logrus.Entry
}

// New creates a runner backed by the given executor.
func New(executor exec.CommandExecutor, opts Options) *Runner {
	if opts.MaxParallelCells <= 0 {
		opts.MaxParallelCells = 3
	}
	return &Runner{
		executor: executor,
		opts:     opts,
		log:      logrus.WithField("component", "runner"),
	}
}

// cellGroup holds the plan indices of all entries sharing one (job, cell).
type cellGroup struct {
	indices []int
}

// Run executes every entry of the plan and returns the aggregated report.
// Execution failures never abort the run; they are recorded per entry. When
// the context is canceled, remaining entries are marked skipped.
func (r *Runner) Run(ctx context.Context, p *plan.Plan) *Report {
	report := &Report{
		RunID:     uuid.New().String(),
		StartedAt: time.Now(),
		Results:   make([]EntryResult, len(p.Entries)),
	}

	r.log.WithFields(logrus.Fields{
		"run_id":  report.RunID,
		"entries": len(p.Entries),
	}).Info("Executing plan")

	groups := groupByCell(p.Entries)

	work := make(chan cellGroup)
	var wg sync.WaitGroup
	for i := 0; i < r.opts.MaxParallelCells; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for g := range work {
				for _, idx := range g.indices {
					report.Results[idx] = r.runEntry(ctx, report.RunID, p.Entries[idx])
				}
			}
		}()
	}

	for _, g := range groups {
		work <- g
	}
	close(work)
	wg.Wait()

	report.FinishedAt = time.Now()
	passed, failed, skipped := report.Counts()
	r.log.WithFields(logrus.Fields{
		"run_id":  report.RunID,
		"passed":  passed,
		"failed":  failed,
		"skipped": skipped,
	}).Info("Plan execution finished")
	return report
}

// runEntry runs one entry's commands in order. The first failing command
// fails the entry; later commands of the same entry do not run.
func (r *Runner) runEntry(ctx context.Context, runID string, entry plan.Entry) EntryResult {
	start := time.Now()

	if err := ctx.Err(); err != nil {
		return EntryResult{Entry: entry, Status: StatusSkipped, Error: err.Error()}
	}

	env := []string{
		"GRIDCI_JOB=" + entry.Job,
		"GRIDCI_OS=" + string(entry.Cell.OS),
		"GRIDCI_RUNNER_IMAGE=" + entry.Cell.OS.RunnerImage(),
		"GRIDCI_TOOLCHAIN=" + entry.Cell.Toolchain.String(),
	}
	if entry.Mode.Threads > 0 {
		env = append(env, fmt.Sprintf("GRIDCI_TEST_THREADS=%d", entry.Mode.Threads))
	}

	r.log.WithFields(logrus.Fields{
		"run_id": runID,
		"entry":  entry.Key(),
		"mode":   entry.Mode.Kind,
	}).Debug("Running plan entry")

	for _, cmd := range entry.Commands {
		spec := exec.Spec{Name: cmd.Name, Args: cmd.Args, Env: env}
		if err := r.executor.Run(ctx, spec); err != nil {
			failure := &CommandFailure{Entry: entry.Key(), Command: cmd.Name, Err: err}
			r.log.WithError(failure).WithFields(logrus.Fields{
				"run_id": runID,
				"entry":  entry.Key(),
			}).Error("Plan entry failed")
			return EntryResult{
				Entry:    entry,
				Status:   StatusFailed,
				Error:    failure.Error(),
				Duration: time.Since(start),
			}
		}
	}

	return EntryResult{
		Entry:    entry,
		Status:   StatusPassed,
		Duration: time.Since(start),
	}
}

// groupByCell buckets entry indices by (job, cell), preserving first-seen
// order. Within a group, indices keep plan order, so the basic phase always
// precedes the concurrent phase on the same worker.
func groupByCell(entries []plan.Entry) []cellGroup {
	order := make(map[string]int)
	var groups []cellGroup
	for i, e := range entries {
		key := e.Job + "/" + e.Cell.String()
		idx, ok := order[key]
		if !ok {
			idx = len(groups)
			order[key] = idx
			groups = append(groups, cellGroup{})
		}
		groups[idx].indices = append(groups[idx].indices, i)
	}
	return groups
}
