// Package plan turns a classified trigger and a declared job set into an
// ordered execution plan: eligibility filtering, matrix expansion, and
// per-cell execution policy, composed as pure functions. The engine holds no
// state across evaluations; the same trigger and job set always assemble the
// same plan.
package plan

import (
	"fmt"

	"github.com/gridci/gridci/pkg/trigger"
)

// Entry is one unit of work for the external command runner: a job phase in
// one concrete cell, with its concurrency contract and rendered commands.
type Entry struct {
	Job      string    `json:"job"`
	Cell     Cell      `json:"cell"`
	Phase    PhaseKind `json:"phase"`
	Mode     Mode      `json:"mode"`
	Commands []Command `json:"commands"`
}

// Key uniquely identifies the entry within its plan.
func (e Entry) Key() string {
	return fmt.Sprintf("%s/%s/%s", e.Job, e.Cell, e.Phase)
}

// Plan is the ordered result of one trigger evaluation. It is produced once,
// handed to the runner, and discarded.
type Plan struct {
	Trigger trigger.Context `json:"trigger"`
	Entries []Entry         `json:"entries"`
}

// Assemble folds eligibility, matrix expansion and the execution policy into
// a plan. Entries are ordered by job declaration order, then cell order (OS
// outer, toolchain inner), then phase declaration order. Jobs whose condition
// is unsatisfied are absent entirely; an eligible job with an empty axis
// aborts the evaluation before anything runs.
func Assemble(ctx trigger.Context, jobs []JobSpec, pol Policy) (*Plan, error) {
	p := &Plan{Trigger: ctx}
	for _, job := range jobs {
		if !job.Eligible(ctx) {
			continue
		}

		cells, err := ExpandMatrix(job.Name, job.OS, job.ToolchainsFor(ctx))
		if err != nil {
			return nil, err
		}

		for _, cell := range cells {
			for _, phase := range job.Phases {
				if !pol.Applies(cell, phase.Kind) {
					continue
				}
				mode := pol.ModeFor(cell, phase.Kind)
				p.Entries = append(p.Entries, Entry{
					Job:      job.Name,
					Cell:     cell,
					Phase:    phase.Kind,
					Mode:     mode,
					Commands: renderCommands(phase.Commands, mode, pol),
				})
			}
		}
	}
	return p, nil
}

// renderCommands copies the phase commands, pinning the single-thread flag
// onto sequential-mode invocations.
func renderCommands(cmds []Command, mode Mode, pol Policy) []Command {
	out := make([]Command, len(cmds))
	for i, c := range cmds {
		args := append([]string(nil), c.Args...)
		if mode.Kind == ModeSequential && pol.SingleThreadFlag != "" {
			args = append(args, pol.SingleThreadFlag)
		}
		out[i] = Command{Name: c.Name, Args: args}
	}
	return out
}
