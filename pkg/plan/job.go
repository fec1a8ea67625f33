package plan

import "github.com/gridci/gridci/pkg/trigger"

// Condition decides whether a job fires for a given trigger.
type Condition func(trigger.Context) bool

// OnPushOrExternalPR is the main test condition: pushes and pull requests from
// forks. Internal pull requests are suppressed because the matching push event
// already runs the job. Never fires on a schedule.
func OnPushOrExternalPR() Condition {
	return func(ctx trigger.Context) bool {
		return ctx.Kind == trigger.EventPush || ctx.IsExternalPullRequest()
	}
}

// OnPushScheduleOrExternalPR is the lint condition: everything the main test
// condition covers, plus scheduled runs.
func OnPushScheduleOrExternalPR() Condition {
	return func(ctx trigger.Context) bool {
		return ctx.Kind == trigger.EventPush ||
			ctx.Kind == trigger.EventScheduled ||
			ctx.IsExternalPullRequest()
	}
}

// OnScheduleOnly fires only for scheduled runs.
func OnScheduleOnly() Condition {
	return func(ctx trigger.Context) bool {
		return ctx.Kind == trigger.EventScheduled
	}
}

// PhaseKind identifies a distinct sub-step of a job within one cell.
type PhaseKind string

const (
	PhaseLint       PhaseKind = "lint"
	PhaseBasic      PhaseKind = "basic"
	PhaseConcurrent PhaseKind = "concurrent"
)

// Command is one opaque argv handed to the external command runner. The
// engine never interprets it.
type Command struct {
	Name string   `json:"name"`
	Args []string `json:"args,omitempty"`
}

// Phase pairs a phase kind with its command sequence.
type Phase struct {
	Kind     PhaseKind `json:"kind"`
	Commands []Command `json:"commands"`
}

// JobSpec declares one job: when it fires, which matrix it expands to, and
// what each phase runs. Specs are read-only during evaluation.
type JobSpec struct {
	Name       string
	Condition  Condition
	OS         []OS
	Toolchains []Toolchain
	// ScheduledToolchains replaces Toolchains when the event is scheduled.
	// Used by the lint job to switch from stable to nightly.
	ScheduledToolchains []Toolchain
	Phases              []Phase
}

// Eligible reports whether the job fires for the trigger at all. An
// ineligible job contributes zero cells to the plan.
func (j JobSpec) Eligible(ctx trigger.Context) bool {
	if j.Condition == nil {
		return false
	}
	return j.Condition(ctx)
}

// ToolchainsFor returns the toolchain axis in effect for the trigger.
func (j JobSpec) ToolchainsFor(ctx trigger.Context) []Toolchain {
	if ctx.Kind == trigger.EventScheduled && len(j.ScheduledToolchains) > 0 {
		return j.ScheduledToolchains
	}
	return j.Toolchains
}
