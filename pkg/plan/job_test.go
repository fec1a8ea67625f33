package plan

import (
	"testing"

	"github.com/gridci/gridci/pkg/trigger"
)

var (
	pushCtx     = trigger.Context{Kind: trigger.EventPush}
	scheduleCtx = trigger.Context{Kind: trigger.EventScheduled}
	internalPR  = trigger.Context{Kind: trigger.EventPullRequest, HeadRepo: "acme/repo", BaseRepo: "acme/repo"}
	externalPR  = trigger.Context{Kind: trigger.EventPullRequest, HeadRepo: "forker/repo", BaseRepo: "acme/repo"}
)

func TestConditions(t *testing.T) {
	tests := []struct {
		name string
		cond Condition
		ctx  trigger.Context
		want bool
	}{
		{"main test on push", OnPushOrExternalPR(), pushCtx, true},
		{"main test on schedule", OnPushOrExternalPR(), scheduleCtx, false},
		{"main test on internal PR", OnPushOrExternalPR(), internalPR, false},
		{"main test on external PR", OnPushOrExternalPR(), externalPR, true},

		{"lint on push", OnPushScheduleOrExternalPR(), pushCtx, true},
		{"lint on schedule", OnPushScheduleOrExternalPR(), scheduleCtx, true},
		{"lint on internal PR", OnPushScheduleOrExternalPR(), internalPR, false},
		{"lint on external PR", OnPushScheduleOrExternalPR(), externalPR, true},

		{"compat on push", OnScheduleOnly(), pushCtx, false},
		{"compat on schedule", OnScheduleOnly(), scheduleCtx, true},
		{"compat on internal PR", OnScheduleOnly(), internalPR, false},
		{"compat on external PR", OnScheduleOnly(), externalPR, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cond(tt.ctx); got != tt.want {
				t.Errorf("condition = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestJobSpecEligible(t *testing.T) {
	job := JobSpec{Name: "test", Condition: OnPushOrExternalPR()}
	if !job.Eligible(pushCtx) {
		t.Errorf("job should be eligible on push")
	}
	if job.Eligible(internalPR) {
		t.Errorf("job should be suppressed on internal PR")
	}

	// A job with no condition never fires.
	unset := JobSpec{Name: "orphan"}
	if unset.Eligible(pushCtx) {
		t.Errorf("job without condition should never be eligible")
	}
}

func TestToolchainsFor(t *testing.T) {
	lint := JobSpec{
		Name:                "lint",
		Toolchains:          []Toolchain{Stable()},
		ScheduledToolchains: []Toolchain{Nightly()},
	}

	got := lint.ToolchainsFor(pushCtx)
	if len(got) != 1 || got[0] != Stable() {
		t.Errorf("push toolchains = %v, want [stable]", got)
	}

	got = lint.ToolchainsFor(scheduleCtx)
	if len(got) != 1 || got[0] != Nightly() {
		t.Errorf("scheduled toolchains = %v, want [nightly]", got)
	}

	// No scheduled override: the declared axis is used as-is.
	test := JobSpec{Name: "test", Toolchains: []Toolchain{Beta(), Nightly()}}
	got = test.ToolchainsFor(scheduleCtx)
	if len(got) != 2 {
		t.Errorf("toolchains without override = %v, want declared axis", got)
	}
}
