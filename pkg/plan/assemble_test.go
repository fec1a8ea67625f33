package plan

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/gridci/gridci/pkg/trigger"
)

// standardJobs mirrors the default job set: lint, the main test job, and the
// scheduled compatibility job.
func standardJobs() []JobSpec {
	lintCommands := []Command{
		{Name: "cargo", Args: []string{"fmt", "--all", "--", "--check"}},
		{Name: "cargo", Args: []string{"check", "--all-targets"}},
		{Name: "cargo", Args: []string{"clippy", "--all-targets", "--", "-D", "warnings"}},
	}
	testPhases := []Phase{
		{Kind: PhaseBasic, Commands: []Command{{Name: "cargo", Args: []string{"test"}}}},
		{Kind: PhaseConcurrent, Commands: []Command{{Name: "cargo", Args: []string{"test", "--release", "--"}}}},
	}

	return []JobSpec{
		{
			Name:                "lint",
			Condition:           OnPushScheduleOrExternalPR(),
			OS:                  []OS{Linux},
			Toolchains:          []Toolchain{Stable()},
			ScheduledToolchains: []Toolchain{Nightly()},
			Phases:              []Phase{{Kind: PhaseLint, Commands: lintCommands}},
		},
		{
			Name:       "test",
			Condition:  OnPushOrExternalPR(),
			OS:         []OS{Linux, Windows, MacOS},
			Toolchains: []Toolchain{Stable(), MinimumSupported("1.70.0")},
			Phases:     testPhases,
		},
		{
			Name:       "test-compat",
			Condition:  OnScheduleOnly(),
			OS:         []OS{Linux, Windows, MacOS},
			Toolchains: []Toolchain{Beta(), Nightly(), MinimumSupported("1.70.0")},
			Phases:     testPhases,
		},
	}
}

func countBy(entries []Entry, f func(Entry) bool) int {
	n := 0
	for _, e := range entries {
		if f(e) {
			n++
		}
	}
	return n
}

func TestAssemblePush(t *testing.T) {
	p, err := Assemble(pushCtx, standardJobs(), DefaultPolicy())
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	if len(p.Entries) != 11 {
		t.Fatalf("push plan has %d entries, want 11", len(p.Entries))
	}

	// Lint: one cell on the fixed runner, stable toolchain.
	lint := countBy(p.Entries, func(e Entry) bool { return e.Job == "lint" })
	if lint != 1 {
		t.Errorf("lint entries = %d, want 1", lint)
	}
	first := p.Entries[0]
	if first.Job != "lint" || first.Cell.OS != Linux || first.Cell.Toolchain != Stable() {
		t.Errorf("first entry = %+v, want lint on linux/stable", first)
	}

	// Main test: 6 cells, basic everywhere, concurrent everywhere but macOS.
	basic := countBy(p.Entries, func(e Entry) bool { return e.Job == "test" && e.Phase == PhaseBasic })
	concurrent := countBy(p.Entries, func(e Entry) bool { return e.Job == "test" && e.Phase == PhaseConcurrent })
	if basic != 6 {
		t.Errorf("basic entries = %d, want 6", basic)
	}
	if concurrent != 4 {
		t.Errorf("concurrent entries = %d, want 4", concurrent)
	}

	// The scheduled compatibility job contributes nothing on push.
	if n := countBy(p.Entries, func(e Entry) bool { return e.Job == "test-compat" }); n != 0 {
		t.Errorf("test-compat entries = %d, want 0", n)
	}
}

func TestAssembleMacOSCellsHaveExactlyOneEntry(t *testing.T) {
	p, err := Assemble(pushCtx, standardJobs(), DefaultPolicy())
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	perCell := make(map[string]int)
	for _, e := range p.Entries {
		if e.Cell.OS == MacOS {
			perCell[e.Job+"/"+e.Cell.String()]++
			if e.Phase != PhaseBasic {
				t.Errorf("macos entry has phase %s, want basic only", e.Phase)
			}
		}
	}
	if len(perCell) != 2 {
		t.Fatalf("macos cells = %d, want 2", len(perCell))
	}
	for key, n := range perCell {
		if n != 1 {
			t.Errorf("cell %s has %d entries, want exactly 1", key, n)
		}
	}
}

func TestAssembleNonMacOSTestCellsHaveTwoEntries(t *testing.T) {
	p, err := Assemble(pushCtx, standardJobs(), DefaultPolicy())
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	type cellEntries struct{ phases []Entry }
	cells := make(map[string]*cellEntries)
	for _, e := range p.Entries {
		if e.Job != "test" || e.Cell.OS == MacOS {
			continue
		}
		key := e.Cell.String()
		if cells[key] == nil {
			cells[key] = &cellEntries{}
		}
		cells[key].phases = append(cells[key].phases, e)
	}

	if len(cells) != 4 {
		t.Fatalf("non-macos test cells = %d, want 4", len(cells))
	}
	for key, ce := range cells {
		if len(ce.phases) != 2 {
			t.Fatalf("cell %s has %d entries, want 2", key, len(ce.phases))
		}
		if ce.phases[0].Phase != PhaseBasic {
			t.Errorf("cell %s first phase = %s, want basic", key, ce.phases[0].Phase)
		}
		second := ce.phases[1]
		if second.Phase != PhaseConcurrent {
			t.Errorf("cell %s second phase = %s, want concurrent", key, second.Phase)
		}
		if second.Mode.Kind != ModeSequential || second.Mode.Threads != 1 {
			t.Errorf("cell %s concurrent mode = %+v, want sequential with one thread", key, second.Mode)
		}
	}
}

func TestAssembleInternalPullRequestIsFullySuppressed(t *testing.T) {
	p, err := Assemble(internalPR, standardJobs(), DefaultPolicy())
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if len(p.Entries) != 0 {
		t.Errorf("internal PR plan has %d entries, want 0", len(p.Entries))
	}
}

func TestAssembleExternalPullRequestMatchesPush(t *testing.T) {
	pr, err := Assemble(externalPR, standardJobs(), DefaultPolicy())
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	push, err := Assemble(pushCtx, standardJobs(), DefaultPolicy())
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if len(pr.Entries) != len(push.Entries) {
		t.Errorf("external PR plan has %d entries, push has %d; want equal", len(pr.Entries), len(push.Entries))
	}
}

func TestAssembleScheduled(t *testing.T) {
	p, err := Assemble(scheduleCtx, standardJobs(), DefaultPolicy())
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	// Lint runs once on nightly; the main test job is absent; the
	// compatibility job covers 9 cells with macOS concurrent skipped.
	if len(p.Entries) != 16 {
		t.Fatalf("scheduled plan has %d entries, want 16", len(p.Entries))
	}

	first := p.Entries[0]
	if first.Job != "lint" || first.Cell.Toolchain != Nightly() {
		t.Errorf("first entry = %+v, want lint on nightly", first)
	}

	if n := countBy(p.Entries, func(e Entry) bool { return e.Job == "test" }); n != 0 {
		t.Errorf("main test entries = %d, want 0 on schedule", n)
	}
	basic := countBy(p.Entries, func(e Entry) bool { return e.Job == "test-compat" && e.Phase == PhaseBasic })
	concurrent := countBy(p.Entries, func(e Entry) bool { return e.Job == "test-compat" && e.Phase == PhaseConcurrent })
	if basic != 9 || concurrent != 6 {
		t.Errorf("test-compat entries = %d basic / %d concurrent, want 9/6", basic, concurrent)
	}
}

func TestAssembleEntryKeysAreUnique(t *testing.T) {
	for name, ctx := range map[string]trigger.Context{
		"push":     pushCtx,
		"schedule": scheduleCtx,
	} {
		p, err := Assemble(ctx, standardJobs(), DefaultPolicy())
		if err != nil {
			t.Fatalf("Assemble(%s) failed: %v", name, err)
		}
		seen := make(map[string]bool)
		for _, e := range p.Entries {
			key := e.Key()
			if seen[key] {
				t.Errorf("%s: duplicate entry %s", name, key)
			}
			seen[key] = true
		}
	}
}

func TestAssembleIsDeterministic(t *testing.T) {
	a, err := Assemble(pushCtx, standardJobs(), DefaultPolicy())
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	b, err := Assemble(pushCtx, standardJobs(), DefaultPolicy())
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	aj, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	bj, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !bytes.Equal(aj, bj) {
		t.Errorf("re-evaluating the same trigger produced a different plan")
	}
}

func TestAssembleSequentialFlagIsPinned(t *testing.T) {
	p, err := Assemble(pushCtx, standardJobs(), DefaultPolicy())
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	for _, e := range p.Entries {
		for _, cmd := range e.Commands {
			hasFlag := false
			for _, arg := range cmd.Args {
				if arg == "--test-threads=1" {
					hasFlag = true
				}
			}
			if e.Mode.Kind == ModeSequential && !hasFlag {
				t.Errorf("sequential entry %s command %v lacks the single-thread flag", e.Key(), cmd)
			}
			if e.Mode.Kind == ModeParallel && hasFlag {
				t.Errorf("parallel entry %s command %v carries the single-thread flag", e.Key(), cmd)
			}
		}
	}
}

func TestAssembleEmptyAxisIsFatalOnlyWhenEligible(t *testing.T) {
	broken := []JobSpec{{
		Name:      "test",
		Condition: OnPushOrExternalPR(),
		OS:        []OS{Linux},
		Phases:    []Phase{{Kind: PhaseBasic}},
	}}

	_, err := Assemble(pushCtx, broken, DefaultPolicy())
	var axisErr EmptyAxisError
	if !errors.As(err, &axisErr) {
		t.Fatalf("Assemble error = %v, want EmptyAxisError", err)
	}

	// The same defect on an ineligible job never surfaces: the job is
	// filtered out before its matrix expands.
	p, err := Assemble(scheduleCtx, broken, DefaultPolicy())
	if err != nil {
		t.Fatalf("Assemble failed for ineligible job: %v", err)
	}
	if len(p.Entries) != 0 {
		t.Errorf("ineligible job contributed %d entries, want 0", len(p.Entries))
	}
}
