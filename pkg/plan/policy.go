package plan

// ModeKind is the test-execution concurrency contract for one plan entry.
type ModeKind string

const (
	ModeParallel   ModeKind = "parallel"
	ModeSequential ModeKind = "sequential"
)

// Mode carries the execution mode the external runner must honor. Threads is
// 0 for parallel mode, meaning the runner picks its own worker count.
type Mode struct {
	Kind    ModeKind `json:"kind"`
	Threads int      `json:"threads,omitempty"`
}

// ParallelAuto permits the runner to use as many workers as it likes.
func ParallelAuto() Mode { return Mode{Kind: ModeParallel} }

// SequentialOne pins the runner to exactly one worker. Not a performance
// default: the concurrent suite validates concurrency correctness and needs
// deterministic, non-interleaved execution.
func SequentialOne() Mode { return Mode{Kind: ModeSequential, Threads: 1} }

// Policy decides, per cell, which phases run and in which mode.
//
// ConcurrentExclusions names the platforms whose shared runners are too
// resource-constrained for the concurrent suite; those cells keep only the
// basic phase. This is an operational workaround, kept as a named rule so it
// can be revisited from configuration without touching the engine.
type Policy struct {
	ConcurrentExclusions []OS
	// SingleThreadFlag is appended to every command of a sequential-mode
	// phase so the runner's test harness pins itself to one worker.
	SingleThreadFlag string
}

// DefaultPolicy excludes macOS from the concurrent phase.
func DefaultPolicy() Policy {
	return Policy{
		ConcurrentExclusions: []OS{MacOS},
		SingleThreadFlag:     "--test-threads=1",
	}
}

// Applies reports whether the phase runs at all in the given cell. A skipped
// phase contributes no plan entry.
func (p Policy) Applies(cell Cell, kind PhaseKind) bool {
	if kind != PhaseConcurrent {
		return true
	}
	for _, os := range p.ConcurrentExclusions {
		if cell.OS == os {
			return false
		}
	}
	return true
}

// ModeFor returns the execution mode for a phase in a cell. The concurrent
// phase is always sequential with one worker; everything else runs parallel
// with the runner's default worker count.
func (p Policy) ModeFor(cell Cell, kind PhaseKind) Mode {
	if kind == PhaseConcurrent {
		return SequentialOne()
	}
	return ParallelAuto()
}
