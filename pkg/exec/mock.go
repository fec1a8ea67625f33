package exec

import (
	"context"
	"strings"
	"sync"
)

// MockCommandExecutor is a mock implementation of CommandExecutor. It records
// every command that would be executed without actually running it. Safe for
// concurrent use, since the runner dispatches cells in parallel.
type MockCommandExecutor struct {
	mu sync.Mutex

	// Commands records each invocation as a single space-joined string.
	Commands []string

	// Specs records the full invocation specs in order.
	Specs []Spec

	// LookPathFunc allows custom behavior for LookPath in tests.
	LookPathFunc func(file string) (string, error)

	// RunFunc allows custom behavior for Run in tests.
	RunFunc func(ctx context.Context, spec Spec) error
}

// LookPath implements the CommandExecutor interface. By default every
// command is assumed to exist.
func (m *MockCommandExecutor) LookPath(file string) (string, error) {
	if m.LookPathFunc != nil {
		return m.LookPathFunc(file)
	}
	return "/path/to/" + file, nil
}

// Run records the command that would be executed.
func (m *MockCommandExecutor) Run(ctx context.Context, spec Spec) error {
	cmdStr := spec.Name
	if len(spec.Args) > 0 {
		cmdStr = spec.Name + " " + strings.Join(spec.Args, " ")
	}

	m.mu.Lock()
	m.Commands = append(m.Commands, cmdStr)
	m.Specs = append(m.Specs, spec)
	m.mu.Unlock()

	if m.RunFunc != nil {
		return m.RunFunc(ctx, spec)
	}
	return nil
}

// Recorded returns a snapshot of the recorded command strings.
func (m *MockCommandExecutor) Recorded() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Commands...)
}
