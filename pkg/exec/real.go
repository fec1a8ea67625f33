package exec

import (
	"context"
	"fmt"
	"os"
	osexec "os/exec"
)

// ExecError wraps an execution error with the command's combined output.
type ExecError struct {
	Err    error
	Output string
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Output)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}

// RealCommandExecutor implements CommandExecutor using os/exec. This is the
// production implementation.
type RealCommandExecutor struct{}

// LookPath searches for an executable named file in the directories named by
// the PATH environment variable.
func (e *RealCommandExecutor) LookPath(file string) (string, error) {
	return osexec.LookPath(file)
}

// Run executes the command and waits for it to complete. Combined output is
// captured and included in the error so callers can surface it.
func (e *RealCommandExecutor) Run(ctx context.Context, spec Spec) error {
	cmd := osexec.CommandContext(ctx, spec.Name, spec.Args...)
	cmd.Dir = spec.Dir
	if len(spec.Env) > 0 {
		cmd.Env = append(os.Environ(), spec.Env...)
	}

	output, err := cmd.CombinedOutput()
	if err != nil {
		return &ExecError{
			Err:    err,
			Output: string(output),
		}
	}
	return nil
}
