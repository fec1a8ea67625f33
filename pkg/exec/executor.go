// Package exec abstracts external command invocation behind a mockable
// interface so plan execution can be tested without running anything.
package exec

import "context"

// Spec describes one command invocation.
type Spec struct {
	Name string
	Args []string
	Dir  string
	// Env entries ("KEY=value") are appended to the current environment.
	Env []string
}

// CommandExecutor defines an interface for running external commands.
type CommandExecutor interface {
	// LookPath searches for an executable named file in the directories
	// named by the PATH environment variable.
	LookPath(file string) (string, error)

	// Run executes the command described by spec, waiting for it to
	// complete. The context cancels the command if it expires first.
	Run(ctx context.Context, spec Spec) error
}
