package grader

import "context"

// Executor provides isolated environments for running untrusted code. The
// concrete strategy (embedded interpreter, subprocess, container) is a policy
// choice hidden behind this capability.
type Executor interface {
	// NewEnvironment returns a fresh, empty name-binding environment. Nothing
	// carries over between environments; each graded test gets its own.
	NewEnvironment(ctx context.Context) (Environment, error)
}

// Environment is one isolated execution scope. Implementations must capture
// standard and diagnostic output for the lifetime of the environment and
// restore any redirected streams when a run finishes, including on panic.
type Environment interface {
	// Run executes code in this environment. Definitions persist for
	// subsequent Run calls on the same environment.
	Run(ctx context.Context, code string) error
	// Stdout returns everything the environment wrote to standard output.
	Stdout() string
	// Stderr returns everything the environment wrote to the diagnostic
	// stream. Non-empty diagnostic output fails a test even without an error.
	Stderr() string
}
