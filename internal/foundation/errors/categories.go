package errors

import "maps"

// ErrorCategory represents the broad category of an error for classification and routing.
type ErrorCategory string

const (
	// CategoryConfig represents user-facing configuration and input errors.
	CategoryConfig ErrorCategory = "config"
	// CategoryNotebook represents notebook file I/O and JSON parse errors.
	CategoryNotebook ErrorCategory = "notebook"
	// CategoryAuthoring represents structural defects in a master notebook
	// (malformed markers, tests declared before any exercise).
	CategoryAuthoring ErrorCategory = "authoring"
	// CategoryExecution represents failures while running submitted code.
	CategoryExecution ErrorCategory = "execution"
	// CategoryGrading represents failures in the grading pipeline itself.
	CategoryGrading ErrorCategory = "grading"

	// CategoryStorage represents result store errors.
	CategoryStorage ErrorCategory = "storage"
	// CategoryQueue represents message queue errors.
	CategoryQueue ErrorCategory = "queue"
	// CategoryServer represents HTTP server errors.
	CategoryServer ErrorCategory = "server"

	// CategoryInternal is the fallback for errors with no better home.
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates the impact level of an error.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution completely
	SeverityError   ErrorSeverity = "error"   // Fails the current operation
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded output
)

// ErrorContext provides structured context for errors.
type ErrorContext map[string]any

// Set adds or updates a context value.
func (c ErrorContext) Set(key string, value any) ErrorContext {
	if c == nil {
		c = make(ErrorContext)
	}
	c[key] = value
	return c
}

// Get retrieves a context value.
func (c ErrorContext) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	value, exists := c[key]
	return value, exists
}

// Merge combines two contexts, with other taking precedence.
func (c ErrorContext) Merge(other ErrorContext) ErrorContext {
	if c == nil {
		return other
	}
	if other == nil {
		return c
	}
	result := make(ErrorContext)
	maps.Copy(result, c)
	maps.Copy(result, other)
	return result
}
