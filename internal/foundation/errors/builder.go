package errors

// ErrorBuilder provides a fluent API for creating ClassifiedError instances.
// It keeps error creation consistent and discoverable throughout the codebase.
type ErrorBuilder struct {
	category ErrorCategory
	severity ErrorSeverity
	message  string
	cause    error
	context  ErrorContext
}

// NewError creates a new ErrorBuilder with the specified category and message.
func NewError(category ErrorCategory, message string) *ErrorBuilder {
	return &ErrorBuilder{
		category: category,
		severity: SeverityError,
		message:  message,
		context:  make(ErrorContext),
	}
}

// WrapError creates a new ErrorBuilder that wraps an existing error.
func WrapError(err error, category ErrorCategory, message string) *ErrorBuilder {
	return &ErrorBuilder{
		category: category,
		severity: SeverityError,
		message:  message,
		cause:    err,
		context:  make(ErrorContext),
	}
}

// WithSeverity sets the error severity.
func (b *ErrorBuilder) WithSeverity(severity ErrorSeverity) *ErrorBuilder {
	b.severity = severity
	return b
}

// WithContext adds a context key-value pair.
func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.context = b.context.Set(key, value)
	return b
}

// Fatal sets the severity to fatal.
func (b *ErrorBuilder) Fatal() *ErrorBuilder {
	return b.WithSeverity(SeverityFatal)
}

// Warning sets the severity to warning.
func (b *ErrorBuilder) Warning() *ErrorBuilder {
	return b.WithSeverity(SeverityWarning)
}

// Build creates the final ClassifiedError.
func (b *ErrorBuilder) Build() *ClassifiedError {
	return &ClassifiedError{
		category: b.category,
		severity: b.severity,
		message:  b.message,
		cause:    b.cause,
		context:  b.context,
	}
}

// Convenience constructors for common error patterns

// ConfigError creates a configuration error.
func ConfigError(message string) *ErrorBuilder {
	return NewError(CategoryConfig, message).Fatal()
}

// NotebookError creates a notebook load/parse error.
func NotebookError(message string) *ErrorBuilder {
	return NewError(CategoryNotebook, message).Fatal()
}

// AuthoringError creates a master-notebook structural error.
func AuthoringError(message string) *ErrorBuilder {
	return NewError(CategoryAuthoring, message).Fatal()
}

// ExecutionError creates a submitted-code execution error.
func ExecutionError(message string) *ErrorBuilder {
	return NewError(CategoryExecution, message)
}

// GradingError creates a grading pipeline error.
func GradingError(message string) *ErrorBuilder {
	return NewError(CategoryGrading, message).Fatal()
}

// StorageError creates a result store error.
func StorageError(message string) *ErrorBuilder {
	return NewError(CategoryStorage, message)
}

// QueueError creates a message queue error.
func QueueError(message string) *ErrorBuilder {
	return NewError(CategoryQueue, message)
}

// ServerError creates an HTTP server error.
func ServerError(message string) *ErrorBuilder {
	return NewError(CategoryServer, message)
}
