// Package errors provides classified, contextual errors for coursebuilder.
//
// Errors carry a category (what subsystem failed), a severity (whether the
// operation or the whole run must stop) and optional structured context.
// Construction goes through the fluent builder:
//
//	return errors.AuthoringError("inline test before any exercise").
//		WithContext("test", name).
//		Build()
//
// Categories drive CLI exit codes via CLIErrorAdapter.
package errors
