package errors

import (
	"fmt"
	"log/slog"
)

// CLIErrorAdapter handles error presentation and exit code determination for
// the coursebuilder CLI.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
	}
}

// ExitCodeFor determines the appropriate exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	if classified, ok := AsClassified(err); ok {
		switch classified.Category() {
		case CategoryConfig:
			return 7
		case CategoryNotebook:
			return 3
		case CategoryAuthoring:
			return 2
		case CategoryQueue, CategoryServer:
			return 8
		case CategoryStorage:
			return 11
		case CategoryExecution, CategoryGrading:
			return 12
		default:
			return 1
		}
	}
	return 1
}

// FormatError formats an error for user-facing display.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	classified, ok := AsClassified(err)
	if !ok {
		return fmt.Sprintf("Error: %v", err)
	}
	msg := fmt.Sprintf("Error (%s): %s", classified.Category(), classified.Message())
	if a.verbose {
		if cause := classified.Cause(); cause != nil {
			msg += fmt.Sprintf("\n  caused by: %v", cause)
		}
		for k, v := range classified.Context() {
			msg += fmt.Sprintf("\n  %s: %v", k, v)
		}
	}
	return msg
}

// LogError logs an error at a level matching its severity.
func (a *CLIErrorAdapter) LogError(err error) {
	if err == nil {
		return
	}
	classified, ok := AsClassified(err)
	if !ok {
		a.logger.Error("command failed", "error", err)
		return
	}
	attrs := []any{"category", string(classified.Category())}
	if cause := classified.Cause(); cause != nil {
		attrs = append(attrs, "cause", cause.Error())
	}
	for k, v := range classified.Context() {
		attrs = append(attrs, k, v)
	}
	switch classified.Severity() {
	case SeverityWarning:
		a.logger.Warn(classified.Message(), attrs...)
	default:
		a.logger.Error(classified.Message(), attrs...)
	}
}
