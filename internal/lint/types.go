package lint

// Severity indicates the importance level of an authoring issue.
type Severity int

const (
	// SeverityInfo indicates informational messages.
	SeverityInfo Severity = iota
	// SeverityWarning indicates issues that should be fixed but do not break
	// the student notebook.
	SeverityWarning
	// SeverityError indicates issues that corrupt the student notebook or
	// make grading impossible.
	SeverityError
)

// String returns the human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Issue represents one problem found in a master notebook.
type Issue struct {
	Cell     int    // zero-based cell index
	Severity Severity
	Rule     string // rule identifier, e.g. "solution-pairing"
	Message  string
}

// Result contains all issues found while checking one notebook.
type Result struct {
	Issues     []Issue
	CellsTotal int
}

// HasErrors returns true if any error-level issues exist.
func (r *Result) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// HasWarnings returns true if any warning-level issues exist.
func (r *Result) HasWarnings() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityWarning {
			return true
		}
	}
	return false
}
