// Package resultstore persists grading outcomes so a course staff member can
// audit what a student was graded on after the fact.
package resultstore

import (
	"context"
	"time"

	"git.home.luguber.info/inful/coursebuilder/internal/grader"
)

// Record is one persisted grading outcome.
type Record struct {
	ID           int64
	SubmissionID string
	CreatedAt    time.Time
	Ok           bool
	Grade        *int
	Detail       string
	NumExercises int
	NumSubmitted int
	NumTests     int
	NumPassed    int
	NumFailed    int
	NumErrors    int
}

// FromResult builds a Record from a grading result.
func FromResult(submissionID string, res *grader.Result) Record {
	return Record{
		SubmissionID: submissionID,
		Ok:           res.Ok,
		Grade:        res.Grade,
		Detail:       res.Detail,
		NumExercises: res.NumExercises,
		NumSubmitted: res.NumSubmitted,
		NumTests:     res.NumTests,
		NumPassed:    res.NumPassed,
		NumFailed:    res.NumFailed,
		NumErrors:    res.NumErrors,
	}
}

// Store records grading outcomes.
type Store interface {
	Record(ctx context.Context, rec Record) error
	List(ctx context.Context, limit int) ([]Record, error)
	BySubmission(ctx context.Context, submissionID string) ([]Record, error)
	Close() error
}
