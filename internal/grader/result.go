package grader

import (
	"encoding/json"
	"fmt"
)

// Result is the outcome of grading one submission. Only Ok, Grade and Detail
// appear in the serialized record; the counters feed logging and storage.
type Result struct {
	Ok     bool   `json:"ok"`
	Grade  *int   `json:"grade,omitempty"`
	Detail string `json:"detail"`

	NumExercises int `json:"-"`
	NumSubmitted int `json:"-"`
	NumTests     int `json:"-"`
	NumPassed    int `json:"-"`
	NumFailed    int `json:"-"`
	NumErrors    int `json:"-"`
}

// finalize fills Ok, Grade and Detail from the counters. The degenerate
// branches are checked in order: a notebook without exercises cannot be
// graded at all, an empty submission grades to zero, and a submission whose
// every test errored yields no grade.
func (r *Result) finalize() {
	switch {
	case r.NumExercises == 0:
		r.Ok = false
		r.Detail = "No exercises"
	case r.NumSubmitted == 0:
		zero := 0
		r.Ok = true
		r.Grade = &zero
		r.Detail = "No submissions"
	case r.NumPassed+r.NumFailed == 0:
		r.Ok = false
		r.Detail = "No tests run"
	default:
		g := score(r.NumExercises, r.NumSubmitted, r.NumPassed, r.NumFailed)
		r.Ok = true
		r.Grade = &g
		r.Detail = fmt.Sprintf("%d/%d submissions, %d/%d tests passed",
			r.NumSubmitted, r.NumExercises, r.NumPassed, r.NumPassed+r.NumFailed)
	}
}

// Line renders the result as a single JSON line without a trailing newline.
func (r *Result) Line() (string, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
