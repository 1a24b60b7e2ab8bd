// Package queue moves submissions and grading reports over NATS. Upload
// servers publish submissions; workers consume them through a queue group so
// each submission is graded exactly once, then publish the report on a
// per-submission subject the server is waiting on.
package queue

import (
	"encoding/json"
	"time"
)

// Submission carries one student notebook to grade.
type Submission struct {
	ID          string          `json:"id"`
	Assignment  string          `json:"assignment,omitempty"`
	Notebook    json.RawMessage `json:"notebook"`
	SubmittedAt time.Time       `json:"submitted_at"`
}

// Report carries the grading outcome for one submission.
type Report struct {
	ID       string    `json:"id"`
	Ok       bool      `json:"ok"`
	Grade    *int      `json:"grade,omitempty"`
	Detail   string    `json:"detail"`
	GradedAt time.Time `json:"graded_at"`
}

// EncodeSubmission serializes a submission for the wire.
func EncodeSubmission(sub *Submission) ([]byte, error) {
	return json.Marshal(sub)
}

// DecodeSubmission parses a submission off the wire.
func DecodeSubmission(data []byte) (*Submission, error) {
	var sub Submission
	if err := json.Unmarshal(data, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// EncodeReport serializes a report for the wire.
func EncodeReport(rep *Report) ([]byte, error) {
	return json.Marshal(rep)
}

// DecodeReport parses a report off the wire.
func DecodeReport(data []byte) (*Report, error) {
	var rep Report
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, err
	}
	return &rep, nil
}
