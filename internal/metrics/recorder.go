// Package metrics defines observability hooks for the grading pipeline.
// Callers inject a Recorder; components that do not care pass NoopRecorder.
package metrics

import "time"

// OutcomeLabel enumerates final grading outcomes.
type OutcomeLabel string

const (
	OutcomeGraded   OutcomeLabel = "graded"
	OutcomeRejected OutcomeLabel = "rejected" // structurally ungradable
	OutcomeError    OutcomeLabel = "error"    // infrastructure failure
)

// TestResultLabel enumerates per-test results.
type TestResultLabel string

const (
	TestPassed  TestResultLabel = "passed"
	TestFailed  TestResultLabel = "failed"
	TestErrored TestResultLabel = "errored"
)

// Recorder defines the grading metrics surface. Implementations must tolerate
// nil receivers so optional injection stays cheap.
type Recorder interface {
	ObserveGradeDuration(d time.Duration)
	IncGradeOutcome(outcome OutcomeLabel)
	IncTestResult(result TestResultLabel)
	IncSubmission(source string) // source: http|queue
}

// NoopRecorder is a Recorder that does nothing.
type NoopRecorder struct{}

func (NoopRecorder) ObserveGradeDuration(time.Duration) {}
func (NoopRecorder) IncGradeOutcome(OutcomeLabel)       {}
func (NoopRecorder) IncTestResult(TestResultLabel)      {}
func (NoopRecorder) IncSubmission(string)               {}
