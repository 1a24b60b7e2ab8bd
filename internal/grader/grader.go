package grader

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"git.home.luguber.info/inful/coursebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/coursebuilder/internal/logfields"
	"git.home.luguber.info/inful/coursebuilder/internal/metrics"
	"git.home.luguber.info/inful/coursebuilder/internal/notebook"
)

// Engine grades a submission notebook against the canonical student notebook
// that carries embedded tests in its exercise cell metadata.
type Engine struct {
	// Executor supplies one fresh environment per test run.
	Executor Executor
	// Context is an optional shared preamble executed before each submission.
	// A failure here is an infrastructure problem, not the student's fault.
	Context string
	// Logger receives per-test outcomes. Defaults to slog.Default.
	Logger *slog.Logger
	// Metrics counts per-test results. Optional.
	Metrics metrics.Recorder
}

type testOutcome int

const (
	outcomePassed testOutcome = iota
	outcomeFailed
	outcomeErrored
)

// Grade runs every embedded test of every submitted exercise and computes the
// final score. Grading always produces a result; broken student code shows up
// as failed tests, never as an error return.
func (e *Engine) Grade(ctx context.Context, canonical, submission *notebook.Notebook) (*Result, error) {
	if e.Executor == nil {
		return nil, errors.GradingError("grading engine has no executor").Build()
	}
	log := e.Logger
	if log == nil {
		log = slog.Default()
	}
	rec := e.Metrics
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}

	submitted := indexByExercise(submission)
	res := &Result{}

	for _, cell := range canonical.Cells {
		id := cell.ExerciseID()
		if id == "" {
			continue
		}
		res.NumExercises++

		sub, ok := submitted[id]
		if !ok {
			log.Debug("exercise missing from submission", logfields.ExerciseID(id))
			continue
		}
		if sub.Source == cell.Source {
			// The cell is still the untouched placeholder.
			log.Debug("exercise not attempted", logfields.ExerciseID(id))
			continue
		}
		res.NumSubmitted++

		tests := cell.InlineTests()
		names := make([]string, 0, len(tests))
		for name := range tests {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			res.NumTests++
			outcome, reason := e.runTest(ctx, sub.Source, tests[name])
			switch outcome {
			case outcomePassed:
				res.NumPassed++
				rec.IncTestResult(metrics.TestPassed)
				log.Info("test passed", logfields.ExerciseID(id), logfields.Test(name))
			case outcomeFailed:
				res.NumFailed++
				rec.IncTestResult(metrics.TestFailed)
				log.Info("test failed", logfields.ExerciseID(id), logfields.Test(name), "reason", reason)
			case outcomeErrored:
				res.NumErrors++
				rec.IncTestResult(metrics.TestErrored)
				log.Warn("test errored", logfields.ExerciseID(id), logfields.Test(name), "reason", reason)
			}
		}
	}

	res.finalize()
	return res, nil
}

// runTest executes one test in a fresh environment. Context failures are
// grading errors and do not count against the student; submission and test
// failures do.
func (e *Engine) runTest(ctx context.Context, submission, test string) (testOutcome, string) {
	env, err := e.Executor.NewEnvironment(ctx)
	if err != nil {
		return outcomeErrored, "environment: " + err.Error()
	}
	if e.Context != "" {
		if err := env.Run(ctx, e.Context); err != nil {
			return outcomeErrored, "context: " + err.Error()
		}
	}
	if err := env.Run(ctx, submission); err != nil {
		return outcomeFailed, "submission: " + err.Error()
	}
	if err := env.Run(ctx, test); err != nil {
		return outcomeFailed, "test: " + err.Error()
	}
	if stderr := env.Stderr(); stderr != "" {
		return outcomeFailed, "stderr: " + stderr
	}
	return outcomePassed, ""
}

// indexByExercise maps exercise ids to cells. The first cell claiming an id
// wins; later duplicates are ignored.
func indexByExercise(nb *notebook.Notebook) map[string]*notebook.Cell {
	out := make(map[string]*notebook.Cell)
	for _, cell := range nb.Cells {
		id := cell.ExerciseID()
		if id == "" {
			continue
		}
		if _, dup := out[id]; !dup {
			out[id] = cell
		}
	}
	return out
}

// score computes round(100 * submitted/exercises * passed/(passed+failed)),
// rounding halves to even. Errored tests are excluded from the denominator.
func score(exercises, submitted, passed, failed int) int {
	frac := float64(submitted) / float64(exercises) *
		float64(passed) / float64(passed+failed)
	return int(math.RoundToEven(100 * frac))
}
