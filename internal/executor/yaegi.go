// Package executor runs submitted code inside an embedded Go interpreter.
// Each grading environment gets its own interpreter instance so definitions
// from one test can never leak into another.
package executor

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"git.home.luguber.info/inful/coursebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/coursebuilder/internal/grader"
)

// Interpreter creates yaegi-backed grading environments.
type Interpreter struct {
	// Timeout bounds the wall clock of a single Run. Zero disables the bound.
	Timeout time.Duration
}

// New returns an Interpreter with the given per-run timeout.
func New(timeout time.Duration) *Interpreter {
	return &Interpreter{Timeout: timeout}
}

// NewEnvironment builds a fresh interpreter with the standard library loaded
// and both output streams redirected to capture buffers.
func (x *Interpreter) NewEnvironment(ctx context.Context) (grader.Environment, error) {
	env := &environment{timeout: x.Timeout}
	env.interp = interp.New(interp.Options{
		Stdout: &env.stdout,
		Stderr: &env.stderr,
	})
	if err := env.interp.Use(stdlib.Symbols); err != nil {
		return nil, errors.WrapError(err, errors.CategoryExecution, "loading interpreter symbols").Build()
	}
	return env, nil
}

type environment struct {
	interp  *interp.Interpreter
	timeout time.Duration
	stdout  syncBuffer
	stderr  syncBuffer
}

// Run evaluates one code snippet. Definitions persist across calls on the
// same environment. A snippet that overruns the timeout leaves its goroutine
// behind; the environment must not be reused after a timeout.
func (e *environment) Run(ctx context.Context, code string) error {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- errors.NewError(errors.CategoryExecution, "interpreter panic").
					WithContext("panic", fmt.Sprint(r)).Build()
			}
		}()
		_, err := e.interp.Eval(code)
		done <- err
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return errors.WrapError(ctx.Err(), errors.CategoryExecution, "execution timed out").Build()
	}
}

func (e *environment) Stdout() string { return e.stdout.String() }
func (e *environment) Stderr() string { return e.stderr.String() }

// syncBuffer guards the capture buffer against writes from an evaluation
// goroutine that outlived its timeout.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
