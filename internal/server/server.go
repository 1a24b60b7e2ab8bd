// Package server exposes the grading engine over HTTP. Students (or an LMS
// integration) POST a notebook and receive the grading outcome in the
// response body; every outcome is also persisted when a result store is
// configured.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/coursebuilder/internal/config"
	"git.home.luguber.info/inful/coursebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/coursebuilder/internal/grader"
	"git.home.luguber.info/inful/coursebuilder/internal/metrics"
	"git.home.luguber.info/inful/coursebuilder/internal/notebook"
	"git.home.luguber.info/inful/coursebuilder/internal/resultstore"
)

// Grader grades one submission notebook. *grader.Engine bound to a canonical
// notebook satisfies this through GradeFunc.
type Grader interface {
	Grade(ctx context.Context, submission *notebook.Notebook) (*grader.Result, error)
}

// GradeFunc adapts a function to the Grader interface.
type GradeFunc func(ctx context.Context, submission *notebook.Notebook) (*grader.Result, error)

func (f GradeFunc) Grade(ctx context.Context, submission *notebook.Notebook) (*grader.Result, error) {
	return f(ctx, submission)
}

// Options carries the server dependencies. Store, Metrics and Registry are
// optional.
type Options struct {
	Grader   Grader
	Store    resultstore.Store
	Metrics  metrics.Recorder
	Registry *prom.Registry
	Logger   *slog.Logger
}

// Server is the grading HTTP server.
type Server struct {
	cfg          config.ServerConfig
	opts         Options
	httpServer   *http.Server
	errorAdapter *errors.HTTPErrorAdapter
	startTime    time.Time
	logger       *slog.Logger
}

// New constructs the server and wires its routes.
func New(cfg config.ServerConfig, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NoopRecorder{}
	}

	s := &Server{
		cfg:          cfg,
		opts:         opts,
		errorAdapter: errors.NewHTTPErrorAdapter(logger),
		startTime:    time.Now(),
		logger:       logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/grade", s.handleGrade)
	mux.HandleFunc("/healthz", s.handleHealth)
	if opts.Registry != nil {
		mux.Handle("/metrics", metrics.HTTPHandler(opts.Registry))
	}

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           chain(logger, s.errorAdapter)(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Start serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("grading server listening", "addr", s.cfg.Addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return errors.WrapError(err, errors.CategoryServer, "serving HTTP").
				WithContext("addr", s.cfg.Addr).Build()
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return errors.WrapError(err, errors.CategoryServer, "shutting down HTTP server").Build()
		}
		return nil
	}
}

// Handler exposes the wired handler for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
