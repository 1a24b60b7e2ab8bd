package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/coursebuilder/internal/assign"
	"git.home.luguber.info/inful/coursebuilder/internal/config"
	"git.home.luguber.info/inful/coursebuilder/internal/executor"
	"git.home.luguber.info/inful/coursebuilder/internal/grader"
	"git.home.luguber.info/inful/coursebuilder/internal/metrics"
	"git.home.luguber.info/inful/coursebuilder/internal/notebook"
	"git.home.luguber.info/inful/coursebuilder/internal/resultstore"
	"git.home.luguber.info/inful/coursebuilder/internal/server"
)

// loadConfig reads the configured file, falling back to built-in defaults
// when it does not exist.
func loadConfig() (*config.Config, error) {
	if _, err := os.Stat(CLI.Config); os.IsNotExist(err) {
		slog.Debug("config file not found, using defaults", "path", CLI.Config)
		return config.Default(), nil
	}
	return config.Load(CLI.Config)
}

// loadCanonical parses an instructor notebook and reduces it to the canonical
// form used for grading, with inline tests embedded in cell metadata. The
// reduction is idempotent, so a pre-transformed canonical notebook passes
// through unchanged.
func loadCanonical(path string) (*notebook.Notebook, error) {
	nb, err := notebook.ParseFile(path)
	if err != nil {
		return nil, err
	}
	canonical, _, err := assign.Transform(nb, assign.Options{EmbedInlineTests: true})
	return canonical, err
}

// newEngine wires the grading engine from configuration.
func newEngine(cfg *config.Config, rec metrics.Recorder) (*grader.Engine, error) {
	gradingContext, err := cfg.GradingContext()
	if err != nil {
		return nil, err
	}
	return &grader.Engine{
		Executor: executor.New(cfg.Grading.Timeout),
		Context:  gradingContext,
		Metrics:  rec,
	}, nil
}

// openStore opens the result store when one is configured.
func openStore(cfg *config.Config) (resultstore.Store, error) {
	if cfg.Store.Path == "" {
		return nil, nil
	}
	return resultstore.NewSQLiteStore(cfg.Store.Path)
}

func runServe() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if CLI.Serve.Addr != "" {
		cfg.Server.Addr = CLI.Serve.Addr
	}

	canonical, err := loadCanonical(CLI.Serve.Master)
	if err != nil {
		return err
	}

	registry := prom.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(registry)

	engine, err := newEngine(cfg, recorder)
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	srv := server.New(cfg.Server, server.Options{
		Grader: server.GradeFunc(func(ctx context.Context, submission *notebook.Notebook) (*grader.Result, error) {
			return engine.Grade(ctx, canonical, submission)
		}),
		Store:    store,
		Metrics:  recorder,
		Registry: registry,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	slog.Info("serving grading API", "addr", cfg.Server.Addr, "master", CLI.Serve.Master)
	return srv.Start(ctx)
}
