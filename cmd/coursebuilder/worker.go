package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/coursebuilder/internal/metrics"
	"git.home.luguber.info/inful/coursebuilder/internal/queue"
	"git.home.luguber.info/inful/coursebuilder/internal/worker"
)

func runWorker() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	canonical, err := loadCanonical(CLI.Worker.Master)
	if err != nil {
		return err
	}

	recorder := metrics.NewPrometheusRecorder(prom.NewRegistry())

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

	client, err := queue.Connect(cfg.Queue)
	if err != nil {
		return err
	}
	defer client.Close()

	w := &worker.Worker{
		Engine:    engine,
		Queue:     worker.NATSQueue{Client: client},
		Store:     store,
		Metrics:   recorder,
		Canonical: canonical,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	slog.Info("starting grading worker",
		"master", CLI.Worker.Master,
		"subject", cfg.Queue.SubmitSubject,
		"queue_group", cfg.Queue.QueueGroup)
	return w.Run(ctx)
}
