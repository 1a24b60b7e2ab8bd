// Package worker runs the queue-driven grading loop. Workers share a NATS
// queue group, pull submissions, grade them against the canonical notebook
// and publish a report on the per-submission subject.
package worker

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/coursebuilder/internal/grader"
	"git.home.luguber.info/inful/coursebuilder/internal/logfields"
	"git.home.luguber.info/inful/coursebuilder/internal/metrics"
	"git.home.luguber.info/inful/coursebuilder/internal/notebook"
	"git.home.luguber.info/inful/coursebuilder/internal/queue"
	"git.home.luguber.info/inful/coursebuilder/internal/resultstore"
)

// Queue is the messaging surface the worker needs from the NATS client.
type Queue interface {
	SubscribeSubmissions(handler func(*queue.Submission)) (Unsubscriber, error)
	PublishReport(rep *queue.Report) error
}

// Unsubscriber detaches a subscription.
type Unsubscriber interface {
	Unsubscribe() error
}

// NATSQueue adapts the NATS client to the Queue interface.
type NATSQueue struct {
	Client *queue.Client
}

func (n NATSQueue) SubscribeSubmissions(handler func(*queue.Submission)) (Unsubscriber, error) {
	sub, err := n.Client.SubscribeSubmissions(handler)
	if err != nil {
		return nil, err
	}
	return sub, nil
}

func (n NATSQueue) PublishReport(rep *queue.Report) error {
	return n.Client.PublishReport(rep)
}

// Worker grades submissions arriving over the queue.
type Worker struct {
	Engine  *grader.Engine
	Queue   Queue
	Store   resultstore.Store // optional
	Metrics metrics.Recorder  // optional
	Logger  *slog.Logger

	Canonical *notebook.Notebook
}

// Run subscribes and blocks until the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	log := w.Logger
	if log == nil {
		log = slog.Default()
	}
	rec := w.Metrics
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}

	sub, err := w.Queue.SubscribeSubmissions(func(s *queue.Submission) {
		w.handle(ctx, log, rec, s)
	})
	if err != nil {
		return err
	}
	defer func() { _ = sub.Unsubscribe() }()

	log.Info("worker ready")
	<-ctx.Done()
	log.Info("worker shutting down")
	return nil
}

func (w *Worker) handle(ctx context.Context, log *slog.Logger, rec metrics.Recorder, s *queue.Submission) {
	log.Info("grading submission", logfields.SubmissionID(s.ID), logfields.Assignment(s.Assignment))
	rec.IncSubmission("queue")

	submission, err := notebook.Parse(s.Notebook)
	if err != nil {
		log.Warn("submission is not a valid notebook", logfields.SubmissionID(s.ID), logfields.Error(err))
		w.publish(log, &queue.Report{
			ID: s.ID, Ok: false, Detail: "Malformed notebook", GradedAt: time.Now(),
		})
		rec.IncGradeOutcome(metrics.OutcomeRejected)
		return
	}

	start := time.Now()
	result, err := w.Engine.Grade(ctx, w.Canonical, submission)
	rec.ObserveGradeDuration(time.Since(start))
	if err != nil {
		log.Error("grading failed", logfields.SubmissionID(s.ID), logfields.Error(err))
		rec.IncGradeOutcome(metrics.OutcomeError)
		w.publish(log, &queue.Report{
			ID: s.ID, Ok: false, Detail: "Grading failed", GradedAt: time.Now(),
		})
		return
	}
	if result.Ok {
		rec.IncGradeOutcome(metrics.OutcomeGraded)
	} else {
		rec.IncGradeOutcome(metrics.OutcomeRejected)
	}

	if w.Store != nil {
		if err := w.Store.Record(ctx, resultstore.FromResult(s.ID, result)); err != nil {
			log.Warn("failed to record grading result", logfields.SubmissionID(s.ID), logfields.Error(err))
		}
	}

	w.publish(log, &queue.Report{
		ID:       s.ID,
		Ok:       result.Ok,
		Grade:    result.Grade,
		Detail:   result.Detail,
		GradedAt: time.Now(),
	})
}

func (w *Worker) publish(log *slog.Logger, rep *queue.Report) {
	if err := w.Queue.PublishReport(rep); err != nil {
		log.Error("failed to publish report", logfields.SubmissionID(rep.ID), logfields.Error(err))
	}
}
