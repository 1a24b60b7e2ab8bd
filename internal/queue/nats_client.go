package queue

import (
	"context"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/coursebuilder/internal/config"
	"git.home.luguber.info/inful/coursebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/coursebuilder/internal/retry"
)

// Client manages the NATS connection for the grading pipeline.
type Client struct {
	conn *nats.Conn
	cfg  config.QueueConfig
}

// Connect dials the configured NATS server. The initial dial is retried with
// backoff so workers survive a broker that is still coming up.
func Connect(cfg config.QueueConfig) (*Client, error) {
	var conn *nats.Conn
	err := retry.DefaultPolicy().Do(context.Background(), func() error {
		var dialErr error
		conn, dialErr = nats.Connect(cfg.URL,
			nats.MaxReconnects(-1),
			nats.ReconnectWait(2*time.Second),
		)
		return dialErr
	})
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryQueue, "connecting to NATS").
			WithContext("url", cfg.URL).Build()
	}

	slog.Info("connected to NATS",
		"url", cfg.URL,
		"submit_subject", cfg.SubmitSubject,
		"report_subject", cfg.ReportSubject)

	return &Client{conn: conn, cfg: cfg}, nil
}

// PublishSubmission enqueues a submission for grading.
func (c *Client) PublishSubmission(sub *Submission) error {
	data, err := EncodeSubmission(sub)
	if err != nil {
		return errors.WrapError(err, errors.CategoryQueue, "encoding submission").
			WithContext("submission_id", sub.ID).Build()
	}
	if err := c.conn.Publish(c.cfg.SubmitSubject, data); err != nil {
		return errors.WrapError(err, errors.CategoryQueue, "publishing submission").
			WithContext("submission_id", sub.ID).Build()
	}
	slog.Debug("published submission", "submission_id", sub.ID)
	return nil
}

// SubscribeSubmissions delivers incoming submissions to handler. Workers share
// the configured queue group, so each submission reaches exactly one worker.
func (c *Client) SubscribeSubmissions(handler func(*Submission)) (*nats.Subscription, error) {
	sub, err := c.conn.QueueSubscribe(c.cfg.SubmitSubject, c.cfg.QueueGroup, func(msg *nats.Msg) {
		submission, err := DecodeSubmission(msg.Data)
		if err != nil {
			slog.Warn("dropping malformed submission message", "error", err)
			return
		}
		handler(submission)
	})
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryQueue, "subscribing to submissions").
			WithContext("subject", c.cfg.SubmitSubject).Build()
	}
	return sub, nil
}

// PublishReport announces a grading outcome on the per-submission subject.
func (c *Client) PublishReport(rep *Report) error {
	data, err := EncodeReport(rep)
	if err != nil {
		return errors.WrapError(err, errors.CategoryQueue, "encoding report").
			WithContext("submission_id", rep.ID).Build()
	}
	if err := c.conn.Publish(c.reportSubject(rep.ID), data); err != nil {
		return errors.WrapError(err, errors.CategoryQueue, "publishing report").
			WithContext("submission_id", rep.ID).Build()
	}
	slog.Debug("published report", "submission_id", rep.ID, "ok", rep.Ok)
	return nil
}

// WaitForReport blocks until the report for one submission arrives or the
// timeout elapses.
func (c *Client) WaitForReport(submissionID string, timeout time.Duration) (*Report, error) {
	sub, err := c.conn.SubscribeSync(c.reportSubject(submissionID))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryQueue, "subscribing to report").
			WithContext("submission_id", submissionID).Build()
	}
	defer func() { _ = sub.Unsubscribe() }()

	msg, err := sub.NextMsg(timeout)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryQueue, "waiting for report").
			WithContext("submission_id", submissionID).Build()
	}
	return DecodeReport(msg.Data)
}

func (c *Client) reportSubject(submissionID string) string {
	return c.cfg.ReportSubject + "." + submissionID
}

// Close flushes and closes the NATS connection.
func (c *Client) Close() error {
	if c.conn != nil {
		_ = c.conn.Flush()
		c.conn.Close()
	}
	return nil
}
