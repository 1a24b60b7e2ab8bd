package server

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/coursebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/coursebuilder/internal/metrics"
	"git.home.luguber.info/inful/coursebuilder/internal/notebook"
	"git.home.luguber.info/inful/coursebuilder/internal/resultstore"
	"git.home.luguber.info/inful/coursebuilder/internal/version"
)

// GradeResponse is the body returned for a graded submission.
type GradeResponse struct {
	SubmissionID string `json:"submission_id"`
	Ok           bool   `json:"ok"`
	Grade        *int   `json:"grade,omitempty"`
	Detail       string `json:"detail"`
}

// HealthResponse reports server liveness.
type HealthResponse struct {
	Status  string  `json:"status"`
	Version string  `json:"version"`
	Uptime  float64 `json:"uptime_seconds"`
}

func (s *Server) handleGrade(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	maxBytes := s.cfg.MaxUploadBytes
	if maxBytes <= 0 {
		maxBytes = 4 << 20
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBytes+1))
	if err != nil {
		s.errorAdapter.WriteErrorResponse(w,
			errors.WrapError(err, errors.CategoryServer, "reading request body").Build())
		return
	}
	if int64(len(body)) > maxBytes {
		http.Error(w, "submission too large", http.StatusRequestEntityTooLarge)
		return
	}

	submission, err := notebook.Parse(body)
	if err != nil {
		s.errorAdapter.WriteErrorResponse(w, err)
		return
	}

	submissionID := uuid.NewString()
	s.opts.Metrics.IncSubmission("http")

	start := time.Now()
	result, err := s.opts.Grader.Grade(r.Context(), submission)
	s.opts.Metrics.ObserveGradeDuration(time.Since(start))
	if err != nil {
		s.opts.Metrics.IncGradeOutcome(metrics.OutcomeError)
		s.errorAdapter.WriteErrorResponse(w, err)
		return
	}
	if result.Ok {
		s.opts.Metrics.IncGradeOutcome(metrics.OutcomeGraded)
	} else {
		s.opts.Metrics.IncGradeOutcome(metrics.OutcomeRejected)
	}

	if s.opts.Store != nil {
		rec := resultstore.FromResult(submissionID, result)
		if err := s.opts.Store.Record(r.Context(), rec); err != nil {
			s.logger.Warn("failed to record grading result",
				"submission_id", submissionID, "error", err)
		}
	}

	writeJSON(w, http.StatusOK, GradeResponse{
		SubmissionID: submissionID,
		Ok:           result.Ok,
		Grade:        result.Grade,
		Detail:       result.Detail,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: version.Version,
		Uptime:  time.Since(s.startTime).Seconds(),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
