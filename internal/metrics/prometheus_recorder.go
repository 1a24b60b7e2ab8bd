package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	gradeDuration prom.Histogram
	gradeOutcomes *prom.CounterVec
	testResults   *prom.CounterVec
	submissions   *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers the grading metrics.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		gradeDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "coursebuilder",
			Name:      "grade_duration_seconds",
			Help:      "Time spent grading one submission",
			Buckets:   prom.DefBuckets,
		}),
		gradeOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "coursebuilder",
			Name:      "grade_outcomes_total",
			Help:      "Grading outcomes by final status",
		}, []string{"outcome"}),
		testResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "coursebuilder",
			Name:      "test_results_total",
			Help:      "Per-test results across all gradings",
		}, []string{"result"}),
		submissions: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "coursebuilder",
			Name:      "submissions_total",
			Help:      "Submissions received by transport",
		}, []string{"source"}),
	}
	reg.MustRegister(pr.gradeDuration, pr.gradeOutcomes, pr.testResults, pr.submissions)
	return pr
}

func (p *PrometheusRecorder) ObserveGradeDuration(d time.Duration) {
	if p == nil || p.gradeDuration == nil {
		return
	}
	p.gradeDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncGradeOutcome(outcome OutcomeLabel) {
	if p == nil || p.gradeOutcomes == nil {
		return
	}
	p.gradeOutcomes.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) IncTestResult(result TestResultLabel) {
	if p == nil || p.testResults == nil {
		return
	}
	p.testResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) IncSubmission(source string) {
	if p == nil || p.submissions == nil {
		return
	}
	p.submissions.WithLabelValues(source).Inc()
}

// HTTPHandler serves the registry in Prometheus exposition format.
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
