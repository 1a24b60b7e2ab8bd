package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_AppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(""), "test.yaml")
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Grading.Timeout)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "nats://localhost:4222", cfg.Queue.URL)
	assert.Equal(t, "submissions", cfg.Queue.SubmitSubject)
	assert.Equal(t, "reports", cfg.Queue.ReportSubject)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestParse_ExpandsEnvironment(t *testing.T) {
	t.Setenv("COURSE_NATS_URL", "nats://broker:4222")

	cfg, err := Parse([]byte("queue:\n  url: ${COURSE_NATS_URL}\n"), "test.yaml")
	require.NoError(t, err)
	assert.Equal(t, "nats://broker:4222", cfg.Queue.URL)
}

func TestParse_InvalidYAML_Error(t *testing.T) {
	_, err := Parse([]byte("grading: [not a mapping"), "test.yaml")
	assert.Error(t, err)
}

func TestValidate_ContextAndContextFile_Error(t *testing.T) {
	cfg := Default()
	cfg.Grading.Context = "x := 1"
	cfg.Grading.ContextFile = "ctx.go"
	assert.Error(t, cfg.Validate())
}

func TestValidate_UnknownLogLevel_Error(t *testing.T) {
	cfg := Default()
	cfg.Logging.Level = "verbose"
	assert.Error(t, cfg.Validate())
}

func TestLoad_MissingFile_Error(t *testing.T) {
	_, err := Load("/nonexistent/coursebuilder.yaml")
	assert.Error(t, err)
}

func TestGradingContext_PrefersInline(t *testing.T) {
	cfg := Default()
	cfg.Grading.Context = "shared := 1"

	got, err := cfg.GradingContext()
	require.NoError(t, err)
	assert.Equal(t, "shared := 1", got)
}
