// Package config loads the coursebuilder configuration file. Values may
// reference environment variables with ${VAR} syntax; a .env file next to the
// working directory is picked up before expansion.
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/coursebuilder/internal/foundation/errors"
)

// Config represents the application configuration.
type Config struct {
	Grading GradingConfig `yaml:"grading"`
	Server  ServerConfig  `yaml:"server"`
	Queue   QueueConfig   `yaml:"queue"`
	Store   StoreConfig   `yaml:"store"`
	Logging LoggingConfig `yaml:"logging"`
}

// GradingConfig controls how submissions are executed and scored.
type GradingConfig struct {
	// Context is shared preamble code run before every submission. ContextFile
	// points at a file holding the same; setting both is an error.
	Context     string        `yaml:"context,omitempty"`
	ContextFile string        `yaml:"context_file,omitempty"`
	Timeout     time.Duration `yaml:"timeout,omitempty"`
}

// ServerConfig configures the grading HTTP server.
type ServerConfig struct {
	Addr           string `yaml:"addr,omitempty"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes,omitempty"`
}

// QueueConfig configures the NATS submission queue.
type QueueConfig struct {
	URL           string `yaml:"url,omitempty"`
	SubmitSubject string `yaml:"submit_subject,omitempty"`
	ReportSubject string `yaml:"report_subject,omitempty"`
	QueueGroup    string `yaml:"queue_group,omitempty"`
}

// StoreConfig configures the grading result store. An empty path disables
// recording.
type StoreConfig struct {
	Path string `yaml:"path,omitempty"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`  // debug, info, warn, error
	Format string `yaml:"format,omitempty"` // text, json
}

// Default returns a configuration usable without any config file.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads the configuration file at path. A missing .env file is not an
// error; a missing config file is.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "reading config file").
			WithContext("path", path).Build()
	}
	return Parse(data, path)
}

// Parse decodes configuration bytes. Environment references are expanded
// before decoding so secrets never need to live in the file.
func Parse(data []byte, path string) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "parsing config file").
			WithContext("path", path).Build()
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Grading.Timeout == 0 {
		c.Grading.Timeout = 30 * time.Second
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.MaxUploadBytes == 0 {
		c.Server.MaxUploadBytes = 4 << 20
	}
	if c.Queue.URL == "" {
		c.Queue.URL = "nats://localhost:4222"
	}
	if c.Queue.SubmitSubject == "" {
		c.Queue.SubmitSubject = "submissions"
	}
	if c.Queue.ReportSubject == "" {
		c.Queue.ReportSubject = "reports"
	}
	if c.Queue.QueueGroup == "" {
		c.Queue.QueueGroup = "graders"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if c.Grading.Context != "" && c.Grading.ContextFile != "" {
		return errors.ConfigError("grading.context and grading.context_file are mutually exclusive").Build()
	}
	if c.Grading.Timeout < 0 {
		return errors.ConfigError("grading.timeout must not be negative").
			WithContext("timeout", c.Grading.Timeout.String()).Build()
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.ConfigError("unknown logging.level").
			WithContext("level", c.Logging.Level).Build()
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return errors.ConfigError("unknown logging.format").
			WithContext("format", c.Logging.Format).Build()
	}
	return nil
}

// GradingContext resolves the shared preamble, reading ContextFile if set.
func (c *Config) GradingContext() (string, error) {
	if c.Grading.ContextFile == "" {
		return c.Grading.Context, nil
	}
	data, err := os.ReadFile(c.Grading.ContextFile)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryConfig, "reading grading context file").
			WithContext("path", c.Grading.ContextFile).Build()
	}
	return string(data), nil
}
