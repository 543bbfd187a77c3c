// Package config loads leafscan configuration from an optional YAML file and
// LEAFSCAN_* environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all leafscan configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Model  ModelConfig  `yaml:"model"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port string `yaml:"port"`
	// CORSOrigin is sent as Access-Control-Allow-Origin.
	CORSOrigin      string        `yaml:"cors_origin"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	// Alternatives is how many runner-up classes each prediction reports.
	Alternatives int `yaml:"alternatives"`
}

// ModelConfig locates the classifier artifacts.
type ModelConfig struct {
	Path         string `yaml:"path"`
	MetadataPath string `yaml:"metadata_path"`
	// ClassIndexPath is optional; the metadata class list is used when empty.
	ClassIndexPath string `yaml:"class_index_path"`
	LibraryPath    string `yaml:"library_path"`
	IntraOpThreads int    `yaml:"intra_op_threads"`
}

// LogConfig configures slog output.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			CORSOrigin:      "*",
			MaxUploadBytes:  10 << 20,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Model: ModelConfig{
			Path:         "models/model.onnx",
			MetadataPath: "models/model_metadata.json",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// any), then environment variables. The result is validated.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	// PORT is honoured for platforms that inject it.
	c.Server.Port = getenv("PORT", c.Server.Port)
	c.Server.Port = getenv("LEAFSCAN_PORT", c.Server.Port)
	c.Server.CORSOrigin = getenv("LEAFSCAN_CORS_ORIGIN", c.Server.CORSOrigin)
	c.Server.MaxUploadBytes = getenvInt64("LEAFSCAN_MAX_UPLOAD_BYTES", c.Server.MaxUploadBytes)
	c.Server.ReadTimeout = getenvDuration("LEAFSCAN_READ_TIMEOUT", c.Server.ReadTimeout)
	c.Server.WriteTimeout = getenvDuration("LEAFSCAN_WRITE_TIMEOUT", c.Server.WriteTimeout)
	c.Server.ShutdownTimeout = getenvDuration("LEAFSCAN_SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout)
	c.Server.Alternatives = int(getenvInt64("LEAFSCAN_ALTERNATIVES", int64(c.Server.Alternatives)))

	c.Model.Path = getenv("LEAFSCAN_MODEL_PATH", c.Model.Path)
	c.Model.MetadataPath = getenv("LEAFSCAN_METADATA_PATH", c.Model.MetadataPath)
	c.Model.ClassIndexPath = getenv("LEAFSCAN_CLASS_INDEX_PATH", c.Model.ClassIndexPath)
	c.Model.LibraryPath = getenv("LEAFSCAN_ORT_LIBRARY", c.Model.LibraryPath)
	c.Model.IntraOpThreads = int(getenvInt64("LEAFSCAN_INTRA_OP_THREADS", int64(c.Model.IntraOpThreads)))

	c.Log.Level = getenv("LEAFSCAN_LOG_LEVEL", c.Log.Level)
	c.Log.Format = getenv("LEAFSCAN_LOG_FORMAT", c.Log.Format)
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Server.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("server.port must be a TCP port, got %q", c.Server.Port)
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("server.max_upload_bytes must be positive")
	}
	if c.Server.Alternatives < 0 {
		return fmt.Errorf("server.alternatives must not be negative")
	}
	if c.Model.Path == "" {
		return fmt.Errorf("model.path is required")
	}
	if c.Model.MetadataPath == "" {
		return fmt.Errorf("model.metadata_path is required")
	}
	if c.Model.IntraOpThreads < 0 {
		return fmt.Errorf("model.intra_op_threads must not be negative")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Server.Port
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
