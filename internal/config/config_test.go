package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"PORT", "LEAFSCAN_PORT", "LEAFSCAN_CORS_ORIGIN", "LEAFSCAN_MAX_UPLOAD_BYTES",
	"LEAFSCAN_READ_TIMEOUT", "LEAFSCAN_WRITE_TIMEOUT", "LEAFSCAN_SHUTDOWN_TIMEOUT",
	"LEAFSCAN_ALTERNATIVES", "LEAFSCAN_MODEL_PATH", "LEAFSCAN_METADATA_PATH",
	"LEAFSCAN_CLASS_INDEX_PATH", "LEAFSCAN_ORT_LIBRARY", "LEAFSCAN_INTRA_OP_THREADS",
	"LEAFSCAN_LOG_LEVEL", "LEAFSCAN_LOG_FORMAT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "leafscan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "*", cfg.Server.CORSOrigin)
	assert.Equal(t, int64(10<<20), cfg.Server.MaxUploadBytes)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "models/model.onnx", cfg.Model.Path)
	assert.Empty(t, cfg.Model.ClassIndexPath)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
server:
  port: "9090"
  read_timeout: 5s
  alternatives: 3
model:
  path: /srv/plant.onnx
  class_index_path: /srv/class_indices.json
log:
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 3, cfg.Server.Alternatives)
	assert.Equal(t, "/srv/plant.onnx", cfg.Model.Path)
	assert.Equal(t, "/srv/class_indices.json", cfg.Model.ClassIndexPath)
	// Untouched keys keep their defaults.
	assert.Equal(t, "models/model_metadata.json", cfg.Model.MetadataPath)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "server:\n  port: \"9090\"\nlog:\n  level: warn\n")

	t.Setenv("LEAFSCAN_PORT", "7070")
	t.Setenv("LEAFSCAN_LOG_LEVEL", "debug")
	t.Setenv("LEAFSCAN_MAX_UPLOAD_BYTES", "1024")
	t.Setenv("LEAFSCAN_SHUTDOWN_TIMEOUT", "2s")
	t.Setenv("LEAFSCAN_INTRA_OP_THREADS", "2")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, int64(1024), cfg.Server.MaxUploadBytes)
	assert.Equal(t, 2*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 2, cfg.Model.IntraOpThreads)
}

func TestLoad_PortPrecedence(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "5001")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "5001", cfg.Server.Port)

	t.Setenv("LEAFSCAN_PORT", "5002")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "5002", cfg.Server.Port)
}

func TestLoad_MalformedEnvKeepsFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("LEAFSCAN_MAX_UPLOAD_BYTES", "lots")
	t.Setenv("LEAFSCAN_READ_TIMEOUT", "soon")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, int64(10<<20), cfg.Server.MaxUploadBytes)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "server: [not, a, map]"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := map[string]func(*Config){
		"non-numeric port": func(c *Config) { c.Server.Port = "http" },
		"port too large":   func(c *Config) { c.Server.Port = "70000" },
		"zero upload":      func(c *Config) { c.Server.MaxUploadBytes = 0 },
		"negative alts":    func(c *Config) { c.Server.Alternatives = -1 },
		"no model":         func(c *Config) { c.Model.Path = "" },
		"no metadata":      func(c *Config) { c.Model.MetadataPath = "" },
		"negative threads": func(c *Config) { c.Model.IntraOpThreads = -2 },
		"bad format":       func(c *Config) { c.Log.Format = "xml" },
		"bad level":        func(c *Config) { c.Log.Level = "verbose" },
		"empty level":      func(c *Config) { c.Log.Level = "" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, DefaultConfig().Validate())

	for _, level := range []string{"debug", "INFO", "warn", "warning", "Error"} {
		cfg := DefaultConfig()
		cfg.Log.Level = level
		assert.NoError(t, cfg.Validate(), level)
	}
}
