// ABOUTME: Tests for configuration loading and validation
// ABOUTME: Covers env var expansion, duration parsing, defaults, and required fields

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "widget.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  http_addr: "localhost:8080"
backend:
  base_url: "https://api.example.com"
  timeout: "10s"
database:
  path: "/tmp/widget.db"
widget:
  default_greeting: "Hello!"
  allowed_origins: ["https://host.example.com"]
logging:
  level: "debug"
  format: "json"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "localhost:8080", cfg.Server.HTTPAddr)
	assert.Equal(t, "https://api.example.com", cfg.Backend.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, "/tmp/widget.db", cfg.Database.Path)
	assert.Equal(t, "Hello!", cfg.Widget.DefaultGreeting)
	assert.Equal(t, []string{"https://host.example.com"}, cfg.Widget.AllowedOrigins)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  http_addr: "localhost:8080"
backend:
  base_url: "https://api.example.com"
database:
  path: "/tmp/widget.db"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, DefaultGreeting, cfg.Widget.DefaultGreeting)
	assert.Equal(t, []string{"*"}, cfg.Widget.AllowedOrigins)
	assert.Equal(t, float64(2), cfg.Widget.RateLimitRPS)
	assert.Equal(t, 5, cfg.Widget.RateLimitBurst)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, "http://localhost:8080", cfg.Server.BaseURL)
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	t.Setenv("EMBER_TEST_BACKEND", "https://env.example.com")

	path := writeConfig(t, `
server:
  http_addr: "localhost:8080"
backend:
  base_url: "${EMBER_TEST_BACKEND}"
database:
  path: "/tmp/widget.db"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com", cfg.Backend.BaseURL)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidDuration(t *testing.T) {
	path := writeConfig(t, `
server:
  http_addr: "localhost:8080"
backend:
  base_url: "https://api.example.com"
  timeout: "not-a-duration"
database:
  path: "/tmp/widget.db"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
}

func TestValidate_RequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing http_addr",
			mutate:  func(c *Config) { c.Server.HTTPAddr = "" },
			wantErr: "server.http_addr",
		},
		{
			name:    "missing backend base_url",
			mutate:  func(c *Config) { c.Backend.BaseURL = "" },
			wantErr: "backend.base_url",
		},
		{
			name:    "relative backend base_url",
			mutate:  func(c *Config) { c.Backend.BaseURL = "api.example.com/v1" },
			wantErr: "absolute URL",
		},
		{
			name:    "missing database path",
			mutate:  func(c *Config) { c.Database.Path = "" },
			wantErr: "database.path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Server:   ServerConfig{HTTPAddr: "localhost:8080"},
				Backend:  BackendConfig{BaseURL: "https://api.example.com"},
				Database: DatabaseConfig{Path: "/tmp/widget.db"},
			}
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
