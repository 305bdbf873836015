// ABOUTME: Configuration loading and parsing for ember-widget
// ABOUTME: Supports YAML files with environment variable expansion and duration parsing

package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete ember-widget configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Backend  BackendConfig  `yaml:"backend"`
	Database DatabaseConfig `yaml:"database"`
	Widget   WidgetConfig   `yaml:"widget"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// ServerConfig holds the HTTP listener configuration
type ServerConfig struct {
	HTTPAddr string `yaml:"http_addr"`

	// BaseURL is the external URL the loader script points iframes at.
	// If not set, it's derived from http_addr.
	BaseURL string `yaml:"base_url"`
}

// BackendConfig holds the remote chat API configuration
type BackendConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"-"`

	// Raw string value for YAML unmarshaling
	TimeoutRaw string `yaml:"timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// WidgetConfig holds widget behavior configuration
type WidgetConfig struct {
	// DefaultGreeting seeds fresh conversations when an agent has no
	// initial_message configured upstream.
	DefaultGreeting string   `yaml:"default_greeting"`
	AllowedOrigins  []string `yaml:"allowed_origins"`

	// Per-visitor send rate limiting
	RateLimitRPS   float64 `yaml:"rate_limit_rps"`
	RateLimitBurst int     `yaml:"rate_limit_burst"`

	CookieTTL    time.Duration `yaml:"-"`
	CookieTTLRaw string        `yaml:"cookie_ttl"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig holds metrics endpoint configuration
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// DefaultGreeting seeds fresh conversations when neither the agent nor the
// config file supplies one.
const DefaultGreeting = "Hi! How can I help you today?"

const (
	defaultTimeout    = 30 * time.Second
	defaultCookieTTL  = 365 * 24 * time.Hour
	defaultRateRPS    = 2
	defaultRateBurst  = 5
	defaultMetricPath = "/metrics"
)

// Load reads a configuration file from the given path and returns a parsed Config.
// Environment variables in the format ${VAR_NAME} are expanded.
// Duration strings are parsed into time.Duration values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw YAML content
	expandedData := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := parseDurations(&cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	// Match ${VAR_NAME} pattern
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// applyDefaults fills in defaults for optional fields
func (c *Config) applyDefaults() {
	if c.Backend.Timeout == 0 {
		c.Backend.Timeout = defaultTimeout
	}
	if c.Widget.DefaultGreeting == "" {
		c.Widget.DefaultGreeting = DefaultGreeting
	}
	if len(c.Widget.AllowedOrigins) == 0 {
		c.Widget.AllowedOrigins = []string{"*"}
	}
	if c.Widget.RateLimitRPS <= 0 {
		c.Widget.RateLimitRPS = defaultRateRPS
	}
	if c.Widget.RateLimitBurst <= 0 {
		c.Widget.RateLimitBurst = defaultRateBurst
	}
	if c.Widget.CookieTTL == 0 {
		c.Widget.CookieTTL = defaultCookieTTL
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = defaultMetricPath
	}
	if c.Server.BaseURL == "" && c.Server.HTTPAddr != "" {
		c.Server.BaseURL = "http://" + c.Server.HTTPAddr
	}
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return fmt.Errorf("server.http_addr is required")
	}

	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend.base_url is required")
	}
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("backend.base_url must be an absolute URL, got %q", c.Backend.BaseURL)
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	var err error

	if cfg.Backend.TimeoutRaw != "" {
		cfg.Backend.Timeout, err = time.ParseDuration(cfg.Backend.TimeoutRaw)
		if err != nil {
			return fmt.Errorf("parsing backend timeout %q: %w", cfg.Backend.TimeoutRaw, err)
		}
	}

	if cfg.Widget.CookieTTLRaw != "" {
		cfg.Widget.CookieTTL, err = time.ParseDuration(cfg.Widget.CookieTTLRaw)
		if err != nil {
			return fmt.Errorf("parsing cookie_ttl %q: %w", cfg.Widget.CookieTTLRaw, err)
		}
	}

	return nil
}
