// Package config holds runtime configuration for the handbook-courses
// service: defaults in code, optionally overridden by a YAML file, then by
// HANDBOOK_* environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values like "250ms" decode.
type Duration time.Duration

// UnmarshalYAML decodes either a duration string or a bare integer of
// nanoseconds.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var n int64
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("invalid duration value")
	}
	*d = Duration(n)
	return nil
}

// MarshalYAML encodes the duration in its string form.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Config is the full service configuration.
type Config struct {
	// Addr is the HTTP listen address for the serve command.
	Addr string `yaml:"addr"`

	// BaseURL is the handbook subject-details base path.
	BaseURL string `yaml:"base_url"`

	// Workers bounds the batch worker pool.
	Workers int `yaml:"workers"`

	// RequestDelay is slept per worker after each fetched code.
	RequestDelay Duration `yaml:"request_delay"`

	// AllowedOrigins configures CORS. "*" allows any origin.
	AllowedOrigins []string `yaml:"allowed_origins"`

	// DataDir holds the snapshot file.
	DataDir string `yaml:"data_dir"`

	// StaticDir, when non-empty, is served at /.
	StaticDir string `yaml:"static_dir"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// LogPretty switches from JSON to console log output.
	LogPretty bool `yaml:"log_pretty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr:           ":5000",
		BaseURL:        "https://handbookpre2025.uts.edu.au/2024/subjects/details",
		Workers:        4,
		RequestDelay:   Duration(100 * time.Millisecond),
		AllowedOrigins: []string{"*"},
		DataDir:        "~/.local/share/handbook-courses",
		StaticDir:      "",
		LogLevel:       "info",
		LogPretty:      false,
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// path is non-empty; a missing explicit file is an error), then environment
// overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv overrides fields from HANDBOOK_* variables (and PORT, which the
// hosting platform sets).
func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		c.Addr = ":" + v
	}
	c.Addr = getenv("HANDBOOK_ADDR", c.Addr)
	c.BaseURL = getenv("HANDBOOK_BASE_URL", c.BaseURL)
	c.DataDir = getenv("HANDBOOK_DATA_DIR", c.DataDir)
	c.StaticDir = getenv("HANDBOOK_STATIC_DIR", c.StaticDir)
	c.LogLevel = getenv("HANDBOOK_LOG_LEVEL", c.LogLevel)

	if v := os.Getenv("HANDBOOK_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Workers = n
		}
	}
	if v := os.Getenv("HANDBOOK_REQUEST_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.RequestDelay = Duration(d)
		}
	}
	if v := os.Getenv("HANDBOOK_ALLOWED_ORIGINS"); v != "" {
		c.AllowedOrigins = splitCommas(v)
	}
}

// Validate rejects configurations the server cannot run with.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr must not be empty")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("base_url must not be empty")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be >= 1 (got %d)", c.Workers)
	}
	if c.RequestDelay < 0 {
		return fmt.Errorf("request_delay must not be negative")
	}
	return nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitCommas(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
