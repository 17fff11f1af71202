package app

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds the process-level configuration of an App. Empty log fields
// fall back to the values in the loaded configuration files, then to
// "info" and "text".
type Config struct {
	// ConfigPaths are HCL files or directories, loaded in order.
	ConfigPaths []string `env:"FARO_CONFIG" envSeparator:","`
	LogLevel    string   `env:"FARO_LOG_LEVEL"`
	LogFormat   string   `env:"FARO_LOG_FORMAT"`
}

// ConfigFromEnv reads the FARO_* environment variables.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// NewConfig validates cfg and returns a normalized copy.
func NewConfig(cfg Config) (*Config, error) {
	cfg.LogLevel = normalize(cfg.LogLevel)
	cfg.LogFormat = normalize(cfg.LogFormat)

	if err := validateLogLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	if err := validateLogFormat(cfg.LogFormat); err != nil {
		return nil, err
	}

	var paths []string
	for _, p := range cfg.ConfigPaths {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	cfg.ConfigPaths = paths
	return &cfg, nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func validateLogLevel(level string) error {
	switch level {
	case "", "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("invalid log level %q: must be 'debug', 'info', 'warn', or 'error'", level)
}

func validateLogFormat(format string) error {
	switch format {
	case "", "text", "json":
		return nil
	}
	return fmt.Errorf("invalid log format %q: must be 'text' or 'json'", format)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
