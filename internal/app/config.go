package app

import (
	"errors"
	"fmt"
)

// DefaultDist is the value of the `dist` config variable when none is given.
const DefaultDist = "dist"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ConfigPath string // hcl file or directory of them
	Dist       string
	Workers    []string // empty packages every worker

	// ExecPath switches the app from packaging to running a packaged entry
	// bundle. ExecArgs become process.argv[1:].
	ExecPath string
	ExecArgs []string

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and fills defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ConfigPath == "" && cfg.ExecPath == "" {
		return nil, errors.New("ConfigPath is a required configuration field and cannot be empty")
	}
	if cfg.ExecPath != "" && len(cfg.Workers) > 0 {
		return nil, errors.New("workers cannot be selected when executing a bundle")
	}
	switch cfg.LogFormat {
	case "", "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", cfg.LogFormat)
	}
	switch cfg.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", cfg.LogLevel)
	}
	if cfg.Dist == "" {
		cfg.Dist = DefaultDist
	}
	return &cfg, nil
}
