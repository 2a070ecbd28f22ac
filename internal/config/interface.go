package config

import (
	"context"
)

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads configuration from the given paths, evaluating it with
	// vars, and translates it into the format-agnostic model.
	Load(ctx context.Context, vars map[string]string, paths ...string) (*Model, error)
}
