package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/workerpack/internal/config"
	"github.com/specialistvlad/workerpack/internal/ctxlog"
)

// ValidateModel checks that every strategy a worker names is registered.
// All problems are reported together.
func (r *Registry) ValidateModel(ctx context.Context, model *config.Model) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, w := range model.Workers {
		if _, ok := r.ContextStrategies[w.EmptyContext]; !ok {
			errs = append(errs, fmt.Sprintf("worker '%s': unknown empty_context %q (available: %s)",
				w.Name, w.EmptyContext, strings.Join(keys(r.ContextStrategies), ", ")))
		}
		if w.FillHashes {
			if _, ok := r.HashFunctions[w.HashFunction]; !ok {
				errs = append(errs, fmt.Sprintf("worker '%s': unknown hash_function %q (available: %s)",
					w.Name, w.HashFunction, strings.Join(keys(r.HashFunctions), ", ")))
			}
		}
		if w.Archive != config.ArchiveNone {
			if _, ok := r.ArchiveFormats[w.Archive]; !ok {
				errs = append(errs, fmt.Sprintf("worker '%s': unknown archive %q (available: none, %s)",
					w.Name, w.Archive, strings.Join(keys(r.ArchiveFormats), ", ")))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	logger.Debug("Registry validation passed.", "workers", len(model.Workers))
	return nil
}
