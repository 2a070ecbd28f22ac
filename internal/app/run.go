package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/workerpack/internal/archive"
	"github.com/specialistvlad/workerpack/internal/bundler"
	"github.com/specialistvlad/workerpack/internal/config"
	"github.com/specialistvlad/workerpack/internal/ctxlog"
	"github.com/specialistvlad/workerpack/internal/jsruntime"
)

// Run packages every selected worker. A failing worker does not stop the
// others; all failures are returned joined.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.ExecPath != "" {
		return a.Exec(ctx)
	}
	if a.model == nil {
		return errors.New("no packaging configuration loaded")
	}

	workers, err := a.model.Select(a.config.Workers)
	if err != nil {
		return err
	}

	a.logger.Info("🚀 Packaging workers...", "count", len(workers))
	var errs []error
	for _, w := range workers {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := a.packageWorker(ctx, w); err != nil {
			a.logger.Error("Worker packaging failed.", "worker", w.Name, "error", err)
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%d of %d workers failed: %w", len(errs), len(workers), errors.Join(errs...))
	}

	a.logger.Info("🏁 Packaging finished.")
	a.logger.Debug("App.Run method finished.")
	return nil
}

func (a *App) packageWorker(ctx context.Context, w *config.Worker) error {
	strategies := bundler.Strategies{EmptyContext: a.registry.ContextStrategies[w.EmptyContext]}
	if w.FillHashes {
		strategies.Hash = a.registry.HashFunctions[w.HashFunction]
	}

	res, err := bundler.Build(ctx, w, strategies)
	if err != nil {
		return err
	}

	archivePath := ""
	if w.Archive != config.ArchiveNone {
		archivePath, err = archive.Write(ctx, res.Dir, a.registry.ArchiveFormats[w.Archive])
		if err != nil {
			return fmt.Errorf("worker '%s': %w", w.Name, err)
		}
	}

	a.logger.Info("📦 Worker packaged.", "worker", w.Name, "dir", res.Dir,
		"entries", len(res.Entries), "files", len(res.Files), "archive", archivePath)
	return nil
}

// Exec runs a packaged entry bundle in the embedded JavaScript host.
func (a *App) Exec(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("Executing packaged bundle.", "path", a.config.ExecPath, "args", a.config.ExecArgs)

	rt := jsruntime.New(ctx, a.config.ExecArgs)
	exports, err := rt.RunFile(a.config.ExecPath)
	if err != nil {
		return err
	}
	a.logger.Debug("Bundle finished.", "exports", exports)
	return nil
}
