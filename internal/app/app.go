package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/specialistvlad/workerpack/internal/config"
	"github.com/specialistvlad/workerpack/internal/ctxlog"
	"github.com/specialistvlad/workerpack/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	config   *Config
	model    *config.Model
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
// Configuration errors are fatal startup errors and panic.
//
// In exec mode without a config path no packaging config is loaded.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader, modules ...registry.Module) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All Go modules registered.", "count", len(modules))

	a := &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		config:   appConfig,
	}
	if appConfig.ConfigPath == "" {
		return a
	}

	dist, err := filepath.Abs(appConfig.Dist)
	if err != nil {
		panic(fmt.Errorf("failed to resolve dist directory: %w", err))
	}
	model, err := loader.Load(ctx, map[string]string{"dist": dist}, appConfig.ConfigPath)
	if err != nil {
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	logger.Debug("Configuration loaded and translated into unified model.", "workers", len(model.Workers))

	// A worker naming an unregistered strategy is a mismatch between code and config.
	if err := reg.ValidateModel(ctx, model); err != nil {
		panic(err)
	}

	a.model = model
	return a
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Model returns the loaded packaging model, or nil in exec mode.
func (a *App) Model() *config.Model {
	return a.model
}
