package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/cmdbridgego/internal/codec"
	"github.com/vk/cmdbridgego/internal/ctxlog"
	"github.com/vk/cmdbridgego/internal/dispatch"
	"github.com/vk/cmdbridgego/internal/registry"
	"github.com/vk/cmdbridgego/internal/schema"
)

// ManifestLoader is the interface for a format-specific manifest loader.
type ManifestLoader interface {
	// Load reads every manifest under the given paths and returns the
	// translated command definitions keyed by command name.
	Load(ctx context.Context, paths ...string) (map[string]*schema.CommandDefinition, error)
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	registry   *registry.Registry
	dispatcher *dispatch.Dispatcher
	config     *Config
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and a frozen,
// validated registry. All startup failures here are programmer or
// deployment errors, so they panic; the caller recovers into a clean exit.
func NewApp(outW, diagW io.Writer, appConfig *Config, loader ManifestLoader, modules ...registry.Module) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, diagW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	defs, err := loader.Load(ctx, appConfig.ManifestsPath)
	if err != nil {
		// A failure to load manifests is a fatal startup error.
		panic(fmt.Errorf("failed to load command manifests: %w", err))
	}
	logger.Debug("Command manifests loaded.", "count", len(defs))

	// Create and populate the registry with Go handlers.
	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All Go command modules registered.", "count", len(modules))

	reg.PopulateDefinitions(defs)

	// Validate the integrity of the registry. A mismatch between code and
	// manifests is a programmer error, so we panic.
	if err := reg.ValidateRegistry(ctx); err != nil {
		panic(err)
	}
	logger.Debug("Registry validation passed.")

	// The registry is frozen from here on; dispatch never mutates it.
	return &App{
		outW:       outW,
		logger:     logger,
		registry:   reg,
		dispatcher: dispatch.New(reg, codec.NewConverter()),
		config:     appConfig,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
