package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"

	"github.com/vk/gridware/internal/catalog"
	"github.com/vk/gridware/internal/control"
	"github.com/vk/gridware/internal/ctxlog"
	"github.com/vk/gridware/internal/schema"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	catalog schema.Catalog
	engine  *control.Engine

	// seen is the idempotency record for before-mode advancement. It lives
	// for the App's lifetime: one set per session, keys are only added.
	seen control.SeenSet
}

// New is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and the
// loaded schema catalog.
func New(outW io.Writer, errW io.Writer, cfg *Config) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, errW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	cat, err := catalog.Load(ctx, cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load schema catalog: %w", err)
	}
	logger.Debug("Schema catalog loaded.")

	var src control.Source
	if cfg.Seed != 0 {
		src = rand.New(rand.NewSource(cfg.Seed))
		logger.Debug("Control-field randomness seeded.", "seed", cfg.Seed)
	}

	return &App{
		outW:    outW,
		logger:  logger,
		catalog: cat,
		engine:  control.New(cat, src),
		seen:    make(control.SeenSet),
	}, nil
}

// Catalog returns the loaded schema catalog. This is primarily for testing.
func (a *App) Catalog() schema.Catalog {
	return a.catalog
}
