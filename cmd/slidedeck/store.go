package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"slidedeck/internal/config"
	"slidedeck/internal/db"
	"slidedeck/internal/models"
	"slidedeck/internal/services"
)

// backend is the opened document store plus what the commands need to
// know about it
type backend struct {
	store services.DocumentStore
	// path is the watched document file; empty for sqlite
	path  string
	close func() error
}

// openBackend opens the configured document store
func openBackend(cfg *config.Config, logger *zap.Logger) (*backend, error) {
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		database, err := db.Open(cfg.Storage.DBPath)
		if err != nil {
			return nil, err
		}
		logger.Info("using sqlite store", zap.String("path", cfg.Storage.DBPath))
		return &backend{
			store: services.NewSQLiteStore(database, logger),
			close: database.Close,
		}, nil
	default:
		store, err := services.NewFileStore(cfg.Storage.DataPath, cfg.Storage.FileName, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("using file store", zap.String("path", store.Path()))
		return &backend{
			store: store,
			path:  store.Path(),
			close: func() error { return nil },
		}, nil
	}
}

// loadOrSeed returns the stored document. An empty store gets the welcome
// document when seeding is enabled; otherwise the NotFound error is returned.
func loadOrSeed(ctx context.Context, store services.DocumentStore, seed bool, logger *zap.Logger) (*models.Document, error) {
	doc, err := store.Load(ctx)
	if err == nil {
		return doc, nil
	}
	if !errors.Is(err, services.ErrNotFound) || !seed {
		return nil, err
	}
	doc = models.DefaultDocument(time.Now())
	if err := store.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to seed default presentation: %w", err)
	}
	logger.Info("seeded default presentation", zap.Int("slideCount", len(doc.Slides)))
	return doc, nil
}
