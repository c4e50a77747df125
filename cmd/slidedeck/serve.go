package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"slidedeck/internal/config"
	"slidedeck/internal/handlers"
	"slidedeck/internal/models"
	"slidedeck/internal/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, viewer, editor and presenter channel",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runServer(ctx, cfg, logger)
	},
}

func runServer(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	scheme, err := services.ParseIDScheme(cfg.Slides.IDScheme)
	if err != nil {
		return err
	}

	b, err := openBackend(cfg, logger)
	if err != nil {
		return err
	}
	defer b.close()

	doc, err := loadOrSeed(ctx, b.store, cfg.SeedDefault(), logger)
	if err != nil {
		// the viewer and editor report the problem per request
		logger.Warn("presentation not available at startup", zap.Error(err))
		doc = &models.Document{Slides: []models.Slide{}}
	}

	// Initialize services
	workspace := services.NewWorkspace(b.store, scheme, logger)
	wsService := services.NewWebSocketService(doc, logger)
	workspace.OnChange(func(ctx context.Context, doc *models.Document) {
		if err := wsService.Reload(ctx, doc); err != nil {
			logger.Debug("presenter channel not reloaded", zap.Error(err))
		}
	})

	var watcher *services.FileWatcher
	if b.path != "" && cfg.Watch() {
		watcher, err = services.NewFileWatcher(b.path, services.DefaultDebounce, func(ctx context.Context) {
			_ = workspace.Refresh(ctx)
		}, logger)
		if err != nil {
			return err
		}
		defer watcher.Stop()
	}

	// Initialize handlers
	router := handlers.SetupRoutes(logger,
		handlers.NewPresentationHandler(workspace, logger),
		handlers.NewViewerHandler(workspace, logger),
		handlers.NewEditorHandler(workspace, logger),
		handlers.NewWebSocketHandler(wsService),
	)

	// Configure server
	server := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router,
	}
	if cfg.TLS.Enabled {
		server.TLSConfig = &tls.Config{
			MinVersion: getTLSVersion(cfg.TLS.MinVersion),
		}
	}

	if watcher != nil {
		if err := watcher.Start(ctx); err != nil {
			return err
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return wsService.Run(ctx)
	})
	g.Go(func() error {
		var err error
		if cfg.TLS.Enabled {
			logger.Info("starting HTTPS server",
				zap.String("addr", server.Addr),
				zap.String("cert", cfg.TLS.CertFile),
				zap.String("key", cfg.TLS.KeyFile),
				zap.String("minVersion", cfg.TLS.MinVersion))
			err = server.ListenAndServeTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		} else {
			logger.Info("starting HTTP server", zap.String("addr", server.Addr))
			err = server.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GetShutdownTimeout())
		defer cancel()
		logger.Info("shutting down", zap.Duration("timeout", cfg.GetShutdownTimeout()))
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// getTLSVersion converts string version to tls.Version constant
func getTLSVersion(version string) uint16 {
	switch version {
	case "1.0":
		return tls.VersionTLS10
	case "1.1":
		return tls.VersionTLS11
	case "1.2":
		return tls.VersionTLS12
	case "1.3":
		return tls.VersionTLS13
	default:
		return tls.VersionTLS12
	}
}
