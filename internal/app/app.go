package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minesweeper/internal/config"
	"github.com/vancomm/minesweeper/internal/session"
)

const shutdownTimeout = 30 * time.Second

type App struct {
	logger   *slog.Logger
	config   config.Config
	registry *session.Registry
	handler  http.Handler
}

func New(logger *slog.Logger, cfg config.Config) *App {
	registry := session.NewRegistry(logger, session.Options{
		TTL:  cfg.Sessions.TTL.Duration,
		Seed: cfg.Sessions.Seed,
	})

	app := &App{
		logger:   logger,
		config:   cfg,
		registry: registry,
	}
	app.handler = app.loadRoutes()

	return app
}

// Handler is the whole HTTP surface, middleware included.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Start serves until ctx is cancelled, then shuts the server down and ends
// every game session.
func (a *App) Start(ctx context.Context) error {
	defer a.registry.Close()

	server := &http.Server{
		Addr:    a.config.Addr(),
		Handler: a.handler,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("server listening", slog.String("addr", server.Addr))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("unable to listen and serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down")
		return server.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		return a.registry.Janitor(ctx, a.config.Sessions.JanitorInterval.Duration)
	})

	return g.Wait()
}
