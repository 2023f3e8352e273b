package main

import (
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lmittmann/tint"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vancomm/minesweeper/internal/app"
	"github.com/vancomm/minesweeper/internal/config"
	"github.com/vancomm/minesweeper/internal/mines"
)

func newLogger(w io.Writer, development bool) *slog.Logger {
	var handler slog.Handler = slog.NewJSONHandler(w, nil)
	if development {
		handler = tint.NewHandler(w, &tint.Options{
			Level: slog.LevelDebug,
		})
	}
	return slog.New(handler)
}

func setupEngineLogging(w io.Writer, development bool) {
	mines.Log.SetOutput(w)
	if development {
		mines.Log.SetLevel(logrus.DebugLevel)
		mines.Log.SetFormatter(&logrus.TextFormatter{ForceColors: true})
	} else {
		mines.Log.SetLevel(logrus.InfoLevel)
		mines.Log.SetFormatter(&logrus.JSONFormatter{})
	}
}

func newServeCmd() *cobra.Command {
	var configPath string

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve games over HTTP and WebSocket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			logger := newLogger(cmd.ErrOrStderr(), cfg.Development)
			setupEngineLogging(cmd.ErrOrStderr(), cfg.Development)
			logger.Info("loaded config", slog.Any("config", cfg))

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			if err := app.New(logger, cfg).Start(ctx); err != nil {
				logger.Error("server stopped", slog.Any("error", err))
				return err
			}
			return nil
		},
	}

	const usage = "config file path"
	serveCmd.Flags().StringVarP(&configPath, "config", "c", "", usage)

	return serveCmd
}
