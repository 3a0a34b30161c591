package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/timetable-import/internal/events"
	"github.com/lehigh-university-libraries/timetable-import/internal/handlers"
	"github.com/lehigh-university-libraries/timetable-import/internal/storage"
)

func newServeCmd(a *app) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the local HTTP host for the import workflow",
		Long: `Starts a local HTTP API that runs the import workflow for a front end.

Each uploaded image opens a session that moves through scanning, preview and
confirmation. State changes and course-list invalidations are pushed on
/api/events, and log records on /api/logs, as Server-Sent Events.`,
		Example: `  # Start server on default port 8888
  timetable serve

  # Start server on custom port
  timetable serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := a.logger
			if cmd.Flags().Changed("port") {
				a.cfg.Server.Port = port
			}

			scanner, err := newScanner(a.cfg)
			if err != nil {
				return err
			}
			handler := handlers.New(handlers.Options{
				Scanner:        scanner,
				Confirmer:      newConfirmer(a.cfg),
				Bus:            events.NewBus(),
				Sink:           a.sink,
				MaxUploadBytes: a.cfg.Server.MaxUploadBytes,
			})

			mux := http.NewServeMux()
			handler.Routes(mux)

			addr := ":" + a.cfg.Server.Port
			server := &http.Server{
				Addr:              addr,
				Handler:           mux,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx := cmd.Context()
			go pruneSessions(ctx, handler.Sessions(), a.cfg.Server.SessionTTL, logger)

			serverErr := make(chan error, 1)
			go func() {
				logger.Info("Timetable import host available", "addr", addr, "url", "http://localhost"+addr, "scanner", a.cfg.Scan.Scanner)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-ctx.Done():
				logger.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					logger.Error("Server shutdown failed", "err", err)
					return err
				}
				logger.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8888", "Port to listen on")

	return cmd
}

func pruneSessions(ctx context.Context, store *storage.SessionStore, ttl time.Duration, logger *slog.Logger) {
	if ttl <= 0 {
		return
	}
	ticker := time.NewTicker(ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := store.Prune(time.Now().Add(-ttl)); n > 0 {
				logger.Info("Pruned idle sessions", "count", n)
			}
		}
	}
}
