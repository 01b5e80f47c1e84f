package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Lllllllleong/goldflowsync/internal/server"
	"github.com/Lllllllleong/goldflowsync/internal/services"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the sync agent and the local HTTP endpoints",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		hub := server.NewHub()
		agent, err := services.NewSyncAgent(ctx, *config, hub.Reload)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              config.ListenAddr,
			Handler:           server.New(agent.Saver(), agent.Local(), agent.Remote(), hub).Router(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			agent.Run(ctx)
		}()

		serveErr := make(chan error, 1)
		go func() {
			slog.Info("Listening for local pages.", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serveErr <- err
			}
			close(serveErr)
		}()

		var runErr error
		select {
		case <-ctx.Done():
			slog.Info("Shutting down.")
		case err := <-serveErr:
			if err != nil {
				runErr = fmt.Errorf("http server: %w", err)
			}
			stop()
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP shutdown failed.", "error", err)
		}
		hub.Close()
		wg.Wait()
		if err := agent.Shutdown(shutdownCtx); err != nil {
			slog.Error("Agent shutdown incomplete.", "error", err)
		}
		return runErr
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
