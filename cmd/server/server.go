// Package server implements the command that runs the HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wopanel/wopanel/app"
	"github.com/wopanel/wopanel/web"
	"github.com/spf13/cobra"
)

// NewCmdServer creates a command to run the HTTP API server
func NewCmdServer() *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Run the deployment API server",
		Long:  `Starts the HTTP API for deploying sites and managing the asset vault.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func runServer() error {
	config := app.GetConfig()

	slog.Info("Starting server",
		"layer", "server",
		"operation", "startup")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go handleShutdown(cancel)

	handlers := web.NewHandlers(app.GetDeployService(), app.GetVaultService(), app.GetCatalog())
	router := web.NewRouter(handlers)

	address := fmt.Sprintf("%s:%d", config.HTTPHost, config.HTTPPort)
	server := &http.Server{
		Addr:    address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("API server listening", "address", address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("Server stopped")
	return nil
}

func handleShutdown(cancel context.CancelFunc) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	slog.Info("Received shutdown signal", "signal", sig.String())
	cancel()
}
