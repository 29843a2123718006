package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/khanglvm/daily-raffle/internal/api"
)

// NewServeCmd creates the 'serve' command that runs the HTTP API.
func NewServeCmd(opts *globalOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve the daily draw over HTTP until interrupted.

Endpoints:
  GET /healthz          liveness probe
  GET /v1/draw?fixed=N  current draw for fixed number N
  GET /v1/history       persisted draw history`,
		Example: `  daily-raffle serve
  daily-raffle serve --addr 127.0.0.1:9090`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts, addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from config, :8080)")

	return cmd
}

// runServe starts the API and shuts it down gracefully on SIGINT/SIGTERM.
func runServe(cmd *cobra.Command, opts *globalOptions, addr string) error {
	engine, cfg, closeStore, err := opts.newEngine(cmd, jsonLogs)
	if err != nil {
		return err
	}
	defer closeStore()

	if addr == "" {
		addr = cfg.Server.Addr
	}

	logger := newLogger(cfg, cmd.ErrOrStderr(), jsonLogs)
	e := api.NewServer(engine, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", addr, "backend", cfg.History.Backend)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
