package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rustyeddy/backtester/api"
	"github.com/rustyeddy/backtester/config"
	"github.com/rustyeddy/backtester/journal"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve journaled results over HTTP",
	Long: `Serve starts a read-only HTTP API over the SQLite journal.

Endpoints:
  GET /api/health
  GET /api/runs
  GET /api/runs/{id}
  GET /api/runs/{id}/trades
  GET /api/runs/{id}/equity

Example:
  backtester serve --db backtester.sqlite --addr :8080`,
	RunE: runServe,
}

var (
	serveAddr   string
	serveDBPath string
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (default :8080)")
	serveCmd.Flags().StringVarP(&serveDBPath, "db", "d", "", "path to SQLite journal DB")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if serveDBPath != "" {
		cfg.Journal.DBPath = serveDBPath
	}
	if serveAddr != "" {
		cfg.API.Addr = serveAddr
	}

	j, err := journal.NewSQLite(cfg.Journal.DBPath)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()

	srv := api.NewServer(cfg.API.Addr, j, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
