package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rustyeddy/backtester/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "backtester",
	Short: "A trading strategy backtesting engine and research platform",
	Long: `Backtester is a deterministic trading strategy backtesting engine written in Go.

It provides tools for:
  - Backtesting trading strategies over historical candle data
  - Realistic slippage and commission modeling
  - Parameter sweeps across strategy configurations
  - Persisting runs, trades, and equity curves to SQLite
  - Serving stored results over an HTTP API

Complete documentation is available at https://github.com/rustyeddy/backtester`,
}

var (
	log     zerolog.Logger
	verbose bool
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initLogging)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func initLogging() {
	// Best effort; a missing .env file is not an error.
	config.LoadEnv()

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}
