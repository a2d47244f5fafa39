package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	appName = "RetailScan"
	version = "v1.2.0"
)

var configPath string

func main() {
	// Local overrides for connection strings; absence is not an error.
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = time.RFC3339
	if term.IsTerminal(int(os.Stderr.Fd())) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	rootCmd := &cobra.Command{
		Use:     "retailscan",
		Short:   "Composite scoring and divergence detection for retail-driven tickers",
		Version: version,
		Long: `RetailScan aggregates social, technical, fundamental, analyst, and market
structure signals per ticker into a single composite assessment with risk and
opportunity classification, retail-vs-institutional divergence detection, and
prioritized alerts.`,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to YAML config file (defaults apply without one)")

	rootCmd.AddCommand(newScanCmd())
	rootCmd.AddCommand(newAssessCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newWatchlistCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
