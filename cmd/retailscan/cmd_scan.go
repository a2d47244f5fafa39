package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/retailscan/retailscan/internal/config"
	"github.com/retailscan/retailscan/internal/engine"
	"github.com/retailscan/retailscan/internal/interfaces/alerts"
	"github.com/retailscan/retailscan/internal/scan"
	"github.com/retailscan/retailscan/internal/store"
)

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Assess a symbol batch from snapshot fixtures",
		Long: `Runs the full pipeline over a symbol list: load snapshots, normalize to
component scores, assess, and emit a report. Symbols come from --symbols,
the configured watchlist, or the database, in that order of preference.`,
		RunE: runScan,
	}

	cmd.Flags().String("snapshots", "snapshots", "Directory holding <SYMBOL>.json snapshot files")
	cmd.Flags().String("symbols", "", "Comma-separated symbol list (overrides watchlist)")
	cmd.Flags().String("out", "retailscan_report.json", "Path for the JSON report")
	cmd.Flags().String("csv", "", "Also write a per-symbol CSV to this path")
	cmd.Flags().Bool("persist", false, "Save generated alerts to the configured database")
	return cmd
}

func runScan(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	eng, err := engine.New(&cfg.Engine)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	symbols, db, err := resolveSymbols(ctx, cmd, cfg)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}
	if len(symbols) == 0 {
		return fmt.Errorf("no symbols to scan: pass --symbols or configure a watchlist")
	}

	snapshotDir, _ := cmd.Flags().GetString("snapshots")
	scanner := scan.NewScanner(eng, scan.NewFileProvider(snapshotDir), cfg.Scan)
	summary := scanner.Run(ctx, symbols)

	if persist, _ := cmd.Flags().GetBool("persist"); persist {
		if err := persistAlerts(ctx, cfg, db, summary); err != nil {
			return err
		}
	}

	return emitScanOutputs(cmd, summary)
}

// resolveSymbols prefers the --symbols flag, then the database watchlist,
// then the static list from the config file. The returned store is non-nil
// only when the database was opened and may be reused by the caller.
func resolveSymbols(ctx context.Context, cmd *cobra.Command, cfg *config.Config) ([]string, *store.Store, error) {
	if raw, _ := cmd.Flags().GetString("symbols"); raw != "" {
		var symbols []string
		for _, s := range strings.Split(raw, ",") {
			if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
				symbols = append(symbols, s)
			}
		}
		return symbols, nil, nil
	}

	if cfg.Store.PostgresDSN != "" {
		db, err := store.Open(cfg.Store.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		symbols, err := db.ActiveSymbols(ctx)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return symbols, db, nil
	}

	return cfg.Watchlist, nil, nil
}

func persistAlerts(ctx context.Context, cfg *config.Config, db *store.Store, summary *scan.Summary) error {
	if db == nil {
		if cfg.Store.PostgresDSN == "" {
			return fmt.Errorf("--persist requires store.postgres_dsn")
		}
		opened, err := store.Open(cfg.Store.PostgresDSN)
		if err != nil {
			return err
		}
		defer opened.Close()
		db = opened
	}

	var all []engine.Alert
	for _, r := range summary.Results {
		all = append(all, r.Alerts...)
	}
	if err := db.SaveAlerts(ctx, all); err != nil {
		return fmt.Errorf("persist alerts: %w", err)
	}
	log.Info().Int("alerts", len(all)).Msg("alerts persisted")
	return nil
}

func emitScanOutputs(cmd *cobra.Command, summary *scan.Summary) error {
	emitter := alerts.NewEmitter()

	outPath, _ := cmd.Flags().GetString("out")
	if err := emitter.EmitReportJSON(outPath, summary); err != nil {
		return err
	}
	log.Info().Str("path", outPath).Msg("report written")

	if csvPath, _ := cmd.Flags().GetString("csv"); csvPath != "" {
		if err := emitter.EmitResultsCSV(csvPath, summary); err != nil {
			return err
		}
		log.Info().Str("path", csvPath).Msg("CSV written")
	}
	return nil
}
