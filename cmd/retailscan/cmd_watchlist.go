package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/retailscan/retailscan/internal/config"
	"github.com/retailscan/retailscan/internal/store"
)

func newWatchlistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watchlist",
		Short: "Manage the persisted symbol watchlist",
	}

	addCmd := &cobra.Command{
		Use:   "add SYMBOL",
		Short: "Add a symbol (reactivates a previously removed one)",
		Args:  cobra.ExactArgs(1),
		RunE:  runWatchlistAdd,
	}
	addCmd.Flags().String("notes", "", "Free-form note stored with the entry")

	removeCmd := &cobra.Command{
		Use:   "remove SYMBOL",
		Short: "Deactivate a symbol",
		Args:  cobra.ExactArgs(1),
		RunE:  runWatchlistRemove,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List watched symbols",
		RunE:  runWatchlistList,
	}
	listCmd.Flags().Bool("all", false, "Include deactivated symbols")

	cmd.AddCommand(addCmd, removeCmd, listCmd)
	return cmd
}

func openWatchlistStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if cfg.Store.PostgresDSN == "" {
		return nil, fmt.Errorf("watchlist commands require store.postgres_dsn (or RETAILSCAN_POSTGRES_DSN)")
	}
	db, err := store.Open(cfg.Store.PostgresDSN)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(cmd.Context()); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func runWatchlistAdd(cmd *cobra.Command, args []string) error {
	db, err := openWatchlistStore(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	symbol := strings.ToUpper(strings.TrimSpace(args[0]))
	notes, _ := cmd.Flags().GetString("notes")
	if err := db.AddSymbol(cmd.Context(), symbol, notes); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", symbol)
	return nil
}

func runWatchlistRemove(cmd *cobra.Command, args []string) error {
	db, err := openWatchlistStore(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	symbol := strings.ToUpper(strings.TrimSpace(args[0]))
	if err := db.RemoveSymbol(cmd.Context(), symbol); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", symbol)
	return nil
}

func runWatchlistList(cmd *cobra.Command, _ []string) error {
	db, err := openWatchlistStore(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	all, _ := cmd.Flags().GetBool("all")
	entries, err := db.ListSymbols(cmd.Context(), !all)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SYMBOL\tACTIVE\tADDED\tNOTES")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%t\t%s\t%s\n", e.Symbol, e.Active, e.AddedAt.Format("2006-01-02"), e.Notes)
	}
	return w.Flush()
}
