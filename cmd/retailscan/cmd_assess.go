package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/retailscan/retailscan/internal/config"
	"github.com/retailscan/retailscan/internal/engine"
	"github.com/retailscan/retailscan/internal/normalize"
)

func newAssessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assess [snapshot.json]",
		Short: "Assess a single snapshot and print the result",
		Long: `Reads one raw snapshot (from the given file or stdin), normalizes it, and
prints the assessment with its alerts as indented JSON.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAssess,
	}
	return cmd
}

func runAssess(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	eng, err := engine.New(&cfg.Engine)
	if err != nil {
		return err
	}

	var data []byte
	if len(args) == 1 {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}

	var snap normalize.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("parse snapshot: %w", err)
	}

	assessment, err := eng.Assess(strings.ToUpper(strings.TrimSpace(snap.Symbol)), snap.Components())
	if err != nil {
		return err
	}

	out := struct {
		Assessment *engine.Assessment `json:"assessment"`
		Alerts     []engine.Alert     `json:"alerts"`
	}{assessment, eng.AlertsFor(assessment)}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
