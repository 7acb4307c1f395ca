package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/deck-builder/internal/observability"
)

var runsCmd = &cobra.Command{
	Use:   "runs [run-id]",
	Short: "List stored conversion runs or inspect one",
	Long: `Reads the artifact database written by convert --db-url.

Without an argument the most recent runs are listed. With a run ID the run and its artifacts are listed;
--show prints one artifact (document, raw_outline, outline, catalog or deck).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRuns,
}

var (
	runsLimit       int
	runsShow        string
	runsDatabaseURL string
)

func init() {
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "Number of runs to list")
	runsCmd.Flags().StringVar(&runsShow, "show", "", "Artifact to print for the given run")
	runsCmd.Flags().StringVar(&runsDatabaseURL, "db-url", "", "PostgreSQL connection URL (defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = runsDatabaseURL
	}

	ctx := context.Background()
	database, err := openStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	return listRuns(ctx, database, os.Stdout, args, runsLimit, runsShow)
}

// listRuns prints the recent runs, one run with its artifacts, or a single artifact
func listRuns(ctx context.Context, store runStore, out io.Writer, args []string, limit int, show string) error {
	printer := observability.NewPrinter(out)

	if len(args) == 0 {
		runs, err := store.ListRuns(ctx, limit)
		if err != nil {
			return err
		}
		printer.PrintRuns(runs)
		return nil
	}

	runID, err := parseRunID(args[0])
	if err != nil {
		return err
	}
	if show != "" {
		return showArtifact(ctx, store, runID, show, out)
	}

	run, err := store.GetRun(ctx, runID)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("run %s not found", runID)
	}
	artifacts, err := store.ListArtifacts(ctx, runID)
	if err != nil {
		return err
	}
	printer.PrintRun(run, artifacts)
	return nil
}
