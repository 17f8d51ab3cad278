package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"pobsd/internal/ingest"
)

func ingestCmd() *cobra.Command {
	var full bool
	var prune bool
	cmd := &cobra.Command{
		Use:   "ingest [source...]",
		Short: "Export games database files into the configured SQL store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd, args, ingest.Options{Full: full, Prune: prune})
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "Force full re-ingestion (ignore stored hashes)")
	cmd.Flags().BoolVar(&prune, "prune", false, "Remove sources no longer listed")
	return cmd
}

func runIngest(cmd *cobra.Command, args []string, options ingest.Options) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	mode, err := cfg.ParseMode()
	if err != nil {
		return err
	}
	options.Mode = mode
	options.Logger = logger

	sources := args
	if len(sources) == 0 {
		sources = []string{cfg.Source}
	}

	db, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	result, err := ingest.Run(ctx, sources, db, options)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Ingestion complete.")
	fmt.Fprintf(out, "  Games written:   %d\n", result.GamesWritten)
	fmt.Fprintf(out, "  Malformed lines: %d\n", result.Diagnostics)
	fmt.Fprintf(out, "  Sources skipped: %d\n", result.SourcesSkipped)
	fmt.Fprintf(out, "  Sources removed: %d\n", result.SourcesRemoved)

	if len(result.Errors) > 0 {
		fmt.Fprintf(out, "\nErrors (%d):\n", len(result.Errors))
		for _, item := range result.Errors {
			fmt.Fprintf(out, "  - %v\n", item)
		}
		return fmt.Errorf("ingestion completed with errors")
	}

	return nil
}
