package main

import (
	"errors"
	"fmt"

	"github.com/ridewell/import-service/internal/dedupstore"
	"github.com/ridewell/import-service/internal/pipeline"
	"github.com/spf13/cobra"
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a local export file and commit its dedup keys",
	Long: `Run a local CSV or XLSX export file through the full import pipeline and
commit the result. Dedup keys from earlier committed runs are loaded first, so
rows already imported in a previous batch are skipped; the new batch's keys and
audit summary are committed in one transaction when the run succeeds.

In strict mode a rejected row aborts the batch before anything is committed.`,
	Example: `  import-service import ./exports/limo-anywhere.csv --kind reservations
  import-service import ./exports/google-ads.xlsx --kind adspend --strict`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVar(&parseKind, "kind", "", "Import kind: reservations or adspend (required)")
	importCmd.Flags().StringVar(&parseOutput, "output", "table", "Output format: table or json")
	importCmd.Flags().BoolVar(&parseStrict, "strict", false, "Abort on the first rejected row")
	importCmd.Flags().IntVar(&parseWorkers, "workers", 0, "Normalization parallelism (default from config)")
	importCmd.Flags().StringVar(&parseSheet, "sheet", "", "XLSX sheet name (default: first sheet)")
	importCmd.Flags().StringArrayVar(&parseOverrides, "map", nil, "Mapping override field=Header (repeatable)")
	importCmd.MarkFlagRequired("kind")
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := dedupstore.New(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer store.Close()

	kind, err := importKind()
	if err != nil {
		return err
	}
	priorKeys, err := store.LoadKeys(ctx, kind)
	if err != nil {
		return err
	}

	result, err := runPipeline(cmd, args[0], priorKeys)
	if err != nil {
		if errors.Is(err, pipeline.ErrStrictViolation) && result != nil {
			// Nothing is committed; show where the batch stopped
			if outErr := outputResult(result); outErr != nil {
				return outErr
			}
		}
		return err
	}

	if err := store.CommitRun(ctx, result.Report, result.Keys.Added()); err != nil {
		return fmt.Errorf("commit import run: %w", err)
	}

	logger.Info().
		Str("batch_id", result.Report.BatchID).
		Int("entities", result.Entities.Total()).
		Int("new_keys", len(result.Keys.Added())).
		Msg("Import committed")

	return outputResult(result)
}
