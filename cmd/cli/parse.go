package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/ridewell/import-service/internal/mapping"
	"github.com/ridewell/import-service/internal/pipeline"
	"github.com/ridewell/import-service/internal/types"
	"github.com/spf13/cobra"
)

var (
	parseKind      string
	parseOutput    string
	parseStrict    bool
	parseWorkers   int
	parseSheet     string
	parseOverrides []string
)

// parseCmd represents the parse command
var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a local export file without committing anything",
	Long: `Parse a local CSV or XLSX export file through the full import pipeline:
column mapping, row normalization, and within-batch deduplication. Nothing is
persisted; this is a dry run that shows the audit report and entity counts a
real import of the file would produce.

Mapping overrides take the form field=Header, for example
--map pickupDateTime="Scheduled PU". Overridden columns win over inference.`,
	Example: `  import-service parse ./exports/limo-anywhere.csv --kind reservations
  import-service parse ./exports/google-ads.xlsx --kind adspend --output json
  import-service parse ./exports/q3.csv --kind reservations --strict --map fare="Trip Total"`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVar(&parseKind, "kind", "", "Import kind: reservations or adspend (required)")
	parseCmd.Flags().StringVar(&parseOutput, "output", "table", "Output format: table or json")
	parseCmd.Flags().BoolVar(&parseStrict, "strict", false, "Abort on the first rejected row")
	parseCmd.Flags().IntVar(&parseWorkers, "workers", 0, "Normalization parallelism (default from config)")
	parseCmd.Flags().StringVar(&parseSheet, "sheet", "", "XLSX sheet name (default: first sheet)")
	parseCmd.Flags().StringArrayVar(&parseOverrides, "map", nil, "Mapping override field=Header (repeatable)")
	parseCmd.MarkFlagRequired("kind")
}

func runParse(cmd *cobra.Command, args []string) error {
	result, err := runPipeline(cmd, args[0], nil)
	if result != nil {
		if outErr := outputResult(result); outErr != nil {
			return outErr
		}
	}
	return err
}

// importKind validates the shared --kind flag
func importKind() (types.ImportKind, error) {
	kind := types.ImportKind(strings.ToLower(parseKind))
	if !types.IsValidImportKind(string(kind)) {
		return "", fmt.Errorf("invalid import kind: %s (use 'reservations' or 'adspend')", parseKind)
	}
	return kind, nil
}

// runPipeline reads a file and runs it through the pipeline with the shared
// parse/import flag set. A non-nil result can accompany a strict-mode error.
func runPipeline(cmd *cobra.Command, filePath string, priorKeys []string) (*pipeline.Result, error) {
	kind, err := importKind()
	if err != nil {
		return nil, err
	}

	overrides, err := parseMapOverrides(parseOverrides)
	if err != nil {
		return nil, err
	}

	logger.Info().Str("file", filePath).Msg("Reading file")
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	logger.Info().Str("file", filePath).Msgf("Read %d bytes", len(content))

	opts := pipeline.Options{
		Kind:      kind,
		Overrides: overrides,
		PriorKeys: priorKeys,
		Strict:    parseStrict,
		Workers:   parseWorkers,
		SheetName: parseSheet,
	}
	if cfg != nil {
		if opts.Workers == 0 {
			opts.Workers = cfg.Import.Workers
		}
		opts.MaxRows = cfg.Import.MaxRows
		loc, err := cfg.Import.Location()
		if err != nil {
			return nil, err
		}
		opts.Location = loc
	}

	return pipeline.Run(cmd.Context(), content, opts)
}

// parseMapOverrides converts repeated field=Header flags into mapping overrides
func parseMapOverrides(pairs []string) (map[mapping.CanonicalField]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	overrides := make(map[mapping.CanonicalField]string, len(pairs))
	for _, pair := range pairs {
		field, header, ok := strings.Cut(pair, "=")
		if !ok || field == "" || header == "" {
			return nil, fmt.Errorf("invalid --map value %q (expected field=Header)", pair)
		}
		overrides[mapping.CanonicalField(strings.TrimSpace(field))] = strings.TrimSpace(header)
	}
	return overrides, nil
}

func outputResult(result *pipeline.Result) error {
	switch strings.ToLower(parseOutput) {
	case "json":
		return outputResultJSON(result)
	case "table":
		outputResultTable(result)
		return nil
	default:
		return fmt.Errorf("invalid output format: %s (use 'table' or 'json')", parseOutput)
	}
}

func outputResultTable(result *pipeline.Result) {
	rep := result.Report

	fmt.Printf("\nImport Report for batch %s (%s)\n", rep.BatchID, rep.Kind)
	fmt.Println(strings.Repeat("-", 60))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintf(w, "Metric\tValue\n")
	fmt.Fprintf(w, "------\t-----\n")
	fmt.Fprintf(w, "Total Rows\t%d\n", rep.TotalRows)
	fmt.Fprintf(w, "Accepted\t%d\n", rep.Accepted)
	fmt.Fprintf(w, "Corrected\t%d\n", rep.Corrected)
	fmt.Fprintf(w, "Skipped\t%d\n", rep.Skipped)
	fmt.Fprintf(w, "Rejected\t%d\n", rep.Rejected)
	fmt.Fprintf(w, "Duration\t%s\n", rep.FinishedAt.Sub(rep.StartedAt).Round(time.Millisecond))
	w.Flush()

	ents := result.Entities
	fmt.Println()
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintf(w, "Entity\tCount\n")
	fmt.Fprintf(w, "------\t-----\n")
	fmt.Fprintf(w, "Bookings\t%d\n", len(ents.Bookings))
	fmt.Fprintf(w, "Revenue Lines\t%d\n", len(ents.RevenueLines))
	fmt.Fprintf(w, "Receivables\t%d\n", len(ents.Receivables))
	fmt.Fprintf(w, "Driver Payouts\t%d\n", len(ents.DriverPayouts))
	fmt.Fprintf(w, "Affiliate Payables\t%d\n", len(ents.AffiliatePayables))
	fmt.Fprintf(w, "Fleet Vehicles\t%d\n", len(ents.FleetVehicles))
	fmt.Fprintf(w, "Ad Spend Records\t%d\n", len(ents.AdSpend))
	w.Flush()

	// Show first few non-info diagnostics if any
	var problems []types.RowDiagnostic
	for _, d := range rep.Diagnostics {
		if d.Severity != types.SeverityInfo {
			problems = append(problems, d)
		}
	}
	if len(problems) > 0 {
		fmt.Printf("\nFirst %d Diagnostics:\n", min(len(problems), 10))
		fmt.Println(strings.Repeat("-", 60))
		for i, d := range problems {
			if i >= 10 {
				break
			}
			field := "-"
			if d.Field != nil {
				field = *d.Field
			}
			fmt.Printf("Line %d [%s], Field '%s': %s\n", d.LineNumber, d.Severity, field, d.Message)
		}
		if len(problems) > 10 {
			fmt.Printf("... and %d more\n", len(problems)-10)
		}
	}
}

func outputResultJSON(result *pipeline.Result) error {
	out := struct {
		Report   types.ImportAuditReport `json:"report"`
		Entities types.EntitySet         `json:"entities"`
	}{result.Report, result.Entities}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
