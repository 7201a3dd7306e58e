package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/ridewell/import-service/internal/mapping"
	"github.com/ridewell/import-service/internal/parsers/csv"
	"github.com/ridewell/import-service/internal/parsers/xlsx"
	"github.com/ridewell/import-service/internal/types"
	"github.com/spf13/cobra"
)

// mappingCmd represents the mapping command
var mappingCmd = &cobra.Command{
	Use:   "mapping <file>",
	Short: "Show the inferred column mapping for an export file",
	Long: `Read the header row of a CSV or XLSX export file and show how its columns
resolve to canonical fields: the winning header per field, its confidence, and
any canonical fields no column satisfies. Useful for checking a new partner
export before importing it, and for finding the right --map overrides.`,
	Example: `  import-service mapping ./exports/limo-anywhere.csv --kind reservations
  import-service mapping ./exports/google-ads.xlsx --kind adspend --map adSpend=Cost`,
	Args: cobra.ExactArgs(1),
	RunE: runMapping,
}

func init() {
	rootCmd.AddCommand(mappingCmd)

	mappingCmd.Flags().StringVar(&parseKind, "kind", "", "Import kind: reservations or adspend (required)")
	mappingCmd.Flags().StringVar(&parseOutput, "output", "table", "Output format: table or json")
	mappingCmd.Flags().StringVar(&parseSheet, "sheet", "", "XLSX sheet name (default: first sheet)")
	mappingCmd.Flags().StringArrayVar(&parseOverrides, "map", nil, "Mapping override field=Header (repeatable)")
	mappingCmd.MarkFlagRequired("kind")
}

func runMapping(cmd *cobra.Command, args []string) error {
	kind, err := importKind()
	if err != nil {
		return err
	}
	overrides, err := parseMapOverrides(parseOverrides)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var batch *types.RawImportBatch
	if bytes.HasPrefix(content, []byte{0x50, 0x4B}) {
		batch, err = xlsx.Read(content, kind, xlsx.Options{SheetName: parseSheet, MaxRows: 1})
	} else {
		batch, err = csv.Read(content, kind, csv.Options{MaxRows: 1})
	}
	if err != nil {
		return fmt.Errorf("read headers: %w", err)
	}

	colMapping, err := mapping.Build(kind, batch.Headers, overrides)
	if err != nil {
		return err
	}

	switch strings.ToLower(parseOutput) {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(colMapping)
	case "table":
		outputMappingTable(batch.Headers, colMapping)
		return nil
	default:
		return fmt.Errorf("invalid output format: %s (use 'table' or 'json')", parseOutput)
	}
}

func outputMappingTable(headers []string, m *mapping.ColumnMapping) {
	fmt.Printf("\nColumn Mapping (%s, %d headers)\n", m.Kind, len(headers))
	fmt.Println(strings.Repeat("-", 60))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintf(w, "Field\tHeader\tPart\tConfidence\tSource\n")
	fmt.Fprintf(w, "-----\t------\t----\t----------\t------\n")
	for _, field := range mapping.Fields(m.Kind) {
		fm := m.Fields[field]
		if fm == nil || len(fm.Matches) == 0 {
			continue
		}
		source := "inferred"
		if fm.Overridden {
			source = "override"
		}
		for _, match := range fm.Matches {
			fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%s\n",
				fm.Field, match.Header, match.Part, match.Confidence, source)
		}
	}
	w.Flush()

	if len(m.Unmapped) > 0 {
		names := make([]string, len(m.Unmapped))
		for i, f := range m.Unmapped {
			names[i] = string(f)
		}
		fmt.Printf("\nUnmapped fields: %s\n", strings.Join(names, ", "))
	}
}
