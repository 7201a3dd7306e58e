// Package xlsx reads XLSX export files into RawImportBatch values. Several
// ad platforms only offer XLSX downloads, so the pipeline accepts them
// alongside CSV.
package xlsx

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/ridewell/import-service/internal/types"
)

// Options configures reading one workbook
type Options struct {
	SheetName string // first sheet when empty
	MaxRows   int    // 0 means unbounded
}

// Read parses XLSX bytes into a RawImportBatch. The first row of the chosen
// sheet is the header; duplicate headers are preserved as ordered value
// lists, same as the CSV reader.
func Read(content []byte, kind types.ImportKind, opts Options) (*types.RawImportBatch, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := opts.SheetName
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	batch := &types.RawImportBatch{
		ID:      uuid.NewString(),
		Kind:    kind,
		Headers: headers,
	}

	for i := 1; i < len(rows); i++ {
		if opts.MaxRows > 0 && len(batch.Rows) >= opts.MaxRows {
			log.Warn().
				Int("max_rows", opts.MaxRows).
				Int("dropped_rows", len(rows)-i).
				Msg("Row limit reached, remaining rows ignored")
			break
		}

		row := types.RawImportRow{
			LineNumber: i + 1,
			Values:     make(map[string][]string, len(headers)),
		}
		for j, h := range headers {
			if j >= len(rows[i]) {
				break
			}
			row.Values[h] = append(row.Values[h], strings.TrimSpace(rows[i][j]))
		}
		batch.Rows = append(batch.Rows, row)
	}

	log.Debug().
		Str("batch_id", batch.ID).
		Str("sheet", sheet).
		Int("rows", len(batch.Rows)).
		Msg("XLSX batch read")

	return batch, nil
}
