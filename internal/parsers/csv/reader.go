// Package csv reads raw export files into RawImportBatch values. It tolerates
// the usual export malformations: arbitrary delimiters, mixed line endings,
// quoted fields, duplicate header names, and ragged rows.
package csv

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ridewell/import-service/internal/parsers/charset"
	"github.com/ridewell/import-service/internal/types"
)

// Options configures reading one file
type Options struct {
	Delimiter Delimiter        // detected when empty
	Encoding  charset.Encoding // detected when empty
	Quote     rune             // '"' when zero
	MaxRows   int              // 0 means unbounded
}

// Read parses raw CSV bytes into a RawImportBatch. The first row is the
// header; duplicate header names are legal and their cells are preserved as
// ordered value lists per row, not collapsed.
func Read(content []byte, kind types.ImportKind, opts Options) (*types.RawImportBatch, error) {
	decoded, err := charset.Decode(content, opts.Encoding)
	if err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}

	if opts.Delimiter == "" {
		opts.Delimiter = DetectDelimiter(decoded)
	}
	if opts.Quote == 0 {
		opts.Quote = '"'
	}
	delim := rune(opts.Delimiter[0])

	records := splitRecords(decoded, opts.Quote)
	if len(records) == 0 {
		return nil, fmt.Errorf("file is empty")
	}

	headers := SplitLine(records[0].text, delim, opts.Quote)
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}
	if len(headers) == 0 || (len(headers) == 1 && headers[0] == "") {
		return nil, fmt.Errorf("file has no header row")
	}

	batch := &types.RawImportBatch{
		ID:      uuid.NewString(),
		Kind:    kind,
		Headers: headers,
	}

	for i := 1; i < len(records); i++ {
		if opts.MaxRows > 0 && len(batch.Rows) >= opts.MaxRows {
			log.Warn().
				Int("max_rows", opts.MaxRows).
				Int("dropped_records", len(records)-i).
				Msg("Row limit reached, remaining records ignored")
			break
		}

		// A trailing newline yields one empty last record, not an empty row
		if i == len(records)-1 && strings.TrimSpace(records[i].text) == "" {
			continue
		}

		cells := SplitLine(records[i].text, delim, opts.Quote)
		batch.Rows = append(batch.Rows, buildRow(records[i].line, headers, cells))
	}

	log.Debug().
		Str("batch_id", batch.ID).
		Str("kind", string(kind)).
		Str("delimiter", string(opts.Delimiter)).
		Int("rows", len(batch.Rows)).
		Msg("CSV batch read")

	return batch, nil
}

// buildRow maps cells onto headers by position, keeping duplicate headers as
// ordered value lists. Cells beyond the header count are dropped; short rows
// simply lack the trailing headers' values.
func buildRow(lineNumber int, headers, cells []string) types.RawImportRow {
	row := types.RawImportRow{
		LineNumber: lineNumber,
		Values:     make(map[string][]string, len(headers)),
	}
	for i, h := range headers {
		if i >= len(cells) {
			break
		}
		row.Values[h] = append(row.Values[h], strings.TrimSpace(cells[i]))
	}
	return row
}

// record is one logical CSV record together with the 1-based physical line
// it starts on
type record struct {
	line int
	text string
}

// splitRecords normalizes line endings and splits content into logical
// records. A physical line with an odd number of quote characters leaves a
// quoted cell open, so the next line continues the same record; this keeps
// addresses and notes with embedded newlines intact.
func splitRecords(content string, quote rune) []record {
	lines := splitLines(content)
	records := make([]record, 0, len(lines))

	var buf strings.Builder
	quotes := 0
	start := 0
	open := false

	for i, line := range lines {
		if open {
			buf.WriteByte('\n')
			buf.WriteString(line)
		} else {
			buf.Reset()
			buf.WriteString(line)
			start = i
			quotes = 0
		}
		quotes += strings.Count(line, string(quote))
		if quotes%2 == 1 {
			open = true
			continue
		}
		open = false
		records = append(records, record{line: start + 1, text: buf.String()})
	}
	if open {
		// Unterminated quote at end of file, keep what accumulated
		records = append(records, record{line: start + 1, text: buf.String()})
	}
	return records
}

// splitLines normalizes line endings and splits into lines
func splitLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	return strings.Split(content, "\n")
}
