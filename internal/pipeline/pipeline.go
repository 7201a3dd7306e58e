// Package pipeline composes the import stages: file decode, column mapping,
// parallel row normalization, and sequential deduplication with audit
// reporting. It performs no network or disk I/O; callers hand it bytes and
// prior dedup state and persist whatever comes back.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/ridewell/import-service/internal/mapping"
	"github.com/ridewell/import-service/internal/normalize"
	"github.com/ridewell/import-service/internal/parsers/csv"
	"github.com/ridewell/import-service/internal/parsers/xlsx"
	"github.com/ridewell/import-service/internal/report"
	"github.com/ridewell/import-service/internal/telemetry"
	"github.com/ridewell/import-service/internal/types"
)

// ErrStrictViolation is returned when strict mode is set and a row is
// rejected. The batch yields no entities; the report carries the diagnostics
// accumulated up to the rejected row.
var ErrStrictViolation = errors.New("strict mode: row rejected")

// DefaultWorkers is the normalization parallelism when the caller does not set one
const DefaultWorkers = 4

// Options is the caller-facing configuration for one batch run
type Options struct {
	Kind      types.ImportKind                   // required
	Overrides map[mapping.CanonicalField]string  // optional partial mapping, wins over inference
	PriorKeys []string                           // dedup keys committed by earlier batches
	Strict    bool                               // any rejected row aborts the batch
	Workers   int                                // normalization goroutines, DefaultWorkers when 0
	MaxRows   int                                // caller-imposed bound, 0 means unbounded
	Location  *time.Location                     // local time convention for date-times
	SheetName string                             // XLSX only
}

// Result is the single value returned for a batch
type Result struct {
	Entities types.EntitySet
	Report   types.ImportAuditReport
	Mapping  *mapping.ColumnMapping
	Keys     *report.KeySet // cumulative; Added() is what to commit
}

var xlsxMagic = []byte{0x50, 0x4B} // XLSX files are ZIP containers

// Run executes the full pipeline over raw file bytes
func Run(ctx context.Context, content []byte, opts Options) (*Result, error) {
	if !types.IsValidImportKind(string(opts.Kind)) {
		return nil, fmt.Errorf("invalid import kind: %q", opts.Kind)
	}

	var batch *types.RawImportBatch
	var err error
	if bytes.HasPrefix(content, xlsxMagic) {
		batch, err = xlsx.Read(content, opts.Kind, xlsx.Options{SheetName: opts.SheetName, MaxRows: opts.MaxRows})
	} else {
		batch, err = csv.Read(content, opts.Kind, csv.Options{MaxRows: opts.MaxRows})
	}
	if err != nil {
		return nil, fmt.Errorf("read batch: %w", err)
	}

	return RunBatch(ctx, batch, opts)
}

// RunBatch executes mapping, normalization and reporting over an
// already-decoded batch
func RunBatch(ctx context.Context, batch *types.RawImportBatch, opts Options) (*Result, error) {
	started := time.Now()

	colMapping, err := mapping.Build(opts.Kind, batch.Headers, opts.Overrides)
	if err != nil {
		// Configuration error: surfaced before any row is processed,
		// no partial output
		return nil, err
	}

	log.Info().
		Str("batch_id", batch.ID).
		Str("kind", string(opts.Kind)).
		Int("rows", len(batch.Rows)).
		Bool("strict", opts.Strict).
		Msg("Starting import run")

	results, err := normalizeRows(ctx, batch, colMapping, opts)
	if err != nil {
		return nil, err
	}

	keys := report.NewKeySet(opts.PriorKeys)
	reporter := report.NewReporter(batch.ID, opts.Kind, keys)

	// Dedup is single-threaded over row-ordered results: first occurrence
	// wins by original row order, not completion order
	for _, res := range results {
		reporter.Observe(res)

		if opts.Strict && res.Outcome == types.OutcomeRejected {
			_, rep := reporter.Finalize()
			telemetry.RecordBatch(ctx, rep, time.Since(started))
			return &Result{
				Report:  rep,
				Mapping: colMapping,
				Keys:    keys,
			}, fmt.Errorf("%w: line %d", ErrStrictViolation, res.LineNumber)
		}
	}

	entities, rep := reporter.Finalize()
	telemetry.RecordBatch(ctx, rep, time.Since(started))

	return &Result{
		Entities: entities,
		Report:   rep,
		Mapping:  colMapping,
		Keys:     keys,
	}, nil
}

// normalizeRows fans the batch out across workers, each owning a disjoint
// contiguous row range, and reassembles results in original row order
func normalizeRows(ctx context.Context, batch *types.RawImportBatch, m *mapping.ColumnMapping, opts Options) ([]normalize.RowResult, error) {
	n := normalize.New(opts.Kind, m, opts.Location)
	results := make([]normalize.RowResult, len(batch.Rows))

	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if workers > len(batch.Rows) {
		workers = len(batch.Rows)
	}
	if workers <= 1 {
		for i, row := range batch.Rows {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			results[i] = n.NormalizeRow(row)
		}
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	chunk := (len(batch.Rows) + workers - 1) / workers

	for start := 0; start < len(batch.Rows); start += chunk {
		end := start + chunk
		if end > len(batch.Rows) {
			end = len(batch.Rows)
		}
		start, end := start, end

		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				results[i] = n.NormalizeRow(batch.Rows[i])
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
