// Package dedupstore persists dedup keys and audit summaries between import
// runs. The pipeline itself never touches storage; this is the caller-side
// glue that turns one run's accepted keys into the next run's prior state.
package dedupstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/ridewell/import-service/internal/types"
)

// Store is a Postgres-backed dedup key store
type Store struct {
	pool *pgxpool.Pool
}

// New connects to the database and ensures the schema exists
func New(ctx context.Context, connString string) (*Store, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	config.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the connection pool
func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS import_dedup_keys (
			kind       TEXT        NOT NULL,
			key        TEXT        NOT NULL,
			batch_id   TEXT        NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (kind, key)
		);
		CREATE TABLE IF NOT EXISTS import_runs (
			batch_id    TEXT        PRIMARY KEY,
			kind        TEXT        NOT NULL,
			total_rows  INT         NOT NULL,
			accepted    INT         NOT NULL,
			corrected   INT         NOT NULL,
			skipped     INT         NOT NULL,
			rejected    INT         NOT NULL,
			started_at  TIMESTAMPTZ NOT NULL,
			finished_at TIMESTAMPTZ NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// LoadKeys returns every committed dedup key for an import kind
func (s *Store) LoadKeys(ctx context.Context, kind types.ImportKind) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT key FROM import_dedup_keys WHERE kind = $1`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("load dedup keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan dedup key: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dedup keys: %w", err)
	}

	log.Debug().Str("kind", string(kind)).Int("keys", len(keys)).Msg("Loaded prior dedup keys")
	return keys, nil
}

// CommitRun durably records a batch's newly-seen keys and its audit summary
// in one transaction. Concurrent batches against the same kind serialize on
// this commit; a batch must land before a later batch loads prior state or
// cross-batch duplicates between the two can both be admitted.
func (s *Store) CommitRun(ctx context.Context, rep types.ImportAuditReport, keys []string) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin commit: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, key := range keys {
		if _, err := tx.Exec(ctx, `
			INSERT INTO import_dedup_keys (kind, key, batch_id)
			VALUES ($1, $2, $3)
			ON CONFLICT (kind, key) DO NOTHING
		`, string(rep.Kind), key, rep.BatchID); err != nil {
			return fmt.Errorf("insert dedup key: %w", err)
		}
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO import_runs (batch_id, kind, total_rows, accepted, corrected, skipped, rejected, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, rep.BatchID, string(rep.Kind), rep.TotalRows, rep.Accepted, rep.Corrected,
		rep.Skipped, rep.Rejected, rep.StartedAt, rep.FinishedAt); err != nil {
		return fmt.Errorf("insert run summary: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}

	log.Info().
		Str("batch_id", rep.BatchID).
		Str("kind", string(rep.Kind)).
		Int("new_keys", len(keys)).
		Msg("Run committed")
	return nil
}
