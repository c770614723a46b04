// Package postgres stores earthquake events in PostgreSQL.
package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/quake-data-etl/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const insertEventSQL = `
INSERT INTO earthquake_events (
    event_id,
    mag,
    place,
    time,
    updated,
    tsunami,
    lon,
    lat,
    depth,
    mag_type,
    event_type
)
VALUES (
    @event_id,
    @mag,
    @place,
    @time,
    @updated,
    @tsunami,
    @lon,
    @lat,
    @depth,
    @mag_type,
    @event_type
)
ON CONFLICT (event_id) DO NOTHING;
`

type batchSender interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Store inserts events in one batch per Consume call.
// It implements pipeline.Sink.
type Store struct {
	db     batchSender
	logger *slog.Logger
}

// NewStore constructs a Store backed by the provided pool.
func NewStore(pool *pgxpool.Pool, logger *slog.Logger) *Store {
	return &Store{db: pool, logger: logger}
}

// Open connects a pool to dsn and verifies it with a ping.
func Open(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// Consume converts every event before sending anything, so a timestamp that
// cannot be converted fails the whole batch. Events already stored are skipped.
func (s *Store) Consume(ctx context.Context, events []domain.EarthquakeEvent) error {
	if len(events) == 0 {
		return nil
	}
	rows, err := domain.ToRows(events)
	if err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(insertEventSQL, rowArgs(r))
	}

	results := s.db.SendBatch(ctx, batch)
	inserted := int64(0)
	for _, r := range rows {
		tag, err := results.Exec()
		if err != nil {
			_ = results.Close()
			return fmt.Errorf("insert event %s: %w", r.EventID, err)
		}
		inserted += tag.RowsAffected()
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("close batch: %w", err)
	}

	s.logger.Debug("events stored", "events", len(rows), "inserted", inserted)
	return nil
}

func rowArgs(r domain.EventRow) pgx.NamedArgs {
	return pgx.NamedArgs{
		"event_id":   r.EventID,
		"mag":        r.Mag,
		"place":      r.Place,
		"time":       r.Time,
		"updated":    r.Updated,
		"tsunami":    r.Tsunami,
		"lon":        r.Lon,
		"lat":        r.Lat,
		"depth":      r.Depth,
		"mag_type":   r.MagType,
		"event_type": r.EventType,
	}
}
