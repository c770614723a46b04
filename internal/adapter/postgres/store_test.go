package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/couchcryptid/quake-data-etl/internal/domain"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResults struct {
	execErrs []error
	execs    int
	closed   bool
}

func (f *fakeResults) Exec() (pgconn.CommandTag, error) {
	i := f.execs
	f.execs++
	if i < len(f.execErrs) && f.execErrs[i] != nil {
		return pgconn.CommandTag{}, f.execErrs[i]
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (f *fakeResults) Query() (pgx.Rows, error) { return nil, errors.New("not implemented") }
func (f *fakeResults) QueryRow() pgx.Row        { return nil }

func (f *fakeResults) Close() error {
	f.closed = true
	return nil
}

type fakeDB struct {
	batch   *pgx.Batch
	results *fakeResults
}

func (f *fakeDB) SendBatch(_ context.Context, b *pgx.Batch) pgx.BatchResults {
	f.batch = b
	return f.results
}

func newTestStore(db *fakeDB) *Store {
	return &Store{db: db, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func testEvents() []domain.EarthquakeEvent {
	place := "10km N of X"
	return []domain.EarthquakeEvent{
		{ID: "nc1000", Mag: 4.5, Place: &place, Time: 1000000000000, Updated: 1000000060000,
			Coordinates: domain.Coordinates{-122.3, 37.8, 10.5}, MagType: "ml", EventType: "earthquake"},
		{ID: "us2000", Mag: 3.1, Time: 1000000100000, Updated: 1000000100000,
			Coordinates: domain.Coordinates{140.1, 35.6, -1.2}, MagType: "mb", EventType: "earthquake"},
	}
}

func TestStore_Consume_QueuesOneInsertPerEvent(t *testing.T) {
	db := &fakeDB{results: &fakeResults{}}

	require.NoError(t, newTestStore(db).Consume(context.Background(), testEvents()))

	require.Equal(t, 2, db.batch.Len())
	assert.Equal(t, 2, db.results.execs)
	assert.True(t, db.results.closed)

	q := db.batch.QueuedQueries[0]
	assert.Contains(t, q.SQL, "ON CONFLICT (event_id) DO NOTHING")
	require.Len(t, q.Arguments, 1)
	args, ok := q.Arguments[0].(pgx.NamedArgs)
	require.True(t, ok)
	assert.Equal(t, "nc1000", args["event_id"])
	assert.InDelta(t, 37.8, args["lat"], 1e-9)
	assert.InDelta(t, -122.3, args["lon"], 1e-9)
	occurred, ok := args["time"].(*time.Time)
	require.True(t, ok)
	assert.Equal(t, time.Date(2001, time.September, 9, 1, 46, 40, 0, time.UTC), *occurred)

	second := db.batch.QueuedQueries[1].Arguments[0].(pgx.NamedArgs)
	assert.Nil(t, second["place"])
}

func TestStore_Consume_UnconvertibleTimestampSendsNothing(t *testing.T) {
	db := &fakeDB{results: &fakeResults{}}
	events := testEvents()
	events[1].Updated = math.MaxInt64

	err := newTestStore(db).Consume(context.Background(), events)

	require.ErrorIs(t, err, domain.ErrTimestampOutOfRange)
	assert.Contains(t, err.Error(), "us2000")
	assert.Nil(t, db.batch)
}

func TestStore_Consume_ExecError(t *testing.T) {
	db := &fakeDB{results: &fakeResults{execErrs: []error{nil, errors.New("relation does not exist")}}}

	err := newTestStore(db).Consume(context.Background(), testEvents())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert event us2000")
	assert.True(t, db.results.closed)
}

func TestStore_Consume_Empty(t *testing.T) {
	db := &fakeDB{results: &fakeResults{}}
	require.NoError(t, newTestStore(db).Consume(context.Background(), nil))
	assert.Nil(t, db.batch)
}

func TestEmbeddedMigrations(t *testing.T) {
	src, err := iofs.New(migrationFS, "migrations")
	require.NoError(t, err)
	defer src.Close()

	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	up, name, err := src.ReadUp(first)
	require.NoError(t, err)
	defer up.Close()
	assert.Equal(t, "create_earthquake_events", name)
}
