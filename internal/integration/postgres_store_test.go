//go:build integration

package integration_test

import (
	"context"
	"testing"
	"time"

	"github.com/couchcryptid/quake-data-etl/internal/adapter/postgres"
	"github.com/couchcryptid/quake-data-etl/internal/adapter/usgs"
	"github.com/couchcryptid/quake-data-etl/internal/fetch"
	"github.com/couchcryptid/quake-data-etl/internal/observability"
	"github.com/couchcryptid/quake-data-etl/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBackfillStoresEvents backfills two days through the real USGS client
// into Postgres and checks that repeated inserts are ignored.
func TestBackfillStoresEvents(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dsn := startPostgres(ctx, t)
	usgsSrv := startUSGS(t)

	require.NoError(t, postgres.Migrate(ctx, dsn, discardLogger()))
	// A second run finds nothing to apply.
	require.NoError(t, postgres.Migrate(ctx, dsn, discardLogger()))

	pool, err := postgres.Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	store := postgres.NewStore(pool, discardLogger())

	fetcher := fetch.New(usgs.NewClient(usgsSrv.URL, discardLogger()), "geojson")
	b := pipeline.NewBackfiller(fetcher, discardLogger(), observability.NewMetricsForTesting(), pipeline.BackfillOptions{
		Span:         24 * time.Hour,
		MinMagnitude: 3,
		Concurrency:  2,
	})

	start := time.Date(2001, time.September, 8, 0, 0, 0, 0, time.UTC)
	events, err := b.Run(ctx, start, start.AddDate(0, 0, 2), pipeline.Concurrent)
	require.NoError(t, err)
	// Each of the two sub-ranges returns the same two events.
	require.Len(t, events, 4)

	require.NoError(t, store.Consume(ctx, events))
	require.NoError(t, store.Consume(ctx, events))

	var count int
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM earthquake_events`).Scan(&count))
	assert.Equal(t, 2, count)

	var place *string
	var occurred time.Time
	require.NoError(t, pool.QueryRow(ctx,
		`SELECT place, time FROM earthquake_events WHERE event_id = 'us2000'`).Scan(&place, &occurred))
	assert.Nil(t, place)
	assert.True(t, occurred.Equal(time.UnixMilli(1000000100000)))
}
