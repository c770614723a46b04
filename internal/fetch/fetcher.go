// Package fetch issues one provider query for a single time window.
package fetch

import (
	"context"
	"strconv"

	"github.com/couchcryptid/quake-data-etl/internal/domain"
)

// Fetcher binds a data source to the output format it should request.
type Fetcher struct {
	source domain.DataSource
	format string
}

// New returns a Fetcher that queries source using format.
func New(source domain.DataSource, format string) *Fetcher {
	return &Fetcher{source: source, format: format}
}

// Run fetches events between startTime and endTime at or above minMagnitude.
// Errors from the source are returned unchanged.
func (f *Fetcher) Run(ctx context.Context, startTime, endTime string, minMagnitude int) ([]domain.EarthquakeEvent, error) {
	return f.source.Fetch(ctx, f.format, startTime, endTime, strconv.Itoa(minMagnitude))
}
