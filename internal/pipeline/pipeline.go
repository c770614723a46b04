// Package pipeline drives fetches over time: a Backfiller covers a bounded
// window with sub-range fetches, and a Poller fetches the trailing interval
// on a schedule. Results are handed to a Sink.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/couchcryptid/quake-data-etl/internal/domain"
	"github.com/couchcryptid/quake-data-etl/internal/observability"
)

// RangeFetcher fetches the events of one time window.
type RangeFetcher interface {
	Run(ctx context.Context, startTime, endTime string, minMagnitude int) ([]domain.EarthquakeEvent, error)
}

// fetchRange runs one fetch for r and records its outcome.
func fetchRange(ctx context.Context, f RangeFetcher, metrics *observability.Metrics, r domain.TimeRange, minMagnitude int) ([]domain.EarthquakeEvent, error) {
	start := time.Now()
	startToken, endToken := r.Tokens()

	events, err := f.Run(ctx, startToken, endToken, minMagnitude)
	metrics.FetchDuration.Observe(time.Since(start).Seconds())
	metrics.FetchRequests.WithLabelValues(fetchOutcome(err)).Inc()
	if err != nil {
		return nil, err
	}
	metrics.EventsFetched.Add(float64(len(events)))
	return events, nil
}

func fetchOutcome(err error) string {
	if err == nil {
		return "success"
	}
	var statusErr *domain.UnexpectedStatusError
	if errors.As(err, &statusErr) {
		return "unexpected_status"
	}
	return "transport"
}

func concat(parts [][]domain.EarthquakeEvent) []domain.EarthquakeEvent {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]domain.EarthquakeEvent, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
