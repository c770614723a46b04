package pipeline_test

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/couchcryptid/quake-data-etl/internal/domain"
	"github.com/couchcryptid/quake-data-etl/internal/observability"
)

// --- mocks ---

type fetchCall struct {
	start, end   string
	minMagnitude int
}

// stubFetcher records every call and answers with respond.
type stubFetcher struct {
	mu      sync.Mutex
	calls   []fetchCall
	respond func(n int, start, end string) ([]domain.EarthquakeEvent, error)
}

func (s *stubFetcher) Run(_ context.Context, start, end string, minMagnitude int) ([]domain.EarthquakeEvent, error) {
	s.mu.Lock()
	s.calls = append(s.calls, fetchCall{start, end, minMagnitude})
	n := len(s.calls)
	s.mu.Unlock()
	return s.respond(n, start, end)
}

func (s *stubFetcher) Calls() []fetchCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]fetchCall(nil), s.calls...)
}

type recordingSink struct {
	mu      sync.Mutex
	batches [][]domain.EarthquakeEvent
	err     error
}

func (r *recordingSink) Consume(_ context.Context, events []domain.EarthquakeEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, events)
	return r.err
}

func (r *recordingSink) Batches() [][]domain.EarthquakeEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]domain.EarthquakeEvent(nil), r.batches...)
}

// --- helpers ---

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestMetrics() *observability.Metrics {
	return observability.NewMetricsForTesting()
}

// eventFor returns a single event whose ID is the sub-range start token.
func eventFor(start string) []domain.EarthquakeEvent {
	return []domain.EarthquakeEvent{{ID: start, Mag: 3.1, Time: 1, Updated: 2}}
}

func ids(events []domain.EarthquakeEvent) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.ID
	}
	return out
}
