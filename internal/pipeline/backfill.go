package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/quake-data-etl/internal/domain"
	"github.com/couchcryptid/quake-data-etl/internal/observability"
	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"
)

// Mode selects how a backfill issues its sub-range fetches.
type Mode string

const (
	// Sequential fetches one sub-range at a time and stops at the first error.
	Sequential Mode = "sequential"
	// Concurrent fetches every sub-range and fails if any of them failed.
	Concurrent Mode = "concurrent"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case Sequential, Concurrent:
		return m, nil
	default:
		return "", fmt.Errorf("unknown backfill mode %q: want %q or %q", s, Sequential, Concurrent)
	}
}

// BackfillOptions configures a Backfiller.
type BackfillOptions struct {
	Span         time.Duration // maximum length of one sub-range
	MinMagnitude int
	Concurrency  int // goroutine limit in Concurrent mode
}

// Backfiller fetches a bounded time range as a series of sub-range fetches.
type Backfiller struct {
	fetcher RangeFetcher
	logger  *slog.Logger
	metrics *observability.Metrics
	opts    BackfillOptions
}

// NewBackfiller creates a Backfiller. A Concurrency below one is treated as one.
func NewBackfiller(f RangeFetcher, logger *slog.Logger, metrics *observability.Metrics, opts BackfillOptions) *Backfiller {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Backfiller{fetcher: f, logger: logger, metrics: metrics, opts: opts}
}

// Run splits [start, end] into sub-ranges and fetches them using mode. The
// result is ordered by sub-range, then by provider order within each one.
func (b *Backfiller) Run(ctx context.Context, start, end time.Time, mode Mode) ([]domain.EarthquakeEvent, error) {
	ranges, err := domain.SplitRange(start, end, b.opts.Span)
	if err != nil {
		return nil, err
	}
	b.metrics.SubRangesPlanned.Add(float64(len(ranges)))

	logger := b.logger.With("run_id", uuid.NewString(), "mode", string(mode))
	logger.Info("backfill started",
		"start", start.UTC().Format(time.RFC3339),
		"end", end.UTC().Format(time.RFC3339),
		"sub_ranges", len(ranges),
	)

	var events []domain.EarthquakeEvent
	switch mode {
	case Sequential:
		events, err = b.sequential(ctx, logger, ranges)
	case Concurrent:
		events, err = b.concurrent(ctx, logger, ranges)
	default:
		_, err = ParseMode(string(mode))
	}
	if err != nil {
		return nil, err
	}

	logger.Info("backfill complete", "events", len(events))
	return events, nil
}

func (b *Backfiller) sequential(ctx context.Context, logger *slog.Logger, ranges []domain.TimeRange) ([]domain.EarthquakeEvent, error) {
	parts := make([][]domain.EarthquakeEvent, 0, len(ranges))
	for _, r := range ranges {
		events, err := fetchRange(ctx, b.fetcher, b.metrics, r, b.opts.MinMagnitude)
		if err != nil {
			logger.Error("sub-range fetch failed", "range", r.String(), "error", err)
			return nil, err
		}
		logger.Debug("sub-range fetched", "range", r.String(), "events", len(events))
		parts = append(parts, events)
	}
	return concat(parts), nil
}

// concurrent fetches every range before inspecting any result. Each task owns
// one slot of parts and errs, so no locking is needed.
func (b *Backfiller) concurrent(ctx context.Context, logger *slog.Logger, ranges []domain.TimeRange) ([]domain.EarthquakeEvent, error) {
	parts := make([][]domain.EarthquakeEvent, len(ranges))
	errs := make([]error, len(ranges))

	p := pool.New().WithMaxGoroutines(b.opts.Concurrency)
	for i, r := range ranges {
		p.Go(func() {
			parts[i], errs[i] = fetchRange(ctx, b.fetcher, b.metrics, r, b.opts.MinMagnitude)
		})
	}
	p.Wait()

	failed := 0
	var first error
	for i, err := range errs {
		if err == nil {
			continue
		}
		logger.Error("sub-range fetch failed", "range", ranges[i].String(), "error", err)
		if first == nil {
			first = err
		}
		failed++
	}
	if first != nil {
		logger.Error("backfill failed", "failed_sub_ranges", failed, "sub_ranges", len(ranges))
		return nil, first
	}
	return concat(parts), nil
}
