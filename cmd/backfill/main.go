// Command backfill fetches a bounded window of earthquake events as a series
// of sub-range queries, clusters them by epicenter, and reports per-cluster
// statistics. Events are optionally stored in PostgreSQL and the statistics
// written to a parquet file.
//
// Usage:
//
//	go run ./cmd/backfill -days 30 -mode concurrent
//	go run ./cmd/backfill -from 2014-01-01 -to 2014-02-01 -mode sequential -stats=false
//
// The process exits non-zero on the first fatal error.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/couchcryptid/quake-data-etl/internal/adapter/parquet"
	"github.com/couchcryptid/quake-data-etl/internal/adapter/postgres"
	"github.com/couchcryptid/quake-data-etl/internal/adapter/usgs"
	"github.com/couchcryptid/quake-data-etl/internal/analysis"
	"github.com/couchcryptid/quake-data-etl/internal/config"
	"github.com/couchcryptid/quake-data-etl/internal/domain"
	"github.com/couchcryptid/quake-data-etl/internal/fetch"
	"github.com/couchcryptid/quake-data-etl/internal/observability"
	"github.com/couchcryptid/quake-data-etl/internal/pipeline"
	"github.com/jonboulle/clockwork"
)

type options struct {
	days  int
	from  string
	to    string
	mode  pipeline.Mode
	stats bool
}

func main() {
	days := flag.Int("days", 7, "number of days to fetch, ending tomorrow 00:00 UTC (ignored when -from is set)")
	from := flag.String("from", "", "window start, YYYY-MM-DD or YYYY-MM-DDTHH:MM:SS (UTC)")
	to := flag.String("to", "", "window end, same format as -from (default: tomorrow 00:00 UTC)")
	mode := flag.String("mode", string(pipeline.Concurrent), "fetch mode: sequential or concurrent")
	stats := flag.Bool("stats", true, "cluster events and report statistics")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := observability.NewLogger(cfg)

	m, err := pipeline.ParseMode(*mode)
	if err != nil {
		logger.Error("invalid flags", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := options{days: *days, from: *from, to: *to, mode: m, stats: *stats}
	if err := run(ctx, cfg, opts, logger, observability.NewMetrics(), clockwork.NewRealClock()); err != nil {
		logger.Error("backfill failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, opts options, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock) error {
	start, end, err := window(opts, clock.Now())
	if err != nil {
		return err
	}

	fetcher := fetch.New(usgs.NewClient(cfg.USGSEndpoint, logger), cfg.USGSFormat)
	b := pipeline.NewBackfiller(fetcher, logger, metrics, pipeline.BackfillOptions{
		Span:         cfg.BackfillSpan,
		MinMagnitude: cfg.MinMagnitude,
		Concurrency:  cfg.BackfillConcurrency,
	})

	events, err := b.Run(ctx, start, end, opts.mode)
	if err != nil {
		return fmt.Errorf("fetch events: %w", err)
	}

	if cfg.DatabaseURL != "" {
		if err := store(ctx, cfg.DatabaseURL, events, logger); err != nil {
			return err
		}
	}

	for _, mc := range analysis.MonthlyCounts(events) {
		logger.Info("monthly count", "year", mc.Year, "month", mc.Month.String(), "events", mc.Count)
	}

	if !opts.stats {
		return nil
	}
	return report(cfg, events, logger, clock.Now())
}

// window resolves the flags to a [start, end] pair in UTC.
func window(opts options, now time.Time) (start, end time.Time, err error) {
	end = now.UTC().Truncate(24 * time.Hour).AddDate(0, 0, 1)
	if opts.to != "" {
		if end, err = domain.ParseTimeToken(opts.to); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("-to: %w", err)
		}
	}

	if opts.from != "" {
		if start, err = domain.ParseTimeToken(opts.from); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("-from: %w", err)
		}
	} else {
		if opts.days < 0 {
			return time.Time{}, time.Time{}, errors.New("-days must not be negative")
		}
		start = end.AddDate(0, 0, -opts.days)
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("window %s..%s: %w",
			start.Format(time.RFC3339), end.Format(time.RFC3339), domain.ErrInvalidRange)
	}
	return start, end, nil
}

func store(ctx context.Context, dsn string, events []domain.EarthquakeEvent, logger *slog.Logger) error {
	if err := postgres.Migrate(ctx, dsn, logger); err != nil {
		return err
	}
	pool, err := postgres.Open(ctx, dsn)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := postgres.NewStore(pool, logger).Consume(ctx, events); err != nil {
		return fmt.Errorf("store events: %w", err)
	}
	logger.Info("events stored", "events", len(events))
	return nil
}

func report(cfg *config.Config, events []domain.EarthquakeEvent, logger *slog.Logger, now time.Time) error {
	if len(events) < cfg.ClusterCount {
		logger.Warn("too few events to cluster", "events", len(events), "clusters", cfg.ClusterCount)
		return nil
	}

	clusters, err := analysis.KMeans(events, cfg.ClusterCount, cfg.ClusterSeed)
	if err != nil {
		return fmt.Errorf("cluster events: %w", err)
	}
	stats := analysis.Statistics(clusters, now)

	for _, s := range stats {
		attrs := []any{
			"cluster_id", s.ClusterID,
			"lon", s.Lon,
			"lat", s.Lat,
			"events", s.Magnitude.Count,
			"mag_mean", s.Magnitude.Mean,
			"mag_max", s.Magnitude.Max,
			"depth_mean", s.Depth.Mean,
			"depth_q50", s.Depth.Q50,
		}
		if s.SinceLastMajor != nil {
			attrs = append(attrs, "since_last_major", s.SinceLastMajor.Round(time.Second).String())
		}
		logger.Info("cluster statistics", attrs...)
	}

	if cfg.StatsOutput != "" {
		if err := parquet.WriteStatistics(cfg.StatsOutput, stats); err != nil {
			return err
		}
		logger.Info("cluster statistics written", "path", cfg.StatsOutput, "clusters", len(stats))
	}
	return nil
}
