package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/quake-data-etl/internal/domain"
	"github.com/couchcryptid/quake-data-etl/internal/observability"
)

// Sink consumes a batch of fetched events.
type Sink interface {
	Consume(ctx context.Context, events []domain.EarthquakeEvent) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, events []domain.EarthquakeEvent) error

func (f SinkFunc) Consume(ctx context.Context, events []domain.EarthquakeEvent) error {
	return f(ctx, events)
}

// LogSink writes one log line per event.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Consume(_ context.Context, events []domain.EarthquakeEvent) error {
	for _, e := range events {
		place := ""
		if e.Place != nil {
			place = *e.Place
		}
		s.logger.Info("earthquake",
			"id", e.ID,
			"mag", e.Mag,
			"mag_type", e.MagType,
			"place", place,
			"time", e.OccurredAt().Format(time.RFC3339),
			"lat", e.Coordinates.Lat(),
			"lon", e.Coordinates.Lon(),
			"depth", e.Coordinates.Depth(),
			"tsunami", e.Tsunami,
		)
	}
	return nil
}

type namedSink struct {
	name string
	sink Sink
}

// Sinks delivers each batch to every registered sink in registration order.
type Sinks struct {
	sinks   []namedSink
	metrics *observability.Metrics
}

func NewSinks(metrics *observability.Metrics) *Sinks {
	return &Sinks{metrics: metrics}
}

// Add registers sink under name, which labels its metrics and errors.
func (s *Sinks) Add(name string, sink Sink) *Sinks {
	s.sinks = append(s.sinks, namedSink{name: name, sink: sink})
	return s
}

// Len returns the number of registered sinks.
func (s *Sinks) Len() int { return len(s.sinks) }

// Consume delivers events to every sink, even after a failure, and returns
// the joined errors.
func (s *Sinks) Consume(ctx context.Context, events []domain.EarthquakeEvent) error {
	var errs []error
	for _, ns := range s.sinks {
		if err := ns.sink.Consume(ctx, events); err != nil {
			s.metrics.SinkErrors.WithLabelValues(ns.name).Inc()
			errs = append(errs, fmt.Errorf("%s sink: %w", ns.name, err))
			continue
		}
		s.metrics.EventsDelivered.WithLabelValues(ns.name).Add(float64(len(events)))
	}
	return errors.Join(errs...)
}
