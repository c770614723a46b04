package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/quake-data-etl/internal/domain"
	"github.com/couchcryptid/quake-data-etl/internal/observability"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// State is the phase of a Poller iteration.
type State int32

const (
	Idle State = iota
	Fetching
	Reporting
	Sleeping
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Fetching:
		return "fetching"
	case Reporting:
		return "reporting"
	case Sleeping:
		return "sleeping"
	default:
		return "unknown"
	}
}

// PollerOptions configures a Poller.
type PollerOptions struct {
	Interval     time.Duration
	MinMagnitude int
	Clock        clockwork.Clock // defaults to the real clock
}

// Poller fetches the trailing interval on a fixed schedule and hands each
// successful result to a sink.
type Poller struct {
	fetcher  RangeFetcher
	sink     Sink
	logger   *slog.Logger
	metrics  *observability.Metrics
	clock    clockwork.Clock
	interval time.Duration
	minMag   int

	state atomic.Int32
	ready atomic.Bool
}

// NewPoller creates a Poller in the Idle state.
func NewPoller(f RangeFetcher, sink Sink, logger *slog.Logger, metrics *observability.Metrics, opts PollerOptions) *Poller {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Poller{
		fetcher:  f,
		sink:     sink,
		logger:   logger,
		metrics:  metrics,
		clock:    clock,
		interval: opts.Interval,
		minMag:   opts.MinMagnitude,
	}
}

// State returns the current phase.
func (p *Poller) State() State {
	return State(p.state.Load())
}

// CheckReadiness returns nil once a poll has fetched successfully.
func (p *Poller) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("poller has not completed a successful fetch yet")
	}
	return nil
}

// Run polls until the context is cancelled. Fetch and sink failures are
// logged and counted; they never stop the loop.
func (p *Poller) Run(ctx context.Context) error {
	p.logger.Info("poller started", "interval", p.interval.String(), "min_magnitude", p.minMag)
	p.metrics.PollerRunning.Set(1)
	defer p.metrics.PollerRunning.Set(0)
	defer p.setState(Idle)

	for {
		if ctx.Err() != nil {
			p.logger.Info("poller stopping", "reason", ctx.Err())
			return nil
		}

		p.poll(ctx)

		p.setState(Sleeping)
		select {
		case <-ctx.Done():
			p.logger.Info("poller stopping", "reason", ctx.Err())
			return nil
		case <-p.clock.After(p.interval):
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	p.setState(Fetching)
	end := p.clock.Now().UTC()
	r := domain.TimeRange{Start: end.Add(-p.interval), End: end}
	logger := p.logger.With("poll_id", uuid.NewString(), "range", r.String())

	events, err := fetchRange(ctx, p.fetcher, p.metrics, r, p.minMag)
	p.setState(Reporting)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		logger.Error("poll fetch failed", "error", err)
		p.metrics.PollIterations.WithLabelValues("fetch_error").Inc()
		return
	}
	p.ready.Store(true)

	if err := p.sink.Consume(ctx, events); err != nil {
		logger.Error("poll delivery failed", "error", err, "events", len(events))
		p.metrics.PollIterations.WithLabelValues("sink_error").Inc()
		return
	}
	logger.Info("poll complete", "events", len(events))
	p.metrics.PollIterations.WithLabelValues("success").Inc()
}

func (p *Poller) setState(s State) {
	p.state.Store(int32(s))
}
