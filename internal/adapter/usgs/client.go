package usgs

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/couchcryptid/quake-data-etl/internal/domain"
	json "github.com/goccy/go-json"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultEndpoint is the USGS FDSN event query endpoint.
const DefaultEndpoint = "https://earthquake.usgs.gov/fdsnws/event/1/query"

// Client implements domain.DataSource against the USGS event service.
type Client struct {
	endpoint   string
	httpClient *http.Client
	tracer     trace.Tracer
	logger     *slog.Logger
}

// NewClient creates a USGS client for the given query endpoint. The HTTP
// client uses transport defaults; no timeout is imposed.
func NewClient(endpoint string, logger *slog.Logger) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{},
		tracer:     otel.Tracer("github.com/couchcryptid/quake-data-etl/internal/adapter/usgs"),
		logger:     logger,
	}
}

// Fetch queries events between startTime and endTime at or above minMagnitude.
func (c *Client) Fetch(ctx context.Context, format, startTime, endTime, minMagnitude string) ([]domain.EarthquakeEvent, error) {
	ctx, span := c.tracer.Start(ctx, "usgs.Fetch", trace.WithAttributes(
		attribute.String("usgs.format", format),
		attribute.String("usgs.starttime", startTime),
		attribute.String("usgs.endtime", endTime),
		attribute.String("usgs.minmagnitude", minMagnitude),
	))
	defer span.End()

	u := c.queryURL(format, startTime, endTime, minMagnitude)
	c.logger.Info("fetching earthquake events", "url", u)

	events, err := c.doRequest(ctx, u)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("usgs.events", len(events)))
	return events, nil
}

// queryURL appends the parameters in a fixed order: format, starttime,
// endtime, minmagnitude. url.Values would sort them.
func (c *Client) queryURL(format, startTime, endTime, minMagnitude string) string {
	return fmt.Sprintf("%s?format=%s&starttime=%s&endtime=%s&minmagnitude=%s",
		c.endpoint,
		url.QueryEscape(format),
		url.QueryEscape(startTime),
		url.QueryEscape(endTime),
		url.QueryEscape(minMagnitude),
	)
}

func (c *Client) doRequest(ctx context.Context, fullURL string) ([]domain.EarthquakeEvent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, &domain.TransportError{Err: fmt.Errorf("create request: %w", err)}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.UnexpectedStatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	var usgsResp response
	if err := json.NewDecoder(resp.Body).Decode(&usgsResp); err != nil {
		return nil, &domain.TransportError{Err: fmt.Errorf("decode response: %w", err)}
	}

	events, err := usgsResp.toEvents()
	if err != nil {
		return nil, &domain.TransportError{Err: fmt.Errorf("decode response: %w", err)}
	}
	return events, nil
}
