package domain

import (
	"context"
	"time"
)

// Coordinates is a GeoJSON position: longitude, latitude, depth (km).
type Coordinates [3]float64

// Lon returns the longitude in degrees.
func (c Coordinates) Lon() float64 { return c[0] }

// Lat returns the latitude in degrees.
func (c Coordinates) Lat() float64 { return c[1] }

// Depth returns the depth in kilometres.
func (c Coordinates) Depth() float64 { return c[2] }

// EarthquakeEvent is a single decoded earthquake observation. Values are
// built only by decoding a provider feature and are not modified afterwards.
type EarthquakeEvent struct {
	ID          string      `json:"id"`
	Mag         float64     `json:"mag"`
	Place       *string     `json:"place"`
	Time        int64       `json:"time"`    // epoch milliseconds
	Updated     int64       `json:"updated"` // epoch milliseconds
	Tsunami     int         `json:"tsunami"`
	Coordinates Coordinates `json:"coordinates"`
	MagType     string      `json:"mag_type"`
	EventType   string      `json:"event_type"`
}

// OccurredAt returns the occurrence time in UTC.
func (e EarthquakeEvent) OccurredAt() time.Time {
	return time.UnixMilli(e.Time).UTC()
}

// DataSource fetches earthquake events from a provider.
//
// format selects the provider's output encoding, startTime and endTime are
// provider-accepted date or date-time tokens, and minMagnitude is a decimal
// number rendered as text. Implementations return events in provider order.
type DataSource interface {
	Fetch(ctx context.Context, format, startTime, endTime, minMagnitude string) ([]EarthquakeEvent, error)
}
