package usgs

import (
	"errors"
	"fmt"

	"github.com/couchcryptid/quake-data-etl/internal/domain"
)

// USGS GeoJSON response types. Fields the provider may omit are pointers.

type response struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

type feature struct {
	Type       string     `json:"type"`
	ID         string     `json:"id"`
	Properties properties `json:"properties"`
	Geometry   geometry   `json:"geometry"`
}

type properties struct {
	Mag     *float64 `json:"mag"`
	Place   *string  `json:"place"`
	Time    int64    `json:"time"`
	Updated int64    `json:"updated"`
	Tz      *int     `json:"tz"`
	URL     string   `json:"url"`
	Detail  string   `json:"detail"`
	Felt    *int     `json:"felt"`
	CDI     *float64 `json:"cdi"`
	MMI     *float64 `json:"mmi"`
	Alert   *string  `json:"alert"`
	Status  string   `json:"status"`
	Tsunami int      `json:"tsunami"`
	Sig     int      `json:"sig"`
	Net     string   `json:"net"`
	Code    string   `json:"code"`
	IDs     string   `json:"ids"`
	Sources string   `json:"sources"`
	Types   string   `json:"types"`
	Nst     *int     `json:"nst"`
	Dmin    *float64 `json:"dmin"`
	RMS     *float64 `json:"rms"`
	Gap     *float64 `json:"gap"`
	Title   string   `json:"title"`

	// The feed spells these two ways across versions.
	MagType      string `json:"magType"`
	MagTypeSnake string `json:"mag_type"`
	Type         string `json:"type"`
	EventType    string `json:"event_type"`
}

type geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

var (
	errMissingMagnitude   = errors.New("missing magnitude")
	errBadCoordinates     = errors.New("geometry must carry exactly [lon, lat, depth]")
	errUpdatedBeforeEvent = errors.New("updated time precedes event time")
)

// toEvents maps every feature, preserving provider order. One malformed
// feature fails the whole response.
func (r response) toEvents() ([]domain.EarthquakeEvent, error) {
	events := make([]domain.EarthquakeEvent, 0, len(r.Features))
	for i, f := range r.Features {
		event, err := f.toEvent()
		if err != nil {
			return nil, fmt.Errorf("feature %d (%s): %w", i, f.ID, err)
		}
		events = append(events, event)
	}
	return events, nil
}

func (f feature) toEvent() (domain.EarthquakeEvent, error) {
	p := f.Properties
	if p.Mag == nil {
		return domain.EarthquakeEvent{}, errMissingMagnitude
	}
	if len(f.Geometry.Coordinates) != 3 {
		return domain.EarthquakeEvent{}, errBadCoordinates
	}
	if p.Updated < p.Time {
		return domain.EarthquakeEvent{}, errUpdatedBeforeEvent
	}

	return domain.EarthquakeEvent{
		ID:          f.ID,
		Mag:         *p.Mag,
		Place:       p.Place,
		Time:        p.Time,
		Updated:     p.Updated,
		Tsunami:     p.Tsunami,
		Coordinates: domain.Coordinates(f.Geometry.Coordinates),
		MagType:     firstNonEmpty(p.MagType, p.MagTypeSnake),
		EventType:   firstNonEmpty(p.Type, p.EventType),
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
