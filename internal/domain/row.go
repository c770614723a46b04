package domain

import (
	"fmt"
	"time"
)

// Representable epoch-millisecond bounds: 0001-01-01T00:00:00Z through
// 9999-12-31T23:59:59.999Z.
var (
	minEpochMillis = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	maxEpochMillis = time.Date(9999, time.December, 31, 23, 59, 59, 999_000_000, time.UTC).UnixMilli()
)

// EventRow is the relational form of an event. Timestamp columns are nullable
// in the schema but always populated by ToRow.
type EventRow struct {
	EventID   string
	Mag       float64
	Place     *string
	Time      *time.Time
	Updated   *time.Time
	Tsunami   int
	Lon       float64
	Lat       float64
	Depth     float64
	MagType   string
	EventType string
}

// ToRow converts an event for relational storage. Unrepresentable timestamps
// fail with ErrTimestampOutOfRange instead of defaulting.
func ToRow(e EarthquakeEvent) (EventRow, error) {
	occurred, err := MillisToTime(e.Time)
	if err != nil {
		return EventRow{}, fmt.Errorf("event %s time: %w", e.ID, err)
	}
	updated, err := MillisToTime(e.Updated)
	if err != nil {
		return EventRow{}, fmt.Errorf("event %s updated: %w", e.ID, err)
	}

	return EventRow{
		EventID:   e.ID,
		Mag:       e.Mag,
		Place:     e.Place,
		Time:      &occurred,
		Updated:   &updated,
		Tsunami:   e.Tsunami,
		Lon:       e.Coordinates.Lon(),
		Lat:       e.Coordinates.Lat(),
		Depth:     e.Coordinates.Depth(),
		MagType:   e.MagType,
		EventType: e.EventType,
	}, nil
}

// ToRows converts a batch, stopping at the first unconvertible event.
func ToRows(events []EarthquakeEvent) ([]EventRow, error) {
	rows := make([]EventRow, 0, len(events))
	for _, e := range events {
		row, err := ToRow(e)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// MillisToTime converts epoch milliseconds to a UTC time.
func MillisToTime(ms int64) (time.Time, error) {
	if ms < minEpochMillis || ms > maxEpochMillis {
		return time.Time{}, fmt.Errorf("%d ms: %w", ms, ErrTimestampOutOfRange)
	}
	return time.UnixMilli(ms).UTC(), nil
}
