package domain

import (
	"fmt"
	"time"
)

const (
	dateLayout     = time.DateOnly
	dateTimeLayout = "2006-01-02T15:04:05"
)

// TimeRange is one fetch window.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Tokens renders the range bounds in a form the provider accepts: plain dates
// when both bounds fall on UTC midnight, date-times otherwise.
func (r TimeRange) Tokens() (start, end string) {
	s, e := r.Start.UTC(), r.End.UTC()
	if isMidnight(s) && isMidnight(e) {
		return s.Format(dateLayout), e.Format(dateLayout)
	}
	return s.Format(dateTimeLayout), e.Format(dateTimeLayout)
}

func (r TimeRange) String() string {
	s, e := r.Tokens()
	return s + ".." + e
}

// SplitRange covers [start, end] with consecutive ranges no longer than span,
// in chronological order. The last range is truncated to end. An empty
// interval yields no ranges.
func SplitRange(start, end time.Time, span time.Duration) ([]TimeRange, error) {
	if span <= 0 {
		return nil, ErrInvalidSpan
	}
	if end.Before(start) {
		return nil, fmt.Errorf("split %s..%s: %w", start.Format(time.RFC3339), end.Format(time.RFC3339), ErrInvalidRange)
	}

	n := int(end.Sub(start) / span)
	if end.Sub(start)%span != 0 {
		n++
	}
	ranges := make([]TimeRange, 0, n)
	for cur := start; cur.Before(end); {
		next := cur.Add(span)
		if next.After(end) {
			next = end
		}
		ranges = append(ranges, TimeRange{Start: cur, End: next})
		cur = next
	}
	return ranges, nil
}

// ParseTimeToken parses a date ("2014-01-01") or date-time
// ("2014-01-01T12:00:00") token as UTC.
func ParseTimeToken(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(dateLayout, s, time.UTC); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(dateTimeLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: want YYYY-MM-DD or YYYY-MM-DDTHH:MM:SS", s)
	}
	return t, nil
}

func isMidnight(t time.Time) bool {
	return t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
}
