package analysis

import (
	"cmp"
	"slices"
	"time"

	"github.com/couchcryptid/quake-data-etl/internal/domain"
)

// MonthlyCount is the number of events in one calendar month (UTC).
type MonthlyCount struct {
	Year  int
	Month time.Month
	Count int
}

// MonthlyCounts counts events per month, oldest month first.
func MonthlyCounts(events []domain.EarthquakeEvent) []MonthlyCount {
	type key struct {
		year  int
		month time.Month
	}
	counts := make(map[key]int)
	for _, e := range events {
		t := e.OccurredAt()
		counts[key{t.Year(), t.Month()}]++
	}

	out := make([]MonthlyCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, MonthlyCount{Year: k.year, Month: k.month, Count: n})
	}
	slices.SortFunc(out, func(a, b MonthlyCount) int {
		if c := cmp.Compare(a.Year, b.Year); c != 0 {
			return c
		}
		return cmp.Compare(a.Month, b.Month)
	})
	return out
}
