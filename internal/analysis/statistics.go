package analysis

import (
	"math"
	"slices"
	"time"

	"github.com/couchcryptid/quake-data-etl/internal/domain"
	"github.com/sourcegraph/conc/iter"
	"gonum.org/v1/gonum/stat"
)

// MajorMagnitude is the threshold above which an event counts as major.
const MajorMagnitude = 5.0

// MetricStatistics summarizes one numeric column. Moments that are undefined
// for the sample size are reported as 0.
type MetricStatistics struct {
	Min      float64
	Max      float64
	Mean     float64
	Count    int
	Std      float64 // sample standard deviation
	Skewness float64
	Kurtosis float64 // excess kurtosis
	Q25      float64
	Q50      float64
	Q75      float64
}

// ClusterStatistics describes one cluster.
type ClusterStatistics struct {
	ClusterID int
	Lon       float64
	Lat       float64
	Depth     MetricStatistics
	Magnitude MetricStatistics

	// SinceLastMajor is the time from the cluster's latest event above
	// MajorMagnitude to now, or nil when it has none.
	SinceLastMajor *time.Duration
}

// Describe computes summary statistics for values. Quantiles are empirical:
// each is an element of values.
func Describe(values []float64) MetricStatistics {
	if len(values) == 0 {
		return MetricStatistics{}
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	mean, std := stat.MeanStdDev(sorted, nil)
	return MetricStatistics{
		Min:      sorted[0],
		Max:      sorted[len(sorted)-1],
		Mean:     mean,
		Count:    len(sorted),
		Std:      finite(std),
		Skewness: finite(stat.Skew(sorted, nil)),
		Kurtosis: finite(stat.ExKurtosis(sorted, nil)),
		Q25:      stat.Quantile(0.25, stat.Empirical, sorted, nil),
		Q50:      stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Q75:      stat.Quantile(0.75, stat.Empirical, sorted, nil),
	}
}

// Statistics describes every cluster concurrently. The result is in cluster order.
func Statistics(clusters []Cluster, now time.Time) []ClusterStatistics {
	return iter.Map(clusters, func(c *Cluster) ClusterStatistics {
		depths := make([]float64, len(c.Events))
		mags := make([]float64, len(c.Events))
		for i, e := range c.Events {
			depths[i] = e.Coordinates.Depth()
			mags[i] = e.Mag
		}
		return ClusterStatistics{
			ClusterID:      c.ID,
			Lon:            c.Lon,
			Lat:            c.Lat,
			Depth:          Describe(depths),
			Magnitude:      Describe(mags),
			SinceLastMajor: sinceLastMajor(c.Events, now),
		}
	})
}

func sinceLastMajor(events []domain.EarthquakeEvent, now time.Time) *time.Duration {
	var latest int64
	found := false
	for _, e := range events {
		if e.Mag > MajorMagnitude && (!found || e.Time > latest) {
			latest, found = e.Time, true
		}
	}
	if !found {
		return nil
	}
	d := now.Sub(time.UnixMilli(latest))
	return &d
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
