// Package parquet writes cluster statistics to a columnar file.
package parquet

import (
	"fmt"

	"github.com/couchcryptid/quake-data-etl/internal/analysis"
	"github.com/parquet-go/parquet-go"
)

// StatsRow is the on-disk layout of one cluster's statistics.
type StatsRow struct {
	ClusterID   int64   `parquet:"cluster_id"`
	CentroidLon float64 `parquet:"centroid_lon"`
	CentroidLat float64 `parquet:"centroid_lat"`

	DepthMin      float64 `parquet:"depth_min"`
	DepthMax      float64 `parquet:"depth_max"`
	DepthMean     float64 `parquet:"depth_avg"`
	DepthCount    int64   `parquet:"depth_count"`
	DepthStd      float64 `parquet:"depth_std"`
	DepthSkewness float64 `parquet:"depth_skewness"`
	DepthKurtosis float64 `parquet:"depth_kurtosis"`
	DepthQ25      float64 `parquet:"depth_q25"`
	DepthQ50      float64 `parquet:"depth_q50"`
	DepthQ75      float64 `parquet:"depth_q75"`

	MagnitudeMin      float64 `parquet:"magnitude_min"`
	MagnitudeMax      float64 `parquet:"magnitude_max"`
	MagnitudeMean     float64 `parquet:"magnitude_avg"`
	MagnitudeCount    int64   `parquet:"magnitude_count"`
	MagnitudeStd      float64 `parquet:"magnitude_std"`
	MagnitudeSkewness float64 `parquet:"magnitude_skewness"`
	MagnitudeKurtosis float64 `parquet:"magnitude_kurtosis"`
	MagnitudeQ25      float64 `parquet:"magnitude_q25"`
	MagnitudeQ50      float64 `parquet:"magnitude_q50"`
	MagnitudeQ75      float64 `parquet:"magnitude_q75"`

	// Null when the cluster has no major event.
	SecondsSinceLastMajor *int64 `parquet:"seconds_since_last_major,optional"`
}

// WriteStatistics writes one row per cluster to path, replacing any existing file.
func WriteStatistics(path string, stats []analysis.ClusterStatistics) error {
	rows := make([]StatsRow, len(stats))
	for i, s := range stats {
		rows[i] = toRow(s)
	}
	if err := parquet.WriteFile(path, rows); err != nil {
		return fmt.Errorf("write cluster statistics to %s: %w", path, err)
	}
	return nil
}

// ReadStatistics reads back a file written by WriteStatistics.
func ReadStatistics(path string) ([]StatsRow, error) {
	rows, err := parquet.ReadFile[StatsRow](path)
	if err != nil {
		return nil, fmt.Errorf("read cluster statistics from %s: %w", path, err)
	}
	return rows, nil
}

func toRow(s analysis.ClusterStatistics) StatsRow {
	row := StatsRow{
		ClusterID:   int64(s.ClusterID),
		CentroidLon: s.Lon,
		CentroidLat: s.Lat,

		DepthMin:      s.Depth.Min,
		DepthMax:      s.Depth.Max,
		DepthMean:     s.Depth.Mean,
		DepthCount:    int64(s.Depth.Count),
		DepthStd:      s.Depth.Std,
		DepthSkewness: s.Depth.Skewness,
		DepthKurtosis: s.Depth.Kurtosis,
		DepthQ25:      s.Depth.Q25,
		DepthQ50:      s.Depth.Q50,
		DepthQ75:      s.Depth.Q75,

		MagnitudeMin:      s.Magnitude.Min,
		MagnitudeMax:      s.Magnitude.Max,
		MagnitudeMean:     s.Magnitude.Mean,
		MagnitudeCount:    int64(s.Magnitude.Count),
		MagnitudeStd:      s.Magnitude.Std,
		MagnitudeSkewness: s.Magnitude.Skewness,
		MagnitudeKurtosis: s.Magnitude.Kurtosis,
		MagnitudeQ25:      s.Magnitude.Q25,
		MagnitudeQ50:      s.Magnitude.Q50,
		MagnitudeQ75:      s.Magnitude.Q75,
	}
	if s.SinceLastMajor != nil {
		secs := int64(s.SinceLastMajor.Seconds())
		row.SecondsSinceLastMajor = &secs
	}
	return row
}
