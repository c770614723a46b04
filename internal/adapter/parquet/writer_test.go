package parquet

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/couchcryptid/quake-data-etl/internal/analysis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteStatistics_RoundTrip(t *testing.T) {
	since := 36*time.Hour + 30*time.Second
	stats := []analysis.ClusterStatistics{
		{
			ClusterID:      0,
			Lon:            -122.1,
			Lat:            37.7,
			Depth:          analysis.MetricStatistics{Min: 1, Max: 30, Mean: 12, Count: 4, Std: 2.5, Q25: 5, Q50: 10, Q75: 20},
			Magnitude:      analysis.MetricStatistics{Min: 3, Max: 6.2, Mean: 4, Count: 4, Skewness: 0.4, Kurtosis: -1.1},
			SinceLastMajor: &since,
		},
		{ClusterID: 1, Lon: 140, Lat: 35, Depth: analysis.MetricStatistics{Count: 1}},
	}
	path := filepath.Join(t.TempDir(), "cluster_statistics.parquet")

	require.NoError(t, WriteStatistics(path, stats))
	rows, err := ReadStatistics(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, toRow(stats[0]), rows[0])
	require.NotNil(t, rows[0].SecondsSinceLastMajor)
	assert.Equal(t, int64(129630), *rows[0].SecondsSinceLastMajor)
	assert.InDelta(t, 20, rows[0].DepthQ75, 0)
	assert.InDelta(t, -1.1, rows[0].MagnitudeKurtosis, 0)

	assert.Equal(t, int64(1), rows[1].ClusterID)
	assert.Nil(t, rows[1].SecondsSinceLastMajor, "absent duration must be null, not zero")
}

func TestWriteStatistics_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.parquet")

	require.NoError(t, WriteStatistics(path, nil))
	rows, err := ReadStatistics(path)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestWriteStatistics_BadPath(t *testing.T) {
	err := WriteStatistics(filepath.Join(t.TempDir(), "missing", "stats.parquet"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write cluster statistics")
}
