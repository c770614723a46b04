package analysis

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/couchcryptid/quake-data-etl/internal/domain"
	"gonum.org/v1/gonum/floats"
)

const (
	kmeansTolerance     = 1e-2
	kmeansMaxIterations = 300
)

var (
	// ErrInvalidClusterCount is returned when fewer than one cluster is requested.
	ErrInvalidClusterCount = errors.New("cluster count must be at least 1")

	// ErrTooFewEvents is returned when there are fewer events than clusters.
	ErrTooFewEvents = errors.New("fewer events than clusters")
)

// Cluster is a group of events with nearby epicenters.
type Cluster struct {
	ID     int
	Lon    float64 // centroid
	Lat    float64 // centroid
	Events []domain.EarthquakeEvent
}

// KMeans partitions events into k clusters by (lon, lat). Events keep their
// input order within each cluster. Clusters may be empty when several events
// share a location.
func KMeans(events []domain.EarthquakeEvent, k int, seed uint64) ([]Cluster, error) {
	if k < 1 {
		return nil, fmt.Errorf("k=%d: %w", k, ErrInvalidClusterCount)
	}
	if len(events) < k {
		return nil, fmt.Errorf("%d events for k=%d: %w", len(events), k, ErrTooFewEvents)
	}

	points := make([][]float64, len(events))
	for i, e := range events {
		points[i] = []float64{e.Coordinates.Lon(), e.Coordinates.Lat()}
	}

	rng := rand.New(rand.NewPCG(seed, seed))
	centroids := initCentroids(points, k, rng)
	assign := make([]int, len(points))

	for iter := 0; iter < kmeansMaxIterations; iter++ {
		for i, p := range points {
			assign[i] = nearest(p, centroids)
		}
		shift := updateCentroids(points, assign, centroids)
		if shift <= kmeansTolerance {
			break
		}
	}
	for i, p := range points {
		assign[i] = nearest(p, centroids)
	}

	clusters := make([]Cluster, k)
	for c := range clusters {
		clusters[c].ID = c
	}
	for i, e := range events {
		c := &clusters[assign[i]]
		c.Events = append(c.Events, e)
	}
	for c := range clusters {
		clusters[c].Lon, clusters[c].Lat = memberMean(clusters[c].Events, centroids[c])
	}
	return clusters, nil
}

// initCentroids picks k starting centroids with k-means++ seeding.
func initCentroids(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, clone(points[rng.IntN(len(points))]))

	d2 := make([]float64, len(points))
	for len(centroids) < k {
		for i, p := range points {
			d := floats.Distance(p, centroids[nearest(p, centroids)], 2)
			d2[i] = d * d
		}
		total := floats.Sum(d2)
		if total == 0 {
			centroids = append(centroids, clone(points[rng.IntN(len(points))]))
			continue
		}
		target := rng.Float64() * total
		idx := len(points) - 1
		for i, w := range d2 {
			target -= w
			if target < 0 {
				idx = i
				break
			}
		}
		centroids = append(centroids, clone(points[idx]))
	}
	return centroids
}

// updateCentroids moves each centroid to the mean of its points and returns
// the largest distance any centroid moved. Empty clusters stay in place.
func updateCentroids(points [][]float64, assign []int, centroids [][]float64) float64 {
	sums := make([][]float64, len(centroids))
	counts := make([]int, len(centroids))
	for c := range sums {
		sums[c] = make([]float64, 2)
	}
	for i, p := range points {
		floats.Add(sums[assign[i]], p)
		counts[assign[i]]++
	}

	shift := 0.0
	for c := range centroids {
		if counts[c] == 0 {
			continue
		}
		floats.Scale(1/float64(counts[c]), sums[c])
		shift = math.Max(shift, floats.Distance(sums[c], centroids[c], 2))
		centroids[c] = sums[c]
	}
	return shift
}

func nearest(p []float64, centroids [][]float64) int {
	best, bestDist := 0, math.Inf(1)
	for c, centroid := range centroids {
		if d := floats.Distance(p, centroid, 2); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func memberMean(events []domain.EarthquakeEvent, fallback []float64) (lon, lat float64) {
	if len(events) == 0 {
		return fallback[0], fallback[1]
	}
	for _, e := range events {
		lon += e.Coordinates.Lon()
		lat += e.Coordinates.Lat()
	}
	n := float64(len(events))
	return lon / n, lat / n
}

func clone(p []float64) []float64 {
	return append([]float64(nil), p...)
}
