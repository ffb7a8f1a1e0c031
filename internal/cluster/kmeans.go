package cluster

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/GargiGogulwar/netflix-recommender-dashboard/internal/domain"
)

// Options control the k-means fit. Zero fields fall back to the defaults.
type Options struct {
	Clusters  int
	NInit     int
	MaxIter   int
	Tolerance float64
	Seed      int64
}

// DefaultOptions mirrors the dashboard settings.
func DefaultOptions() Options {
	return Options{Clusters: 8, NInit: 10, MaxIter: 300, Tolerance: 1e-4, Seed: 42}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.NInit <= 0 {
		o.NInit = d.NInit
	}
	if o.MaxIter <= 0 {
		o.MaxIter = d.MaxIter
	}
	if o.Tolerance <= 0 {
		o.Tolerance = d.Tolerance
	}
	return o
}

// KMeans is a fitted centroid model in standardized feature space.
type KMeans struct {
	Centroids  *mat.Dense
	Inertia    float64
	Iterations int
}

// Predict returns the index of the centroid nearest to point. Ties go to the
// lower index.
func (k *KMeans) Predict(point []float64) int {
	best, _ := nearest(point, k.Centroids)
	return best
}

// FitKMeans partitions the rows of x into opts.Clusters groups. It runs
// opts.NInit k-means++ seeded Lloyd iterations from one deterministic random
// source and keeps the run with the lowest inertia.
func FitKMeans(x *mat.Dense, opts Options) (*KMeans, []int, error) {
	opts = opts.withDefaults()
	if opts.Clusters <= 0 {
		return nil, nil, fmt.Errorf("%w: got %d", domain.ErrInvalidClusterCount, opts.Clusters)
	}
	n, _ := x.Dims()
	if n < opts.Clusters {
		return nil, nil, fmt.Errorf("%w: %d titles, %d clusters", domain.ErrTooFewTitles, n, opts.Clusters)
	}

	tol := opts.Tolerance * meanVariance(x)
	rng := rand.New(rand.NewSource(opts.Seed))

	var (
		best       *KMeans
		bestLabels []int
	)
	for run := 0; run < opts.NInit; run++ {
		centroids := initPlusPlus(x, opts.Clusters, rng)
		model, labels := lloyd(x, centroids, opts.MaxIter, tol)
		if best == nil || model.Inertia < best.Inertia {
			best, bestLabels = model, labels
		}
	}
	return best, bestLabels, nil
}

// initPlusPlus picks k starting centroids, each new one drawn with
// probability proportional to its squared distance from the nearest centroid
// chosen so far.
func initPlusPlus(data *mat.Dense, k int, rng *rand.Rand) *mat.Dense {
	n, d := data.Dims()
	centroids := mat.NewDense(k, d, nil)
	centroids.SetRow(0, data.RawRowView(rng.Intn(n)))

	dist := make([]float64, n)
	for i := 0; i < n; i++ {
		dist[i] = sqDist(data.RawRowView(i), centroids.RawRowView(0))
	}
	for c := 1; c < k; c++ {
		total := floats.Sum(dist)
		next := -1
		if total > 0 {
			target := rng.Float64() * total
			cum := 0.0
			for i, w := range dist {
				cum += w
				if w > 0 && cum >= target {
					next = i
					break
				}
			}
		}
		if next < 0 {
			// all remaining points coincide with a centroid
			next = rng.Intn(n)
		}
		centroids.SetRow(c, data.RawRowView(next))
		for i := 0; i < n; i++ {
			dist[i] = math.Min(dist[i], sqDist(data.RawRowView(i), centroids.RawRowView(c)))
		}
	}
	return centroids
}

func lloyd(data, centroids *mat.Dense, maxIter int, tol float64) (*KMeans, []int) {
	n, _ := data.Dims()
	labels := assign(data, centroids)
	iter := 0
	for iter < maxIter {
		iter++
		updated := update(data, labels, centroids)
		shift := 0.0
		k, _ := centroids.Dims()
		for c := 0; c < k; c++ {
			shift += sqDist(centroids.RawRowView(c), updated.RawRowView(c))
		}
		centroids = updated

		next := assign(data, centroids)
		changed := false
		for i := 0; i < n; i++ {
			if next[i] != labels[i] {
				changed = true
				break
			}
		}
		labels = next
		if !changed || shift <= tol {
			break
		}
	}

	inertia := 0.0
	for i := 0; i < n; i++ {
		inertia += sqDist(data.RawRowView(i), centroids.RawRowView(labels[i]))
	}
	return &KMeans{Centroids: centroids, Inertia: inertia, Iterations: iter}, labels
}

func assign(data, centroids *mat.Dense) []int {
	n, _ := data.Dims()
	labels := make([]int, n)
	for i := 0; i < n; i++ {
		labels[i], _ = nearest(data.RawRowView(i), centroids)
	}
	return labels
}

// update moves each centroid to the mean of its members. A centroid that
// lost every member stays where it was.
func update(data *mat.Dense, labels []int, prev *mat.Dense) *mat.Dense {
	k, d := prev.Dims()
	sums := mat.NewDense(k, d, nil)
	counts := make([]int, k)
	for i, l := range labels {
		floats.Add(sums.RawRowView(l), data.RawRowView(i))
		counts[l]++
	}
	for c := 0; c < k; c++ {
		row := sums.RawRowView(c)
		if counts[c] == 0 {
			copy(row, prev.RawRowView(c))
			continue
		}
		floats.Scale(1/float64(counts[c]), row)
	}
	return sums
}

func nearest(point []float64, centroids *mat.Dense) (int, float64) {
	k, _ := centroids.Dims()
	best, bestDist := 0, math.Inf(1)
	for c := 0; c < k; c++ {
		if d := sqDist(point, centroids.RawRowView(c)); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, bestDist
}

func sqDist(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		diff := a[i] - b[i]
		s += diff * diff
	}
	return s
}

func meanVariance(x *mat.Dense) float64 {
	rows, cols := x.Dims()
	col := make([]float64, rows)
	total := 0.0
	for j := 0; j < cols; j++ {
		mat.Col(col, j, x)
		total += stat.PopVariance(col, nil)
	}
	return total / float64(cols)
}
