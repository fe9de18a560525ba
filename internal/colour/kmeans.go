package colour

import (
	"math"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	// DefaultNInit is the number of independently seeded runs per clustering.
	DefaultNInit = 10

	// DefaultMaxIterations caps Lloyd iterations per run.
	DefaultMaxIterations = 300

	// DefaultTolerance is scaled by the mean per-channel variance of the
	// samples to give the centroid shift below which a run has converged.
	DefaultTolerance = 1e-4

	// DefaultSeed is the fixed seed used when no other seed is supplied.
	DefaultSeed int64 = 42
)

// KMeans clusters a SampleSet into a fixed number of colours using Lloyd's
// algorithm with k-means++ seeding.
//
// A KMeans value is not safe for concurrent use when Rand is set, since
// the generator is shared between calls. With Rand nil every call builds
// its own generator from Seed and repeated calls return identical results.
type KMeans struct {
	NInit         int
	MaxIterations int
	Tolerance     float64

	// Rand drives centroid seeding. When nil a generator seeded with Seed
	// is created per call.
	Rand *rand.Rand
	Seed int64
}

// NewKMeans returns a KMeans with the default settings.
func NewKMeans() *KMeans {
	return &KMeans{
		NInit:         DefaultNInit,
		MaxIterations: DefaultMaxIterations,
		Tolerance:     DefaultTolerance,
		Seed:          DefaultSeed,
	}
}

// NewRand returns the deterministic generator used for a given seed.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15)) // #nosec G404 -- reproducibility, not security
}

// ClusterResult is the outcome of the best clustering run.
type ClusterResult struct {
	// Centroids are in centroid-index order, rounded and clamped.
	Centroids []RGB
	// Counts holds the number of samples assigned to each centroid.
	Counts []int
	// Inertia is the sum of squared distances of samples to their centroid.
	Inertia float64
	// Iterations is the number of Lloyd iterations of the winning run.
	Iterations int
}

// Palette converts the result to a Palette weighted by cluster size.
func (r *ClusterResult) Palette() *Palette {
	total := 0
	for _, c := range r.Counts {
		total += c
	}
	weights := make([]float64, len(r.Counts))
	if total > 0 {
		for i, c := range r.Counts {
			weights[i] = float64(c) / float64(total)
		}
	}
	colours := make([]RGB, len(r.Centroids))
	copy(colours, r.Centroids)
	return NewPaletteWithWeights(colours, weights)
}

// point is a sample or centroid in RGB space.
type point [3]float64

// run holds the state of a single seeded clustering attempt.
type run struct {
	centroids  []point
	labels     []int
	dists      []float64
	inertia    float64
	iterations int
}

// Cluster partitions samples into n clusters.
// It returns a *ClusterCountError when n is outside [1, len(samples)].
func (k *KMeans) Cluster(samples SampleSet, n int) (*ClusterResult, error) {
	if n < 1 || n > len(samples) {
		return nil, &ClusterCountError{Requested: n, Available: len(samples)}
	}

	points := make([]point, len(samples))
	for i, s := range samples {
		points[i] = point{float64(s.R), float64(s.G), float64(s.B)}
	}

	rng := k.Rand
	if rng == nil {
		rng = NewRand(k.Seed)
	}

	nInit := k.NInit
	if nInit < 1 {
		nInit = DefaultNInit
	}
	maxIter := k.MaxIterations
	if maxIter < 1 {
		maxIter = DefaultMaxIterations
	}
	tol := k.shiftTolerance(points)

	var best *run
	for range nInit {
		r := lloyd(points, seedCentroids(points, n, rng), maxIter, tol)
		// Strict comparison keeps the earliest run on ties.
		if best == nil || r.inertia < best.inertia {
			best = r
		}
	}

	return best.result(), nil
}

// shiftTolerance scales Tolerance by the mean per-channel variance.
func (k *KMeans) shiftTolerance(points []point) float64 {
	if len(points) < 2 || k.Tolerance <= 0 {
		return 0
	}
	channel := make([]float64, len(points))
	variance := 0.0
	for c := range 3 {
		for i, p := range points {
			channel[i] = p[c]
		}
		variance += stat.Variance(channel, nil)
	}
	return k.Tolerance * variance / 3
}

// seedCentroids picks n initial centroids with k-means++.
func seedCentroids(points []point, n int, rng *rand.Rand) []point {
	centroids := make([]point, 0, n)
	centroids = append(centroids, points[rng.IntN(len(points))])

	nearest := make([]float64, len(points))
	for i, p := range points {
		nearest[i] = sqDist(p, centroids[0])
	}

	for len(centroids) < n {
		total := floats.Sum(nearest)

		var next int
		if total <= 0 {
			// Every sample already coincides with a centroid.
			next = rng.IntN(len(points))
		} else {
			next = weightedIndex(nearest, total*rng.Float64())
		}

		c := points[next]
		centroids = append(centroids, c)
		for i, p := range points {
			if d := sqDist(p, c); d < nearest[i] {
				nearest[i] = d
			}
		}
	}

	return centroids
}

// weightedIndex returns the first index whose cumulative weight exceeds
// target. Zero weights are never selected.
func weightedIndex(weights []float64, target float64) int {
	cumulative := 0.0
	last := 0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		cumulative += w
		last = i
		if cumulative > target {
			return i
		}
	}
	return last
}

// lloyd iterates assignment and update steps from the given centroids.
func lloyd(points, centroids []point, maxIter int, tol float64) *run {
	r := &run{
		centroids: centroids,
		labels:    make([]int, len(points)),
		dists:     make([]float64, len(points)),
	}
	assign(points, r.centroids, r.labels, r.dists)

	for r.iterations < maxIter {
		r.iterations++
		shift := update(points, r.centroids, r.labels)
		changed := assign(points, r.centroids, r.labels, r.dists)
		if changed == 0 || shift <= tol {
			break
		}
	}

	r.inertia = floats.Sum(r.dists)
	return r
}

// assign labels every point with its nearest centroid, preferring the
// lowest index on ties, and returns how many labels changed.
func assign(points, centroids []point, labels []int, dists []float64) int {
	changed := 0
	for i, p := range points {
		best, bestDist := 0, sqDist(p, centroids[0])
		for j := 1; j < len(centroids); j++ {
			if d := sqDist(p, centroids[j]); d < bestDist {
				best, bestDist = j, d
			}
		}
		if labels[i] != best {
			labels[i] = best
			changed++
		}
		dists[i] = bestDist
	}
	return changed
}

// update moves each centroid to the mean of its members, re-seeds empty
// clusters and returns the total squared centroid shift.
func update(points, centroids []point, labels []int) float64 {
	sums := make([]point, len(centroids))
	counts := make([]int, len(centroids))
	for i, p := range points {
		l := labels[i]
		floats.Add(sums[l][:], p[:])
		counts[l]++
	}

	previous := slices.Clone(centroids)
	var empty []int
	for j := range centroids {
		if counts[j] == 0 {
			empty = append(empty, j)
			continue
		}
		for c := range 3 {
			centroids[j][c] = sums[j][c] / float64(counts[j])
		}
	}
	if len(empty) > 0 {
		reseed(points, centroids, counts, empty)
	}

	shift := 0.0
	for j := range centroids {
		shift += sqDist(centroids[j], previous[j])
	}
	return shift
}

// reseed moves each empty cluster, in index order, onto the sample that is
// farthest from its nearest populated or already re-seeded centroid. Ties
// go to the lowest sample index.
func reseed(points, centroids []point, counts, empty []int) {
	nearest := make([]float64, len(points))
	for i, p := range points {
		nearest[i] = math.Inf(1)
		for j, c := range centroids {
			if counts[j] == 0 {
				continue
			}
			nearest[i] = min(nearest[i], sqDist(p, c))
		}
	}

	for _, j := range empty {
		far := floats.MaxIdx(nearest)
		centroids[j] = points[far]
		for i, p := range points {
			nearest[i] = min(nearest[i], sqDist(p, centroids[j]))
		}
	}
}

func (r *run) result() *ClusterResult {
	counts := make([]int, len(r.centroids))
	for _, l := range r.labels {
		counts[l]++
	}
	centroids := make([]RGB, len(r.centroids))
	for i, c := range r.centroids {
		centroids[i] = RGB{R: channel(c[0]), G: channel(c[1]), B: channel(c[2])}
	}
	return &ClusterResult{
		Centroids:  centroids,
		Counts:     counts,
		Inertia:    r.inertia,
		Iterations: r.iterations,
	}
}

// channel rounds half away from zero and clamps into [0, 255].
func channel(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(v))))
}

func sqDist(a, b point) float64 {
	dr := a[0] - b[0]
	dg := a[1] - b[1]
	db := a[2] - b[2]
	return dr*dr + dg*dg + db*db
}
