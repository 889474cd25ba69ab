package colour

import (
	"math"
	"slices"

	"github.com/hashicorp/go-hclog"
)

const (
	// DefaultMaxIterations caps the Lloyd loop.
	DefaultMaxIterations = 100

	// DefaultConvergence is the largest centroid movement, in Distance
	// units, that counts as converged.
	DefaultConvergence = 1.0
)

// Result is the outcome of a clustering run. All slices have one entry per
// slot, in seed order.
type Result struct {
	Centroids  CentroidSet
	Counts     []int
	Fractions  []float64
	Iterations int
	Converged  bool
	MaxError   float64
}

// accumulator collects the channel sums of one slot during an iteration.
type accumulator struct {
	r, g, b float64
	count   int
}

// KMeansExtractor implements colour extraction using k-means clustering
// directly over a PixelBuffer.
type KMeansExtractor struct {
	maxIterations int
	convergence   float64
	logger        hclog.Logger
}

// KMeansOption configures a KMeansExtractor.
type KMeansOption func(*KMeansExtractor)

// WithMaxIterations overrides the iteration cap. Values below 1 are ignored.
func WithMaxIterations(n int) KMeansOption {
	return func(e *KMeansExtractor) {
		if n >= 1 {
			e.maxIterations = n
		}
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l hclog.Logger) KMeansOption {
	return func(e *KMeansExtractor) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewKMeansExtractor creates a new KMeansExtractor with default settings.
func NewKMeansExtractor(opts ...KMeansOption) *KMeansExtractor {
	e := &KMeansExtractor{
		maxIterations: DefaultMaxIterations,
		convergence:   DefaultConvergence,
		logger:        hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract seeds count centroids from buf using rng, clusters the buffer and
// returns the centroids with their coverage fractions.
func (e *KMeansExtractor) Extract(buf *PixelBuffer, count int, rng Rand) (*Result, error) {
	seeds, err := Seed(buf, count, rng)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("seeded centroids", "count", count, "seeds", seeds.Colours())
	return e.Cluster(buf, seeds), nil
}

// Cluster runs Lloyd's algorithm from the given seeds until the largest
// centroid movement is within the convergence threshold or the iteration
// cap is reached. Reaching the cap is not an error; the last centroids are
// returned with Converged set to false.
func (e *KMeansExtractor) Cluster(buf *PixelBuffer, seeds CentroidSet) *Result {
	k := len(seeds)
	centroids := slices.Clone(seeds)
	next := make(CentroidSet, k)
	sums := make([]accumulator, k)
	res := &Result{}

	for iter := 1; iter <= e.maxIterations; iter++ {
		clear(sums)
		assign(buf, centroids, sums)

		maxError := 0.0
		for i := range sums {
			next[i] = mean(sums[i])
			if d := Distance(next[i].Packed(), centroids[i].Packed()); d > maxError {
				maxError = d
			}
		}
		centroids, next = next, centroids

		res.Iterations = iter
		res.MaxError = maxError
		e.logger.Trace("k-means iteration", "iteration", iter, "max_error", maxError)

		if maxError <= e.convergence {
			res.Converged = true
			break
		}
	}

	if !res.Converged {
		e.logger.Debug("k-means hit iteration cap", "iterations", res.Iterations, "max_error", res.MaxError)
	}

	res.Centroids = centroids
	res.Counts = make([]int, k)
	for i, s := range sums {
		res.Counts[i] = s.count
	}
	res.Fractions = Summarize(res.Counts, buf.Len())
	return res
}

// assign adds every pixel of buf to the accumulator of its nearest centroid,
// visiting pixels in row-major order.
func assign(buf *PixelBuffer, centroids CentroidSet, sums []accumulator) {
	for y := 0; y < buf.height; y++ {
		for x := 0; x < buf.width; x++ {
			c := buf.At(x, y)
			s := &sums[nearestCentroid(c, centroids)]
			s.r += float64(c.R())
			s.g += float64(c.G())
			s.b += float64(c.B())
			s.count++
		}
	}
}

// nearestCentroid returns the index of the closest centroid. Empty slots
// take part at the sentinel's colour, so they can win pixels back.
// Ties go to the lowest index.
func nearestCentroid(c Packed, centroids CentroidSet) int {
	minDist := math.MaxFloat64
	nearest := 0

	for i, centroid := range centroids {
		if dist := Distance(c, centroid.Packed()); dist < minDist {
			minDist = dist
			nearest = i
		}
	}

	return nearest
}

// mean turns an accumulator into the next centroid: the truncated
// channel-wise mean, or an empty centroid when nothing was assigned.
func mean(s accumulator) Centroid {
	if s.count == 0 {
		return Centroid{Empty: true}
	}
	n := float64(s.count)
	return Centroid{Colour: Pack(int(s.r/n), int(s.g/n), int(s.b/n))}
}

// Summarize converts member counts into coverage fractions of total.
// Empty slots get exactly 0.
func Summarize(counts []int, total int) []float64 {
	fractions := make([]float64, len(counts))
	if total <= 0 {
		return fractions
	}
	for i, n := range counts {
		fractions[i] = float64(n) / float64(total)
	}
	return fractions
}
