package colour

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// ErrInvalidParameter is returned when the requested palette size is not
// positive.
var ErrInvalidParameter = errors.New("invalid parameter")

// maxSeedRejections is how many duplicate draws a slot tolerates before a
// duplicate colour is accepted. It bounds seeding on near-uniform images.
const maxSeedRejections = 3

// Rand is the random source used to pick seed pixels. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// NewRand returns a Rand seeded with seed.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed)) // #nosec G404 -- colour sampling, not security sensitive
}

// Seed picks k initial centroids from random pixels of buf, preferring
// distinct colours. Seeds are forced opaque and compared by exact value.
func Seed(buf *PixelBuffer, k int, rng Rand) (CentroidSet, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: palette size must be at least 1, got %d", ErrInvalidParameter, k)
	}
	if rng == nil {
		rng = NewRand(time.Now().UnixNano())
	}

	seeds := make(CentroidSet, 0, k)
	rejections := 0
	for len(seeds) < k {
		x := rng.Intn(buf.width)
		y := rng.Intn(buf.height)
		c := buf.At(x, y).Opaque()

		if containsColour(seeds, c) && rejections < maxSeedRejections {
			rejections++
			continue
		}
		seeds = append(seeds, Centroid{Colour: c})
		rejections = 0
	}
	return seeds, nil
}

func containsColour(set CentroidSet, c Packed) bool {
	for _, s := range set {
		if s.Colour == c {
			return true
		}
	}
	return false
}
