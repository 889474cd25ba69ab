package colour

import (
	"image/color"
	"testing"
)

func TestSeedSolidImageTerminates(t *testing.T) {
	solid := color.RGBA{R: 40, G: 50, B: 60, A: 10}
	buf := newTestBuffer(t, 3, 3, 0, func(int, int) color.RGBA { return solid })

	rng := &scriptedRand{}
	seeds, err := Seed(buf, 5, rng)
	if err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	if len(seeds) != 5 {
		t.Fatalf("len(seeds) = %d, want 5", len(seeds))
	}
	for i, s := range seeds {
		if s.Colour != Pack(40, 50, 60) {
			t.Errorf("seed %d = %#x, want opaque solid colour", i, uint32(s.Colour))
		}
	}
	// One draw for the first slot, four for each later one, two values per draw.
	if want := 2 * (1 + 4*4); rng.calls != want {
		t.Errorf("random calls = %d, want %d", rng.calls, want)
	}
}

func TestSeedPrefersDistinctColours(t *testing.T) {
	buf := newTestBuffer(t, 10, 10, 0, twoColourFill)

	// Draws: A, A (rejected), B.
	rng := &scriptedRand{vals: []int{0, 0, 5, 5, 3, 8}}
	seeds, err := Seed(buf, 2, rng)
	if err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	want := []Packed{packRGBA(colourA), packRGBA(colourB)}
	for i, s := range seeds {
		if s.Colour != want[i] || s.Empty {
			t.Errorf("seed %d = %+v, want %#x", i, s, uint32(want[i]))
		}
	}
	if rng.calls != 6 {
		t.Errorf("random calls = %d, want 6", rng.calls)
	}
}

func TestSeedRetryCounterResets(t *testing.T) {
	buf := newTestBuffer(t, 10, 10, 0, twoColourFill)

	// Slot 0: A. Slot 1: three rejections then a duplicate A.
	// Slot 2: one rejection then B; a counter that did not reset
	// would have accepted the duplicate instead.
	rng := &scriptedRand{vals: []int{
		0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 9,
	}}
	seeds, err := Seed(buf, 3, rng)
	if err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	want := []Packed{packRGBA(colourA), packRGBA(colourA), packRGBA(colourB)}
	for i, s := range seeds {
		if s.Colour != want[i] {
			t.Errorf("seed %d = %#x, want %#x", i, uint32(s.Colour), uint32(want[i]))
		}
	}
}

func TestSeedNilRand(t *testing.T) {
	buf := newTestBuffer(t, 4, 4, 0, noiseFill)
	seeds, err := Seed(buf, 3, nil)
	if err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if len(seeds) != 3 {
		t.Errorf("len(seeds) = %d, want 3", len(seeds))
	}
}
