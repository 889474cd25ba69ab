package colour

// Channel weights approximating each channel's contribution to luminance.
const (
	redWeight   = 0.30
	greenWeight = 0.59
	blueWeight  = 0.11
)

// Distance returns the squared weighted RGB distance between two colours.
// It is only meaningful for ordering; alpha is ignored.
func Distance(a, b Packed) float64 {
	dr := float64(a.R()-b.R()) * redWeight
	dg := float64(a.G()-b.G()) * greenWeight
	db := float64(a.B()-b.B()) * blueWeight
	return dr*dr + dg*dg + db*db
}
