package mixing

import (
	"math"
	"testing"
)

// rampCurve builds a curve sweeping between two reflectance levels so
// every band differs.
func rampCurve(from, to float64) Curve {
	c := make(Curve, CurveBands)
	for i := range c {
		c[i] = from + (to-from)*float64(i)/float64(CurveBands-1)
	}
	return c
}

func TestMixSinglePaintIdempotent(t *testing.T) {
	t.Parallel()

	paint := rampCurve(0.05, 0.9)
	splits := [][]float64{
		{1.0},
		{0.5, 0.5},
		{0.3, 0.7},
		{0.2, 0.2, 0.6},
	}
	for _, weights := range splits {
		curves := make([]Curve, len(weights))
		for i := range curves {
			curves[i] = paint
		}
		mixed := Mix(curves, weights)
		for band := range mixed {
			if math.Abs(mixed[band]-paint[band]) > 1e-9 {
				t.Fatalf("weights %v band %d: got %v, want %v", weights, band, mixed[band], paint[band])
			}
		}
	}
}

func TestMixStaysInUnitRange(t *testing.T) {
	t.Parallel()

	mixed := Mix([]Curve{flatCurve(1.0), flatCurve(minReflectance)}, []float64{0.5, 0.5})
	for band, v := range mixed {
		if v < 0 || v > 1 {
			t.Fatalf("band %d out of range: %v", band, v)
		}
	}
}

func TestMixIsSubtractive(t *testing.T) {
	t.Parallel()

	white := flatCurve(0.9)
	black := flatCurve(0.02)
	mixed := Mix([]Curve{white, black}, []float64{0.5, 0.5})

	// Pigment mixing happens in K/S space, so a 50/50 white+black mix is
	// much darker than the reflectance average.
	linear := (white[0] + black[0]) / 2
	if mixed[0] >= linear {
		t.Fatalf("K-M mix %v should sit below the linear average %v", mixed[0], linear)
	}
}

func TestMixDeterministic(t *testing.T) {
	t.Parallel()

	curves := []Curve{rampCurve(0.1, 0.8), rampCurve(0.7, 0.2)}
	weights := []float64{0.35, 0.65}
	a := Mix(curves, weights)
	b := Mix(curves, weights)
	for band := range a {
		if a[band] != b[band] {
			t.Fatalf("band %d differs between identical runs", band)
		}
	}
}
