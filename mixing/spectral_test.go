package mixing

import (
	"math"
	"testing"
)

func TestKSRoundTrip(t *testing.T) {
	t.Parallel()

	for r := 0.0002; r <= 1.0; r += 0.0001 {
		got := KSToReflectance(ReflectanceToKS(r))
		if math.Abs(got-r) > 1e-9 {
			t.Fatalf("round trip of %v drifted to %v (diff %g)", r, got, math.Abs(got-r))
		}
	}

	if got := KSToReflectance(ReflectanceToKS(1.0)); got != 1.0 {
		t.Fatalf("round trip of 1.0 should be exact, got %v", got)
	}
}

func TestReflectanceToKSFloorsNearZero(t *testing.T) {
	t.Parallel()

	ks := ReflectanceToKS(0)
	if math.IsInf(ks, 0) || math.IsNaN(ks) {
		t.Fatalf("K/S of zero reflectance must stay finite, got %v", ks)
	}
	if ks != ReflectanceToKS(minReflectance) {
		t.Fatalf("zero reflectance should clamp to the floor")
	}
}

func TestKSToReflectanceClamps(t *testing.T) {
	t.Parallel()

	if got := KSToReflectance(0); got != 1.0 {
		t.Fatalf("K/S of 0 is pure white, got %v", got)
	}
	if got := KSToReflectance(-3); got != 1.0 {
		t.Fatalf("negative K/S clamps to white, got %v", got)
	}
	if got := KSToReflectance(1e9); got < 0 || got > 1 {
		t.Fatalf("huge K/S must stay in [0,1], got %v", got)
	}
}

func TestWhiteCurveIsLabWhite(t *testing.T) {
	t.Parallel()

	lab := CurveToLab(flatCurve(1.0))
	if math.Abs(lab.L-100) > 1e-9 || math.Abs(lab.A) > 1e-9 || math.Abs(lab.B) > 1e-9 {
		t.Fatalf("flat white curve should be Lab(100,0,0), got %+v", lab)
	}
}

func TestFlatCurvesAreNeutral(t *testing.T) {
	t.Parallel()

	for _, v := range []float64{0.05, 0.2, 0.5, 0.8} {
		lab := CurveToLab(flatCurve(v))
		if math.Abs(lab.A) > 1e-9 || math.Abs(lab.B) > 1e-9 {
			t.Fatalf("flat curve at %v should have zero chroma, got %+v", v, lab)
		}
		if lab.L <= 0 || lab.L >= 100 {
			t.Fatalf("flat curve at %v has implausible lightness %v", v, lab.L)
		}
	}
}

func TestLabXYZRoundTrip(t *testing.T) {
	t.Parallel()

	labs := []Lab{
		{L: 50, A: 0, B: 0},
		{L: 35.2, A: 20.1, B: -40.7},
		{L: 92, A: -8, B: 60},
	}
	for _, want := range labs {
		x, y, z := labToXYZ(want)
		got := xyzToLab(x, y, z)
		if DeltaE(got, want) > 1e-9 {
			t.Fatalf("Lab/XYZ round trip drifted: %+v -> %+v", want, got)
		}
	}
}

func TestDeltaE(t *testing.T) {
	t.Parallel()

	a := Lab{L: 50, A: 0, B: 0}
	b := Lab{L: 53, A: 4, B: 0}
	if got := DeltaE(a, b); math.Abs(got-5.0) > 1e-12 {
		t.Fatalf("expected delta E 5, got %v", got)
	}
	if got := DeltaE(a, a); got != 0 {
		t.Fatalf("delta E of identical colors should be 0, got %v", got)
	}
}

func TestHexToLab(t *testing.T) {
	t.Parallel()

	white, err := HexToLab("#ffffff")
	if err != nil {
		t.Fatalf("parse white: %v", err)
	}
	if math.Abs(white.L-100) > 1e-6 || math.Abs(white.A) > 1e-6 || math.Abs(white.B) > 1e-6 {
		t.Fatalf("white hex should be Lab(100,0,0), got %+v", white)
	}

	if _, err := HexToLab("not-a-color"); err == nil {
		t.Fatal("expected an error for a malformed hex string")
	}
}

func TestCurveHexIsNearWhiteForWhiteCurve(t *testing.T) {
	t.Parallel()

	hex := flatCurve(1.0).Hex()
	lab, err := HexToLab(hex)
	if err != nil {
		t.Fatalf("display hex %q did not parse: %v", hex, err)
	}
	if lab.L < 97 {
		t.Fatalf("white curve should render near-white, got %q (L=%v)", hex, lab.L)
	}
}

func TestCurveIsFinite(t *testing.T) {
	t.Parallel()

	c := flatCurve(0.5)
	if !c.IsFinite() {
		t.Fatal("finite curve reported non-finite")
	}
	c[7] = math.NaN()
	if c.IsFinite() {
		t.Fatal("NaN sample went undetected")
	}
	c[7] = math.Inf(1)
	if c.IsFinite() {
		t.Fatal("Inf sample went undetected")
	}
}
