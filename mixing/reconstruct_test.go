package mixing

import (
	"errors"
	"testing"
)

func TestReconstructMidGray(t *testing.T) {
	t.Parallel()

	target := Lab{L: 50, A: 0, B: 0}
	curve, err := Reconstruct(target)
	if err != nil {
		t.Fatalf("mid gray should reconstruct: %v", err)
	}
	if len(curve) != CurveBands {
		t.Fatalf("expected %d bands, got %d", CurveBands, len(curve))
	}
	for band, v := range curve {
		if v < 0 || v > 1 {
			t.Fatalf("band %d out of range: %v", band, v)
		}
	}
	if miss := DeltaE(CurveToLab(curve), target); miss >= 1.0 {
		t.Fatalf("reconstructed gray misses target by %v delta E", miss)
	}
}

func TestReconstructChromaticTargets(t *testing.T) {
	t.Parallel()

	targets := []Lab{
		{L: 60, A: 25, B: 15},
		{L: 40, A: -20, B: 30},
		{L: 75, A: 5, B: -25},
	}
	for _, target := range targets {
		curve, err := Reconstruct(target)
		if err != nil {
			t.Fatalf("target %+v should reconstruct: %v", target, err)
		}
		if miss := DeltaE(CurveToLab(curve), target); miss >= 1.0 {
			t.Fatalf("target %+v missed by %v delta E", target, miss)
		}
	}
}

func TestReconstructDeterministic(t *testing.T) {
	t.Parallel()

	target := Lab{L: 55, A: 12, B: -8}
	a, err := Reconstruct(target)
	if err != nil {
		t.Fatalf("reconstruct: %v", err)
	}
	b, err := Reconstruct(target)
	if err != nil {
		t.Fatalf("reconstruct: %v", err)
	}
	for band := range a {
		if a[band] != b[band] {
			t.Fatalf("band %d differs between identical reconstructions", band)
		}
	}
}

func TestReconstructUnreachableTarget(t *testing.T) {
	t.Parallel()

	// No physical reflectance in [0,1] produces chroma this extreme.
	_, err := Reconstruct(Lab{L: 50, A: 250, B: -250})
	if err == nil {
		t.Fatal("expected reconstruction failure for an unreachable target")
	}
	var rerr ReconstructionError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected ReconstructionError, got %T: %v", err, err)
	}
}

func TestResolveTargetPrefersCurve(t *testing.T) {
	t.Parallel()

	curve := rampCurve(0.2, 0.6)
	lab := Lab{L: 50, A: 0, B: 0}
	resolved, err := TargetColor{Curve: curve, Lab: &lab, Hex: "#123456"}.Resolve()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	for band := range curve {
		if resolved[band] != curve[band] {
			t.Fatal("pre-supplied curve should pass through untouched")
		}
	}
}

func TestResolveTargetHexShortcuts(t *testing.T) {
	t.Parallel()

	black, err := TargetColor{Hex: "#000000"}.Resolve()
	if err != nil {
		t.Fatalf("resolve black: %v", err)
	}
	for _, v := range black {
		if v != minReflectance {
			t.Fatalf("black target should be a flat floor curve, got %v", v)
		}
	}

	white, err := TargetColor{Hex: "#FFFFFF"}.Resolve()
	if err != nil {
		t.Fatalf("resolve white: %v", err)
	}
	for _, v := range white {
		if v != 1.0 {
			t.Fatalf("white target should be a flat unit curve, got %v", v)
		}
	}
}

func TestResolveTargetErrors(t *testing.T) {
	t.Parallel()

	if _, err := (TargetColor{}).Resolve(); err == nil {
		t.Fatal("empty target should not resolve")
	}
	if _, err := (TargetColor{Hex: "ziggurat"}).Resolve(); err == nil {
		t.Fatal("malformed hex should not resolve")
	}
	if _, err := (TargetColor{Curve: make(Curve, 7)}).Resolve(); err == nil {
		t.Fatal("wrong-length curve should not resolve")
	}
}
