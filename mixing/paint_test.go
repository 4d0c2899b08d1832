package mixing

import (
	"math"
	"testing"
)

func TestClassifyRole(t *testing.T) {
	t.Parallel()

	cases := map[string]Role{
		"Titanium White":     RoleWhite,
		"Warm White":         RoleWhite,
		"Ivory Black":        RoleBlack,
		"Lamp Black":         RoleBlack,
		"Neutral Grey 5":     RoleGrey,
		"Davy's Gray":        RoleGrey,
		"Cadmium Red":        RoleChromatic,
		"French Ultramarine": RoleChromatic,
	}
	for id, want := range cases {
		if got := ClassifyRole(id); got != want {
			t.Fatalf("ClassifyRole(%q) = %v, want %v", id, got, want)
		}
	}
}

func TestCurveCodecRoundTrip(t *testing.T) {
	t.Parallel()

	original := rampCurve(0.1, 0.9)
	encoded, err := EncodeCurve(original)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeCurve(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	for band := range original {
		if decoded[band] != original[band] {
			t.Fatalf("band %d changed: %v -> %v", band, original[band], decoded[band])
		}
	}
}

func TestDecodeCurveBareArray(t *testing.T) {
	t.Parallel()

	encoded, err := EncodeCurve(flatCurve(0.5))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	// Strip the count prefix; importers sometimes store raw samples.
	decoded, err := DecodeCurve(encoded[8:])
	if err != nil {
		t.Fatalf("decode bare array: %v", err)
	}
	if decoded[0] != 0.5 {
		t.Fatalf("unexpected sample %v", decoded[0])
	}
}

func TestDecodeCurveRejectsBadInput(t *testing.T) {
	t.Parallel()

	if _, err := DecodeCurve(make([]byte, 13)); err == nil {
		t.Fatal("expected an error for a truncated curve")
	}

	encoded, _ := EncodeCurve(flatCurve(0.5))
	encoded[0] = 99 // corrupt the count prefix
	if _, err := DecodeCurve(encoded); err == nil {
		t.Fatal("expected an error for a wrong sample count")
	}

	bad := flatCurve(0.5)
	bad[3] = math.NaN()
	encodedBad, err := EncodeCurve(bad)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := DecodeCurve(encodedBad); err == nil {
		t.Fatal("expected an error for a NaN sample")
	}
}

func TestDecodeCurveClampsRange(t *testing.T) {
	t.Parallel()

	c := flatCurve(0.5)
	c[0] = -0.2
	c[1] = 1.4
	encoded, err := EncodeCurve(c)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeCurve(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded[0] != 0 || decoded[1] != 1 {
		t.Fatalf("out-of-range samples should clamp, got %v and %v", decoded[0], decoded[1])
	}
}

func TestNewPaintDerivesRole(t *testing.T) {
	t.Parallel()

	p := NewPaint("Ivory Black", "test brand", flatCurve(0.02), "#050505")
	if p.Role != RoleBlack {
		t.Fatalf("expected black role, got %v", p.Role)
	}
	if p.ID != "Ivory Black" || p.Brand != "test brand" {
		t.Fatalf("identity fields mangled: %+v", p)
	}
}
