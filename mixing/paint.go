package mixing

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// Role tags a paint by the part it can play in a mixing strategy.
type Role int

const (
	RoleChromatic Role = iota
	RoleWhite
	RoleBlack
	RoleGrey
)

func (r Role) String() string {
	switch r {
	case RoleWhite:
		return "white"
	case RoleBlack:
		return "black"
	case RoleGrey:
		return "grey"
	default:
		return "chromatic"
	}
}

// Paint is one catalogue entry: immutable identity, a measured spectral
// curve and a precomputed display hex. Read-only for the duration of a
// search.
type Paint struct {
	ID    string `json:"id"`
	Brand string `json:"brand"`
	Curve Curve  `json:"-"`
	Hex   string `json:"hex"`
	Role  Role   `json:"-"`
}

// NewPaint builds a Paint, deriving its role tag from the catalogue id.
func NewPaint(id, brand string, curve Curve, hex string) Paint {
	return Paint{
		ID:    id,
		Brand: brand,
		Curve: curve,
		Hex:   hex,
		Role:  ClassifyRole(id),
	}
}

// ClassifyRole tags a paint from its catalogue id. Greys win over white
// and black so "grey of grey" style names don't anchor a black/white
// strategy.
func ClassifyRole(id string) Role {
	name := strings.ToLower(id)
	switch {
	case strings.Contains(name, "grey") || strings.Contains(name, "gray"):
		return RoleGrey
	case strings.Contains(name, "black"):
		return RoleBlack
	case strings.Contains(name, "white"):
		return RoleWhite
	default:
		return RoleChromatic
	}
}

// TargetColor is the color a search should match: an sRGB hex string, a
// Lab triple, or an already-spectral curve. Exactly one is used; a
// pre-supplied curve wins over Lab, which wins over hex.
type TargetColor struct {
	Hex   string
	Lab   *Lab
	Curve Curve
}

// Resolve turns the target into a single spectral curve, reconstructing
// one from the perceptual color if necessary.
func (t TargetColor) Resolve() (Curve, error) {
	if t.Curve != nil {
		if len(t.Curve) != CurveBands {
			return nil, fmt.Errorf("target curve has %d bands, expected %d", len(t.Curve), CurveBands)
		}
		return t.Curve, nil
	}

	lab := t.Lab
	if lab == nil {
		if t.Hex == "" {
			return nil, fmt.Errorf("target color is empty")
		}
		switch strings.ToLower(t.Hex) {
		case "#000000":
			return flatCurve(minReflectance), nil
		case "#ffffff":
			return flatCurve(1.0), nil
		}
		parsed, err := HexToLab(t.Hex)
		if err != nil {
			return nil, err
		}
		lab = &parsed
	}

	return Reconstruct(*lab)
}

func flatCurve(v float64) Curve {
	c := make(Curve, CurveBands)
	for i := range c {
		c[i] = v
	}
	return c
}

// DecodeCurve parses a binary-encoded spectral curve as stored in the
// catalogue: little-endian float64 samples, optionally preceded by a
// little-endian uint64 sample count.
func DecodeCurve(data []byte) (Curve, error) {
	const sample = 8
	raw := data
	if len(raw) == sample*(CurveBands+1) {
		n := binary.LittleEndian.Uint64(raw[:sample])
		if n != CurveBands {
			return nil, fmt.Errorf("spectral curve claims %d samples, expected %d", n, CurveBands)
		}
		raw = raw[sample:]
	}
	if len(raw) != sample*CurveBands {
		return nil, fmt.Errorf("spectral curve is %d bytes, expected %d samples", len(data), CurveBands)
	}

	c := make(Curve, CurveBands)
	for i := range c {
		v := math.Float64frombits(binary.LittleEndian.Uint64(raw[i*sample:]))
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("spectral curve sample %d is not finite", i)
		}
		// Stored curves never carry values outside [0,1]; clamp drift
		// from upstream measurement anyway.
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		c[i] = v
	}
	return c, nil
}

// EncodeCurve is the inverse of DecodeCurve, emitting the length-prefixed
// layout the catalogue importer writes.
func EncodeCurve(c Curve) ([]byte, error) {
	if len(c) != CurveBands {
		return nil, fmt.Errorf("curve has %d bands, expected %d", len(c), CurveBands)
	}
	buf := make([]byte, 8*(CurveBands+1))
	binary.LittleEndian.PutUint64(buf[:8], CurveBands)
	for i, v := range c {
		binary.LittleEndian.PutUint64(buf[8*(i+1):], math.Float64bits(v))
	}
	return buf, nil
}
