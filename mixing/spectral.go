package mixing

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	// CurveBands is the number of reflectance samples in a spectral curve:
	// 400nm to 700nm inclusive, 10nm steps.
	CurveBands = 31

	// The observer tables cover 380-730nm; a 31-band curve starts two
	// bands in.
	fullBands   = 36
	curveOffset = 2

	// Reflectance floor applied before the K/S division. Keeps K/S finite
	// for near-zero reflectance; not a physical claim.
	minReflectance = 1e-4
)

// Curve is a spectral reflectance curve: CurveBands samples, each in [0,1].
// Index is the wavelength band, so order is significant.
type Curve []float64

// Lab is a CIE Lab color (L* 0-100 scale).
type Lab struct {
	L float64 `json:"l"`
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// CIE 1964 10-degree standard observer color matching functions,
// 380nm to 730nm in 10nm steps.
var cmfX = [fullBands]float64{
	0.000160, 0.002362, 0.019110, 0.084736, 0.204492, 0.314679, 0.383734,
	0.370702, 0.302273, 0.195618, 0.080507, 0.016172, 0.003816, 0.037465,
	0.117749, 0.236491, 0.376772, 0.529826, 0.705224, 0.878655, 1.014160,
	1.118520, 1.123990, 1.030480, 0.856297, 0.647467, 0.431567, 0.268329,
	0.152568, 0.081261, 0.040851, 0.019941, 0.009577, 0.004539, 0.002175,
	0.001060,
}

var cmfY = [fullBands]float64{
	0.000017, 0.000253, 0.002004, 0.008756, 0.021391, 0.038676, 0.062077,
	0.089456, 0.128201, 0.185190, 0.253589, 0.339133, 0.460777, 0.606741,
	0.761757, 0.875211, 0.961988, 0.991761, 0.997340, 0.955552, 0.868934,
	0.777405, 0.658341, 0.527963, 0.398057, 0.283493, 0.179828, 0.107633,
	0.060281, 0.031800, 0.015905, 0.007749, 0.003718, 0.001762, 0.000846,
	0.000415,
}

var cmfZ = [fullBands]float64{
	0.000705, 0.010482, 0.086011, 0.389366, 0.972542, 1.553480, 1.967280,
	1.994800, 1.745370, 1.317560, 0.772125, 0.415254, 0.218502, 0.112044,
	0.060709, 0.030451, 0.013676, 0.003988, 0.000000, 0.000000, 0.000000,
	0.000000, 0.000000, 0.000000, 0.000000, 0.000000, 0.000000, 0.000000,
	0.000000, 0.000000, 0.000000, 0.000000, 0.000000, 0.000000, 0.000000,
	0.000000,
}

// White point derived by integrating the observer tables, so a flat
// R=1 curve maps to exactly L=100, a=0, b=0.
var (
	xyzScale float64 // 100 / sum(cmfY)
	whiteX   float64
	whiteY   = 100.0
	whiteZ   float64
)

func init() {
	var sx, sy, sz float64
	for i := 0; i < fullBands; i++ {
		sx += cmfX[i]
		sy += cmfY[i]
		sz += cmfZ[i]
	}
	xyzScale = 100.0 / sy
	whiteX = xyzScale * sx
	whiteZ = xyzScale * sz
}

// ReflectanceToKS converts a reflectance value to the Kubelka-Munk
// absorption/scattering ratio: K/S = (1-R)^2 / (2R).
func ReflectanceToKS(r float64) float64 {
	if r < minReflectance {
		r = minReflectance
	}
	return (1.0 - r) * (1.0 - r) / (2.0 * r)
}

// KSToReflectance inverts ReflectanceToKS: R = 1 + K/S - sqrt(K/S^2 + 2*K/S).
// The result is clamped into [0,1] to absorb floating-point drift.
func KSToReflectance(ks float64) float64 {
	if ks <= 0 {
		return 1.0 // no absorption
	}
	r := 1.0 + ks - math.Sqrt(ks*ks+2.0*ks)
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}

// padCurve extends a 31-band curve to the full observer range by repeating
// the edge samples.
func padCurve(c Curve) [fullBands]float64 {
	var full [fullBands]float64
	if len(c) == fullBands {
		copy(full[:], c)
		return full
	}
	for i := 0; i < curveOffset; i++ {
		full[i] = c[0]
	}
	copy(full[curveOffset:curveOffset+CurveBands], c)
	for i := curveOffset + CurveBands; i < fullBands; i++ {
		full[i] = c[CurveBands-1]
	}
	return full
}

// CurveToXYZ integrates a reflectance curve against the standard observer,
// scaled so a flat white curve lands on Y=100.
func CurveToXYZ(c Curve) (x, y, z float64) {
	full := padCurve(c)
	for i := 0; i < fullBands; i++ {
		x += full[i] * cmfX[i]
		y += full[i] * cmfY[i]
		z += full[i] * cmfZ[i]
	}
	return x * xyzScale, y * xyzScale, z * xyzScale
}

// CurveToLab is the single source of truth for what color a curve looks
// like under the fixed reference conditions.
func CurveToLab(c Curve) Lab {
	x, y, z := CurveToXYZ(c)
	return xyzToLab(x, y, z)
}

func labF(t float64) float64 {
	if t > 0.008856 {
		return math.Cbrt(t)
	}
	return 7.787*t + 16.0/116.0
}

func labFInv(t float64) float64 {
	t3 := t * t * t
	if t3 > 0.008856 {
		return t3
	}
	return (t - 16.0/116.0) / 7.787
}

func xyzToLab(x, y, z float64) Lab {
	fx := labF(x / whiteX)
	fy := labF(y / whiteY)
	fz := labF(z / whiteZ)
	return Lab{
		L: 116.0*fy - 16.0,
		A: 500.0 * (fx - fy),
		B: 200.0 * (fy - fz),
	}
}

// labToXYZ is the exact inverse of xyzToLab under the same white point.
func labToXYZ(lab Lab) (x, y, z float64) {
	fy := (lab.L + 16.0) / 116.0
	fx := fy + lab.A/500.0
	fz := fy - lab.B/200.0
	return labFInv(fx) * whiteX, labFInv(fy) * whiteY, labFInv(fz) * whiteZ
}

// DeltaE is the CIE76 color difference: Euclidean distance in Lab.
func DeltaE(a, b Lab) float64 {
	dl := a.L - b.L
	da := a.A - b.A
	db := a.B - b.B
	return math.Sqrt(dl*dl + da*da + db*db)
}

// Hex renders the curve's display color as an sRGB hex string.
func (c Curve) Hex() string {
	x, y, z := CurveToXYZ(c)
	return colorful.Xyz(x/100.0, y/100.0, z/100.0).Clamped().Hex()
}

// IsFinite reports whether every sample of the curve is a finite number.
func (c Curve) IsFinite() bool {
	for _, v := range c {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// HexToLab parses an sRGB hex string like "#1b998b" into a Lab color.
func HexToLab(hex string) (Lab, error) {
	col, err := colorful.Hex(hex)
	if err != nil {
		return Lab{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	l, a, b := col.Lab()
	return Lab{L: l * 100.0, A: a * 100.0, B: b * 100.0}, nil
}
