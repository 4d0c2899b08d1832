package mixing

import (
	"math"
	"sort"
)

const (
	optMaxIter   = 300
	optGradDelta = 1e-4
	optErrFloor  = 1e-8

	// Iterations without meaningful improvement before a restart gives up.
	optStallLimit = 30
)

// optimizeWeights searches the weight simplex for the vector minimizing
// the perceptual error of the simulated mix against the target. Projected
// gradient descent with a finite-difference gradient; the objective is
// non-convex, so several deterministic starting points (uniform, then each
// paint dominant in turn) are tried and the best result kept.
func optimizeWeights(curves []Curve, targetLab Lab) ([]float64, float64) {
	n := len(curves)

	best := make([]float64, n)
	bestErr := math.MaxFloat64

	for _, start := range restartPoints(n) {
		w, err := descend(curves, targetLab, start)
		if err < bestErr {
			bestErr = err
			copy(best, w)
		}
	}
	return best, bestErr
}

func restartPoints(n int) [][]float64 {
	points := make([][]float64, 0, n+1)

	uniform := make([]float64, n)
	for i := range uniform {
		uniform[i] = 1.0 / float64(n)
	}
	points = append(points, uniform)

	for dom := 0; dom < n; dom++ {
		w := make([]float64, n)
		for i := range w {
			if i == dom {
				w[i] = 0.7
			} else {
				w[i] = 0.3 / float64(n-1)
			}
		}
		points = append(points, w)
	}
	return points
}

func descend(curves []Curve, targetLab Lab, start []float64) ([]float64, float64) {
	n := len(start)
	w := append([]float64(nil), start...)

	best := append([]float64(nil), w...)
	bestErr := math.MaxFloat64

	alpha := 0.5
	stall := 0
	grad := make([]float64, n)
	probe := make([]float64, n)

	for iter := 0; iter < optMaxIter; iter++ {
		cur := mixError(curves, w, targetLab)
		if math.IsNaN(cur) {
			break
		}
		if cur < bestErr-1e-12 {
			bestErr = cur
			copy(best, w)
			stall = 0
		} else {
			stall++
		}
		if cur < optErrFloor || stall > optStallLimit {
			break
		}

		// Shrink the step as the search settles.
		if iter > 0 && iter%50 == 0 {
			alpha *= 0.9
		}

		for i := 0; i < n; i++ {
			copy(probe, w)
			probe[i] += optGradDelta
			projectSimplex(probe)
			probed := mixError(curves, probe, targetLab)
			if math.IsNaN(probed) {
				grad[i] = 0
				continue
			}
			grad[i] = (probed - cur) / optGradDelta
		}

		for i := 0; i < n; i++ {
			w[i] -= alpha * grad[i]
		}
		projectSimplex(w)
	}

	return best, bestErr
}

func mixError(curves []Curve, weights []float64, targetLab Lab) float64 {
	mixed := Mix(curves, weights)
	if !mixed.IsFinite() {
		return math.NaN()
	}
	return DeltaE(CurveToLab(mixed), targetLab)
}

// projectSimplex replaces w with its Euclidean projection onto the
// probability simplex, so every entry stays non-negative and the vector
// sums to one.
func projectSimplex(w []float64) {
	sorted := append([]float64(nil), w...)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))

	var cumulative, theta float64
	for i, u := range sorted {
		cumulative += u
		t := (cumulative - 1.0) / float64(i+1)
		if u-t > 0 {
			theta = t
		}
	}
	for i, v := range w {
		w[i] = math.Max(v-theta, 0)
	}
}
