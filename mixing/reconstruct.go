package mixing

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	reconMaxIter = 500
	reconTol     = 1e-6

	// Largest acceptable perceptual miss for the best-effort fallback
	// when the Newton iteration hits the cap without converging.
	reconAcceptDeltaE = 1.0
)

// Second-difference smoothness operator over the full observer range.
// Ties each band to its neighbours so the reconstructed curve is the
// least structured one consistent with the target color (metamerism
// tie-break).
var smoothness = buildSmoothness()

func buildSmoothness() []float64 {
	d := make([]float64, fullBands*fullBands)
	for i := 0; i < fullBands; i++ {
		d[i*fullBands+i] = 4
		if i > 0 {
			d[i*fullBands+i-1] = -2
		}
		if i < fullBands-1 {
			d[i*fullBands+i+1] = -2
		}
	}
	d[0] = 2
	d[(fullBands-1)*fullBands+fullBands-1] = 2
	return d
}

// Reconstruct derives a plausible spectral reflectance curve for a
// perceptual target. Infinitely many curves produce the same perceived
// color; the smoothest one is picked by Newton-Raphson refinement of a
// change-of-variables problem where R = (tanh(z)+1)/2 keeps every band in
// (0,1) and Lagrange multipliers pin the curve's tristimulus response to
// the target. Deterministic: the iteration always starts from the neutral
// z=0 curve.
func Reconstruct(target Lab) (Curve, error) {
	tx, ty, tz := labToXYZ(target)
	// Raw tristimulus units, matching an unscaled integration of the
	// observer tables.
	want := [3]float64{tx / xyzScale, ty / xyzScale, tz / xyzScale}

	const dim = fullBands + 3

	z := make([]float64, fullBands)
	lambda := make([]float64, 3)

	bestZ := make([]float64, fullBands)
	bestErr := math.MaxFloat64

	jac := mat.NewDense(dim, dim, nil)
	rhs := mat.NewVecDense(dim, nil)
	delta := mat.NewVecDense(dim, nil)

	d0 := make([]float64, fullBands)
	d1 := make([]float64, fullBands)
	d2 := make([]float64, fullBands)
	resid := make([]float64, dim)

	for iter := 0; iter < reconMaxIter; iter++ {
		for i, zi := range z {
			th := math.Tanh(zi)
			sech2 := 1.0 / (math.Cosh(zi) * math.Cosh(zi))
			d0[i] = (th + 1.0) / 2.0
			d1[i] = sech2 / 2.0
			d2[i] = -sech2 * th
		}

		// Stationarity residual: D*z + d1 .* (T' * lambda).
		for i := 0; i < fullBands; i++ {
			var dz float64
			row := smoothness[i*fullBands : (i+1)*fullBands]
			for k, dv := range row {
				if dv != 0 {
					dz += dv * z[k]
				}
			}
			tl := cmfX[i]*lambda[0] + cmfY[i]*lambda[1] + cmfZ[i]*lambda[2]
			resid[i] = dz + d1[i]*tl
		}
		// Constraint residual: T*d0 - target.
		var rx, ry, rz float64
		for i := 0; i < fullBands; i++ {
			rx += cmfX[i] * d0[i]
			ry += cmfY[i] * d0[i]
			rz += cmfZ[i] * d0[i]
		}
		resid[fullBands] = rx - want[0]
		resid[fullBands+1] = ry - want[1]
		resid[fullBands+2] = rz - want[2]

		var sumSq float64
		converged := true
		for _, r := range resid {
			sumSq += r * r
			if math.Abs(r) >= reconTol {
				converged = false
			}
		}
		if sumSq < bestErr {
			bestErr = sumSq
			copy(bestZ, z)
		}
		if converged {
			return curveFromZ(z), nil
		}

		buildJacobian(jac, lambda, d1, d2)
		for i, r := range resid {
			rhs.SetVec(i, -r)
		}
		if err := solveNewtonStep(jac, rhs, delta); err != nil {
			break
		}

		for i := 0; i < fullBands; i++ {
			z[i] += delta.AtVec(i)
		}
		for m := 0; m < 3; m++ {
			lambda[m] += delta.AtVec(fullBands + m)
		}
	}

	// The cap was reached (or the step became unsolvable): fall back to
	// the closest curve seen, but only if it is perceptually honest.
	best := curveFromZ(bestZ)
	miss := DeltaE(CurveToLab(best), target)
	if miss < reconAcceptDeltaE {
		return best, nil
	}
	return nil, ReconstructionError{Target: target, BestError: miss}
}

func curveFromZ(z []float64) Curve {
	c := make(Curve, CurveBands)
	for i := 0; i < CurveBands; i++ {
		c[i] = (math.Tanh(z[curveOffset+i]) + 1.0) / 2.0
	}
	return c
}

func buildJacobian(jac *mat.Dense, lambda, d1, d2 []float64) {
	jac.Zero()
	for i := 0; i < fullBands; i++ {
		row := smoothness[i*fullBands : (i+1)*fullBands]
		for k, dv := range row {
			if dv != 0 {
				jac.Set(i, k, dv)
			}
		}
		tl := cmfX[i]*lambda[0] + cmfY[i]*lambda[1] + cmfZ[i]*lambda[2]
		jac.Set(i, i, jac.At(i, i)+d2[i]*tl)

		jac.Set(i, fullBands, d1[i]*cmfX[i])
		jac.Set(i, fullBands+1, d1[i]*cmfY[i])
		jac.Set(i, fullBands+2, d1[i]*cmfZ[i])

		jac.Set(fullBands, i, cmfX[i]*d1[i])
		jac.Set(fullBands+1, i, cmfY[i]*d1[i])
		jac.Set(fullBands+2, i, cmfZ[i]*d1[i])
	}
}

// solveNewtonStep solves jac*delta = rhs, falling back to a pseudo-inverse
// solve when the Jacobian goes singular mid-iteration.
func solveNewtonStep(jac *mat.Dense, rhs, delta *mat.VecDense) error {
	var lu mat.LU
	lu.Factorize(jac)
	err := lu.SolveVecTo(delta, false, rhs)
	if err == nil {
		return nil
	}
	if _, ok := err.(mat.Condition); ok {
		// Ill-conditioned but solved; the best-seen tracking absorbs a
		// noisy step.
		return nil
	}

	var svd mat.SVD
	if !svd.Factorize(jac, mat.SVDThin) {
		return err
	}
	const rankTol = 1e-10
	values := svd.Values(nil)
	rank := 0
	for _, s := range values {
		if s > rankTol {
			rank++
		}
	}
	if rank == 0 {
		return err
	}
	var sol mat.Dense
	svd.SolveTo(&sol, rhs, rank)
	for i := 0; i < delta.Len(); i++ {
		delta.SetVec(i, sol.At(i, 0))
	}
	return nil
}
