package mixing

// Mix simulates physically blending paints: for each wavelength band the
// paints' reflectances are converted to K/S, averaged with the mixing
// weights (pigments are additive in K/S space, not in reflectance space)
// and converted back. Weights must be non-negative and sum to 1; this
// function does not renormalize. Pure function, identical inputs give
// identical outputs.
func Mix(curves []Curve, weights []float64) Curve {
	mixed := make(Curve, CurveBands)
	for band := 0; band < CurveBands; band++ {
		var ks float64
		for j, w := range weights {
			ks += w * ReflectanceToKS(curves[j][band])
		}
		mixed[band] = KSToReflectance(ks)
	}
	return mixed
}
