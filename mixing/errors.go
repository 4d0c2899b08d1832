package mixing

import (
	"errors"
	"fmt"
)

// ErrEmptyCatalogue is returned when a search is started with no paints.
var ErrEmptyCatalogue = errors.New("paint catalogue is empty")

// ReconstructionError means no plausible spectral curve was found within
// tolerance for a perceptual target.
type ReconstructionError struct {
	Target    Lab
	BestError float64
}

func (e ReconstructionError) Error() string {
	return fmt.Sprintf("no spectral curve reaches Lab(%.2f, %.2f, %.2f): best residual %.4f",
		e.Target.L, e.Target.A, e.Target.B, e.BestError)
}

// InsufficientPaintsError means the chosen strategy needs a role or a
// minimum paint count the supplied catalogue cannot provide. Detected
// before any optimization work starts.
type InsufficientPaintsError struct {
	Choice  MixChoice
	Missing string
}

func (e InsufficientPaintsError) Error() string {
	return fmt.Sprintf("strategy %q needs %s", e.Choice, e.Missing)
}
