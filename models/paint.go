package models

import (
	"github.com/paint-mix/api/mixing"
)

// PaintBrand is a selectable catalogue brand.
type PaintBrand struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PaintColorInfo is one catalogue entry as shown in the paint picker.
type PaintColorInfo struct {
	ID  string `json:"id"`
	Hex string `json:"hex"`
}

// UserPaintSettings is the saved mixing setup: strategy, brand and the
// user's selected color ids.
type UserPaintSettings struct {
	MixChoice string   `json:"mixChoice"`
	Brand     string   `json:"brand"`
	Colors    []string `json:"colors"`
}

// MixRequest is the target for a combination search. Either an sRGB hex
// string or a Lab triple.
type MixRequest struct {
	Hex string      `json:"hex,omitempty"`
	Lab *mixing.Lab `json:"lab,omitempty"`
}

// TestMixRequest asks for the simulated color of an explicit mixture.
type TestMixRequest struct {
	Paints  []string  `json:"paints"`
	Weights []float64 `json:"weights"`
}

// TestMixResponse carries the simulated display color.
type TestMixResponse struct {
	Hex string `json:"hex"`
}
