package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/paint-mix/api/datastore"
	"github.com/paint-mix/api/mixing"
	"github.com/paint-mix/api/models"
)

// GET /v1/paints/brands - List catalogue brands
func (app *Application) getPaintBrands(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		app.requireGetMethod(w, r, ErrGET)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(app.PaintRepo.Brands())
}

// GET /v1/paints/colors?brand=... - List a brand's catalogue colors
func (app *Application) getPaintColors(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		app.requireGetMethod(w, r, ErrGET)
		return
	}

	brand := r.URL.Query().Get("brand")
	if brand == "" {
		app.badRequest(w, r, errors.New("brand is required"))
		return
	}

	colors, getErr := app.PaintRepo.GetPaintColors(brand)
	if getErr != nil {
		app.badRequest(w, r, getErr)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(colors)
}

// GET|PUT /v1/settings
func (app *Application) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		app.getSettings(w, r)
	case http.MethodPut:
		app.updateSettings(w, r)
	default:
		app.requirePutMethod(w, r, ErrPUT)
	}
}

func (app *Application) getSettings(w http.ResponseWriter, r *http.Request) {
	user, err := app.getUserFromJWT(r)
	if err != nil {
		app.invalidAuthorization(w, r, err)
		return
	}

	settings, getErr := app.SettingsRepo.Get(user.UserID)
	if getErr != nil {
		var noRows datastore.NoRowsError
		if errors.As(getErr, &noRows) && noRows.NoRows {
			// New users get defaults rather than a 404.
			settings = models.UserPaintSettings{
				MixChoice: string(mixing.BlackWhite2),
				Colors:    []string{},
			}
		} else {
			app.internalServerError(w, r, getErr)
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(settings)
}

func (app *Application) updateSettings(w http.ResponseWriter, r *http.Request) {
	user, err := app.getUserFromJWT(r)
	if err != nil {
		app.invalidAuthorization(w, r, err)
		return
	}

	settings := models.UserPaintSettings{}
	if decodeErr := json.NewDecoder(r.Body).Decode(&settings); decodeErr != nil {
		app.badJSONRequest(w, r, decodeErr)
		return
	}

	if _, parseErr := mixing.ParseMixChoice(settings.MixChoice); parseErr != nil {
		app.badRequest(w, r, parseErr)
		return
	}
	if settings.Brand != "" {
		if _, brandErr := app.PaintRepo.GetPaintColors(settings.Brand); brandErr != nil {
			app.badRequest(w, r, brandErr)
			return
		}
	}

	if upsertErr := app.SettingsRepo.Upsert(user.UserID, user.Email, settings); upsertErr != nil {
		app.internalServerError(w, r, upsertErr)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(settings)
}

// loadUserPaints resolves the caller's saved brand and color selection into
// full spectral paint records.
func (app *Application) loadUserPaints(r *http.Request) (models.User, models.UserPaintSettings, []mixing.Paint, error) {
	user, err := app.getUserFromJWT(r)
	if err != nil {
		return models.User{}, models.UserPaintSettings{}, nil, err
	}

	settings, getErr := app.SettingsRepo.Get(user.UserID)
	if getErr != nil {
		var noRows datastore.NoRowsError
		if errors.As(getErr, &noRows) && noRows.NoRows {
			return user, models.UserPaintSettings{}, nil, errors.New("no paints selected; save your paint settings first")
		}
		return user, models.UserPaintSettings{}, nil, getErr
	}

	if settings.Brand == "" || len(settings.Colors) == 0 {
		return user, settings, nil, errors.New("no paints selected; save your paint settings first")
	}

	paints, paintsErr := app.PaintRepo.GetPaints(settings.Brand, settings.Colors)
	if paintsErr != nil {
		return user, settings, nil, paintsErr
	}
	return user, settings, paints, nil
}

// POST /v1/mix/find - Search paint combinations matching a target color
func (app *Application) findMix(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		app.requirePostMethod(w, r, ErrPOST)
		return
	}

	request := models.MixRequest{}
	if decodeErr := json.NewDecoder(r.Body).Decode(&request); decodeErr != nil {
		app.badJSONRequest(w, r, decodeErr)
		return
	}
	if request.Hex == "" && request.Lab == nil {
		app.badRequest(w, r, errors.New("either hex or lab target is required"))
		return
	}

	_, settings, paints, loadErr := app.loadUserPaints(r)
	if loadErr != nil {
		app.badRequest(w, r, loadErr)
		return
	}
	if len(paints) < 3 {
		app.badRequest(w, r, fmt.Errorf("need at least 3 selected paints with spectral data, have %d", len(paints)))
		return
	}

	choice := mixing.BlackWhite2
	if settings.MixChoice != "" {
		parsed, parseErr := mixing.ParseMixChoice(settings.MixChoice)
		if parseErr != nil {
			app.badRequest(w, r, parseErr)
			return
		}
		choice = parsed
	}

	target := mixing.TargetColor{Hex: request.Hex, Lab: request.Lab}
	results, findErr := app.Mixer.FindBestMixtures(target, paints, choice)
	if findErr != nil {
		var insufficient mixing.InsufficientPaintsError
		var unreachable mixing.ReconstructionError
		switch {
		case errors.As(findErr, &insufficient):
			app.insufficientPaints(w, r, findErr)
		case errors.As(findErr, &unreachable):
			app.unreachableTarget(w, r, findErr)
		case errors.Is(findErr, mixing.ErrEmptyCatalogue):
			app.badRequest(w, r, findErr)
		default:
			app.internalServerError(w, r, findErr)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(results)
}

// POST /v1/mix/test - Simulate an explicit mixture of selected paints
func (app *Application) testMix(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		app.requirePostMethod(w, r, ErrPOST)
		return
	}

	request := models.TestMixRequest{}
	if decodeErr := json.NewDecoder(r.Body).Decode(&request); decodeErr != nil {
		app.badJSONRequest(w, r, decodeErr)
		return
	}
	if len(request.Paints) == 0 {
		app.badRequest(w, r, errors.New("at least one paint is required"))
		return
	}
	if len(request.Weights) != len(request.Paints) {
		app.badRequest(w, r, errors.New("paints and weights must have the same length"))
		return
	}

	_, _, paints, loadErr := app.loadUserPaints(r)
	if loadErr != nil {
		app.badRequest(w, r, loadErr)
		return
	}

	byID := make(map[string]mixing.Paint, len(paints))
	for _, p := range paints {
		byID[p.ID] = p
	}

	// Keep the caller's paint order so weights line up.
	curves := make([]mixing.Curve, 0, len(request.Paints))
	var total float64
	for i, id := range request.Paints {
		paint, ok := byID[id]
		if !ok {
			app.badRequest(w, r, fmt.Errorf("paint %q is not in your selection", id))
			return
		}
		weight := request.Weights[i]
		if weight < 0 {
			app.badRequest(w, r, fmt.Errorf("weight for paint %q is negative", id))
			return
		}
		curves = append(curves, paint.Curve)
		total += weight
	}
	if total <= 0 {
		app.badRequest(w, r, errors.New("weights must sum to a positive value"))
		return
	}

	// A single paint renders its measured catalogue color directly.
	if len(request.Paints) == 1 {
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(models.TestMixResponse{Hex: byID[request.Paints[0]].Hex})
		return
	}

	weights := make([]float64, len(request.Weights))
	for i, weight := range request.Weights {
		weights[i] = weight / total
	}

	mixed := mixing.Mix(curves, weights)
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(models.TestMixResponse{Hex: mixed.Hex()})
}
