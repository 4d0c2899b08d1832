package api

import (
	"errors"
	"net/http"

	"github.com/paint-mix/api/models"
)

func handleCors(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Headers", "Access-Control-Allow-Credentials, Access-Control-Allow-Origin, Accept, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")
		if r.Method == "OPTIONS" {
			return
		} else {
			h.ServeHTTP(w, r)
		}
	}
}

// getUserFromJWT attempts to get user from JWT access token cookie
func (app *Application) getUserFromJWT(r *http.Request) (models.User, error) {
	cookie, err := r.Cookie(models.JWT.ACCESS_COOKIE_NAME)
	if err != nil {
		return models.User{}, errors.New("no JWT cookie found")
	}

	claims, err := models.ValidateJWTToken(cookie.Value, app.Config.JwtSecret)
	if err != nil {
		return models.User{}, errors.New("invalid JWT token")
	}
	if claims.Scope != "authentication" {
		return models.User{}, errors.New("invalid token claims")
	}

	// Get user from database
	user, err := app.UserRepo.Get(claims.UserID)
	if err != nil {
		return models.User{}, err
	}

	return user, nil
}

// authenticate that the user exists and has a verified email
func (app *Application) authenticate(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := app.getUserFromJWT(r)
		if err != nil {
			app.invalidAuthorization(w, r, err)
			return
		}

		if !user.EmailVerified {
			app.invalidAuthorization(w, r, errors.New("email not verified"))
			return
		}

		h.ServeHTTP(w, r)
	}
}
