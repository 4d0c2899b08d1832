package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/paint-mix/api/datastore"
	"github.com/paint-mix/api/models"
)

const (
	verifyTokenTTL = 24 * time.Hour
	resetTokenTTL  = time.Hour
)

// GET /
func (app *Application) home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "Paint Mix API")
}

// POST /v1/auth/signup
func (app *Application) signup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		app.requirePostMethod(w, r, ErrPOST)
		return
	}

	userSignup := &models.UserSignupRequest{}
	errParsingJson := json.NewDecoder(r.Body).Decode(userSignup)
	if errParsingJson != nil {
		app.badJSONRequest(w, r, errParsingJson)
		return
	}

	if !strings.Contains(userSignup.Email, "@") {
		app.badRequest(w, r, errors.New("a valid email address is required"))
		return
	}
	if len(userSignup.Password) < 8 {
		app.badRequest(w, r, errors.New("password must be at least 8 characters"))
		return
	}

	// Create new user
	newUser, newUserErr := models.NewUser(*userSignup)
	if newUserErr != nil {
		app.internalServerError(w, r, newUserErr)
		return
	}

	// Check if email already exists
	_, getErr := app.UserRepo.GetUserByEmail(newUser.Email)
	if getErr == nil {
		app.userAlreadyExists(w, r, getErr)
		return
	}

	// Store new user in database
	storedUser, errStoringNewUser := app.UserRepo.Create(newUser)
	if errStoringNewUser != nil {
		app.internalServerError(w, r, errStoringNewUser)
		return
	}

	// Send the verification email. Delivery failures shouldn't undo the
	// signup; the user can request another token via forgot-password flow.
	token, tokenErr := app.TokenRepo.Create(storedUser.UserID, datastore.TokenKindVerify, verifyTokenTTL)
	if tokenErr != nil {
		log.Printf("error creating verification token for %s: %v", storedUser.UserID, tokenErr)
	} else if sendErr := app.Mailer.SendVerification(storedUser.Email, token); sendErr != nil {
		log.Printf("error sending verification email to %s: %v", storedUser.Email, sendErr)
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(storedUser)
}

// POST /v1/auth/login
func (app *Application) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		app.requirePostMethod(w, r, ErrPOST)
		return
	}

	creds := &models.Credentials{}
	if err := json.NewDecoder(r.Body).Decode(creds); err != nil {
		app.badJSONRequest(w, r, err)
		return
	}

	// Validate user credentials
	user, err := app.UserRepo.ValidateAndGetUser(*creds)
	if err != nil {
		app.invalidCredentials(w, r, err)
		return
	}

	if !user.EmailVerified {
		app.invalidCredentials(w, r, errors.New("email not verified"))
		return
	}

	// Generate JWT access token
	accessExpiry := time.Now().Add(time.Second * time.Duration(app.Config.JwtAccessDuration))

	accessClaims := models.JWTClaims{
		UserID:    user.UserID,
		Email:     user.Email,
		Scope:     "authentication",
		TokenType: models.JWT.ACCESS_COOKIE_NAME,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(accessExpiry),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims)
	accessTokenString, err := accessToken.SignedString([]byte(app.Config.JwtSecret))
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	sameSite := http.SameSiteStrictMode
	if app.Config.JwtDomain == "" {
		sameSite = http.SameSiteNoneMode
	}

	// Set access token cookie
	http.SetCookie(w, &http.Cookie{
		Name:     models.JWT.ACCESS_COOKIE_NAME,
		Value:    accessTokenString,
		HttpOnly: true,
		Secure:   !app.Config.DevMode,
		SameSite: sameSite,
		Path:     "/",
		Domain:   app.Config.JwtDomain,
		Expires:  accessExpiry,
	})

	w.WriteHeader(http.StatusOK)
}

// POST /v1/auth/logout
func (app *Application) logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		app.requirePostMethod(w, r, ErrPOST)
		return
	}

	sameSite := http.SameSiteStrictMode
	if app.Config.JwtDomain == "" {
		sameSite = http.SameSiteNoneMode
	}

	// Expire the access token cookie
	http.SetCookie(w, &http.Cookie{
		Name:     models.JWT.ACCESS_COOKIE_NAME,
		Value:    "",
		HttpOnly: true,
		Secure:   !app.Config.DevMode,
		SameSite: sameSite,
		Path:     "/",
		Domain:   app.Config.JwtDomain,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})

	w.WriteHeader(http.StatusOK)
}

// GET /v1/auth/verify-email?token=...
func (app *Application) verifyEmail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		app.requireGetMethod(w, r, ErrGET)
		return
	}

	token := r.URL.Query().Get("token")
	if token == "" {
		app.badRequest(w, r, errors.New("token is required"))
		return
	}

	userID, consumeErr := app.TokenRepo.Consume(token, datastore.TokenKindVerify)
	if consumeErr != nil {
		app.badRequest(w, r, consumeErr)
		return
	}

	if verifyErr := app.UserRepo.SetEmailVerified(userID); verifyErr != nil {
		app.internalServerError(w, r, verifyErr)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "email verified"})
}

// POST /v1/auth/forgot-password
func (app *Application) forgotPassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		app.requirePostMethod(w, r, ErrPOST)
		return
	}

	request := struct {
		Email string `json:"email"`
	}{}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		app.badJSONRequest(w, r, err)
		return
	}

	// Always answer 200 so the endpoint can't be used to probe for
	// registered email addresses.
	user, getErr := app.UserRepo.GetUserByEmail(request.Email)
	if getErr == nil {
		token, tokenErr := app.TokenRepo.Create(user.UserID, datastore.TokenKindReset, resetTokenTTL)
		if tokenErr != nil {
			log.Printf("error creating reset token for %s: %v", user.UserID, tokenErr)
		} else if sendErr := app.Mailer.SendPasswordReset(user.Email, token); sendErr != nil {
			log.Printf("error sending reset email to %s: %v", user.Email, sendErr)
		}
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "if the email exists, a reset link was sent"})
}

// POST /v1/auth/reset-password
func (app *Application) resetPassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		app.requirePostMethod(w, r, ErrPOST)
		return
	}

	request := struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}{}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		app.badJSONRequest(w, r, err)
		return
	}

	if len(request.Password) < 8 {
		app.badRequest(w, r, errors.New("password must be at least 8 characters"))
		return
	}

	userID, consumeErr := app.TokenRepo.Consume(request.Token, datastore.TokenKindReset)
	if consumeErr != nil {
		app.badRequest(w, r, consumeErr)
		return
	}

	var user models.User
	hashedPassword, hashErr := user.GenerateHash(request.Password)
	if hashErr != nil {
		app.internalServerError(w, r, hashErr)
		return
	}

	if updateErr := app.UserRepo.UpdatePassword(userID, hashedPassword); updateErr != nil {
		app.internalServerError(w, r, updateErr)
		return
	}

	// A successful reset also clears any lockout.
	if clearErr := app.UserRepo.SetFailedAttempts(userID, 0, nil); clearErr != nil {
		log.Printf("error clearing failed attempts for %s: %v", userID, clearErr)
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "password updated"})
}

// GET /v1/users/me - Get current authenticated user
func (app *Application) getCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := app.getUserFromJWT(r)
	if err != nil {
		app.invalidAuthorization(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(user)
}
