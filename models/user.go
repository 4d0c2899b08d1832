package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	// Failed logins before the account locks, and for how long.
	MaxFailedAttempts = 5
	LockoutDuration   = 15 * time.Minute
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserSignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type User struct {
	UserID         string     `json:"userId" db:"user_id"`
	Email          string     `json:"email" db:"email"`
	HashedPassword string     `json:"-" db:"password_hash"`
	EmailVerified  bool       `json:"emailVerified" db:"email_verified"`
	FailedAttempts int        `json:"-" db:"failed_attempts"`
	LockedUntil    *time.Time `json:"-" db:"locked_until"`
	CreatedAt      time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time  `json:"updatedAt" db:"updated_at"`
}

func (user User) Serialize() ([]byte, error) {
	jsonUser, err := json.Marshal(user)
	if err != nil {
		return []byte{}, fmt.Errorf("error parsing json for User %v", err)
	}
	return []byte(jsonUser), nil
}

func (user User) GenerateKey() string {
	return uuid.New().String()
}

// Locked reports whether the account is still inside a lockout window.
func (user User) Locked(now time.Time) bool {
	return user.LockedUntil != nil && now.Before(*user.LockedUntil)
}

func NewUser(userSignup UserSignupRequest) (User, error) {
	var user User
	userkey := user.GenerateKey()
	hashedPassword, hashErr := user.GenerateHash(userSignup.Password)
	if hashErr != nil {
		return User{}, fmt.Errorf("error hashing password %v", hashErr)
	}
	user = User{
		UserID:         userkey,
		Email:          userSignup.Email,
		HashedPassword: hashedPassword,
		EmailVerified:  false,
		FailedAttempts: 0,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	return user, nil
}

func (user User) GenerateHash(password string) (string, error) {
	hashedPassword, hashErr := bcrypt.GenerateFromPassword([]byte(password), 8)
	if hashErr != nil {
		return "", fmt.Errorf("error hashing password %v", hashErr)
	}

	return string(hashedPassword), nil
}
