package models

import (
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func TestNewUserHashesPassword(t *testing.T) {
	t.Parallel()

	user, err := NewUser(UserSignupRequest{Email: "painter@example.com", Password: "cadmium-red"})
	if err != nil {
		t.Fatalf("NewUser failed: %v", err)
	}

	if user.UserID == "" {
		t.Fatal("expected generated user id")
	}
	if user.EmailVerified {
		t.Fatal("new user must start unverified")
	}
	if user.HashedPassword == "cadmium-red" {
		t.Fatal("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte("cadmium-red")); err != nil {
		t.Fatalf("hash does not match password: %v", err)
	}
}

func TestLockedWindow(t *testing.T) {
	t.Parallel()

	now := time.Now()
	until := now.Add(10 * time.Minute)

	unlocked := User{}
	if unlocked.Locked(now) {
		t.Fatal("user with no lockout reported locked")
	}

	locked := User{LockedUntil: &until}
	if !locked.Locked(now) {
		t.Fatal("user inside lockout window reported unlocked")
	}
	if locked.Locked(until.Add(time.Second)) {
		t.Fatal("user past lockout window still reported locked")
	}
}
