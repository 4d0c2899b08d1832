package datastore

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

const (
	TokenKindVerify = "verify"
	TokenKindReset  = "reset"
)

// TokenRepository manages single-use email verification and password
// reset tokens. Only a sha256 digest of the token is stored; the
// plaintext goes out once, in the email.
type TokenRepository interface {
	Create(userID string, kind string, ttl time.Duration) (string, error)
	Consume(token string, kind string) (string, error)
	DeleteExpired() (int64, error)
}

func NewTokenDatabase(db *sql.DB) (TokenDatabase, error) {
	var TokenDatabase TokenDatabase
	TokenDatabase.database = db
	return TokenDatabase, nil
}

type TokenDatabase struct {
	database *sql.DB
}

func hashToken(token string) string {
	digest := sha256.Sum256([]byte(token))
	return hex.EncodeToString(digest[:])
}

// Create stores a new token for the user and returns its plaintext value.
func (pgdb TokenDatabase) Create(userID string, kind string, ttl time.Duration) (string, error) {
	db := pgdb.database

	token := uuid.New().String()
	_, insertErr := db.Exec(`
		INSERT INTO tokens (
			id,
			user_id,
			kind,
			hash,
			expires_at
		) VALUES (
			$1,
			$2,
			$3,
			$4,
			$5
		)`,
		uuid.New().String(),
		userID,
		kind,
		hashToken(token),
		time.Now().Add(ttl),
	)
	if insertErr != nil {
		return "", insertErr
	}

	return token, nil
}

// Consume validates a token of the given kind and deletes it, returning
// the owning user id. Expired and unknown tokens both come back as an
// invalid-token error.
func (pgdb TokenDatabase) Consume(token string, kind string) (string, error) {
	db := pgdb.database

	sqlStatement := `
	SELECT
		id,
		user_id,
		expires_at
	FROM tokens
	WHERE hash=$1 AND kind=$2;`

	var id, userID string
	var expiresAt time.Time
	row := db.QueryRow(sqlStatement, hashToken(token), kind)
	if scanErr := row.Scan(&id, &userID, &expiresAt); scanErr != nil {
		return "", fmt.Errorf("invalid or expired token")
	}

	// Single use either way.
	if _, deleteErr := db.Exec(`DELETE FROM tokens WHERE id = $1`, id); deleteErr != nil {
		return "", deleteErr
	}

	if time.Now().After(expiresAt) {
		return "", fmt.Errorf("invalid or expired token")
	}

	return userID, nil
}

// DeleteExpired clears out tokens past their expiry. Run by the nightly
// scheduler.
func (pgdb TokenDatabase) DeleteExpired() (int64, error) {
	db := pgdb.database

	result, deleteErr := db.Exec(`DELETE FROM tokens WHERE expires_at < NOW()`)
	if deleteErr != nil {
		return 0, deleteErr
	}
	return result.RowsAffected()
}
