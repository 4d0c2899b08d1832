package datastore

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/paint-mix/api/models"
)

type UserRepository interface {
	Create(user models.User) (models.User, error)
	Get(userID string) (models.User, error)
	GetUserByEmail(email string) (models.User, error)
	ValidateAndGetUser(userLogin models.Credentials) (models.User, error)
	SetEmailVerified(userID string) error
	UpdatePassword(userID string, passwordHash string) error
	SetFailedAttempts(userID string, count int, lockedUntil *time.Time) error
}

func NewUserDatabase(db *sql.DB) (UserDatabase, error) {
	var UserDatabase UserDatabase
	UserDatabase.database = db
	return UserDatabase, nil
}

type NoRowsError struct {
	NoRows bool
	Err    error
}

func (nr NoRowsError) Error() string {
	return fmt.Sprintf("%v: no rows returned for scan: %v", nr.NoRows, nr.Err)
}

type UserDatabase struct {
	database *sql.DB
}

func (pgdb UserDatabase) Create(user models.User) (models.User, error) {
	db := pgdb.database

	_, insertErr := db.Exec(`
		INSERT INTO users (
			user_id,
			email,
			password_hash,
			email_verified,
			failed_attempts,
			locked_until,
			created_at,
			updated_at
		) VALUES (
			$1,
			$2,
			$3,
			$4,
			$5,
			$6,
			$7,
			$8
		)`,
		user.UserID,
		user.Email,
		user.HashedPassword,
		user.EmailVerified,
		user.FailedAttempts,
		user.LockedUntil,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if insertErr != nil {
		return user, insertErr
	}

	return user, nil
}

func (pgdb UserDatabase) Get(userID string) (models.User, error) {
	db := pgdb.database

	sqlStatement := `
	SELECT
		user_id,
		email,
		password_hash,
		email_verified,
		failed_attempts,
		locked_until,
		created_at,
		updated_at
	FROM users
	WHERE user_id=$1;`

	row := db.QueryRow(sqlStatement, userID)
	return scanUser(row)
}

func (pgdb UserDatabase) GetUserByEmail(email string) (models.User, error) {
	db := pgdb.database

	sqlStatement := `
	SELECT
		user_id,
		email,
		password_hash,
		email_verified,
		failed_attempts,
		locked_until,
		created_at,
		updated_at
	FROM users
	WHERE LOWER(email)=LOWER($1);`

	row := db.QueryRow(sqlStatement, email)
	return scanUser(row)
}

func scanUser(row *sql.Row) (models.User, error) {
	var user models.User
	var lockedUntil sql.NullTime

	scanErr := row.Scan(
		&user.UserID,
		&user.Email,
		&user.HashedPassword,
		&user.EmailVerified,
		&user.FailedAttempts,
		&lockedUntil,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if scanErr != nil {
		return models.User{}, NoRowsError{NoRows: scanErr == sql.ErrNoRows, Err: scanErr}
	}
	if lockedUntil.Valid {
		user.LockedUntil = &lockedUntil.Time
	}
	return user, nil
}

// ValidateAndGetUser checks the supplied credentials, maintaining the
// failed-attempt counter and lockout window on the way.
func (pgdb UserDatabase) ValidateAndGetUser(userLogin models.Credentials) (models.User, error) {
	user, getErr := pgdb.GetUserByEmail(userLogin.Email)
	if getErr != nil {
		return models.User{}, fmt.Errorf("invalid credentials")
	}

	now := time.Now()
	if user.Locked(now) {
		return models.User{}, fmt.Errorf("account locked until %v", user.LockedUntil.Format(time.RFC3339))
	}

	compareErr := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(userLogin.Password))
	if compareErr != nil {
		attempts := user.FailedAttempts + 1
		var lockedUntil *time.Time
		if attempts >= models.MaxFailedAttempts {
			t := now.Add(models.LockoutDuration)
			lockedUntil = &t
		}
		// Best effort; a failed bookkeeping write must not change the
		// login outcome.
		_ = pgdb.SetFailedAttempts(user.UserID, attempts, lockedUntil)
		return models.User{}, fmt.Errorf("invalid credentials")
	}

	if user.FailedAttempts > 0 || user.LockedUntil != nil {
		_ = pgdb.SetFailedAttempts(user.UserID, 0, nil)
	}

	return user, nil
}

func (pgdb UserDatabase) SetEmailVerified(userID string) error {
	db := pgdb.database

	_, updateErr := db.Exec(`
		UPDATE users
		SET email_verified = TRUE, updated_at = NOW()
		WHERE user_id = $1`,
		userID,
	)
	return updateErr
}

func (pgdb UserDatabase) UpdatePassword(userID string, passwordHash string) error {
	db := pgdb.database

	_, updateErr := db.Exec(`
		UPDATE users
		SET password_hash = $2, updated_at = NOW()
		WHERE user_id = $1`,
		userID,
		passwordHash,
	)
	return updateErr
}

func (pgdb UserDatabase) SetFailedAttempts(userID string, count int, lockedUntil *time.Time) error {
	db := pgdb.database

	_, updateErr := db.Exec(`
		UPDATE users
		SET failed_attempts = $2, locked_until = $3, updated_at = NOW()
		WHERE user_id = $1`,
		userID,
		count,
		lockedUntil,
	)
	return updateErr
}
