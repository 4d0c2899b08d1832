package datastore

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/paint-mix/api/models"
)

// SettingsRepository stores each user's mixing setup: strategy, brand and
// selected color ids.
type SettingsRepository interface {
	Get(userID string) (models.UserPaintSettings, error)
	Upsert(userID string, email string, settings models.UserPaintSettings) error
}

func NewSettingsDatabase(db *sql.DB) (SettingsDatabase, error) {
	var SettingsDatabase SettingsDatabase
	SettingsDatabase.database = db
	return SettingsDatabase, nil
}

type SettingsDatabase struct {
	database *sql.DB
}

func (pgdb SettingsDatabase) Get(userID string) (models.UserPaintSettings, error) {
	db := pgdb.database

	sqlStatement := `
	SELECT
		mix_choice,
		selected_colors
	FROM user_settings
	WHERE user_id=$1;`

	var mixChoice sql.NullString
	var selectedColors sql.NullString
	row := db.QueryRow(sqlStatement, userID)
	if scanErr := row.Scan(&mixChoice, &selectedColors); scanErr != nil {
		return models.UserPaintSettings{}, NoRowsError{NoRows: scanErr == sql.ErrNoRows, Err: scanErr}
	}

	settings := models.UserPaintSettings{MixChoice: mixChoice.String}
	if selectedColors.Valid {
		brand, colors, decodeErr := decodeSelectedColors(selectedColors.String)
		if decodeErr != nil {
			return models.UserPaintSettings{}, decodeErr
		}
		settings.Brand = brand
		settings.Colors = colors
	}
	return settings, nil
}

func (pgdb SettingsDatabase) Upsert(userID string, email string, settings models.UserPaintSettings) error {
	db := pgdb.database

	selectedColors, encodeErr := encodeSelectedColors(settings.Brand, settings.Colors)
	if encodeErr != nil {
		return encodeErr
	}

	_, upsertErr := db.Exec(`
		INSERT INTO user_settings (
			user_id,
			email,
			mix_choice,
			selected_colors
		) VALUES (
			$1,
			$2,
			$3,
			$4
		)
		ON CONFLICT (user_id) DO UPDATE SET
			email = EXCLUDED.email,
			mix_choice = EXCLUDED.mix_choice,
			selected_colors = EXCLUDED.selected_colors`,
		userID,
		email,
		settings.MixChoice,
		selectedColors,
	)
	return upsertErr
}

// Selected colors are stored as {"brand": ["color id", ...]} to keep the
// brand and its colors atomic.
func encodeSelectedColors(brand string, colors []string) (string, error) {
	if colors == nil {
		colors = []string{}
	}
	encoded, err := json.Marshal(map[string][]string{brand: colors})
	if err != nil {
		return "", fmt.Errorf("error encoding selected colors %v", err)
	}
	return string(encoded), nil
}

func decodeSelectedColors(raw string) (string, []string, error) {
	selected := map[string][]string{}
	if err := json.Unmarshal([]byte(raw), &selected); err != nil {
		return "", nil, fmt.Errorf("error decoding selected colors %v", err)
	}
	for brand, colors := range selected {
		return brand, colors, nil
	}
	return "", nil, nil
}
