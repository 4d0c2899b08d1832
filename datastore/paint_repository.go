package datastore

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"github.com/paint-mix/api/mixing"
	"github.com/paint-mix/api/models"
)

// Paint brand tables shipped by the catalogue importer. Each holds
// (_id, spectral_curve, d65_10deg_hex) rows and is read-only here.
var paintBrandTables = []string{
	"winsor_newton_artist_oil_colour",
	"daler_rowney_georgian_oil_colours",
	"griffin_alkyd_fast_drying_oil_colour",
	"gamblin_conservation_colors",
	"michael_harding",
	"maimeri_puro_oil",
	"schmincke_mussini_oils",
	"sennellier_extra_fine_oils",
	"talens_van_gogh_oil_colour",
	"williamsburg_handmade_oil_colors",
	"winton_oil_colour",
}

// PaintRepository reads the measured paint catalogue.
type PaintRepository interface {
	Brands() []models.PaintBrand
	GetPaintColors(brand string) ([]models.PaintColorInfo, error)
	GetPaints(brand string, colorIDs []string) ([]mixing.Paint, error)
}

func NewPaintDatabase(db *sql.DB) (PaintDatabase, error) {
	var PaintDatabase PaintDatabase
	PaintDatabase.database = db
	return PaintDatabase, nil
}

type PaintDatabase struct {
	database *sql.DB
}

// Brands lists the known catalogue brands with display names.
func (pgdb PaintDatabase) Brands() []models.PaintBrand {
	brands := make([]models.PaintBrand, 0, len(paintBrandTables))
	for _, id := range paintBrandTables {
		brands = append(brands, models.PaintBrand{
			ID:   id,
			Name: brandDisplayName(id),
		})
	}
	return brands
}

// validBrand guards the table-name interpolation below; brand names never
// come from user input unchecked.
func validBrand(brand string) bool {
	for _, known := range paintBrandTables {
		if known == brand {
			return true
		}
	}
	return false
}

func (pgdb PaintDatabase) GetPaintColors(brand string) ([]models.PaintColorInfo, error) {
	db := pgdb.database

	if !validBrand(brand) {
		return nil, fmt.Errorf("unknown paint brand %q", brand)
	}

	rows, queryErr := db.Query(fmt.Sprintf(`SELECT _id, d65_10deg_hex FROM %s ORDER BY _id`, brand))
	if queryErr != nil {
		return nil, queryErr
	}
	defer rows.Close()

	var colors []models.PaintColorInfo
	for rows.Next() {
		var id string
		var hex sql.NullString
		if scanErr := rows.Scan(&id, &hex); scanErr != nil {
			return nil, scanErr
		}
		colors = append(colors, models.PaintColorInfo{
			ID:  id,
			Hex: hexOrFallback(hex),
		})
	}

	return colors, rows.Err()
}

// GetPaints loads full spectral records for the requested color ids.
// Rows with missing or undecodable curves are skipped rather than
// failing the whole load.
func (pgdb PaintDatabase) GetPaints(brand string, colorIDs []string) ([]mixing.Paint, error) {
	db := pgdb.database

	if !validBrand(brand) {
		return nil, fmt.Errorf("unknown paint brand %q", brand)
	}

	wanted := make(map[string]bool, len(colorIDs))
	for _, id := range colorIDs {
		wanted[id] = true
	}

	rows, queryErr := db.Query(fmt.Sprintf(`SELECT _id, spectral_curve, d65_10deg_hex FROM %s ORDER BY _id`, brand))
	if queryErr != nil {
		return nil, queryErr
	}
	defer rows.Close()

	var paints []mixing.Paint
	for rows.Next() {
		var id string
		var spectral []byte
		var hex sql.NullString
		if scanErr := rows.Scan(&id, &spectral, &hex); scanErr != nil {
			return nil, scanErr
		}
		if len(colorIDs) > 0 && !wanted[id] {
			continue
		}
		if spectral == nil {
			continue
		}
		curve, decodeErr := mixing.DecodeCurve(spectral)
		if decodeErr != nil {
			continue
		}
		paints = append(paints, mixing.NewPaint(id, brand, curve, hexOrFallback(hex)))
	}

	return paints, rows.Err()
}

func hexOrFallback(hex sql.NullString) string {
	if hex.Valid && hex.String != "" {
		return hex.String
	}
	return "#808080"
}

// brandDisplayName turns a table name like "michael_harding" into
// "Michael Harding".
func brandDisplayName(id string) string {
	words := strings.Split(id, "_")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
