package datastore

import (
	"database/sql"
	"testing"
)

func TestBrandsListsEveryTable(t *testing.T) {
	t.Parallel()

	brands := PaintDatabase{}.Brands()
	if len(brands) != len(paintBrandTables) {
		t.Fatalf("got %d brands, want %d", len(brands), len(paintBrandTables))
	}
	for i, brand := range brands {
		if brand.ID != paintBrandTables[i] {
			t.Fatalf("brand %d id = %q, want %q", i, brand.ID, paintBrandTables[i])
		}
		if brand.Name == "" {
			t.Fatalf("brand %q has empty display name", brand.ID)
		}
	}
}

func TestValidBrandRejectsUnknownTables(t *testing.T) {
	t.Parallel()

	if !validBrand("michael_harding") {
		t.Fatal("known brand rejected")
	}
	if validBrand("users; DROP TABLE users") {
		t.Fatal("unknown brand accepted")
	}
	if validBrand("") {
		t.Fatal("empty brand accepted")
	}
}

func TestBrandDisplayName(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"michael_harding":            "Michael Harding",
		"winton_oil_colour":          "Winton Oil Colour",
		"talens_van_gogh_oil_colour": "Talens Van Gogh Oil Colour",
	}
	for id, want := range cases {
		if got := brandDisplayName(id); got != want {
			t.Fatalf("brandDisplayName(%q) = %q, want %q", id, got, want)
		}
	}
}

func TestHexOrFallback(t *testing.T) {
	t.Parallel()

	if got := hexOrFallback(sql.NullString{String: "#aabbcc", Valid: true}); got != "#aabbcc" {
		t.Fatalf("got %q", got)
	}
	if got := hexOrFallback(sql.NullString{}); got != "#808080" {
		t.Fatalf("fallback = %q", got)
	}
}
