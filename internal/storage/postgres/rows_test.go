package postgres

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/m3rciful/carta/internal/catalog"
)

func TestRowRoundTrip(t *testing.T) {
	p := catalog.NewProduct(catalog.Snacks, catalog.Triple{ES: "Olivas", EN: "Olives", CA: "Olives"}, "3.50")
	p.Describe(catalog.Triple{ES: "Aliñadas", EN: "Dressed", CA: "Amanides"})
	p.Allergens = []catalog.Allergen{catalog.Sesame}

	row := rowFrom(p)
	if !row.DescES.Valid || row.Price != "3.50" || len(row.Allergens) != 1 {
		t.Fatalf("row = %+v", row)
	}
	row.ID, row.Rank, row.Version = 7, 2, 3
	got := row.product()
	if got.Locator != "7" || got.Position != 2 || got.Version != 3 {
		t.Fatalf("identity = %q/%d/%d", got.Locator, got.Position, got.Version)
	}
	if got.ES != p.ES || got.EN != p.EN || got.CA != p.CA || !reflect.DeepEqual(got.Allergens, p.Allergens) {
		t.Fatalf("product = %+v, want %+v", got, p)
	}

	p.ClearDescription()
	if rowFrom(p).DescCA.Valid {
		t.Fatal("cleared description must be stored as NULL")
	}
}

func TestParseLocator(t *testing.T) {
	if id, err := parseLocator("42"); err != nil || id != 42 {
		t.Fatalf("parseLocator = %d, %v", id, err)
	}
	for _, bad := range []string{"", "0", "-1", "3-abcd", "x"} {
		if _, err := parseLocator(bad); !errors.Is(err, catalog.ErrNotFound) {
			t.Fatalf("parseLocator(%q) err = %v", bad, err)
		}
	}
}

func TestSeedRowsPositions(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", "catalog", "testdata", "menu.json"))
	if err != nil {
		t.Fatal(err)
	}
	c, err := catalog.DecodeDocument(data)
	if err != nil {
		t.Fatal(err)
	}
	rows := seedRows(c, true)
	if len(rows) != c.Len() {
		t.Fatalf("rows = %d, want %d", len(rows), c.Len())
	}
	seen := map[string]int{}
	for _, row := range rows {
		seen[row.Category]++
		if row.Position != seen[row.Category] {
			t.Fatalf("%s position %d, want %d", row.Category, row.Position, seen[row.Category])
		}
	}
	// simple hot drinks come before the described ones
	if rows[0].NameES != "Solo" || rows[5].NameES != "Tés, infusiones" {
		t.Fatalf("hot drink order: %q, %q", rows[0].NameES, rows[5].NameES)
	}
	for _, row := range rows {
		if row.NameES == "Con leche" && len(row.Allergens) != 1 {
			t.Fatalf("explicit allergens replaced: %v", row.Allergens)
		}
	}

	extra := catalog.Catalog{catalog.Toasts: {
		catalog.NewProduct(catalog.Toasts, catalog.Triple{ES: "Tostada de atún", EN: "Tuna toast", CA: "Torrada de tonyina"}, "6"),
	}}
	if got := seedRows(extra, true); len(got[0].Allergens) != 1 || got[0].Allergens[0] != string(catalog.Fish) {
		t.Fatalf("inferred = %v", got[0].Allergens)
	}
	if got := seedRows(extra, false); len(got[0].Allergens) != 0 {
		t.Fatalf("inference ran while disabled: %v", got[0].Allergens)
	}
}
