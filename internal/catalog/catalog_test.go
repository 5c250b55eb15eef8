package catalog

import (
	"bytes"
	"os"
	"reflect"
	"testing"
)

func TestCategoryCodes(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range Categories() {
		code := c.Code()
		if len(code) != 2 || seen[code] {
			t.Fatalf("bad or duplicate code %q for %s", code, c)
		}
		seen[code] = true
		back, ok := CategoryByCode(code)
		if !ok || back != c {
			t.Fatalf("CategoryByCode(%q) = %s, %v", code, back, ok)
		}
	}
	if len(seen) != 8 {
		t.Fatalf("expected 8 categories, got %d", len(seen))
	}
	if _, ok := CategoryByCode("zz"); ok {
		t.Fatal("unknown code resolved")
	}
	if _, err := ParseCategory("desserts"); err != ErrUnknownCategory {
		t.Fatalf("ParseCategory err = %v", err)
	}
	if HotDrinks.Title() != "☕ Bebidas Calientes" {
		t.Fatalf("title = %q", HotDrinks.Title())
	}
}

func readFixture(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile("testdata/menu.json")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return data
}

func TestDocumentRoundTripIsByteStable(t *testing.T) {
	data := readFixture(t)
	c, err := DecodeDocument(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	out, err := EncodeDocument(c)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Fatalf("round trip changed the document:\n%s", out)
	}

	again, err := DecodeDocument(out)
	if err != nil {
		t.Fatalf("decode again: %v", err)
	}
	if !reflect.DeepEqual(c, again) {
		t.Fatal("round trip changed product fields or order")
	}
}

func TestDecodeDocumentMergesHotDrinks(t *testing.T) {
	c, err := DecodeDocument(readFixture(t))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	hot := c.Products(HotDrinks)
	if len(hot) != 8 {
		t.Fatalf("hot drinks = %d, want 8", len(hot))
	}
	if hot[0].ES.Name != "Solo" || hot[5].ES.Name != "Tés, infusiones" {
		t.Fatalf("unexpected order: %q, %q", hot[0].ES.Name, hot[5].ES.Name)
	}
	for i, p := range hot {
		if p.Position != i+1 || p.Category != HotDrinks {
			t.Fatalf("product %d: position %d category %s", i, p.Position, p.Category)
		}
	}
	if got := c.Products(Snacks)[0].Allergens; !reflect.DeepEqual(got, []Allergen{Fish, Crustaceans}) {
		t.Fatalf("allergens = %v", got)
	}
	if n := len(c.Products(Sandwiches)); n != 0 {
		t.Fatalf("sandwiches = %d", n)
	}
}

func TestEncodeDocumentPartitionsHotDrinks(t *testing.T) {
	c := Catalog{}
	plain := NewProduct(HotDrinks, Triple{ES: "Solo", EN: "Solo", CA: "Sol"}, "1.50")
	described := NewProduct(HotDrinks, Triple{ES: "Bombón", EN: "Bombón", CA: "Bombó"}, "2.50")
	described.Describe(Triple{ES: "Dulce", EN: "Sweet", CA: "Dolç"})
	c[HotDrinks] = []Product{described, plain}

	out, err := EncodeDocument(c)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := DecodeDocument(out)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	hot := back.Products(HotDrinks)
	if len(hot) != 2 || hot[0].ES.Name != "Solo" || hot[1].ES.Name != "Bombón" {
		t.Fatalf("unexpected hot drinks order %+v", hot)
	}
	if !bytes.Contains(out, []byte(`"sandwiches": []`)) {
		t.Fatalf("empty categories must encode as []:\n%s", out)
	}
}

func TestInferAllergens(t *testing.T) {
	cases := []struct {
		names []string
		want  []Allergen
	}{
		{[]string{"Queso", "Cheese", "Formatge"}, []Allergen{Milk}},
		{[]string{"Berberechos"}, []Allergen{Fish, Crustaceans}},
		{[]string{"Sardina ahumada"}, []Allergen{Fish, Mollusks}},
		{[]string{"Nuestros Nachos (grandes)"}, []Allergen{Milk, Sesame}},
		{[]string{"La Alternativa Balear"}, []Allergen{Nuts}},
		{[]string{"Olivas", "Olives"}, nil},
	}
	for _, tc := range cases {
		got := InferAllergens(tc.names...)
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("InferAllergens(%v) = %v, want %v", tc.names, got, tc.want)
		}
	}
}

func TestParseAllergen(t *testing.T) {
	if a, err := ParseAllergen(" Milk "); err != nil || a != Milk {
		t.Fatalf("ParseAllergen = %q, %v", a, err)
	}
	if _, err := ParseAllergen("gluten"); err == nil {
		t.Fatal("expected error for unknown allergen")
	}
}
