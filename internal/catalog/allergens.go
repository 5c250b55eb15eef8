package catalog

import (
	"fmt"
	"strings"
)

// Allergen is an allergen shown next to a product on the menu page.
type Allergen string

const (
	Milk        Allergen = "milk"
	Fish        Allergen = "fish"
	Sesame      Allergen = "sesame"
	Crustaceans Allergen = "crustaceans"
	Mollusks    Allergen = "mollusks"
	Nuts        Allergen = "nuts"
)

// Allergens returns every allergen in legend order.
func Allergens() []Allergen {
	return []Allergen{Fish, Milk, Crustaceans, Mollusks, Sesame, Nuts}
}

// ParseAllergen validates a stored allergen value.
func ParseAllergen(s string) (Allergen, error) {
	a := Allergen(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Allergens() {
		if a == known {
			return a, nil
		}
	}
	return "", fmt.Errorf("catalog: unknown allergen %q", s)
}

type allergenRule struct {
	allergen Allergen
	any      []string
	none     []string
}

// Keyword rules carried over from the hand-written menu. They only serve to
// seed explicit allergen lists for products imported without one.
var allergenRules = []allergenRule{
	{
		allergen: Milk,
		any: []string{
			"fuet", "queso", "cheese", "formatge", "mantequilla", "butter", "mantega",
			"nachos", "combinado de dips", "dip combo", "combinat de dips", "carpaccio de ",
			"zucchini carpaccio", "provolone", "clásico", "classic", "clàssic", "balear",
			"brie", "alternativa", "nórdico", "nordic", "nòrdic", "sicilia", "sicily", "sicília",
		},
		none: []string{"alternativa balear", "l'alternativa balear"},
	},
	{
		allergen: Fish,
		any: []string{
			"atún", "tuna", "tonyina", "berberechos", "cockles", "escopinyes",
			"sardina ahumada", "smoked sardine", "sardina fumada", "bacalao", "cod", "bacallà",
			"gilda", "boquerón", "anchovies", "seitó", "nórdico", "nordic", "nòrdic",
		},
	},
	{allergen: Sesame, any: []string{"nachos", "hummus"}},
	{allergen: Crustaceans, any: []string{"berberechos", "cockles", "escopinyes"}},
	{allergen: Mollusks, any: []string{"sardina ahumada", "smoked sardine", "sardina fumada"}},
	{
		allergen: Nuts,
		any: []string{
			"carpaccio de calabacín", "zucchini carpaccio", "carpaccio de carbassó",
			"alternativa balear", "l'alternativa balear", "sicilia", "sicily", "sicília",
		},
	},
}

func (r allergenRule) match(name string) bool {
	for _, kw := range r.none {
		if strings.Contains(name, kw) {
			return false
		}
	}
	for _, kw := range r.any {
		if strings.Contains(name, kw) {
			return true
		}
	}
	return false
}

// InferAllergens matches product names against the keyword table. Any name
// matching a rule adds the allergen; the result is in legend order.
func InferAllergens(names ...string) []Allergen {
	var out []Allergen
	for _, a := range Allergens() {
		for _, r := range allergenRules {
			if r.allergen != a {
				continue
			}
			for _, n := range names {
				if r.match(strings.ToLower(n)) {
					out = append(out, a)
					break
				}
			}
		}
	}
	return out
}
