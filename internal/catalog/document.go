package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// The menu.json layout. Hot drinks are stored in two lists, products
// without a description first; every other category is a flat list.
type docLocalized struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       string `json:"price"`
}

type docProduct struct {
	EN        docLocalized `json:"en"`
	ES        docLocalized `json:"es"`
	CA        docLocalized `json:"ca"`
	Allergens []Allergen   `json:"allergens,omitempty"`
}

type docHotDrinks struct {
	Simple          []docProduct `json:"simple"`
	WithDescription []docProduct `json:"withDescription"`
}

type document struct {
	HotDrinks  docHotDrinks `json:"hotDrinks"`
	ColdDrinks []docProduct `json:"coldDrinks"`
	Beers      []docProduct `json:"beers"`
	CraftBeers []docProduct `json:"craftBeers"`
	Wines      []docProduct `json:"wines"`
	Toasts     []docProduct `json:"toasts"`
	Snacks     []docProduct `json:"snacks"`
	Sandwiches []docProduct `json:"sandwiches"`
}

func (d *document) flat() map[Category]*[]docProduct {
	return map[Category]*[]docProduct{
		ColdDrinks: &d.ColdDrinks,
		Beers:      &d.Beers,
		CraftBeers: &d.CraftBeers,
		Wines:      &d.Wines,
		Toasts:     &d.Toasts,
		Snacks:     &d.Snacks,
		Sandwiches: &d.Sandwiches,
	}
}

// DecodeDocument parses menu.json into a catalog with 1-based positions.
// Locators are left to the storage layer.
func DecodeDocument(data []byte) (Catalog, error) {
	var doc document
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode menu document: %w", err)
	}
	c := make(Catalog, len(categoryTable))
	hot := append(append([]docProduct(nil), doc.HotDrinks.Simple...), doc.HotDrinks.WithDescription...)
	c[HotDrinks] = fromDoc(HotDrinks, hot)
	for cat, list := range doc.flat() {
		c[cat] = fromDoc(cat, *list)
	}
	return c, nil
}

// EncodeDocument renders c in the canonical menu.json form: two-space
// indentation, unescaped HTML characters and a trailing newline. Hot drinks
// are split by description presence, keeping relative order.
func EncodeDocument(c Catalog) ([]byte, error) {
	doc := document{HotDrinks: docHotDrinks{Simple: []docProduct{}, WithDescription: []docProduct{}}}
	for _, p := range c[HotDrinks] {
		if p.HasDescription() {
			doc.HotDrinks.WithDescription = append(doc.HotDrinks.WithDescription, toDoc(p))
		} else {
			doc.HotDrinks.Simple = append(doc.HotDrinks.Simple, toDoc(p))
		}
	}
	for cat, list := range doc.flat() {
		*list = make([]docProduct, 0, len(c[cat]))
		for _, p := range c[cat] {
			*list = append(*list, toDoc(p))
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode menu document: %w", err)
	}
	return buf.Bytes(), nil
}

func fromDoc(cat Category, list []docProduct) []Product {
	out := make([]Product, 0, len(list))
	for i, d := range list {
		out = append(out, Product{
			Category:  cat,
			Position:  i + 1,
			ES:        Localized(d.ES),
			EN:        Localized(d.EN),
			CA:        Localized(d.CA),
			Allergens: d.Allergens,
		})
	}
	return out
}

func toDoc(p Product) docProduct {
	return docProduct{
		EN:        docLocalized(p.EN),
		ES:        docLocalized(p.ES),
		CA:        docLocalized(p.CA),
		Allergens: p.Allergens,
	}
}
