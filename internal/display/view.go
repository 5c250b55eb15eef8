// Package display turns the catalog into the public menu page.
package display

import (
	"fmt"
	"strings"

	"github.com/m3rciful/carta/internal/catalog"
)

// Options tune the page.
type Options struct {
	DefaultLocale catalog.Locale
	// InferAllergens fills in allergens from product names for products
	// stored without an explicit list.
	InferAllergens bool
	// MilkSupplementPrice is shown under hot drinks; empty hides the note.
	MilkSupplementPrice string
}

// Badge is one allergen marker.
type Badge struct {
	Key   catalog.Allergen
	Label string
}

// Item is one rendered product.
type Item struct {
	Name        string
	Description []string
	Price       string
	Allergens   []Badge
}

// Section is one collapsible category.
type Section struct {
	Category catalog.Category
	Title    string
	Items    []Item
	Note     string
}

// Page groups sections under one tab.
type Page struct {
	Key      string
	Title    string
	Sections []Section
}

// Language is an entry of the language switch.
type Language struct {
	Locale catalog.Locale
	Name   string
	Active bool
}

// Menu is everything the template needs.
type Menu struct {
	Locale    catalog.Locale
	Labels    Labels
	Languages []Language
	Pages     []Page
	Legend    []Badge
}

var pageLayout = []struct {
	key  string
	cats []catalog.Category
}{
	{"drinks", []catalog.Category{catalog.HotDrinks, catalog.ColdDrinks, catalog.Beers, catalog.CraftBeers, catalog.Wines}},
	{"food", []catalog.Category{catalog.Toasts, catalog.Snacks, catalog.Sandwiches}},
}

// languageOrder is the order of the switch on the page.
var languageOrder = []catalog.Locale{catalog.CA, catalog.ES, catalog.EN}

// Builder renders catalogs with a fixed label set.
type Builder struct {
	labels map[catalog.Locale]Labels
	opts   Options
}

// NewBuilder loads the embedded labels.
func NewBuilder(opts Options) (*Builder, error) {
	labels, err := LoadLabels(localesFS)
	if err != nil {
		return nil, err
	}
	if _, ok := catalog.ParseLocale(string(opts.DefaultLocale)); !ok {
		opts.DefaultLocale = catalog.ES
	}
	return &Builder{labels: labels, opts: opts}, nil
}

// ResolveLocale maps a ?lang= value to a locale, falling back to the default.
func (b *Builder) ResolveLocale(lang string) catalog.Locale {
	if loc, ok := catalog.ParseLocale(strings.ToLower(strings.TrimSpace(lang))); ok {
		return loc
	}
	return b.opts.DefaultLocale
}

// Build produces the view model of c in loc.
func (b *Builder) Build(c catalog.Catalog, loc catalog.Locale) Menu {
	labels := b.labels[loc]
	m := Menu{Locale: loc, Labels: labels}

	for _, l := range languageOrder {
		m.Languages = append(m.Languages, Language{Locale: l, Name: b.labels[l].LangName, Active: l == loc})
	}
	for _, layout := range pageLayout {
		page := Page{Key: layout.key}
		if layout.key == "drinks" {
			page.Title = labels.Drinks
		} else {
			page.Title = labels.Food
		}
		for _, cat := range layout.cats {
			page.Sections = append(page.Sections, b.section(c.Products(cat), cat, loc, labels))
		}
		m.Pages = append(m.Pages, page)
	}
	for _, a := range catalog.Allergens() {
		m.Legend = append(m.Legend, Badge{Key: a, Label: labels.Allergens[a]})
	}
	return m
}

func (b *Builder) section(products []catalog.Product, cat catalog.Category, loc catalog.Locale, labels Labels) Section {
	s := Section{Category: cat, Title: labels.Sections[cat]}
	for _, p := range products {
		view := p.In(loc)
		item := Item{Name: view.Name, Price: FormatPrice(view.Price)}
		if view.Description != "" {
			item.Description = strings.Split(view.Description, "\n")
		}
		for _, a := range b.allergens(p) {
			item.Allergens = append(item.Allergens, Badge{Key: a, Label: labels.Allergens[a]})
		}
		s.Items = append(s.Items, item)
	}
	if cat == catalog.HotDrinks && b.opts.MilkSupplementPrice != "" {
		s.Note = fmt.Sprintf("*%s - %s", labels.MilkSupplement, FormatPrice(b.opts.MilkSupplementPrice))
	}
	return s
}

func (b *Builder) allergens(p catalog.Product) []catalog.Allergen {
	if len(p.Allergens) > 0 || !b.opts.InferAllergens {
		return p.Allergens
	}
	return catalog.InferAllergens(p.ES.Name, p.EN.Name, p.CA.Name)
}

// FormatPrice prefixes the euro sign unless the stored price already has one.
func FormatPrice(price string) string {
	if strings.Contains(price, "€") {
		return price
	}
	return "€" + price
}
