package catalog

// Locale is a menu language.
type Locale string

const (
	ES Locale = "es"
	EN Locale = "en"
	CA Locale = "ca"
)

// Locales returns the admin input order: es, en, ca.
func Locales() []Locale { return []Locale{ES, EN, CA} }

// ParseLocale returns the locale for s, or false when s is not supported.
func ParseLocale(s string) (Locale, bool) {
	switch l := Locale(s); l {
	case ES, EN, CA:
		return l, true
	}
	return "", false
}

// Localized is one language view of a product. An empty Description means none.
type Localized struct {
	Name        string
	Description string
	Price       string
}

// Triple carries one value per locale, in es, en, ca order.
type Triple struct {
	ES, EN, CA string
}

// Product is a single catalog entry.
type Product struct {
	// Locator addresses the product inside its category; its form depends on the backend.
	Locator string
	// Version is bumped on every write by backends with per-record versions.
	Version  int64
	Category Category
	// Position is 1-based within the category.
	Position  int
	ES        Localized
	EN        Localized
	CA        Localized
	Allergens []Allergen
}

// In returns the view for loc, defaulting to Spanish.
func (p Product) In(loc Locale) Localized {
	switch loc {
	case EN:
		return p.EN
	case CA:
		return p.CA
	default:
		return p.ES
	}
}

// Names returns the three names.
func (p Product) Names() Triple {
	return Triple{ES: p.ES.Name, EN: p.EN.Name, CA: p.CA.Name}
}

// HasDescription follows the Spanish view, which the admin always writes together with the others.
func (p Product) HasDescription() bool {
	return p.ES.Description != ""
}

// SetPrice writes the same price into every locale.
func (p *Product) SetPrice(price string) {
	p.ES.Price = price
	p.EN.Price = price
	p.CA.Price = price
}

// Rename replaces all three names.
func (p *Product) Rename(names Triple) {
	p.ES.Name = names.ES
	p.EN.Name = names.EN
	p.CA.Name = names.CA
}

// Describe replaces all three descriptions.
func (p *Product) Describe(desc Triple) {
	p.ES.Description = desc.ES
	p.EN.Description = desc.EN
	p.CA.Description = desc.CA
}

// ClearDescription removes the description in every locale.
func (p *Product) ClearDescription() {
	p.Describe(Triple{})
}

// NewProduct builds a product with the same price in every locale.
func NewProduct(cat Category, names Triple, price string) Product {
	p := Product{Category: cat}
	p.Rename(names)
	p.SetPrice(price)
	return p
}

// Catalog maps each category to its ordered products.
type Catalog map[Category][]Product

// Products returns the sequence for cat (nil when empty).
func (c Catalog) Products(cat Category) []Product {
	return c[cat]
}

// Len counts every product.
func (c Catalog) Len() int {
	n := 0
	for _, ps := range c {
		n += len(ps)
	}
	return n
}
