package catalog

// Category is one of the fixed menu sections.
type Category string

const (
	HotDrinks  Category = "hotDrinks"
	ColdDrinks Category = "coldDrinks"
	Beers      Category = "beers"
	CraftBeers Category = "craftBeers"
	Wines      Category = "wines"
	Toasts     Category = "toasts"
	Snacks     Category = "snacks"
	Sandwiches Category = "sandwiches"
)

type categoryMeta struct {
	key   Category
	code  string
	emoji string
	label string
}

// Display order. Codes keep callback payloads short.
var categoryTable = []categoryMeta{
	{HotDrinks, "hd", "☕", "Bebidas Calientes"},
	{ColdDrinks, "cd", "🧊", "Bebidas Frías"},
	{Beers, "be", "🍺", "Cervezas"},
	{CraftBeers, "cb", "🍻", "C. Artesanas"},
	{Wines, "wi", "🍷", "Vinos y Vermuts"},
	{Toasts, "to", "🍞", "Tostadas"},
	{Snacks, "sn", "🍽", "Para Picar"},
	{Sandwiches, "sa", "🥖", "Bocadillos"},
}

// Categories returns every category in display order.
func Categories() []Category {
	out := make([]Category, len(categoryTable))
	for i, m := range categoryTable {
		out[i] = m.key
	}
	return out
}

func (c Category) meta() (categoryMeta, bool) {
	for _, m := range categoryTable {
		if m.key == c {
			return m, true
		}
	}
	return categoryMeta{}, false
}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	_, ok := c.meta()
	return ok
}

// Code is the two-letter short code used in callback payloads.
func (c Category) Code() string {
	m, _ := c.meta()
	return m.code
}

// Emoji returns the admin panel icon.
func (c Category) Emoji() string {
	m, _ := c.meta()
	return m.emoji
}

// Label returns the Spanish admin label.
func (c Category) Label() string {
	m, _ := c.meta()
	return m.label
}

// Title is "<emoji> <label>".
func (c Category) Title() string {
	m, _ := c.meta()
	return m.emoji + " " + m.label
}

// CategoryByCode resolves a short code such as "hd".
func CategoryByCode(code string) (Category, bool) {
	for _, m := range categoryTable {
		if m.code == code {
			return m.key, true
		}
	}
	return "", false
}

// ParseCategory resolves a category key such as "hotDrinks".
func ParseCategory(key string) (Category, error) {
	c := Category(key)
	if !c.Valid() {
		return "", ErrUnknownCategory
	}
	return c, nil
}
