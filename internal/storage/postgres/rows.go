package postgres

import (
	"database/sql"
	"strconv"

	"github.com/lib/pq"

	"github.com/m3rciful/carta/internal/catalog"
)

type productRow struct {
	ID        int64          `db:"id"`
	Category  string         `db:"category"`
	Position  int            `db:"position"`
	Rank      int            `db:"rank"`
	NameES    string         `db:"name_es"`
	NameEN    string         `db:"name_en"`
	NameCA    string         `db:"name_ca"`
	Price     string         `db:"price"`
	DescES    sql.NullString `db:"desc_es"`
	DescEN    sql.NullString `db:"desc_en"`
	DescCA    sql.NullString `db:"desc_ca"`
	Allergens pq.StringArray `db:"allergens"`
	Version   int64          `db:"version"`
}

// selectRanked numbers products 1..n per category in display order.
const selectRanked = `
SELECT * FROM (
    SELECT id, category, position, name_es, name_en, name_ca, price,
           desc_es, desc_en, desc_ca, allergens, version,
           row_number() OVER (PARTITION BY category ORDER BY position, id) AS rank
    FROM products
) ranked`

func (r productRow) product() catalog.Product {
	p := catalog.Product{
		Locator:  strconv.FormatInt(r.ID, 10),
		Version:  r.Version,
		Category: catalog.Category(r.Category),
		Position: r.Rank,
		ES:       catalog.Localized{Name: r.NameES, Description: r.DescES.String, Price: r.Price},
		EN:       catalog.Localized{Name: r.NameEN, Description: r.DescEN.String, Price: r.Price},
		CA:       catalog.Localized{Name: r.NameCA, Description: r.DescCA.String, Price: r.Price},
	}
	for _, a := range r.Allergens {
		if parsed, err := catalog.ParseAllergen(a); err == nil {
			p.Allergens = append(p.Allergens, parsed)
		}
	}
	return p
}

func rowFrom(p catalog.Product) productRow {
	row := productRow{
		Category:  string(p.Category),
		NameES:    p.ES.Name,
		NameEN:    p.EN.Name,
		NameCA:    p.CA.Name,
		Price:     p.ES.Price,
		DescES:    nullable(p.ES.Description),
		DescEN:    nullable(p.EN.Description),
		DescCA:    nullable(p.CA.Description),
		Allergens: pq.StringArray{},
		Version:   p.Version,
	}
	for _, a := range p.Allergens {
		row.Allergens = append(row.Allergens, string(a))
	}
	return row
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func parseLocator(locator string) (int64, error) {
	id, err := strconv.ParseInt(locator, 10, 64)
	if err != nil || id <= 0 {
		return 0, catalog.ErrNotFound
	}
	return id, nil
}
