package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/carta/core/logger"
	"github.com/m3rciful/carta/internal/catalog"
)

// SeedOptions tune an import.
type SeedOptions struct {
	// Source names the document in the seed_runs audit row.
	Source string
	// InferAllergens fills products that carry no allergen list from their names.
	InferAllergens bool
	// Replace wipes the table first; without it the import only runs on an empty table.
	Replace bool
}

// SeedResult reports one import run.
type SeedResult struct {
	RunID    uuid.UUID
	Products int
	Skipped  bool
}

// Seeder imports a menu document into the products table.
type Seeder struct {
	db *sqlx.DB
}

// NewSeeder returns a seeder writing through db.
func NewSeeder(db *sqlx.DB) *Seeder {
	return &Seeder{db: db}
}

// Seed decodes document and inserts its products in one transaction.
// Positions restart at 1 in every category.
func (s *Seeder) Seed(ctx context.Context, document []byte, opts SeedOptions) (SeedResult, error) {
	start := time.Now()
	res := SeedResult{RunID: uuid.New()}
	c, err := catalog.DecodeDocument(document)
	if err != nil {
		return res, err
	}
	rows := seedRows(c, opts.InferAllergens)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return res, fmt.Errorf("begin seed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if opts.Replace {
		if _, err := tx.ExecContext(ctx, `DELETE FROM products`); err != nil {
			return res, fmt.Errorf("clear products: %w", err)
		}
	} else {
		var n int
		if err := tx.GetContext(ctx, &n, `SELECT COUNT(*) FROM products`); err != nil {
			return res, fmt.Errorf("count products: %w", err)
		}
		if n > 0 {
			res.Skipped = true
			logger.LogEvent(ctx, logger.SEED, slog.LevelInfo, "db.seed",
				slog.String("status", "ok"),
				slog.String("outcome", "skip"),
				slog.Int("count", n),
			)
			return res, nil
		}
	}

	for _, row := range rows {
		if _, err := tx.NamedExecContext(ctx, `
INSERT INTO products (category, position, name_es, name_en, name_ca, price, desc_es, desc_en, desc_ca, allergens)
VALUES (:category, :position, :name_es, :name_en, :name_ca, :price, :desc_es, :desc_en, :desc_ca, :allergens)`, row); err != nil {
			return res, fmt.Errorf("insert %s #%d: %w", row.Category, row.Position, err)
		}
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO seed_runs (id, source, products) VALUES ($1, $2, $3)`,
		res.RunID, opts.Source, len(rows)); err != nil {
		return res, fmt.Errorf("record seed run: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return res, fmt.Errorf("commit seed: %w", err)
	}
	res.Products = len(rows)

	logger.LogEvent(ctx, logger.SEED, slog.LevelInfo, "db.seed",
		slog.String("status", "ok"),
		slog.String("rid", res.RunID.String()),
		slog.Int("count", res.Products),
		slog.Duration("duration", logger.Took(start)),
	)
	return res, nil
}

func seedRows(c catalog.Catalog, infer bool) []productRow {
	var rows []productRow
	for _, cat := range catalog.Categories() {
		for i, p := range c[cat] {
			if infer && len(p.Allergens) == 0 {
				p.Allergens = catalog.InferAllergens(p.ES.Name, p.EN.Name, p.CA.Name)
			}
			row := rowFrom(p)
			row.Category = string(cat)
			row.Position = i + 1
			rows = append(rows, row)
		}
	}
	return rows
}
