// Package postgres stores the catalog as one row per product. Every write
// carries the row version it was read at and fails with catalog.ErrConflict
// when another writer bumped it first.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/carta/core/logger"
	"github.com/m3rciful/carta/internal/catalog"
	"github.com/m3rciful/carta/internal/metrics"
)

const backend = "postgres"

// Repository implements catalog.Repository on the products table.
type Repository struct {
	db *sqlx.DB
}

var _ catalog.Repository = (*Repository)(nil)

// NewRepository returns a repository using db.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) observe(op string, start time.Time) {
	metrics.ObserveStorage(backend, op, start)
	s := r.db.Stats()
	metrics.SetDBPoolStats(s.OpenConnections, s.Idle, s.InUse)
}

// Catalog implements catalog.Repository.
func (r *Repository) Catalog(ctx context.Context) (catalog.Catalog, error) {
	defer r.observe("catalog", time.Now())
	var rows []productRow
	if err := r.db.SelectContext(ctx, &rows, selectRanked+` ORDER BY category, rank`); err != nil {
		return nil, fmt.Errorf("select catalog: %w", err)
	}
	c := catalog.Catalog{}
	for _, row := range rows {
		p := row.product()
		if !p.Category.Valid() {
			continue
		}
		c[p.Category] = append(c[p.Category], p)
	}
	return c, nil
}

// List implements catalog.Repository.
func (r *Repository) List(ctx context.Context, cat catalog.Category) ([]catalog.Product, error) {
	if !cat.Valid() {
		return nil, catalog.ErrUnknownCategory
	}
	defer r.observe("list", time.Now())
	var rows []productRow
	if err := r.db.SelectContext(ctx, &rows, selectRanked+` WHERE category = $1 ORDER BY rank`, string(cat)); err != nil {
		return nil, fmt.Errorf("select %s: %w", cat, err)
	}
	out := make([]catalog.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.product())
	}
	return out, nil
}

// Get implements catalog.Repository.
func (r *Repository) Get(ctx context.Context, ref catalog.Ref) (catalog.Product, error) {
	defer r.observe("get", time.Now())
	row, err := r.get(ctx, ref)
	if err != nil {
		return catalog.Product{}, err
	}
	return row.product(), nil
}

func (r *Repository) get(ctx context.Context, ref catalog.Ref) (productRow, error) {
	if !ref.Category.Valid() {
		return productRow{}, catalog.ErrUnknownCategory
	}
	id, err := parseLocator(ref.Locator)
	if err != nil {
		return productRow{}, err
	}
	var row productRow
	err = r.db.GetContext(ctx, &row, selectRanked+` WHERE id = $1 AND category = $2`, id, string(ref.Category))
	if errors.Is(err, sql.ErrNoRows) {
		return productRow{}, catalog.ErrNotFound
	}
	if err != nil {
		return productRow{}, fmt.Errorf("select product %d: %w", id, err)
	}
	return row, nil
}

// Update implements catalog.Repository.
func (r *Repository) Update(ctx context.Context, ref catalog.Ref, apply catalog.Mutation) (catalog.Product, error) {
	defer r.observe("update", time.Now())
	row, err := r.get(ctx, ref)
	if err != nil {
		return catalog.Product{}, err
	}
	p := row.product()
	change, err := apply(&p)
	if err != nil {
		return catalog.Product{}, err
	}
	next := rowFrom(p)
	next.ID, next.Version = row.ID, row.Version

	var version int64
	err = r.db.QueryRowxContext(ctx, `
UPDATE products
   SET name_es = $3, name_en = $4, name_ca = $5, price = $6,
       desc_es = $7, desc_en = $8, desc_ca = $9, allergens = $10,
       version = version + 1, updated_at = now()
 WHERE id = $1 AND version = $2
RETURNING version`,
		next.ID, next.Version, next.NameES, next.NameEN, next.NameCA, next.Price,
		next.DescES, next.DescEN, next.DescCA, next.Allergens,
	).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		err = r.lost(ctx, row.ID)
	}
	if err != nil {
		r.logWrite(ctx, change, err)
		return catalog.Product{}, err
	}
	r.logWrite(ctx, change, nil)
	p.Version = version
	return p, nil
}

// Delete implements catalog.Repository.
func (r *Repository) Delete(ctx context.Context, ref catalog.Ref, describe func(catalog.Product) string) (catalog.Product, error) {
	defer r.observe("delete", time.Now())
	row, err := r.get(ctx, ref)
	if err != nil {
		return catalog.Product{}, err
	}
	p := row.product()
	change := describe(p)
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1 AND version = $2`, row.ID, row.Version)
	if err == nil {
		var n int64
		if n, err = res.RowsAffected(); err == nil && n == 0 {
			err = r.lost(ctx, row.ID)
		}
	}
	r.logWrite(ctx, change, err)
	if err != nil {
		return catalog.Product{}, err
	}
	return p, nil
}

// Create implements catalog.Repository. The new row goes one past the
// current highest position of its category.
func (r *Repository) Create(ctx context.Context, cat catalog.Category, p catalog.Product, change string) (catalog.Product, error) {
	if !cat.Valid() {
		return catalog.Product{}, catalog.ErrUnknownCategory
	}
	defer r.observe("create", time.Now())
	p.Category = cat
	row := rowFrom(p)
	err := r.db.QueryRowxContext(ctx, `
INSERT INTO products (category, position, name_es, name_en, name_ca, price, desc_es, desc_en, desc_ca, allergens)
VALUES ($1, (SELECT COALESCE(MAX(position), 0) + 1 FROM products WHERE category = $1), $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, position, version`,
		row.Category, row.NameES, row.NameEN, row.NameCA, row.Price,
		row.DescES, row.DescEN, row.DescCA, row.Allergens,
	).Scan(&row.ID, &row.Position, &row.Version)
	if err != nil {
		err = fmt.Errorf("insert into %s: %w", cat, err)
		r.logWrite(ctx, change, err)
		return catalog.Product{}, err
	}
	r.logWrite(ctx, change, nil)

	created, err := r.get(ctx, catalog.Ref{Category: cat, Locator: fmt.Sprint(row.ID)})
	if err != nil {
		return catalog.Product{}, err
	}
	return created.product(), nil
}

// lost tells a concurrent edit apart from a concurrent delete after a
// version-guarded statement matched no row.
func (r *Repository) lost(ctx context.Context, id int64) error {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, id); err != nil {
		return fmt.Errorf("recheck product %d: %w", id, err)
	}
	if exists {
		return catalog.ErrConflict
	}
	return catalog.ErrNotFound
}

func (r *Repository) logWrite(ctx context.Context, change string, err error) {
	attrs := []slog.Attr{
		slog.String("backend", backend),
		slog.String("change", logger.SanitizeLimit(change, 128)),
	}
	switch {
	case err == nil:
		logger.LogEvent(ctx, logger.Store, slog.LevelInfo, "store.commit", append(attrs, slog.String("status", "ok"))...)
	case errors.Is(err, catalog.ErrConflict), errors.Is(err, catalog.ErrNotFound):
		logger.LogEvent(ctx, logger.Store, slog.LevelWarn, "store.commit",
			append(attrs, slog.String("status", "conflict"), logger.ErrAttr(err))...)
	default:
		logger.LogEvent(ctx, logger.Store, slog.LevelError, "store.commit",
			append(attrs, slog.String("status", "fail"), logger.ErrAttr(err))...)
	}
}
