package document

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/m3rciful/carta/core/logger"
	"github.com/m3rciful/carta/internal/catalog"
	"github.com/m3rciful/carta/internal/metrics"
)

// Repository implements catalog.Repository over a Store. Every write is one
// Fetch followed by one Replace carrying the fetched revision.
type Repository struct {
	store Store
}

var _ catalog.Repository = (*Repository)(nil)

// NewRepository wraps store.
func NewRepository(store Store) *Repository {
	return &Repository{store: store}
}

func (r *Repository) load(ctx context.Context) (catalog.Catalog, string, error) {
	start := time.Now()
	data, rev, err := r.store.Fetch(ctx)
	metrics.ObserveStorage(r.store.Backend(), "fetch", start)
	if err != nil {
		logger.LogEvent(ctx, logger.Store, slog.LevelError, "store.fetch",
			slog.String("status", "fail"),
			slog.String("backend", r.store.Backend()),
			slog.Duration("duration", logger.Took(start)),
			logger.ErrAttr(err),
		)
		return nil, "", err
	}
	c, err := catalog.DecodeDocument(data)
	if err != nil {
		return nil, "", err
	}
	for _, cat := range catalog.Categories() {
		renumber(c, cat)
	}
	if logger.ShouldSampleDebug() {
		logger.LogEvent(ctx, logger.Store, slog.LevelDebug, "store.fetch",
			slog.String("status", "ok"),
			slog.String("backend", r.store.Backend()),
			slog.String("revision", shortRev(rev)),
			slog.Int("count", c.Len()),
			slog.Duration("duration", logger.Took(start)),
		)
	}
	return c, rev, nil
}

func (r *Repository) save(ctx context.Context, c catalog.Catalog, rev, message string) error {
	content, err := catalog.EncodeDocument(c)
	if err != nil {
		return err
	}
	start := time.Now()
	err = r.store.Replace(ctx, content, rev, message)
	metrics.ObserveStorage(r.store.Backend(), "replace", start)
	attrs := []slog.Attr{
		slog.String("backend", r.store.Backend()),
		slog.String("revision", shortRev(rev)),
		slog.String("change", logger.SanitizeLimit(message, 128)),
		slog.Duration("duration", logger.Took(start)),
	}
	switch {
	case err == nil:
		logger.LogEvent(ctx, logger.Store, slog.LevelInfo, "store.commit", append(attrs, slog.String("status", "ok"))...)
	case errors.Is(err, catalog.ErrConflict):
		logger.LogEvent(ctx, logger.Store, slog.LevelWarn, "store.commit",
			append(attrs, slog.String("status", "conflict"), logger.ErrAttr(err))...)
	default:
		logger.LogEvent(ctx, logger.Store, slog.LevelError, "store.commit",
			append(attrs, slog.String("status", "fail"), logger.ErrAttr(err))...)
	}
	return err
}

// Catalog implements catalog.Repository.
func (r *Repository) Catalog(ctx context.Context) (catalog.Catalog, error) {
	c, _, err := r.load(ctx)
	return c, err
}

// List implements catalog.Repository.
func (r *Repository) List(ctx context.Context, cat catalog.Category) ([]catalog.Product, error) {
	if !cat.Valid() {
		return nil, catalog.ErrUnknownCategory
	}
	c, _, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	return c[cat], nil
}

// Get implements catalog.Repository.
func (r *Repository) Get(ctx context.Context, ref catalog.Ref) (catalog.Product, error) {
	list, err := r.List(ctx, ref.Category)
	if err != nil {
		return catalog.Product{}, err
	}
	idx, err := resolve(list, ref.Locator)
	if err != nil {
		return catalog.Product{}, err
	}
	return list[idx], nil
}

// Update implements catalog.Repository.
func (r *Repository) Update(ctx context.Context, ref catalog.Ref, apply catalog.Mutation) (catalog.Product, error) {
	if !ref.Category.Valid() {
		return catalog.Product{}, catalog.ErrUnknownCategory
	}
	c, rev, err := r.load(ctx)
	if err != nil {
		return catalog.Product{}, err
	}
	list := c[ref.Category]
	idx, err := resolve(list, ref.Locator)
	if err != nil {
		return catalog.Product{}, err
	}
	p := list[idx]
	change, err := apply(&p)
	if err != nil {
		return catalog.Product{}, err
	}
	list[idx] = p
	c[ref.Category] = list
	idx = settle(c, ref.Category, idx)
	if err := r.save(ctx, c, rev, change); err != nil {
		return catalog.Product{}, err
	}
	return c[ref.Category][idx], nil
}

// Delete implements catalog.Repository.
func (r *Repository) Delete(ctx context.Context, ref catalog.Ref, describe func(catalog.Product) string) (catalog.Product, error) {
	if !ref.Category.Valid() {
		return catalog.Product{}, catalog.ErrUnknownCategory
	}
	c, rev, err := r.load(ctx)
	if err != nil {
		return catalog.Product{}, err
	}
	list := c[ref.Category]
	idx, err := resolve(list, ref.Locator)
	if err != nil {
		return catalog.Product{}, err
	}
	removed := list[idx]
	c[ref.Category] = append(list[:idx:idx], list[idx+1:]...)
	renumber(c, ref.Category)
	if err := r.save(ctx, c, rev, describe(removed)); err != nil {
		return catalog.Product{}, err
	}
	return removed, nil
}

// Create implements catalog.Repository.
func (r *Repository) Create(ctx context.Context, cat catalog.Category, p catalog.Product, change string) (catalog.Product, error) {
	if !cat.Valid() {
		return catalog.Product{}, catalog.ErrUnknownCategory
	}
	c, rev, err := r.load(ctx)
	if err != nil {
		return catalog.Product{}, err
	}
	p.Category = cat
	c[cat] = append(c[cat], p)
	idx := settle(c, cat, len(c[cat])-1)
	if err := r.save(ctx, c, rev, change); err != nil {
		return catalog.Product{}, fmt.Errorf("create in %s: %w", cat, err)
	}
	return c[cat][idx], nil
}

// settle moves the product at idx to where the document layout will put it
// and returns its new index. Only hot drinks are reordered: products without
// a description come first.
func settle(c catalog.Catalog, cat catalog.Category, idx int) int {
	list := c[cat]
	if cat == catalog.HotDrinks {
		moved := list[idx]
		var plain, described []catalog.Product
		for i, p := range list {
			if i == idx {
				continue
			}
			if p.HasDescription() {
				described = append(described, p)
			} else {
				plain = append(plain, p)
			}
		}
		// keep the product in its relative place inside its group
		before := 0
		for i := 0; i < idx; i++ {
			if list[i].HasDescription() == moved.HasDescription() {
				before++
			}
		}
		if moved.HasDescription() {
			described = insertAt(described, before, moved)
			idx = len(plain) + before
		} else {
			plain = insertAt(plain, before, moved)
			idx = before
		}
		c[cat] = append(plain, described...)
	}
	renumber(c, cat)
	return idx
}

func insertAt(list []catalog.Product, i int, p catalog.Product) []catalog.Product {
	list = append(list, catalog.Product{})
	copy(list[i+1:], list[i:])
	list[i] = p
	return list
}

func renumber(c catalog.Catalog, cat catalog.Category) {
	list := c[cat]
	for i := range list {
		list[i].Category = cat
		list[i].Position = i + 1
		list[i].Locator = locatorFor(i, list[i])
	}
}

func shortRev(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}
