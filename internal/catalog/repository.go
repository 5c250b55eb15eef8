package catalog

import "context"

// Ref addresses one product.
type Ref struct {
	Category Category
	Locator  string
}

// Mutation edits p in place and describes the change for the audit trail.
// Returning an error aborts the write.
type Mutation func(p *Product) (change string, err error)

// Repository is the data-access contract of the admin engine and the menu page.
//
// Every write is checked against the state it was read from: implementations
// return ErrConflict when a concurrent writer got there first and ErrNotFound
// when the locator no longer resolves.
type Repository interface {
	Catalog(ctx context.Context) (Catalog, error)
	List(ctx context.Context, cat Category) ([]Product, error)
	Get(ctx context.Context, ref Ref) (Product, error)
	Update(ctx context.Context, ref Ref, apply Mutation) (Product, error)
	Delete(ctx context.Context, ref Ref, describe func(Product) string) (Product, error)
	// Create appends p at the end of cat.
	Create(ctx context.Context, cat Category, p Product, change string) (Product, error)
}
