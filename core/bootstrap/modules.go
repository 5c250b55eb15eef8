package bootstrap

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Seeder loads reference data once the schema is in place.
type Seeder interface {
	Seed(ctx context.Context, db *sqlx.DB) error
}

// SeederFunc adapts a bare function to the Seeder interface.
type SeederFunc func(ctx context.Context, db *sqlx.DB) error

// Seed executes the underlying function.
func (f SeederFunc) Seed(ctx context.Context, db *sqlx.DB) error {
	return f(ctx, db)
}

// Modules groups optional startup hooks.
type Modules struct {
	Seeders []Seeder
}
