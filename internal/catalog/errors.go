package catalog

import "errors"

var (
	// ErrNotFound means the locator no longer addresses a product.
	ErrNotFound = errors.New("catalog: product not found")
	// ErrConflict means the catalog changed since it was read.
	ErrConflict = errors.New("catalog: concurrent modification")
	// ErrUnknownCategory is returned for keys and codes outside the fixed set.
	ErrUnknownCategory = errors.New("catalog: unknown category")

	ErrInvalidPrice        = errors.New("catalog: invalid price")
	ErrInvalidNames        = errors.New("catalog: expected three names separated by /")
	ErrInvalidDescriptions = errors.New("catalog: expected three descriptions separated by /")
)
