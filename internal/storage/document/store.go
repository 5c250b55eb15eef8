// Package document keeps the catalog as one JSON document and edits it with
// a read-modify-write cycle guarded by the document revision.
package document

import "context"

// Store reads and replaces the whole menu document.
type Store interface {
	// Fetch returns the current content and an opaque revision.
	Fetch(ctx context.Context) (content []byte, revision string, err error)
	// Replace writes content if the stored revision still equals revision and
	// returns catalog.ErrConflict otherwise. message describes the change.
	Replace(ctx context.Context, content []byte, revision, message string) error
	// Backend names the store in logs and metrics.
	Backend() string
}
