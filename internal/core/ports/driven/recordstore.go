package driven

import (
	"context"

	"github.com/gachadex/catalogsync/internal/core/domain"
)

// RecordStore is a keyed document store for a single collection.
// Implementations must make UpsertByKey atomic with respect to concurrent
// writers on the same key.
type RecordStore interface {
	// UpsertByKey replaces the fields of the document stored under key, or
	// inserts a new document when none exists. The key is written under the
	// collection's key field. It returns the resulting document.
	// A nil document with a nil error means the store did not echo the write.
	UpsertByKey(ctx context.Context, key domain.Key, payload domain.Fields) (*domain.Document, error)

	// FindByKey retrieves the document stored under key.
	// Returns domain.ErrNotFound if there is none.
	FindByKey(ctx context.Context, key domain.Key) (*domain.Document, error)
}

// Database is a connection to a record store backend.
// The caller owns its lifecycle and must Close it when done.
type Database interface {
	// Collection returns the store for a named collection keyed on keyField.
	Collection(name, keyField string) RecordStore

	// Close releases the connection.
	Close() error
}
