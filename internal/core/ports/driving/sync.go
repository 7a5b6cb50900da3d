package driving

import (
	"context"

	"github.com/gachadex/catalogsync/internal/core/domain"
)

// SyncSummary reports the outcome of reconciling one catalog.
type SyncSummary struct {
	// Catalog is the collection that was reconciled.
	Catalog domain.Catalog

	// Records is the number of records in the catalog file.
	Records int

	// Backfilled is the number of records whose ID was set or corrected.
	Backfilled int
}

// Synchroniser reconciles catalog files against the record store.
type Synchroniser interface {
	// Sync reconciles a single catalog and writes assigned IDs back to its file.
	Sync(ctx context.Context, catalog domain.Catalog) (*SyncSummary, error)

	// SyncAll reconciles every catalog in order and stops at the first failure.
	SyncAll(ctx context.Context) ([]SyncSummary, error)
}
