package driving

import (
	"context"

	"github.com/gachadex/catalogsync/internal/core/domain"
	"github.com/gachadex/catalogsync/internal/core/ports/driven"
)

// Reconciler upserts an ordered collection into a keyed store and
// backfills store-assigned identifiers into the local records.
type Reconciler interface {
	// Reconcile processes records strictly in order and returns the same
	// slice with ID fields backfilled. The store handle is owned by the caller.
	Reconcile(ctx context.Context, store driven.RecordStore, records []domain.Record) ([]domain.Record, error)
}
