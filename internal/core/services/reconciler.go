package services

import (
	"context"
	"fmt"

	"github.com/gachadex/catalogsync/internal/core/domain"
	"github.com/gachadex/catalogsync/internal/core/ports/driven"
	"github.com/gachadex/catalogsync/internal/core/ports/driving"
	"github.com/gachadex/catalogsync/internal/logger"
)

// Ensure Reconciler implements the interface.
var _ driving.Reconciler = (*Reconciler)(nil)

// Reconciler upserts local records into a keyed store by business key
// and backfills the store-assigned IDs. It holds no state.
type Reconciler struct{}

// NewReconciler creates a new reconciler.
func NewReconciler() *Reconciler {
	return &Reconciler{}
}

// Reconcile processes records one at a time, in order. Each record's
// upsert completes before the next begins. On error the records before the
// failing one are already backfilled; the rest keep their previous IDs.
func (r *Reconciler) Reconcile(
	ctx context.Context,
	store driven.RecordStore,
	records []domain.Record,
) ([]domain.Record, error) {
	logger.Info("Start reconciling %d records", len(records))

	for i := range records {
		record := &records[i]

		doc, err := r.upsert(ctx, store, record)
		if err != nil {
			return records, fmt.Errorf("reconcile record %d (key %s): %w", i, record.Key, err)
		}

		if record.ID.IsZero() || record.ID != doc.ID {
			logger.Debug("Backfill %s: %q -> %q", record.Key, record.ID, doc.ID)
			record.ID = doc.ID
		}
	}

	logger.Info("Reconciled %d records", len(records))
	return records, nil
}

// upsert writes one record and returns the resulting store document,
// falling back to a lookup when the store does not echo the write.
func (r *Reconciler) upsert(
	ctx context.Context,
	store driven.RecordStore,
	record *domain.Record,
) (*domain.Document, error) {
	payload := record.Fields.Clone()
	delete(payload, domain.IDField)

	doc, err := store.UpsertByKey(ctx, record.Key, payload)
	if err != nil {
		return nil, fmt.Errorf("upsert: %w", err)
	}
	if doc != nil {
		return doc, nil
	}

	logger.Debug("Upsert of %s returned no document, looking it up", record.Key)
	doc, err = store.FindByKey(ctx, record.Key)
	if err != nil {
		return nil, fmt.Errorf("find after upsert: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("find after upsert: %w", domain.ErrNotFound)
	}
	return doc, nil
}
