package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/gachadex/catalogsync/internal/core/domain"
	"github.com/gachadex/catalogsync/internal/core/ports/driven"
	"github.com/gachadex/catalogsync/internal/core/ports/driving"
	"github.com/gachadex/catalogsync/internal/logger"
)

// Ensure Synchroniser implements the interface.
var _ driving.Synchroniser = (*Synchroniser)(nil)

// Synchroniser reconciles catalog files against a record store and writes
// the store-assigned IDs back into the files.
type Synchroniser struct {
	db         driven.Database
	files      driven.CatalogFiles
	reconciler driving.Reconciler
}

// NewSynchroniser creates a synchroniser. The caller owns db and closes it.
func NewSynchroniser(db driven.Database, files driven.CatalogFiles, reconciler driving.Reconciler) *Synchroniser {
	return &Synchroniser{
		db:         db,
		files:      files,
		reconciler: reconciler,
	}
}

// Sync reconciles one catalog. When reconciliation fails part way, the IDs
// assigned so far are still written back before the error is returned.
func (s *Synchroniser) Sync(ctx context.Context, catalog domain.Catalog) (*driving.SyncSummary, error) {
	logger.Section("Sync " + catalog.String())

	switch catalog {
	case domain.CatalogAgents:
		characters, err := s.files.LoadCharacters()
		if err != nil {
			return nil, fmt.Errorf("load characters: %w", err)
		}
		summary, syncErr := reconcileEntities(ctx, s.reconciler, s.store(catalog), catalog,
			characters, domain.Character.Record, func(c *domain.Character, id domain.ID) { c.ID = id })
		if err := s.files.SaveCharacters(characters); err != nil {
			return summary, errors.Join(syncErr, fmt.Errorf("save characters: %w", err))
		}
		return summary, syncErr

	case domain.CatalogEngines:
		weapons, err := s.files.LoadWeapons()
		if err != nil {
			return nil, fmt.Errorf("load weapons: %w", err)
		}
		summary, syncErr := reconcileEntities(ctx, s.reconciler, s.store(catalog), catalog,
			weapons, domain.Weapon.Record, func(w *domain.Weapon, id domain.ID) { w.ID = id })
		if err := s.files.SaveWeapons(weapons); err != nil {
			return summary, errors.Join(syncErr, fmt.Errorf("save weapons: %w", err))
		}
		return summary, syncErr

	default:
		return nil, fmt.Errorf("%w: catalog %q", domain.ErrUnsupportedType, catalog)
	}
}

// SyncAll reconciles every catalog in order and stops at the first failure.
func (s *Synchroniser) SyncAll(ctx context.Context) ([]driving.SyncSummary, error) {
	summaries := make([]driving.SyncSummary, 0, len(domain.AllCatalogs()))
	for _, catalog := range domain.AllCatalogs() {
		summary, err := s.Sync(ctx, catalog)
		if summary != nil {
			summaries = append(summaries, *summary)
		}
		if err != nil {
			return summaries, fmt.Errorf("sync %s: %w", catalog, err)
		}
	}
	return summaries, nil
}

// reconcileEntities serialises entities to records, reconciles them against the
// catalog's collection and copies the resulting IDs back by index.
func reconcileEntities[T any](
	ctx context.Context,
	reconciler driving.Reconciler,
	store driven.RecordStore,
	catalog domain.Catalog,
	entities []T,
	toRecord func(T) domain.Record,
	setID func(*T, domain.ID),
) (*driving.SyncSummary, error) {
	records := make([]domain.Record, len(entities))
	for i, e := range entities {
		records[i] = toRecord(e)
	}
	before := make([]domain.ID, len(records))
	for i, rec := range records {
		before[i] = rec.ID
	}

	reconciled, err := reconciler.Reconcile(ctx, store, records)

	summary := &driving.SyncSummary{Catalog: catalog, Records: len(entities)}
	for i := range reconciled {
		if i >= len(entities) {
			break
		}
		if reconciled[i].ID != before[i] {
			summary.Backfilled++
		}
		setID(&entities[i], reconciled[i].ID)
	}

	if err != nil {
		logger.Warn("Sync of %s stopped early: %v", catalog, err)
		return summary, err
	}
	logger.Info("Synced %s: %d records, %d backfilled", catalog, summary.Records, summary.Backfilled)
	return summary, nil
}

// store returns the collection backing a catalog.
func (s *Synchroniser) store(catalog domain.Catalog) driven.RecordStore {
	return s.db.Collection(catalog.String(), domain.KeyField)
}
