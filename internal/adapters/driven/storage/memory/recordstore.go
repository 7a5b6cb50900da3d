package memory

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/google/uuid"

	"github.com/gachadex/catalogsync/internal/core/domain"
	"github.com/gachadex/catalogsync/internal/core/ports/driven"
)

// Ensure the in-memory types implement the interfaces.
var (
	_ driven.Database    = (*Database)(nil)
	_ driven.RecordStore = (*RecordStore)(nil)
)

// Database is an in-memory implementation of driven.Database.
// Collections live for as long as the Database value.
type Database struct {
	mu          sync.Mutex
	collections map[string]*RecordStore
}

// NewDatabase creates a new in-memory database.
func NewDatabase() *Database {
	return &Database{
		collections: make(map[string]*RecordStore),
	}
}

// Collection returns the named collection, creating it on first use.
func (d *Database) Collection(name, keyField string) driven.RecordStore {
	return d.RecordStore(name, keyField)
}

// RecordStore is like Collection but returns the concrete type.
func (d *Database) RecordStore(name, keyField string) *RecordStore {
	d.mu.Lock()
	defer d.mu.Unlock()
	if s, ok := d.collections[name]; ok {
		return s
	}
	s := NewRecordStore(keyField)
	d.collections[name] = s
	return s
}

// Close is a no-op; documents are kept until the Database is discarded.
func (d *Database) Close() error {
	return nil
}

// entry is a stored document plus its write revision.
type entry struct {
	doc      domain.Document
	revision int
}

// RecordStore is an in-memory implementation of driven.RecordStore.
type RecordStore struct {
	mu       sync.RWMutex
	keyField string
	docs     map[domain.Key]*entry
	silent   bool
}

// NewRecordStore creates a new in-memory record store keyed on keyField.
func NewRecordStore(keyField string) *RecordStore {
	return &RecordStore{
		keyField: keyField,
		docs:     make(map[domain.Key]*entry),
	}
}

// KeyField returns the field the store is keyed on.
func (s *RecordStore) KeyField() string {
	return s.keyField
}

// SetEcho controls whether UpsertByKey returns the written document.
// Disabling it mimics stores that acknowledge writes without the result.
func (s *RecordStore) SetEcho(echo bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.silent = !echo
}

// UpsertByKey replaces or inserts the document stored under key.
func (s *RecordStore) UpsertByKey(_ context.Context, key domain.Key, payload domain.Fields) (*domain.Document, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: empty key", domain.ErrInvalidInput)
	}

	fields := payload.Clone()
	delete(fields, domain.IDField)
	delete(fields, s.keyField)

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.docs[key]
	switch {
	case !ok:
		e = &entry{
			doc:      domain.Document{Key: key, ID: domain.ID(uuid.NewString()), Fields: fields},
			revision: 1,
		}
		s.docs[key] = e
	case !reflect.DeepEqual(e.doc.Fields, fields):
		e.doc.Fields = fields
		e.revision++
	}

	if s.silent {
		return nil, nil
	}
	doc := copyDocument(e.doc)
	return &doc, nil
}

// FindByKey retrieves the document stored under key.
func (s *RecordStore) FindByKey(_ context.Context, key domain.Key) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.docs[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	doc := copyDocument(e.doc)
	return &doc, nil
}

// Put stores a document as-is, keeping its ID. Used to seed existing data.
func (s *RecordStore) Put(doc domain.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.Key] = &entry{doc: copyDocument(doc), revision: 1}
}

// Revision returns how many times the document under key changed content,
// counting the insert. Zero means no document.
func (s *RecordStore) Revision(key domain.Key) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.docs[key]; ok {
		return e.revision
	}
	return 0
}

// Len returns the number of stored documents.
func (s *RecordStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

func copyDocument(doc domain.Document) domain.Document {
	doc.Fields = doc.Fields.Clone()
	return doc
}
