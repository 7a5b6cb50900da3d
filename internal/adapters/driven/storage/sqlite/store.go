package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/gachadex/catalogsync/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/gachadex/catalogsync/internal/core/domain"
	"github.com/gachadex/catalogsync/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.Database = (*Store)(nil)

// Store is a SQLite-backed record database.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.catalogsync/data/catalog.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".catalogsync", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "catalog.db")

	// WAL journal, 5s busy timeout.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Collection returns a RecordStore for the named collection.
// The key field is implied by the (collection, key) primary key.
func (s *Store) Collection(name, _ string) driven.RecordStore {
	return &recordStore{store: s, collection: name}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_documents.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// recordStore implements driven.RecordStore for one collection.
type recordStore struct {
	store      *Store
	collection string
}

var _ driven.RecordStore = (*recordStore)(nil)

// UpsertByKey inserts or replaces the document in a single statement.
// The ID is generated on insert and kept on conflict.
func (s *recordStore) UpsertByKey(ctx context.Context, key domain.Key, payload domain.Fields) (*domain.Document, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: empty key", domain.ErrInvalidInput)
	}

	fields := payload.Clone()
	delete(fields, domain.IDField)

	fieldsJSON, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("marshalling fields: %w", err)
	}

	now := time.Now().UTC()
	row := s.store.db.QueryRowContext(ctx, `
		INSERT INTO documents (collection, doc_key, id, fields, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(collection, doc_key) DO UPDATE SET
			fields = excluded.fields,
			updated_at = CASE
				WHEN documents.fields = excluded.fields THEN documents.updated_at
				ELSE excluded.updated_at
			END
		RETURNING id, fields
	`, s.collection, string(key), uuid.NewString(), string(fieldsJSON), now, now)

	doc, err := scanDocument(row, key)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("upserting document: %w", err)
	}
	return doc, nil
}

// FindByKey retrieves the document stored under key.
func (s *recordStore) FindByKey(ctx context.Context, key domain.Key) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, fields FROM documents WHERE collection = ? AND doc_key = ?
	`, s.collection, string(key))

	doc, err := scanDocument(row, key)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("finding document: %w", err)
	}
	return doc, err
}

// scanDocument reads an (id, fields) row.
func scanDocument(row *sql.Row, key domain.Key) (*domain.Document, error) {
	var id, fieldsJSON string
	if err := row.Scan(&id, &fieldsJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	var fields domain.Fields
	if err := json.Unmarshal([]byte(fieldsJSON), &fields); err != nil {
		return nil, fmt.Errorf("unmarshaling fields: %w", err)
	}

	return &domain.Document{Key: key, ID: domain.ID(id), Fields: fields}, nil
}
