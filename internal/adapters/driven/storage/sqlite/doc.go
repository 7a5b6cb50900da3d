// Package sqlite provides a SQLite-based implementation of the record store ports.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. A single database file holds every
// collection; documents are keyed by (collection, key).
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.catalogsync/data/catalog.db
//
// # Thread Safety
//
// All operations are thread-safe. Upserts are a single INSERT ... ON CONFLICT
// statement, so they are atomic per key.
package sqlite
