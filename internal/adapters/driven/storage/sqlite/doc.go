// Package sqlite provides the SQLite-backed document store of one index.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. Each index directory
// carries its own documents.db holding the ordered chunk list: position i in
// the table is the chunk embedded as vector i in vectors.bin.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode; after a build completes the table is read-only.
package sqlite
