// Package sqlite provides a SQLite-backed services.NoteStore.
//
// It uses modernc.org/sqlite, a pure Go SQLite implementation that needs no
// CGO. Notes, their tags and their inputs live in three tables managed by the
// versioned migrations in the migrations/ directory.
//
// # Thread Safety
//
// All operations are safe for concurrent use. The database runs in WAL mode
// and SQLite provides the locking.
package sqlite
