// Package sqlite provides a SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It persists chat history only; the vector
// index is rebuilt in memory on every ingestion and is never stored.
//
// # Schema
//
// The schema is built from versioned migrations in migrations/, embedded into
// the binary. Each migration is a pair of .up.sql and .down.sql files, and
// applied versions are recorded in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.kbase/data/kbase.db
package sqlite
