// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements multiple store interfaces
// through a single database connection:
//
//   - DocumentStore: the ingestion ledger, unique on remote item ID
//   - ExpenseStore: expenses recovered from receipts
//   - SyncStateStore: delta cursor persistence
//   - PollHistoryStore: watcher poll results
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.fieldarchive/data/ledger.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode. The unique index on remote_item_id makes concurrent
// ingestion of the same remote item fail with domain.ErrAlreadyExists.
package sqlite
