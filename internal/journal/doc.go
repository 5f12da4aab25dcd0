// Package journal provides a SQLite-backed operation log for wiretrack.
//
// Every mutating tracker operation appends one entry:
//   - initialize, save, revert, delete: one module, with the parameter values
//   - import, export: bulk operations, with row counts in the detail object
//
// # Patterns
//
// Append-only: entries are never updated or deleted.
//
// Logical ordering: entries are ordered by seq INTEGER PRIMARY KEY, never by
// the timestamp string, so two operations stamped in the same second keep
// the order they were applied in.
//
// Identity: each entry gets a UUIDv7 id, time-sortable and unique across
// journals, so entries can be correlated with log lines.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
package journal
