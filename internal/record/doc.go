// Package record holds the in-memory module record store.
//
// A Store maps module identifiers to ModuleRecords. Each record carries the
// current parameter values, the creation and modification timestamps, and an
// append-only history of every saved or imported snapshot.
//
// # Invariants
//
//   - Created is set exactly once, by the first save or by the import row
//     that creates the record.
//   - Modified is updated on every save and every changing import row.
//   - History never shrinks or reorders.
//   - Parameters always has one value per configured parameter name.
//
// # Reconciliation
//
// ImportRows merges spreadsheet rows in the order they are given. Rows are
// not sorted by timestamp first, so an out-of-order sheet can move Modified
// backwards. ExportAll flattens every record (current state plus history)
// into rows sorted by timestamp, newest first.
//
// The Store performs no locking. It is owned by a single caller, normally
// the tracker, which stages mutations on a Clone before committing them.
package record
