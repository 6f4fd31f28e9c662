// Package store provides SQLite-backed storage for record collections and
// exported filter snapshots.
//
// The store holds:
//   - Records: imported dashboard records, grouped by collection
//   - Snapshots: exported filter states with their result counts
//
// # Patterns
//
// Content-addressed records
//   - Each record is stored with the SHA-256 of its canonical JSON
//   - UNIQUE(collection, hash) makes re-importing a file a no-op
//
// Deterministic order
//   - Record ids grow with import order; every query ends in ORDER BY id ASC
//   - Reads return records in the order they were imported
//
// Engine-equivalent reads
//   - SQL narrows candidates (see package querysql)
//   - filter.Apply decides membership, so results equal the in-memory engine
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
