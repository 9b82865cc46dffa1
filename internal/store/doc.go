// Package store provides SQLite-backed durable storage for Felix's
// append-only fact log.
//
// The store holds:
//   - fields / f_values: content-addressed interning tables
//   - records: one row per seen record_id
//   - facts: the append-only log, one row per (record_id, field_id, ts)
//   - current_facts: the latest-value-per-field projection
//
// # Critical Patterns
//
// CP-1: Content-Addressed Interning
//   - fields and f_values are keyed by a SHA-256 identity hash (UNIQUE)
//   - get-or-create is INSERT OR IGNORE followed by SELECT-by-hash, so
//     concurrent writers never race on which row "wins"
//
// CP-2: Append-Only Fact Log
//   - facts is never updated or deleted, only inserted
//   - (record_id, field_id, ts) is the primary key: a field can carry at
//     most one fact per instant
//
// CP-3: Conditional Current-View Upsert
//   - current_facts is maintained by UpsertCurrentIfNewer, an
//     INSERT ... ON CONFLICT DO UPDATE ... WHERE excluded.ts >= current.ts
//   - out-of-order ingestion (a fact older than what's already current)
//     never regresses the projection; RebuildCurrent recomputes it from
//     scratch when that guarantee needs re-verifying
//
// CP-4: Format Generations
//   - a database's meta table declares its (tag_map, hash_format) pair
//   - a fresh database always writes the current generation; a database
//     opened without those meta keys is treated as the legacy generation
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: enforce referential integrity
//   - single connection (SetMaxOpenConns(1)): SQLite allows one writer at a
//     time, and Felix's transactions are short enough that serializing all
//     access through one connection is simpler than a reader/writer split
package store
