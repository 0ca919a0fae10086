// Package store persists knowledge graph snapshots.
//
// This package defines the [Store] interface with implementations for
// different backends:
//   - [FileStore]: gob-encoded snapshot file in a data directory (default)
//   - [RedisStore]: snapshot bytes under a Redis key, for shared setups
//   - [MongoStore]: snapshot as a bson document, for hosted deployments
//   - [MemStore]: in-memory, for tests and the demo server
//
// The snapshot encoding is implementation-specific and makes no
// cross-version promises; the portable format is pkg/graphio's JSON.
// What snapshots add over the interchange format is fidelity: node
// timestamps and parallel edge keys survive a save/load cycle exactly.
//
// # Backups
//
// Every backend supports named backups of the current snapshot
// (a byte-copy for the file store, a key/document copy elsewhere).
// Backing up before a snapshot exists fails with [ErrNoSnapshot] and
// creates nothing. Use [TimestampName] for dated backup names.
//
// # Failure Behavior
//
// All failures are explicit error returns: a missing snapshot is
// [ErrNoSnapshot], an undecodable one wraps [ErrCorruptSnapshot], and
// I/O problems are wrapped with context. Load never mutates caller
// state, so the in-memory graph is untouched when a load fails.
package store
