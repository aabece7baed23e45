// Package storage provides the flat key-value store the session service
// persists through.
//
// Backends:
//   - SQLite: single-file database (modernc.org/sqlite, no cgo)
//   - Memory: in-process map, used for development and tests
//
// Values are opaque blobs; GetJSON/SetJSON encode them with sonic.
// The store has no transactions and no schema for the values it holds.
package storage
