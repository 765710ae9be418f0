// Package kv provides the persistent key-value slots task state is mirrored to.
//
// A Store maps a key to a single string value. Every Set replaces the whole
// value for that key; readers never observe a partially written value.
//
// # Backends
//
//   - "file": one <key>.json file per key inside a data directory. Writes go
//     to a temporary file in the same directory and are renamed into place.
//   - "sqlite": a kv(key, value) table in a SQLite database, accessed through
//     database/sql with the pure-Go modernc.org/sqlite driver.
//   - "memory": an in-process map, useful for tests and throwaway sessions.
package kv
