package kv

import (
	"fmt"
	"strings"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Store is a persistent key-value store holding one string value per key.
type Store interface {
	// Get returns the value stored under key. ok is false when the key has
	// never been written.
	Get(key string) (value string, ok bool, err error)
	// Set replaces the value stored under key.
	Set(key, value string) error
	// Close releases resources held by the store.
	Close() error
}

// Backends returns the supported backend names.
func Backends() []string {
	return []string{BackendFile, BackendSQLite, BackendMemory}
}

// IsBackend reports whether name is a supported backend.
func IsBackend(name string) bool {
	for _, b := range Backends() {
		if b == name {
			return true
		}
	}
	return false
}

// Open opens a store for the given backend. location is the data directory
// for the file backend and the database path for the sqlite backend; it is
// ignored for the memory backend.
func Open(backend, location string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendFile:
		s, err := NewFileStore(location)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendSQLite:
		s, err := NewSQLiteStore(location)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q (expected %s)", backend, strings.Join(Backends(), "|"))
	}
}

// validateKey rejects keys that cannot be stored by every backend.
func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("key is empty")
	}
	return nil
}

// sanitizeKey maps a key onto a safe file name component.
func sanitizeKey(key string) string {
	var b strings.Builder
	for i := 0; i < len(key); i++ {
		c := key[i]
		valid := (c >= 'A' && c <= 'Z') ||
			(c >= 'a' && c <= 'z') ||
			(c >= '0' && c <= '9') ||
			c == '.' || c == '_' || c == '-'
		if !valid {
			b.WriteByte('_')
			continue
		}
		b.WriteByte(c)
	}

	name := strings.Trim(b.String(), ".")
	if name == "" {
		return "slot"
	}
	return name
}
