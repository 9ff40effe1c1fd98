// Package store provides the opaque key-value stores the front-ends use to
// persist history between runs.
package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

// ErrNotFound is returned by Get for a key that has never been written.
var ErrNotFound = errors.New("key not found")

// Store is a minimal byte-oriented key-value store.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// Kind selects a Store implementation.
type Kind string

const (
	KindFile   Kind = "file"
	KindSQLite Kind = "sqlite"
	KindMemory Kind = "memory"
)

// Open creates a store of the given kind. location is a directory for
// file stores and a database path for SQLite; memory stores ignore it.
func Open(kind Kind, location string) (Store, error) {
	switch kind {
	case KindFile:
		return NewFileStore(location)
	case KindSQLite:
		return NewSQLiteStore(location)
	case KindMemory, "":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store kind %q", kind)
	}
}

var validKey = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

func checkKey(key string) error {
	if !validKey.MatchString(key) {
		return fmt.Errorf("invalid key %q", key)
	}
	return nil
}
