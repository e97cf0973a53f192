package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by a Backend when a key has never been written.
var ErrNotFound = errors.New("key not found")

// Backend is the key-value medium collections are persisted to. Each key
// holds one JSON document for a whole collection.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}
