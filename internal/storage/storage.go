package storage

import (
	"context"
	"errors"
)

var (
	// ErrQuotaExceeded is returned when a write would exceed the backend's capacity.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
	// ErrUnavailable is returned by a backend that is closed or disabled.
	ErrUnavailable = errors.New("storage unavailable")
)

// Storage is a synchronous string-keyed store of opaque values. A Set
// replaces the whole value stored under the key.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// Keys lists stored keys starting with prefix, sorted.
	Keys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}
