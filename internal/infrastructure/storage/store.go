package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("storage: store is closed")

// Store is a flat key-value store holding opaque blobs.
// There are no transactions; each Set replaces the whole value.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Config selects and configures a backend
type Config struct {
	Driver string // "sqlite" or "memory"
	Path   string
}

// Open creates the backend named by cfg.Driver
func Open(cfg Config) (Store, error) {
	switch cfg.Driver {
	case "memory":
		return NewMemory(), nil
	case "sqlite", "":
		return OpenSQLite(cfg.Path)
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.Driver)
	}
}

// GetJSON decodes the blob at key into v. found is false when the key is absent.
func GetJSON(ctx context.Context, s Store, key string, v any) (bool, error) {
	data, found, err := s.Get(ctx, key)
	if err != nil || !found {
		return false, err
	}
	if err := sonic.Unmarshal(data, v); err != nil {
		return true, fmt.Errorf("storage: decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes v and stores it under key
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := sonic.Marshal(v)
	if err != nil {
		return fmt.Errorf("storage: encode %s: %w", key, err)
	}
	return s.Set(ctx, key, data)
}
