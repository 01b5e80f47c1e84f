// Package localstore is the device-local persistence for hojas: a small
// string key/value store and the hoja array kept under one of its keys.
package localstore

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
)

// DefaultKey is the key the hoja array is stored under.
const DefaultKey = "goldflow_hojas"

// ErrInvalidJSON is returned when a payload to store is not valid JSON.
var ErrInvalidJSON = errors.New("payload is not valid JSON")

// KV is a string key/value store. Each SetItem replaces the whole value.
type KV interface {
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	SetItem(ctx context.Context, key, value string) error
	Close() error
}

// Open returns the KV for backend ("file" or "sqlite") rooted at the
// directory path.
func Open(backend, path string) (KV, error) {
	switch backend {
	case "", "file":
		return NewFileKV(path)
	case "sqlite":
		return OpenSQLiteKV(filepath.Join(path, "goldflow.db"))
	default:
		return nil, fmt.Errorf("unknown local backend %q", backend)
	}
}
