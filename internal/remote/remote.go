// Package remote defines the contract every remote document store backend
// satisfies, and the availability handle that gates all remote operations.
package remote

import (
	"context"

	"github.com/Lllllllleong/goldflowsync/internal/models"
)

// Batch stages merge-upserts and applies them with a single Commit.
type Batch interface {
	// Set stages a merge-upsert of hoja into the document keyed by id.
	Set(id string, hoja models.Hoja)
	Commit(ctx context.Context) error
}

// Store is a remote collection of hojas.
type Store interface {
	NewBatch() Batch
	// GetAll fetches every document of the collection in one request.
	GetAll(ctx context.Context) ([]models.Hoja, error)
	// Listen blocks, calling onSnapshot with the full current document set on
	// every change notification. It returns nil once ctx is done, or the
	// subscription error. It never re-subscribes.
	Listen(ctx context.Context, onSnapshot func([]models.Hoja)) error
	Close() error
}

// Handle is either an available Store or an explicit unavailable marker.
type Handle struct {
	store  Store
	reason string
}

func Available(s Store) Handle {
	return Handle{store: s}
}

func Unavailable(reason string) Handle {
	return Handle{reason: reason}
}

// Store returns the backing store and whether it is available.
func (h Handle) Store() (Store, bool) {
	return h.store, h.store != nil
}

// Reason explains why the handle is unavailable. Empty when available.
func (h Handle) Reason() string {
	return h.reason
}

func (h Handle) String() string {
	if h.store != nil {
		return "available"
	}
	return "unavailable"
}

// Close releases the underlying store, if any.
func (h Handle) Close() error {
	if h.store == nil {
		return nil
	}
	return h.store.Close()
}
