package services

import (
	"context"
	"log/slog"

	"github.com/Lllllllleong/goldflowsync/internal/models"
	"github.com/Lllllllleong/goldflowsync/internal/remote"
)

// LocalStore is the local side written by remote reads.
type LocalStore interface {
	Replace(ctx context.Context, hojas []models.Hoja) error
}

// Puller copies the remote collection into the local store.
type Puller struct {
	remote     remote.Handle
	local      LocalStore
	collection string
}

func NewPuller(h remote.Handle, local LocalStore, collection string) *Puller {
	return &Puller{remote: h, local: local, collection: collection}
}

// Pull fetches every remote hoja once and replaces the local array with
// them. An empty collection or a failed fetch leaves the local store as it
// was. It returns the number of hojas written.
func (p *Puller) Pull(ctx context.Context) int {
	logCtx := slog.With("collection", p.collection)

	store, ok := p.remote.Store()
	if !ok {
		logCtx.Warn("Remote store unavailable, hojas not downloaded.", "reason", p.remote.Reason())
		return 0
	}

	hojas, err := store.GetAll(ctx)
	if err != nil {
		logCtx.Error("Failed to download hojas.", "error", err)
		return 0
	}
	if len(hojas) == 0 {
		logCtx.Info("No hojas in the remote store yet.")
		return 0
	}

	if err := p.local.Replace(ctx, hojas); err != nil {
		logCtx.Error("Failed to store downloaded hojas.", "error", err)
		return 0
	}
	logCtx.Info("Hojas downloaded from remote store.", "count", len(hojas))
	return len(hojas)
}
