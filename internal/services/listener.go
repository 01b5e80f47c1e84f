package services

import (
	"context"
	"log/slog"

	"github.com/Lllllllleong/goldflowsync/internal/models"
	"github.com/Lllllllleong/goldflowsync/internal/remote"
)

// Listener keeps the local store in step with live remote changes.
type Listener struct {
	remote     remote.Handle
	local      LocalStore
	collection string
	onUpdate   UpdateHook
}

func NewListener(h remote.Handle, local LocalStore, collection string, onUpdate UpdateHook) *Listener {
	return &Listener{remote: h, local: local, collection: collection, onUpdate: onUpdate}
}

// Listen opens one standing subscription and blocks until ctx is done or the
// subscription fails. Each notification replaces the local array with the
// full remote set and fires the update hook once. Failures are logged and
// the subscription is not re-established.
func (l *Listener) Listen(ctx context.Context) {
	logCtx := slog.With("collection", l.collection)

	store, ok := l.remote.Store()
	if !ok {
		logCtx.Warn("Remote store unavailable, live sync not started.", "reason", l.remote.Reason())
		return
	}

	logCtx.Info("Activating live subscription.")
	err := store.Listen(ctx, func(hojas []models.Hoja) {
		if err := l.local.Replace(ctx, hojas); err != nil {
			logCtx.Error("Failed to store live update.", "error", err)
			return
		}
		logCtx.Info("Live update received.", "count", len(hojas))
		if l.onUpdate != nil {
			l.onUpdate(ctx, hojas)
		}
	})
	if err != nil {
		logCtx.Error("Live subscription failed.", "error", err)
		return
	}
	logCtx.Info("Live subscription stopped.")
}
