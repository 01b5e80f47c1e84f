package services

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/Lllllllleong/goldflowsync/internal/models"
	"github.com/Lllllllleong/goldflowsync/internal/remote"
)

// Uploader mirrors saved hojas into the remote collection.
type Uploader struct {
	remote     remote.Handle
	collection string
}

func NewUploader(h remote.Handle, collection string) *Uploader {
	return &Uploader{remote: h, collection: collection}
}

// Upload stages one merge-upsert per hoja with a usable id and commits them
// as a single batch. It never returns an error: every failure is logged here
// and the hojas are dropped.
func (u *Uploader) Upload(ctx context.Context, raw json.RawMessage) {
	logCtx := slog.With("collection", u.collection)

	store, ok := u.remote.Store()
	if !ok {
		logCtx.Warn("Remote store unavailable, hojas not synced.", "reason", u.remote.Reason())
		return
	}

	hojas, total, err := models.DecodeHojas(raw)
	if err != nil {
		logCtx.Warn("Upload received a payload that is not an array of hojas.", "error", err)
		return
	}

	defer func() {
		if r := recover(); r != nil {
			logCtx.Error("Failed to upload hojas to remote store.", "panic", r)
		}
	}()

	batch := store.NewBatch()
	for _, hoja := range hojas {
		id, _ := hoja.ID()
		batch.Set(id, hoja)
	}

	if err := batch.Commit(ctx); err != nil {
		logCtx.Error("Failed to upload hojas to remote store.", "error", err, "staged", len(hojas))
		return
	}
	logCtx.Info("Hojas synced with remote store.", "count", total, "staged", len(hojas))
}
