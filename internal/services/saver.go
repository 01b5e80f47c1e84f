package services

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
)

// Saver persists a save payload. The payload is raw JSON as received from
// the caller and is not guaranteed to be an array.
type Saver interface {
	Save(ctx context.Context, raw json.RawMessage) error
}

// SyncingSaver decorates a local Saver so that every successful save also
// schedules a detached upload of the same payload.
type SyncingSaver struct {
	inner    Saver
	uploader *Uploader
	tasks    *TaskSet
}

// NewSyncingSaver wraps inner. When there is nothing to wrap it logs and
// returns nil; it never installs itself around a saver provided later.
func NewSyncingSaver(inner Saver, uploader *Uploader, tasks *TaskSet) Saver {
	if inner == nil {
		slog.Warn("No local saver to wrap, saves will not be synced.")
		return nil
	}
	slog.Info("Wrapping local saver to sync hojas with the remote store.")
	return &SyncingSaver{inner: inner, uploader: uploader, tasks: tasks}
}

// Save runs the wrapped save synchronously, then schedules the upload
// without waiting for it. Only the wrapped save's error is returned.
func (s *SyncingSaver) Save(ctx context.Context, raw json.RawMessage) error {
	if err := s.inner.Save(ctx, raw); err != nil {
		return err
	}
	s.scheduleUpload(raw)
	return nil
}

func (s *SyncingSaver) scheduleUpload(raw json.RawMessage) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Failed to schedule hoja sync.", "panic", r)
		}
	}()

	// The caller owns raw and may reuse it once Save returns.
	payload := json.RawMessage(bytes.Clone(raw))
	err := s.tasks.Go("upload-hojas", func(ctx context.Context) error {
		s.uploader.Upload(ctx, payload)
		return nil
	})
	if err != nil {
		slog.Error("Failed to schedule hoja sync.", "error", err)
	}
}
