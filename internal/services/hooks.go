package services

import (
	"context"
	"log/slog"

	"github.com/Lllllllleong/goldflowsync/internal/models"
)

// UpdateHook is invoked once per live update, after the local store has been
// replaced. It stands in for reloading the page.
type UpdateHook func(ctx context.Context, hojas []models.Hoja)

// ChainHooks runs hooks in order, skipping nil ones.
func ChainHooks(hooks ...UpdateHook) UpdateHook {
	var active []UpdateHook
	for _, h := range hooks {
		if h != nil {
			active = append(active, h)
		}
	}
	return func(ctx context.Context, hojas []models.Hoja) {
		for _, h := range active {
			h(ctx, hojas)
		}
	}
}

// SnapshotArchive stores a copy of a remote snapshot.
type SnapshotArchive interface {
	Archive(ctx context.Context, hojas []models.Hoja) error
}

// ArchiveHook archives every live snapshot, logging failures.
func ArchiveHook(a SnapshotArchive) UpdateHook {
	return func(ctx context.Context, hojas []models.Hoja) {
		if err := a.Archive(ctx, hojas); err != nil {
			slog.Error("Failed to archive snapshot.", "error", err, "count", len(hojas))
		}
	}
}
