package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Lllllllleong/goldflowsync/internal/couchdb"
	"github.com/Lllllllleong/goldflowsync/internal/gcp"
	"github.com/Lllllllleong/goldflowsync/internal/remote"
)

// ProbeRemote builds the configured remote backend. It never fails: any error
// or panic while building the client yields an unavailable handle, and every
// remote operation then degrades to local-only.
func ProbeRemote(ctx context.Context, config SyncConfig) (h remote.Handle) {
	logCtx := slog.With("backend", config.RemoteBackend, "collection", config.CollectionName)

	defer func() {
		if r := recover(); r != nil {
			h = remote.Unavailable(fmt.Sprintf("probe panicked: %v", r))
		}
		if _, ok := h.Store(); ok {
			logCtx.Info("Remote store is ready.")
		} else {
			logCtx.Warn("Remote store is not available.", "reason", h.Reason())
		}
	}()

	switch config.RemoteBackend {
	case "firestore":
		if config.ProjectID == "" {
			return remote.Unavailable("no project id configured")
		}
		client, err := gcp.NewFirestoreClient(ctx, config.ProjectID)
		if err != nil {
			return remote.Unavailable(err.Error())
		}
		return remote.Available(gcp.NewFirestoreStore(client, config.CollectionName))
	case "couchdb":
		if config.CouchDBURL == "" {
			return remote.Unavailable("no CouchDB url configured")
		}
		store, err := couchdb.Open(ctx, config.CouchDBURL, config.CollectionName)
		if err != nil {
			return remote.Unavailable(err.Error())
		}
		return remote.Available(store)
	default:
		return remote.Unavailable(fmt.Sprintf("unknown remote backend %q", config.RemoteBackend))
	}
}
