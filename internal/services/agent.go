package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Lllllllleong/goldflowsync/internal/gcp"
	"github.com/Lllllllleong/goldflowsync/internal/localstore"
	"github.com/Lllllllleong/goldflowsync/internal/remote"
)

// SyncAgent holds every dependency of the hoja sync logic.
type SyncAgent struct {
	config    SyncConfig
	kv        localstore.KV
	local     *localstore.HojaStore
	remote    remote.Handle
	tasks     *TaskSet
	saver     Saver
	bootstrap *Bootstrap
	archiver  *gcp.SnapshotArchiver
}

// NewSyncAgent opens the local store, probes the remote store and wires the
// sync paths. onUpdate runs after the configured archive and event hooks on
// every live update; it may be nil.
func NewSyncAgent(ctx context.Context, config SyncConfig, onUpdate UpdateHook) (*SyncAgent, error) {
	kv, err := localstore.Open(config.LocalBackend, config.LocalPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	local := localstore.NewHojaStore(kv, config.LocalKey)

	a := &SyncAgent{
		config: config,
		kv:     kv,
		local:  local,
		tasks:  NewTaskSet(config.UploadConcurrency),
	}

	var hooks []UpdateHook
	if config.SnapshotBucket != "" {
		archiver, err := gcp.NewSnapshotArchiver(ctx, config.SnapshotBucket, config.CollectionName)
		if err != nil {
			_ = kv.Close()
			return nil, fmt.Errorf("failed to create snapshot archiver: %w", err)
		}
		a.archiver = archiver
		hooks = append(hooks, ArchiveHook(archiver))
	}
	if config.EventSinkURL != "" {
		notifier, err := NewEventNotifier(config.EventSinkURL, config.CollectionName)
		if err != nil {
			_ = a.closeStores()
			return nil, fmt.Errorf("failed to create event notifier: %w", err)
		}
		hooks = append(hooks, notifier.Hook())
	}
	hooks = append(hooks, onUpdate)

	a.remote = ProbeRemote(ctx, config)
	uploader := NewUploader(a.remote, config.CollectionName)
	a.saver = NewSyncingSaver(local, uploader, a.tasks)
	a.bootstrap = NewBootstrap(
		NewPuller(a.remote, local, config.CollectionName),
		NewListener(a.remote, local, config.CollectionName, ChainHooks(hooks...)),
		config.DownloadDelay,
		config.ListenDelay,
	)

	slog.Info("Sync agent initialized.",
		"remote", a.remote.String(),
		"localBackend", config.LocalBackend,
		"localKey", local.Key(),
	)
	return a, nil
}

func (a *SyncAgent) Saver() Saver                 { return a.saver }
func (a *SyncAgent) Local() *localstore.HojaStore { return a.local }
func (a *SyncAgent) Remote() remote.Handle        { return a.remote }
func (a *SyncAgent) Tasks() *TaskSet              { return a.tasks }
func (a *SyncAgent) Bootstrap() *Bootstrap        { return a.bootstrap }

// Pull downloads the remote collection immediately.
func (a *SyncAgent) Pull(ctx context.Context) int {
	return a.bootstrap.puller.Pull(ctx)
}

// Listen runs the live subscription immediately.
func (a *SyncAgent) Listen(ctx context.Context) {
	a.bootstrap.listener.Listen(ctx)
}

// Run starts the delayed download and subscription and blocks until ctx is done.
func (a *SyncAgent) Run(ctx context.Context) {
	a.bootstrap.Run(ctx)
}

// Shutdown drains pending uploads, then releases every client.
func (a *SyncAgent) Shutdown(ctx context.Context) error {
	var errs []error
	if err := a.tasks.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("pending uploads: %w", err))
	}
	if err := a.remote.Close(); err != nil {
		errs = append(errs, fmt.Errorf("remote store: %w", err))
	}
	if err := a.closeStores(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (a *SyncAgent) closeStores() error {
	var errs []error
	if a.archiver != nil {
		if err := a.archiver.Close(); err != nil {
			errs = append(errs, fmt.Errorf("snapshot archiver: %w", err))
		}
	}
	if err := a.kv.Close(); err != nil {
		errs = append(errs, fmt.Errorf("local store: %w", err))
	}
	return errors.Join(errs...)
}
