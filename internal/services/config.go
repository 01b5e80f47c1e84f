package services

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Lllllllleong/goldflowsync/internal/gcp"
	"github.com/Lllllllleong/goldflowsync/internal/localstore"
	"github.com/go-playground/validator/v10"
)

// DefaultCollection is the remote collection hojas are mirrored into.
const DefaultCollection = "hojas_goldflow"

// SyncConfig holds all configuration for the sync agent.
type SyncConfig struct {
	RemoteBackend     string `validate:"oneof=firestore couchdb"`
	ProjectID         string
	CouchDBURL        string        `validate:"omitempty,url"`
	CollectionName    string        `validate:"required"`
	LocalBackend      string        `validate:"oneof=file sqlite"`
	LocalPath         string        `validate:"required"`
	LocalKey          string        `validate:"required"`
	DownloadDelay     time.Duration `validate:"gte=0"`
	ListenDelay       time.Duration `validate:"gte=0"`
	SnapshotBucket    string
	EventSinkURL      string `validate:"omitempty,url"`
	ListenAddr        string `validate:"required"`
	UploadConcurrency int    `validate:"gte=1"`
}

// LoadConfig reads the agent configuration from the environment.
func LoadConfig() (*SyncConfig, error) {
	downloadDelay, err := time.ParseDuration(gcp.GetEnv("DOWNLOAD_DELAY", "1500ms"))
	if err != nil {
		return nil, fmt.Errorf("invalid DOWNLOAD_DELAY: %w", err)
	}
	listenDelay, err := time.ParseDuration(gcp.GetEnv("LISTEN_DELAY", "1800ms"))
	if err != nil {
		return nil, fmt.Errorf("invalid LISTEN_DELAY: %w", err)
	}
	concurrency, err := strconv.Atoi(gcp.GetEnv("UPLOAD_CONCURRENCY", "4"))
	if err != nil {
		return nil, fmt.Errorf("invalid UPLOAD_CONCURRENCY: %w", err)
	}

	config := &SyncConfig{
		RemoteBackend:     gcp.GetEnv("REMOTE_BACKEND", "firestore"),
		ProjectID:         gcp.GetEnv("PROJECT_ID", gcp.GetEnv("GOOGLE_CLOUD_PROJECT", "")),
		CouchDBURL:        gcp.GetEnv("COUCHDB_URL", ""),
		CollectionName:    gcp.GetEnv("HOJAS_COLLECTION", DefaultCollection),
		LocalBackend:      gcp.GetEnv("LOCAL_BACKEND", "file"),
		LocalPath:         gcp.GetEnv("LOCAL_PATH", ".goldflow"),
		LocalKey:          gcp.GetEnv("LOCAL_KEY", localstore.DefaultKey),
		DownloadDelay:     downloadDelay,
		ListenDelay:       listenDelay,
		SnapshotBucket:    gcp.GetEnv("SNAPSHOT_BUCKET", ""),
		EventSinkURL:      gcp.GetEnv("EVENT_SINK_URL", ""),
		ListenAddr:        gcp.GetEnv("LISTEN_ADDR", "127.0.0.1:8080"),
		UploadConcurrency: concurrency,
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *SyncConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
