package gcp

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"

	"cloud.google.com/go/storage"
	"github.com/Lllllllleong/goldflowsync/internal/models"
	"google.golang.org/api/googleapi"
)

// GetEnv is a helper to read an environment variable or return a default value.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

// SaveToGCSAtomically writes content to a GCS object only if it doesn't already exist.
// An existing object is not a failure.
func SaveToGCSAtomically(ctx context.Context, bucket *storage.BucketHandle, objectName string, content []byte) error {
	writer := bucket.Object(objectName).If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	writer.ContentType = "application/json"

	if _, err := io.Copy(writer, bytes.NewReader(content)); err != nil {
		_ = writer.Close()
		if isPreconditionFailed(err) {
			slog.Info("Object already exists, skipping.", "gcsObject", objectName)
			return nil
		}
		return fmt.Errorf("failed to write to GCS: %w", err)
	}

	if err := writer.Close(); err != nil {
		if isPreconditionFailed(err) {
			slog.Info("Object already exists, skipping.", "gcsObject", objectName)
			return nil
		}
		return fmt.Errorf("failed to finalize GCS write: %w", err)
	}
	return nil
}

func isPreconditionFailed(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusPreconditionFailed
}

// SnapshotArchiver keeps a content-addressed copy of every remote snapshot.
type SnapshotArchiver struct {
	client     *storage.Client
	bucket     string
	collection string
}

// NewSnapshotArchiver creates a storage client writing into bucket.
func NewSnapshotArchiver(ctx context.Context, bucket, collection string) (*SnapshotArchiver, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket must be provided to archive snapshots")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &SnapshotArchiver{client: client, bucket: bucket, collection: collection}, nil
}

// Archive writes hojas to gs://<bucket>/<collection>/<sha256>.json unless an
// identical snapshot is already there.
func (a *SnapshotArchiver) Archive(ctx context.Context, hojas []models.Hoja) error {
	content, err := models.EncodeHojas(hojas)
	if err != nil {
		return err
	}
	objectName := SnapshotObjectName(a.collection, []byte(content))
	if err := SaveToGCSAtomically(ctx, a.client.Bucket(a.bucket), objectName, []byte(content)); err != nil {
		return fmt.Errorf("failed to archive snapshot to gs://%s/%s: %w", a.bucket, objectName, err)
	}
	return nil
}

func (a *SnapshotArchiver) Close() error {
	return a.client.Close()
}

// SnapshotObjectName is the object path for a snapshot's serialized content.
func SnapshotObjectName(collection string, content []byte) string {
	sum := sha256.Sum256(content)
	return path.Join(collection, hex.EncodeToString(sum[:])+".json")
}
