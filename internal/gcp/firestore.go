package gcp

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/firestore"
	"github.com/Lllllllleong/goldflowsync/internal/models"
	"github.com/Lllllllleong/goldflowsync/internal/remote"
	"google.golang.org/api/iterator"
)

// NewFirestoreClient creates and returns a new Firestore client for the given project ID.
func NewFirestoreClient(ctx context.Context, projectID string) (*firestore.Client, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID must be provided to create a firestore client")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}

	return client, nil
}

// FirestoreStore is a remote.Store over a single Firestore collection.
type FirestoreStore struct {
	client     *firestore.Client
	collection string
}

var _ remote.Store = (*FirestoreStore)(nil)

// NewFirestoreStore wraps client for the named collection.
func NewFirestoreStore(client *firestore.Client, collection string) *FirestoreStore {
	return &FirestoreStore{client: client, collection: collection}
}

func (s *FirestoreStore) NewBatch() remote.Batch {
	return &firestoreBatch{
		wb:   s.client.Batch(),
		coll: s.client.Collection(s.collection),
	}
}

func (s *FirestoreStore) GetAll(ctx context.Context) ([]models.Hoja, error) {
	it := s.client.Collection(s.collection).Documents(ctx)
	defer it.Stop()

	hojas, err := collectDocuments(it)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch collection %s: %w", s.collection, err)
	}
	return hojas, nil
}

func (s *FirestoreStore) Listen(ctx context.Context, onSnapshot func([]models.Hoja)) error {
	it := s.client.Collection(s.collection).Snapshots(ctx)
	defer it.Stop()

	for {
		snap, err := it.Next()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("snapshot listener on %s failed: %w", s.collection, err)
		}

		hojas, err := collectDocuments(snap.Documents)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed to read snapshot of %s: %w", s.collection, err)
		}
		slog.Debug("Firestore snapshot received.", "collection", s.collection, "size", snap.Size, "changes", len(snap.Changes))
		onSnapshot(hojas)
	}
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

// collectDocuments drains it in the order Firestore returns documents.
func collectDocuments(it *firestore.DocumentIterator) ([]models.Hoja, error) {
	var hojas []models.Hoja
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		hojas = append(hojas, models.Hoja(doc.Data()))
	}
	return hojas, nil
}

type firestoreBatch struct {
	wb   *firestore.WriteBatch
	coll *firestore.CollectionRef
	n    int
}

func (b *firestoreBatch) Set(id string, hoja models.Hoja) {
	// MergeAll only accepts a plain map, not a named map type.
	b.wb.Set(b.coll.Doc(id), map[string]interface{}(hoja), firestore.MergeAll)
	b.n++
}

func (b *firestoreBatch) Commit(ctx context.Context) error {
	// Firestore rejects a commit with no writes.
	if b.n == 0 {
		return nil
	}
	if _, err := b.wb.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit batch of %d writes: %w", b.n, err)
	}
	return nil
}
