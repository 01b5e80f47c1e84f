// Package couchdb implements the remote hoja store on top of a CouchDB
// database, one document per hoja with the hoja id as document id.
package couchdb

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Lllllllleong/goldflowsync/internal/models"
	"github.com/Lllllllleong/goldflowsync/internal/remote"
	"github.com/go-kivik/kivik/v4"
	_ "github.com/go-kivik/kivik/v4/couchdb" // The CouchDB driver
)

// Store is a remote.Store over one CouchDB database.
type Store struct {
	client *kivik.Client
	db     *kivik.DB
	dbName string
}

var _ remote.Store = (*Store)(nil)

// Open connects to the server at url and checks that dbName exists. The
// database is never created here; a missing database means the remote is
// unavailable.
func Open(ctx context.Context, url, dbName string) (*Store, error) {
	if url == "" || dbName == "" {
		return nil, fmt.Errorf("couchdb url and database name must be provided")
	}

	client, err := kivik.New("couch", url)
	if err != nil {
		return nil, fmt.Errorf("failed to create CouchDB client: %w", err)
	}

	exists, err := client.DBExists(ctx, dbName)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to check database %s: %w", dbName, err)
	}
	if !exists {
		_ = client.Close()
		return nil, fmt.Errorf("database %s does not exist", dbName)
	}

	return &Store{client: client, db: client.DB(dbName), dbName: dbName}, nil
}

func (s *Store) NewBatch() remote.Batch {
	return &batch{store: s}
}

func (s *Store) GetAll(ctx context.Context) ([]models.Hoja, error) {
	rows := s.db.AllDocs(ctx, kivik.Param("include_docs", true))
	defer rows.Close()

	var hojas []models.Hoja
	for rows.Next() {
		id, err := rows.ID()
		if err != nil {
			return nil, fmt.Errorf("failed to read row id: %w", err)
		}
		if strings.HasPrefix(id, "_design/") {
			continue
		}
		var doc map[string]interface{}
		if err := rows.ScanDoc(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode document %s: %w", id, err)
		}
		hojas = append(hojas, fromDocument(doc))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to fetch database %s: %w", s.dbName, err)
	}
	return hojas, nil
}

// Listen follows the continuous changes feed. Like a Firestore listener it
// delivers the current state once on start, then once per change.
func (s *Store) Listen(ctx context.Context, onSnapshot func([]models.Hoja)) error {
	hojas, err := s.GetAll(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	onSnapshot(hojas)

	changes := s.db.Changes(ctx,
		kivik.Param("feed", "continuous"),
		kivik.Param("since", "now"),
		kivik.Param("heartbeat", 10000),
	)
	defer changes.Close()

	for changes.Next() {
		if strings.HasPrefix(changes.ID(), "_design/") {
			continue
		}
		hojas, err := s.GetAll(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		slog.Debug("CouchDB change received.", "database", s.dbName, "docId", changes.ID())
		onSnapshot(hojas)
	}
	if err := changes.Err(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("changes feed on %s failed: %w", s.dbName, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

type batch struct {
	store  *Store
	ids    []string
	staged map[string]models.Hoja
}

func (b *batch) Set(id string, hoja models.Hoja) {
	if b.staged == nil {
		b.staged = make(map[string]models.Hoja)
	}
	if _, seen := b.staged[id]; !seen {
		b.ids = append(b.ids, id)
		b.staged[id] = models.Hoja{}
	}
	// Later writes to the same id within one batch merge over earlier ones.
	mergeInto(b.staged[id], hoja)
}

// Commit reads the current revision of every staged document, merges the
// staged fields over it and writes everything with one _bulk_docs request.
// CouchDB has no multi-document transaction; per-document failures are
// collected into the returned error.
func (b *batch) Commit(ctx context.Context) error {
	if len(b.ids) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(b.ids))
	for _, id := range b.ids {
		current, err := b.store.get(ctx, id)
		if err != nil {
			return err
		}
		docs = append(docs, toDocument(id, current, b.staged[id]))
	}

	results, err := b.store.db.BulkDocs(ctx, docs)
	if err != nil {
		return fmt.Errorf("failed to commit batch of %d writes: %w", len(docs), err)
	}

	var failed []string
	for _, r := range results {
		if r.Error != nil {
			failed = append(failed, fmt.Sprintf("%s: %v", r.ID, r.Error))
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("failed to write %d of %d documents: %s", len(failed), len(docs), strings.Join(failed, "; "))
	}
	return nil
}

// get returns the stored document or nil when it does not exist yet.
func (s *Store) get(ctx context.Context, id string) (map[string]interface{}, error) {
	var doc map[string]interface{}
	if err := s.db.Get(ctx, id).ScanDoc(&doc); err != nil {
		if kivik.HTTPStatus(err) == http.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read document %s: %w", id, err)
	}
	return doc, nil
}

// toDocument shallow-merges fields over current, keeping its revision.
func toDocument(id string, current map[string]interface{}, fields models.Hoja) map[string]interface{} {
	doc := make(map[string]interface{}, len(current)+len(fields)+1)
	for k, v := range current {
		doc[k] = v
	}
	mergeInto(doc, fields)
	doc["_id"] = id
	return doc
}

func mergeInto(dst map[string]interface{}, src map[string]interface{}) {
	for k, v := range src {
		// Underscore fields are reserved by CouchDB.
		if strings.HasPrefix(k, "_") {
			continue
		}
		dst[k] = v
	}
}

// fromDocument strips CouchDB metadata so the hoja matches what was saved.
func fromDocument(doc map[string]interface{}) models.Hoja {
	h := make(models.Hoja, len(doc))
	for k, v := range doc {
		if strings.HasPrefix(k, "_") {
			continue
		}
		h[k] = v
	}
	return h
}
