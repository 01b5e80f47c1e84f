package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/Lllllllleong/goldflowsync/internal/models"
	"github.com/Lllllllleong/goldflowsync/internal/remote"
)

// fakeStore records every remote call and keeps documents merged by id.
type fakeStore struct {
	mu        sync.Mutex
	docs      map[string]models.Hoja
	order     []string
	sets      int
	commits   int
	gets      int
	listens   int
	commitErr error
	getErr    error
	listenErr error
	snapshots [][]models.Hoja
	committed chan struct{}
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		docs:      make(map[string]models.Hoja),
		committed: make(chan struct{}, 16),
	}
}

func (f *fakeStore) NewBatch() remote.Batch { return &fakeBatch{store: f} }

func (f *fakeStore) GetAll(context.Context) ([]models.Hoja, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.getErr != nil {
		return nil, f.getErr
	}
	var out []models.Hoja
	for _, id := range f.order {
		out = append(out, f.docs[id])
	}
	return out, nil
}

func (f *fakeStore) Listen(ctx context.Context, onSnapshot func([]models.Hoja)) error {
	f.mu.Lock()
	f.listens++
	snaps := f.snapshots
	listenErr := f.listenErr
	f.mu.Unlock()

	for _, s := range snaps {
		onSnapshot(s)
	}
	if listenErr != nil {
		return listenErr
	}
	<-ctx.Done()
	return nil
}

func (f *fakeStore) Close() error { return nil }

func (f *fakeStore) counts() (sets, commits, gets, listens int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sets, f.commits, f.gets, f.listens
}

func (f *fakeStore) doc(id string) models.Hoja {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.docs[id]
}

type fakeBatch struct {
	store  *fakeStore
	staged []models.Hoja
	ids    []string
}

func (b *fakeBatch) Set(id string, hoja models.Hoja) {
	b.store.mu.Lock()
	b.store.sets++
	b.store.mu.Unlock()
	b.ids = append(b.ids, id)
	b.staged = append(b.staged, hoja)
}

func (b *fakeBatch) Commit(context.Context) error {
	f := b.store
	f.mu.Lock()
	f.commits++
	err := f.commitErr
	if err == nil {
		for i, id := range b.ids {
			doc, ok := f.docs[id]
			if !ok {
				doc = models.Hoja{}
				f.order = append(f.order, id)
			}
			for k, v := range b.staged[i] {
				doc[k] = v
			}
			f.docs[id] = doc
		}
	}
	f.mu.Unlock()
	select {
	case f.committed <- struct{}{}:
	default:
	}
	return err
}

// fakeLocal is an in-memory LocalStore and Saver.
type fakeLocal struct {
	mu       sync.Mutex
	hojas    []models.Hoja
	replaces int
	saved    []string
	err      error
}

func (l *fakeLocal) Replace(_ context.Context, hojas []models.Hoja) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return l.err
	}
	l.replaces++
	l.hojas = hojas
	return nil
}

func (l *fakeLocal) Save(_ context.Context, raw json.RawMessage) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return l.err
	}
	l.saved = append(l.saved, string(raw))
	return nil
}

func (l *fakeLocal) snapshot() ([]models.Hoja, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hojas, l.replaces
}

var errBoom = errors.New("boom")
