package services

import (
	"context"
	"testing"

	"github.com/Lllllllleong/goldflowsync/internal/models"
	"github.com/Lllllllleong/goldflowsync/internal/remote"
	"github.com/stretchr/testify/assert"
)

func seededStore(ids ...string) *fakeStore {
	store := newFakeStore()
	for i, id := range ids {
		store.docs[id] = models.Hoja{"id": id, "n": float64(i)}
		store.order = append(store.order, id)
	}
	return store
}

func TestPuller_ReplacesLocalWithRemoteInOrder(t *testing.T) {
	store := seededStore("c", "a", "b")
	local := &fakeLocal{hojas: []models.Hoja{{"id": "stale"}}}
	p := NewPuller(remote.Available(store), local, DefaultCollection)

	n := p.Pull(context.Background())

	assert.Equal(t, 3, n)
	hojas, replaces := local.snapshot()
	assert.Equal(t, 1, replaces)
	assert.Equal(t, []models.Hoja{
		{"id": "c", "n": float64(0)},
		{"id": "a", "n": float64(1)},
		{"id": "b", "n": float64(2)},
	}, hojas)
}

func TestPuller_EmptyRemoteLeavesLocalUntouched(t *testing.T) {
	local := &fakeLocal{hojas: []models.Hoja{{"id": "keep"}}}
	p := NewPuller(remote.Available(newFakeStore()), local, DefaultCollection)

	assert.Zero(t, p.Pull(context.Background()))
	hojas, replaces := local.snapshot()
	assert.Zero(t, replaces)
	assert.Equal(t, []models.Hoja{{"id": "keep"}}, hojas)
}

func TestPuller_FetchFailureLeavesLocalUntouched(t *testing.T) {
	store := seededStore("a")
	store.getErr = errBoom
	local := &fakeLocal{hojas: []models.Hoja{{"id": "keep"}}}
	p := NewPuller(remote.Available(store), local, DefaultCollection)

	assert.Zero(t, p.Pull(context.Background()))
	_, replaces := local.snapshot()
	assert.Zero(t, replaces)
}

func TestPuller_UnavailableIsNoop(t *testing.T) {
	store := seededStore("a")
	local := &fakeLocal{}
	p := NewPuller(remote.Unavailable("test"), local, DefaultCollection)

	assert.Zero(t, p.Pull(context.Background()))
	_, _, gets, _ := store.counts()
	assert.Zero(t, gets)
	_, replaces := local.snapshot()
	assert.Zero(t, replaces)
}
