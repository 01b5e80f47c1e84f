package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/Lllllllleong/goldflowsync/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedEvent struct {
	header http.Header
	body   []byte
}

func newSink(t *testing.T, status int) (*httptest.Server, func() []capturedEvent) {
	t.Helper()
	var mu sync.Mutex
	var events []capturedEvent
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		events = append(events, capturedEvent{header: r.Header.Clone(), body: body})
		mu.Unlock()
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, func() []capturedEvent {
		mu.Lock()
		defer mu.Unlock()
		return append([]capturedEvent(nil), events...)
	}
}

func TestEventNotifier_SendsUpdatedEvent(t *testing.T) {
	srv, events := newSink(t, http.StatusAccepted)
	n, err := NewEventNotifier(srv.URL, DefaultCollection)
	require.NoError(t, err)

	require.NoError(t, n.Notify(context.Background(), 3))

	got := events()
	require.Len(t, got, 1)
	assert.Equal(t, HojasUpdatedEventType, got[0].header.Get("Ce-Type"))
	assert.Equal(t, "goldflow-sync", got[0].header.Get("Ce-Source"))
	assert.Equal(t, DefaultCollection, got[0].header.Get("Ce-Subject"))
	assert.NotEmpty(t, got[0].header.Get("Ce-Id"))

	var data models.HojasUpdatedEvent
	require.NoError(t, json.Unmarshal(got[0].body, &data))
	assert.Equal(t, models.HojasUpdatedEvent{Collection: DefaultCollection, Count: 3}, data)
}

func TestEventNotifier_SinkFailure(t *testing.T) {
	srv, _ := newSink(t, http.StatusInternalServerError)
	n, err := NewEventNotifier(srv.URL, DefaultCollection)
	require.NoError(t, err)

	assert.Error(t, n.Notify(context.Background(), 1))
	assert.NotPanics(t, func() {
		n.Hook()(context.Background(), []models.Hoja{{"id": "a"}})
	})
}
