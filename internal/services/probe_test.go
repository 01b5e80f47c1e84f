package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProbeRemote_Unavailable(t *testing.T) {
	cases := map[string]SyncConfig{
		"firestore without project": {RemoteBackend: "firestore", CollectionName: DefaultCollection},
		"couchdb without url":       {RemoteBackend: "couchdb", CollectionName: DefaultCollection},
		"unknown backend":           {RemoteBackend: "dynamo", CollectionName: DefaultCollection},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			h := ProbeRemote(context.Background(), cfg)

			_, ok := h.Store()
			assert.False(t, ok)
			assert.NotEmpty(t, h.Reason())
			assert.Equal(t, "unavailable", h.String())
			assert.NoError(t, h.Close())
		})
	}
}
