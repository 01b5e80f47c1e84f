package services

import (
	"testing"
	"time"

	"github.com/Lllllllleong/goldflowsync/internal/localstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"REMOTE_BACKEND", "PROJECT_ID", "GOOGLE_CLOUD_PROJECT", "COUCHDB_URL",
		"HOJAS_COLLECTION", "LOCAL_BACKEND", "LOCAL_PATH", "LOCAL_KEY",
		"DOWNLOAD_DELAY", "LISTEN_DELAY", "SNAPSHOT_BUCKET", "EVENT_SINK_URL",
		"LISTEN_ADDR", "UPLOAD_CONCURRENCY",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "firestore", cfg.RemoteBackend)
	assert.Equal(t, DefaultCollection, cfg.CollectionName)
	assert.Equal(t, "file", cfg.LocalBackend)
	assert.Equal(t, localstore.DefaultKey, cfg.LocalKey)
	assert.Equal(t, 1500*time.Millisecond, cfg.DownloadDelay)
	assert.Equal(t, 1800*time.Millisecond, cfg.ListenDelay)
	assert.Equal(t, 4, cfg.UploadConcurrency)
	assert.Empty(t, cfg.ProjectID)
}

func TestLoadConfig_ProjectFallback(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("GOOGLE_CLOUD_PROJECT", "goldflow-dev")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "goldflow-dev", cfg.ProjectID)

	t.Setenv("PROJECT_ID", "goldflow-prod")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "goldflow-prod", cfg.ProjectID)
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := map[string]string{
		"REMOTE_BACKEND":     "mongo",
		"LOCAL_BACKEND":      "indexeddb",
		"DOWNLOAD_DELAY":     "soon",
		"LISTEN_DELAY":       "-1s",
		"UPLOAD_CONCURRENCY": "0",
		"EVENT_SINK_URL":     "not a url",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearConfigEnv(t)
			t.Setenv(key, value)

			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}
