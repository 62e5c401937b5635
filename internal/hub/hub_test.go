package hub_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graft-ml/graft/internal/hub"
)

func newTestClient(t *testing.T, handler http.Handler) (*hub.Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := hub.NewClient(
		hub.WithBaseURL(server.URL),
		hub.WithCacheDir(t.TempDir()),
	)
	require.NoError(t, err)
	return client, server
}

func TestResolve_DownloadsOnMiss(t *testing.T) {
	var requests atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		assert.Equal(t, "/efficientnet-b3/imagenet/model.safetensors", r.URL.Path)
		_, _ = w.Write([]byte("weights-bytes"))
	}))

	path, err := client.Resolve(context.Background(), "efficientnet-b3", "")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "weights-bytes", string(data))
	assert.Equal(t, int32(1), requests.Load())
	assert.True(t, client.Cached("efficientnet-b3", "imagenet"))
}

func TestResolve_CacheHitSkipsNetwork(t *testing.T) {
	var requests atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		_, _ = w.Write([]byte("weights-bytes"))
	}))

	first, err := client.Resolve(context.Background(), "efficientnet-b3", "imagenet")
	require.NoError(t, err)

	second, err := client.Resolve(context.Background(), "efficientnet-b3", "imagenet")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), requests.Load(), "cache hit should not refetch")
}

func TestResolve_NotFound(t *testing.T) {
	client, _ := newTestClient(t, http.NotFoundHandler())

	_, err := client.Resolve(context.Background(), "unknown-model", "imagenet")
	assert.ErrorContains(t, err, "no weights published for unknown-model:imagenet")
}

func TestResolve_ServerError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	_, err := client.Resolve(context.Background(), "efficientnet-b3", "imagenet")
	assert.ErrorContains(t, err, "unexpected status")
}

func TestResolve_EmptyModel(t *testing.T) {
	client, err := hub.NewClient(hub.WithCacheDir(t.TempDir()))
	require.NoError(t, err)

	_, err = client.Resolve(context.Background(), "", "imagenet")
	assert.Error(t, err)
}

func TestCached(t *testing.T) {
	cacheDir := t.TempDir()
	client, err := hub.NewClient(hub.WithCacheDir(cacheDir))
	require.NoError(t, err)

	assert.False(t, client.Cached("efficientnet-b3", ""))

	entry := filepath.Join(cacheDir, "efficientnet-b3", "imagenet")
	require.NoError(t, os.MkdirAll(entry, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(entry, "model.safetensors"), []byte("x"), 0o644))

	assert.True(t, client.Cached("efficientnet-b3", ""))
}

func TestCacheDir_EnvOverride(t *testing.T) {
	t.Setenv("GRAFT_CACHE_DIR", "/tmp/graft-test-cache")

	dir, err := hub.CacheDir()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/graft-test-cache", dir)
}
