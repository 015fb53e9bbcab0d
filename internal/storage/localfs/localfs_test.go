package localfs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBackend(t *testing.T) *Backend {
	t.Helper()
	backend, err := New(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)
	return backend
}

func TestPutAndList(t *testing.T) {
	backend := newTestBackend(t)
	ctx := context.Background()

	url, err := backend.Put(ctx, "products/1_mask.jpg", strings.NewReader("fake-jpeg-bytes"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/products/1_mask.jpg", url)

	objects, err := backend.List(ctx, "products")
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "products/1_mask.jpg", objects[0].Key)
	assert.Equal(t, int64(len("fake-jpeg-bytes")), objects[0].Size)
	assert.WithinDuration(t, time.Now(), objects[0].LastModified, time.Minute)
}

func TestPut_EmptyMarker(t *testing.T) {
	backend := newTestBackend(t)
	ctx := context.Background()

	_, err := backend.Put(ctx, "products/.keep", nil, "application/octet-stream")
	require.NoError(t, err)

	objects, err := backend.List(ctx, "products")
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, int64(0), objects[0].Size)
}

func TestList_RootAndMissingPrefix(t *testing.T) {
	backend := newTestBackend(t)
	ctx := context.Background()

	_, err := backend.Put(ctx, "a/x.png", strings.NewReader("x"), "image/png")
	require.NoError(t, err)
	_, err = backend.Put(ctx, "b/y.png", strings.NewReader("y"), "image/png")
	require.NoError(t, err)

	all, err := backend.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	none, err := backend.List(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDeleteOne(t *testing.T) {
	backend := newTestBackend(t)
	ctx := context.Background()

	_, err := backend.Put(ctx, "gallery/1_reef.png", strings.NewReader("png"), "image/png")
	require.NoError(t, err)

	require.NoError(t, backend.DeleteOne(ctx, "gallery/1_reef.png"))

	// Absent keys delete cleanly; the operation is idempotent.
	require.NoError(t, backend.DeleteOne(ctx, "gallery/1_reef.png"))

	// The emptied directory is pruned from disk.
	_, err = os.Stat(filepath.Join(backend.Root(), "gallery"))
	assert.True(t, os.IsNotExist(err))
}

func TestDeleteByPrefix(t *testing.T) {
	backend := newTestBackend(t)
	ctx := context.Background()

	keys := []string{"p/.keep", "p/1_a.png", "p/sub/.keep", "p/sub/2_b.png"}
	for _, key := range keys {
		_, err := backend.Put(ctx, key, strings.NewReader("data"), "image/png")
		require.NoError(t, err)
	}
	_, err := backend.Put(ctx, "other/3_c.png", strings.NewReader("data"), "image/png")
	require.NoError(t, err)

	result, err := backend.DeleteByPrefix(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, len(keys), result.Deleted)
	assert.Empty(t, result.Errors)

	remaining, err := backend.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "other/3_c.png", remaining[0].Key)
}

func TestPresignGet_ReturnsPublicURL(t *testing.T) {
	backend := newTestBackend(t)

	url, err := backend.PresignGet(context.Background(), "a/b.png", 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/a/b.png", url)
}

func TestDiskPathContainment(t *testing.T) {
	backend := newTestBackend(t)

	// Hostile keys are cleaned relative to the uploads root; validation
	// upstream rejects them before they ever reach the backend.
	p := backend.diskPath("../../etc/passwd")
	assert.True(t, strings.HasPrefix(p, backend.Root()))
}
