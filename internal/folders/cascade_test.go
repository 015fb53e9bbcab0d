package folders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "media-service/pkg/errors"
)

func TestDeleteFolder_Cascade(t *testing.T) {
	backend := newFakeBackend("local")
	registry := NewRegistry(backend)
	ctx := context.Background()

	backend.seed("products/.keep", 0)
	backend.seed("products/1_mask.jpg", 100)
	backend.seed("products/diving-gear/.keep", 0)
	backend.seed("products/diving-gear/2_tank.jpg", 200)
	backend.seed("products/diving-gear/masks/.keep", 0)

	report, err := registry.DeleteFolder(ctx, "products")
	require.NoError(t, err)

	assert.Equal(t, 2, report.DeletedFileCount)
	assert.Equal(t, 3, report.DeletedSubfolderCount)
	assert.Empty(t, report.Errors)
	assert.False(t, report.Partial())
	assert.Equal(t, 0, backend.count(), "no objects remain under the prefix")
}

func TestDeleteFolder_OwnMarkerLast(t *testing.T) {
	backend := newFakeBackend("local")
	registry := NewRegistry(backend)
	ctx := context.Background()

	backend.seed("products/.keep", 0)
	backend.seed("products/diving-gear/.keep", 0)
	backend.seed("products/diving-gear/1_tank.jpg", 100)

	_, err := registry.DeleteFolder(ctx, "products")
	require.NoError(t, err)

	require.NotEmpty(t, backend.deletes)
	assert.Equal(t, "products/.keep", backend.deletes[len(backend.deletes)-1])
}

func TestDeleteFolder_PartialFailure(t *testing.T) {
	backend := newFakeBackend("local")
	registry := NewRegistry(backend)
	ctx := context.Background()

	backend.seed("gallery/.keep", 0)
	backend.seed("gallery/1_a.jpg", 10)
	backend.seed("gallery/2_b.jpg", 10)
	backend.seed("gallery/3_c.jpg", 10)
	backend.failOn("gallery/2_b.jpg")

	report, err := registry.DeleteFolder(ctx, "gallery")
	require.NoError(t, err)

	assert.True(t, report.Partial())
	require.Len(t, report.Errors, 1)
	assert.Equal(t, "gallery/2_b.jpg", report.Errors[0].Key)
	assert.Equal(t, 2, report.DeletedFileCount, "remaining deletes still attempted")
	assert.Equal(t, 1, report.DeletedSubfolderCount)
	assert.True(t, backend.has("gallery/2_b.jpg"))
}

func TestDeleteFolder_Validation(t *testing.T) {
	registry := NewRegistry(newFakeBackend("local"))
	ctx := context.Background()

	_, err := registry.DeleteFolder(ctx, RootSentinel)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = registry.DeleteFolder(ctx, "../escape")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = registry.DeleteFolder(ctx, "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestDeleteFolder_Nonexistent(t *testing.T) {
	registry := NewRegistry(newFakeBackend("local"))

	report, err := registry.DeleteFolder(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Equal(t, 0, report.DeletedFileCount)
	assert.Equal(t, 0, report.DeletedSubfolderCount)
	assert.Empty(t, report.Errors)
}

func TestDeleteFolder_SweepsAllBackends(t *testing.T) {
	local := newFakeBackend("local")
	remote := newFakeBackend("remote")
	registry := NewRegistry(local, remote)
	ctx := context.Background()

	local.seed("products/.keep", 0)
	local.seed("products/1_a.jpg", 10)
	remote.seed("products/.keep", 0)
	remote.seed("products/2_b.jpg", 10)

	report, err := registry.DeleteFolder(ctx, "products")
	require.NoError(t, err)

	assert.Equal(t, 2, report.DeletedFileCount)
	assert.Equal(t, 2, report.DeletedSubfolderCount)
	assert.Equal(t, 0, local.count())
	assert.Equal(t, 0, remote.count())
}

func TestEmptyFolder_KeepsMarker(t *testing.T) {
	backend := newFakeBackend("local")
	registry := NewRegistry(backend)
	ctx := context.Background()

	backend.seed("gallery/.keep", 0)
	backend.seed("gallery/1_a.jpg", 10)
	backend.seed("gallery/2_b.jpg", 10)

	report, err := registry.EmptyFolder(ctx, "gallery")
	require.NoError(t, err)
	assert.False(t, report.Partial())

	exists, err := registry.FolderExists(ctx, "gallery")
	require.NoError(t, err)
	assert.True(t, exists, "marker restored after emptying")

	images, err := registry.ListImages(ctx, "gallery")
	require.NoError(t, err)
	assert.Empty(t, images)
}
