package folders

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func folderAt(fullPath string, createdAt time.Time) Folder {
	return newFolder(fullPath, "local", createdAt)
}

func flatten(nodes []*TreeNode) []string {
	var paths []string
	for _, node := range nodes {
		paths = append(paths, node.Folder.FullPath)
		paths = append(paths, flatten(node.Children)...)
	}
	return paths
}

func TestBuildTree_RoundTrip(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	input := []Folder{
		folderAt("products", base),
		folderAt("products/diving-gear", base.Add(time.Minute)),
		folderAt("products/diving-gear/masks", base.Add(2*time.Minute)),
		folderAt("gallery", base.Add(3*time.Minute)),
	}

	tree := BuildTree(input)
	require.Len(t, tree, 2)

	got := flatten(tree)
	assert.ElementsMatch(t, []string{
		"products", "products/diving-gear", "products/diving-gear/masks", "gallery",
	}, got)
	assert.Len(t, got, len(input), "no duplication, no loss")
}

func TestBuildTree_OrphanAtRoot(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	input := []Folder{
		folderAt("products", base),
		// Parent "archive" was never loaded; the node must not be dropped.
		folderAt("archive/2025", base.Add(time.Minute)),
	}

	tree := BuildTree(input)
	require.Len(t, tree, 2)
	assert.Equal(t, "products", tree[0].Folder.FullPath)
	assert.Equal(t, "archive/2025", tree[1].Folder.FullPath)
}

func TestBuildTree_SiblingOrder(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	input := []Folder{
		folderAt("newer", base.Add(time.Hour)),
		folderAt("older", base),
		folderAt("tie-b", base.Add(2*time.Hour)),
		folderAt("tie-a", base.Add(2*time.Hour)),
	}

	tree := BuildTree(input)
	require.Len(t, tree, 4)
	assert.Equal(t, "older", tree[0].Folder.FullPath)
	assert.Equal(t, "newer", tree[1].Folder.FullPath)
	assert.Equal(t, "tie-a", tree[2].Folder.FullPath)
	assert.Equal(t, "tie-b", tree[3].Folder.FullPath)
}

func TestBuildTree_DeduplicatesByFullPath(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	input := []Folder{
		folderAt("products", base),
		folderAt("products", base.Add(time.Minute)),
	}

	tree := BuildTree(input)
	require.Len(t, tree, 1)
	assert.Equal(t, base, tree[0].Folder.CreatedAt, "first occurrence wins")
}

func TestBuildTree_PureAndIdempotent(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	input := []Folder{
		folderAt("products", base),
		folderAt("products/diving-gear", base.Add(time.Minute)),
	}
	snapshot := make([]Folder, len(input))
	copy(snapshot, input)

	first := flatten(BuildTree(input))
	second := flatten(BuildTree(input))

	assert.Equal(t, first, second)
	assert.Equal(t, snapshot, input, "input must not be mutated")
}

func TestBuildTree_Empty(t *testing.T) {
	assert.Empty(t, BuildTree(nil))
}
