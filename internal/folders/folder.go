// Package folders is the folder-management core: it enumerates, creates and
// cascade-deletes nested upload folders over one or more storage backends.
// Folder existence is inferred from content - a folder exists while at least
// one object (its ".keep" marker included) lives under its path prefix.
package folders

import (
	"strings"
	"time"

	"media-service/pkg/validator"
)

const (
	// RootSentinel is the reserved name for the top-level uploads location.
	RootSentinel = validator.RootSentinel

	// MarkerName is the empty placeholder object written at a folder prefix
	// so an otherwise-empty folder stays enumerable.
	MarkerName = ".keep"
)

// Folder is a logical grouping of uploaded images.
type Folder struct {
	Name       string    `json:"name"`
	FullPath   string    `json:"fullPath"`
	ParentPath string    `json:"parentPath"`
	Source     string    `json:"source"`
	CreatedAt  time.Time `json:"createdAt"`
	IsNested   bool      `json:"isNested"`
}

// newFolder derives the leaf name and nesting flag from a full path.
func newFolder(fullPath, source string, createdAt time.Time) Folder {
	name := fullPath
	parent := ""
	if idx := strings.LastIndex(fullPath, "/"); idx >= 0 {
		name = fullPath[idx+1:]
		parent = fullPath[:idx]
	}

	return Folder{
		Name:       name,
		FullPath:   fullPath,
		ParentPath: parent,
		Source:     source,
		CreatedAt:  createdAt,
		IsNested:   parent != "",
	}
}

// MarkerKey returns the storage key of a folder's existence marker.
func MarkerKey(fullPath string) string {
	return fullPath + "/" + MarkerName
}

// isMarker reports whether a storage key is a folder existence marker.
func isMarker(key string) bool {
	return key == MarkerName || strings.HasSuffix(key, "/"+MarkerName)
}
