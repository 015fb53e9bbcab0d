// Package storage defines the uniform contract for upload storage backends.
//
// All providers (local directory tree, S3, MinIO) implement the Backend
// interface. Callers depend only on this package, never on a specific
// provider package, and no core logic may branch on a backend's name.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

// ObjectInfo describes a single stored object under the uploads root.
type ObjectInfo struct {
	Key          string    `json:"key"`
	URL          string    `json:"url"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
}

// KeyError records a failure against a specific object key so partial
// results keep enough detail for the caller to retry.
type KeyError struct {
	Key string
	Err error
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("object %q: %v", e.Key, e.Err)
}

func (e *KeyError) Unwrap() error {
	return e.Err
}

// PrefixDeleteResult aggregates a best-effort prefix deletion.
type PrefixDeleteResult struct {
	Deleted int
	Errors  []*KeyError
}

// Backend is the single interface all storage providers implement.
// Implementations must treat DeleteOne of an absent key as success, and must
// enumerate before deleting in DeleteByPrefix - neither backend family offers
// an atomic recursive delete.
type Backend interface {
	// Name identifies the backend for display and diagnostics only.
	Name() string

	// Put stores body under key and returns the public URL for the object.
	Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error)

	// List returns every object whose key starts with prefix + "/".
	// An empty prefix lists the whole uploads root.
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)

	// DeleteOne removes a single object. Deleting an absent key is not an error.
	DeleteOne(ctx context.Context, key string) error

	// DeleteByPrefix removes every object under prefix, continuing past
	// individual failures. The returned error covers enumeration only.
	DeleteByPrefix(ctx context.Context, prefix string) (*PrefixDeleteResult, error)

	// PresignGet returns a time-limited download URL for key. Backends
	// without private objects may return the stable public URL instead.
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// BuildObjectKey composes a storage key from a folder prefix and a filename.
// An empty prefix means the uploads root.
func BuildObjectKey(prefixPath, filename string) string {
	if prefixPath == "" {
		return filename
	}
	if strings.HasSuffix(prefixPath, "/") {
		return prefixPath + filename
	}
	return prefixPath + "/" + filename
}

// ListPrefix normalizes a folder path into the key prefix used by backends:
// the empty string for the root, otherwise the path with a trailing slash.
func ListPrefix(prefixPath string) string {
	if prefixPath == "" {
		return ""
	}
	return strings.TrimRight(prefixPath, "/") + "/"
}
