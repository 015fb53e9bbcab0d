// Package localfs stores uploads as a plain directory tree on disk. Keys map
// one-to-one to file paths under the configured root, and public URLs point
// at the service's own static uploads route.
package localfs

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"media-service/internal/storage"
)

const backendName = "local"

// Backend implements storage.Backend over a local directory tree.
type Backend struct {
	root          string
	publicBaseURL string
}

// New creates the uploads root if needed and returns a local backend.
// publicBaseURL is the externally visible prefix for stored objects,
// e.g. "http://localhost:8080/uploads".
func New(root, publicBaseURL string) (*Backend, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads root: %w", err)
	}

	return &Backend{
		root:          root,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

func (b *Backend) Name() string {
	return backendName
}

// Root returns the directory backing this backend, for static file serving.
func (b *Backend) Root() string {
	return b.root
}

func (b *Backend) Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	target := b.diskPath(key)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("failed to create folder for %q: %w", key, err)
	}

	out, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("failed to create %q: %w", key, err)
	}
	defer out.Close()

	if body != nil {
		if _, err := io.Copy(out, body); err != nil {
			return "", fmt.Errorf("failed to write %q: %w", key, err)
		}
	}

	return b.urlFor(key), nil
}

func (b *Backend) List(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base := b.root
	if prefix != "" {
		base = b.diskPath(prefix)
	}

	if _, err := os.Stat(base); os.IsNotExist(err) {
		return nil, nil
	}

	var objects []storage.ObjectInfo

	err := filepath.WalkDir(base, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(b.root, p)
		if err != nil {
			return err
		}

		key := filepath.ToSlash(rel)
		objects = append(objects, storage.ObjectInfo{
			Key:          key,
			URL:          b.urlFor(key),
			Size:         info.Size(),
			LastModified: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %q: %w", prefix, err)
	}

	return objects, nil
}

func (b *Backend) DeleteOne(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target := b.diskPath(key)
	if err := os.Remove(target); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}

	b.pruneEmptyDirs(filepath.Dir(target))
	return nil
}

func (b *Backend) DeleteByPrefix(ctx context.Context, prefix string) (*storage.PrefixDeleteResult, error) {
	objects, err := b.List(ctx, prefix)
	if err != nil {
		return nil, err
	}

	result := &storage.PrefixDeleteResult{}
	for _, obj := range objects {
		if err := b.DeleteOne(ctx, obj.Key); err != nil {
			result.Errors = append(result.Errors, &storage.KeyError{Key: obj.Key, Err: err})
			continue
		}
		result.Deleted++
	}

	return result, nil
}

// PresignGet returns the stable public URL; local objects are world-readable
// through the static route, so no time-limited signing is involved.
func (b *Backend) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return b.urlFor(key), nil
}

func (b *Backend) diskPath(key string) string {
	return filepath.Join(b.root, filepath.FromSlash(filepath.Clean("/"+key)))
}

func (b *Backend) urlFor(key string) string {
	return b.publicBaseURL + "/" + key
}

// pruneEmptyDirs walks upward removing directories left empty by a delete,
// stopping at the uploads root. Folder existence is tracked through marker
// objects, so empty directories carry no meaning.
func (b *Backend) pruneEmptyDirs(dir string) {
	for {
		if rel, err := filepath.Rel(b.root, dir); err != nil || rel == "." || strings.HasPrefix(rel, "..") {
			return
		}
		if err := os.Remove(dir); err != nil {
			return
		}
		dir = filepath.Dir(dir)
	}
}
