package folders

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"media-service/internal/storage"
	apperrors "media-service/pkg/errors"
	"media-service/pkg/validator"
)

// Registry answers folder queries against a set of storage backends.
//
// It holds no state of its own: every call re-queries the backends, so a
// concurrent delete or upload is visible on the next listing. When more than
// one backend is configured (e.g. during a local-to-remote migration) the
// registry presents their folders as a logical union keyed by full path;
// writes always target the first backend.
type Registry struct {
	backends []storage.Backend
}

// NewRegistry creates a registry over one or more backends. The first
// backend is the write target for new markers and uploads.
func NewRegistry(backends ...storage.Backend) *Registry {
	if len(backends) == 0 {
		panic("folders: registry requires at least one backend")
	}
	return &Registry{backends: backends}
}

// Primary returns the backend new objects are written to.
func (r *Registry) Primary() storage.Backend {
	return r.backends[0]
}

// Backends returns every configured backend, primary first.
func (r *Registry) Backends() []storage.Backend {
	return r.backends
}

// ListFolders returns the immediate child folders of parentPath, or the
// top-level folders when parentPath is empty. Children of children are not
// enumerated; callers fetch deeper levels lazily with further calls.
func (r *Registry) ListFolders(ctx context.Context, parentPath string) ([]Folder, error) {
	if parentPath != "" {
		if err := validator.FolderPath(parentPath); err != nil {
			return nil, apperrors.InvalidInput(err.Error())
		}
	}

	seen := make(map[string]*Folder)
	var order []string

	for _, backend := range r.backends {
		objects, err := backend.List(ctx, parentPath)
		if err != nil {
			return nil, apperrors.Backend(fmt.Sprintf("failed to list folders under %q", parentPath), err)
		}

		prefix := storage.ListPrefix(parentPath)
		for _, obj := range objects {
			rest := strings.TrimPrefix(obj.Key, prefix)

			// Only keys with a remaining separator sit inside a child folder.
			idx := strings.Index(rest, "/")
			if idx <= 0 {
				continue
			}

			fullPath := validator.JoinPath(parentPath, rest[:idx])
			if existing, ok := seen[fullPath]; ok {
				if obj.LastModified.Before(existing.CreatedAt) {
					existing.CreatedAt = obj.LastModified
				}
				continue
			}

			folder := newFolder(fullPath, backend.Name(), obj.LastModified)
			seen[fullPath] = &folder
			order = append(order, fullPath)
		}
	}

	result := make([]Folder, 0, len(order))
	for _, fullPath := range order {
		result = append(result, *seen[fullPath])
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].FullPath < result[j].FullPath
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result, nil
}

// CreateFolder sanitizes name, composes the full path under parentPath and
// writes an empty marker object so the folder exists before any upload.
func (r *Registry) CreateFolder(ctx context.Context, name, parentPath string) (*Folder, error) {
	safeName, err := validator.SanitizeName(name)
	if err != nil {
		return nil, apperrors.InvalidName(err.Error())
	}

	if parentPath != "" {
		if err := validator.FolderPath(parentPath); err != nil {
			return nil, apperrors.InvalidInput(err.Error())
		}
	}

	fullPath := validator.JoinPath(parentPath, safeName)
	if err := validator.FolderPath(fullPath); err != nil {
		return nil, apperrors.InvalidName(err.Error())
	}

	exists, err := r.FolderExists(ctx, fullPath)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.AlreadyExists(fmt.Sprintf("folder %q already exists", fullPath))
	}

	// Check-then-act is not atomic against the backend; a concurrent create
	// writes an identical empty marker, which is harmless because listings
	// de-duplicate by full path.
	backend := r.Primary()
	if _, err := backend.Put(ctx, MarkerKey(fullPath), bytes.NewReader(nil), "application/octet-stream"); err != nil {
		return nil, apperrors.Backend(fmt.Sprintf("failed to create folder %q", fullPath), err)
	}

	folder := newFolder(fullPath, backend.Name(), time.Now().UTC())
	return &folder, nil
}

// FolderExists reports whether any backend holds at least one object under
// fullPath. A folder whose marker was removed and that has no remaining
// content does not exist, even if it was listed before.
func (r *Registry) FolderExists(ctx context.Context, fullPath string) (bool, error) {
	if err := validator.FolderPath(fullPath); err != nil {
		return false, apperrors.InvalidInput(err.Error())
	}

	for _, backend := range r.backends {
		objects, err := backend.List(ctx, fullPath)
		if err != nil {
			return false, apperrors.Backend(fmt.Sprintf("failed to check folder %q", fullPath), err)
		}
		if len(objects) > 0 {
			return true, nil
		}
	}

	return false, nil
}

// ListImages returns the files stored directly in folderPath, markers and
// nested folder content excluded. An empty folderPath means the uploads root.
func (r *Registry) ListImages(ctx context.Context, folderPath string) ([]storage.ObjectInfo, error) {
	if folderPath != "" {
		if err := validator.FolderPath(folderPath); err != nil {
			return nil, apperrors.InvalidInput(err.Error())
		}
	}

	seen := make(map[string]struct{})
	var images []storage.ObjectInfo

	for _, backend := range r.backends {
		objects, err := backend.List(ctx, folderPath)
		if err != nil {
			return nil, apperrors.Backend(fmt.Sprintf("failed to list images in %q", folderPath), err)
		}

		prefix := storage.ListPrefix(folderPath)
		for _, obj := range objects {
			rest := strings.TrimPrefix(obj.Key, prefix)
			if strings.Contains(rest, "/") || isMarker(rest) {
				continue
			}
			if _, ok := seen[rest]; ok {
				continue
			}
			seen[rest] = struct{}{}
			images = append(images, obj)
		}
	}

	sort.SliceStable(images, func(i, j int) bool {
		return images[i].Key < images[j].Key
	})

	return images, nil
}
