package app

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"media-service/config"
	"media-service/internal/folders"
	"media-service/internal/infra/cache"
	"media-service/internal/storage"
	apperrors "media-service/pkg/errors"
	"media-service/pkg/validator"
)

const (
	cacheSweepInterval = 5 * time.Minute

	// linkCacheMargin keeps a cached presigned URL from being handed out
	// moments before it expires; links are cached until ttl minus this
	// margin, and links shorter than the margin are not cached at all.
	linkCacheMargin = time.Minute
)

// Service is the media-management application facade consumed by the HTTP
// transport. All state lives in the storage backends; the service itself is
// stateless apart from the presigned-link cache.
type Service struct {
	config    *config.Config
	registry  *folders.Registry
	linkCache *cache.URLCache
	log       zerolog.Logger
}

// NewService assembles a Service over an already-wired registry.
func NewService(cfg *config.Config, registry *folders.Registry, log zerolog.Logger) *Service {
	return &Service{
		config:    cfg,
		registry:  registry,
		linkCache: cache.NewURLCache(),
		log:       log,
	}
}

// Registry exposes the folder registry for transport-level wiring.
func (s *Service) Registry() *folders.Registry {
	return s.registry
}

// StartCacheJanitor sweeps expired presigned links until ctx is cancelled.
func (s *Service) StartCacheJanitor(ctx context.Context) {
	ticker := time.NewTicker(cacheSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.linkCache.Sweep()
		}
	}
}

// UploadImage validates the payload, generates a collision-free filename and
// stores the image in the requested folder on the primary backend. The
// folder is created implicitly when it does not exist yet.
func (s *Service) UploadImage(ctx context.Context, req *UploadImageRequest) (*UploadImageResponse, error) {
	prefix, err := s.folderPrefix(req.Folder)
	if err != nil {
		return nil, err
	}

	if err := validator.ImageContentType(req.ContentType); err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	if err := validator.ImageSize(req.SizeBytes); err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	safeName, err := validator.SanitizeFileName(req.FileName)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	// The timestamp prefix guarantees key uniqueness without a lookup.
	filename := fmt.Sprintf("%d_%s", time.Now().UnixMilli(), safeName)
	key := storage.BuildObjectKey(prefix, filename)

	url, err := s.registry.Primary().Put(ctx, key, req.Reader, req.ContentType)
	if err != nil {
		return nil, apperrors.Backend(fmt.Sprintf("failed to store %q", key), err)
	}

	s.log.Info().Str("key", key).Int64("size", req.SizeBytes).Msg("image uploaded")

	return &UploadImageResponse{
		URL:      url,
		Filename: filename,
		Folder:   displayFolder(prefix),
	}, nil
}

// ListImages returns the images stored directly in folderPath.
func (s *Service) ListImages(ctx context.Context, folderPath string) ([]ImageInfo, error) {
	prefix, err := s.folderPrefix(folderPath)
	if err != nil {
		return nil, err
	}

	objects, err := s.registry.ListImages(ctx, prefix)
	if err != nil {
		return nil, err
	}

	images := make([]ImageInfo, 0, len(objects))
	for _, obj := range objects {
		images = append(images, ImageInfo{
			URL:        obj.URL,
			Filename:   path.Base(obj.Key),
			Size:       obj.Size,
			UploadedAt: obj.LastModified,
		})
	}

	return images, nil
}

// DeleteImage removes a single image by filename from folderPath on every
// backend that holds it.
func (s *Service) DeleteImage(ctx context.Context, folderPath, filename string) error {
	prefix, err := s.folderPrefix(folderPath)
	if err != nil {
		return err
	}

	if err := validator.FileName(filename); err != nil {
		return apperrors.InvalidInput(err.Error())
	}

	objects, err := s.registry.ListImages(ctx, prefix)
	if err != nil {
		return err
	}

	key := storage.BuildObjectKey(prefix, filename)
	found := false
	for _, obj := range objects {
		if obj.Key == key {
			found = true
			break
		}
	}
	if !found {
		return apperrors.NotFound(fmt.Sprintf("image %q not found in folder %q", filename, displayFolder(prefix)))
	}

	for _, backend := range s.registry.Backends() {
		if err := backend.DeleteOne(ctx, key); err != nil {
			return apperrors.Backend(fmt.Sprintf("failed to delete %q", key), err)
		}
	}

	s.log.Info().Str("key", key).Msg("image deleted")
	return nil
}

// DownloadLink returns a time-limited download URL for key, cached until
// shortly before it expires.
func (s *Service) DownloadLink(ctx context.Context, key string) (string, error) {
	if key == "" || strings.Contains(key, "..") || strings.HasPrefix(key, "/") {
		return "", apperrors.InvalidInput("invalid object key")
	}

	if url, found := s.linkCache.Get(key); found {
		return url, nil
	}

	ttl := s.config.App.PresignedExpiry
	url, err := s.registry.Primary().PresignGet(ctx, key, ttl)
	if err != nil {
		return "", apperrors.Backend(fmt.Sprintf("failed to sign link for %q", key), err)
	}

	if ttl > linkCacheMargin {
		s.linkCache.Set(key, url, time.Now().Add(ttl-linkCacheMargin))
	}
	return url, nil
}

// ListFolders returns the immediate child folders of parentPath ("" for the
// top level).
func (s *Service) ListFolders(ctx context.Context, parentPath string) ([]folders.Folder, error) {
	return s.registry.ListFolders(ctx, parentPath)
}

// CreateFolder creates an explicitly empty folder under parentPath.
func (s *Service) CreateFolder(ctx context.Context, name, parentPath string) (*folders.Folder, error) {
	folder, err := s.registry.CreateFolder(ctx, name, parentPath)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("path", folder.FullPath).Msg("folder created")
	return folder, nil
}

// DeleteFolder cascade-deletes fullPath and reports per-object results.
func (s *Service) DeleteFolder(ctx context.Context, fullPath string) (*folders.DeleteReport, error) {
	report, err := s.registry.DeleteFolder(ctx, fullPath)
	if err != nil {
		return nil, err
	}

	event := s.log.Info()
	if report.Partial() {
		event = s.log.Warn()
	}
	event.
		Str("path", fullPath).
		Int("files", report.DeletedFileCount).
		Int("subfolders", report.DeletedSubfolderCount).
		Int("errors", len(report.Errors)).
		Msg("folder deleted")

	return report, nil
}

// EmptyFolder removes the contents of fullPath but keeps the folder itself.
func (s *Service) EmptyFolder(ctx context.Context, fullPath string) (*folders.DeleteReport, error) {
	return s.registry.EmptyFolder(ctx, fullPath)
}

// FolderTree lists the top-level folders plus the children of every path in
// expanded, and assembles the result into a tree. Expansion state is owned
// by the caller; the service fetches exactly the levels requested.
func (s *Service) FolderTree(ctx context.Context, expanded []string) ([]*folders.TreeNode, error) {
	list, err := s.registry.ListFolders(ctx, "")
	if err != nil {
		return nil, err
	}

	for _, parent := range expanded {
		if err := validator.FolderPath(parent); err != nil {
			return nil, apperrors.InvalidInput(err.Error())
		}

		children, err := s.registry.ListFolders(ctx, parent)
		if err != nil {
			return nil, err
		}
		list = append(list, children...)
	}

	return folders.BuildTree(list), nil
}

// folderPrefix maps an external folder path to a storage prefix: the root
// sentinel and the empty string both mean the uploads root.
func (s *Service) folderPrefix(folderPath string) (string, error) {
	if folderPath == "" || folderPath == folders.RootSentinel {
		return "", nil
	}

	if err := validator.FolderPath(folderPath); err != nil {
		return "", apperrors.InvalidInput(err.Error())
	}

	return folderPath, nil
}

// displayFolder maps a storage prefix back to the external representation.
func displayFolder(prefix string) string {
	if prefix == "" {
		return folders.RootSentinel
	}
	return prefix
}
