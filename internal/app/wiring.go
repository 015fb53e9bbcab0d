package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"media-service/config"
	"media-service/internal/folders"
	"media-service/internal/storage"
	"media-service/internal/storage/localfs"
	"media-service/internal/storage/minio"
	"media-service/internal/storage/s3"
)

// InitializeService wires the configured storage backends into a registry
// and returns the application service. Backend order in the config decides
// write priority.
func InitializeService(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Service, error) {
	backends := make([]storage.Backend, 0, len(cfg.Storage.Backends))

	for _, name := range cfg.Storage.Backends {
		backend, err := buildBackend(ctx, cfg, name)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize %q backend: %w", name, err)
		}

		log.Info().Str("backend", backend.Name()).Msg("storage backend ready")
		backends = append(backends, backend)
	}

	registry := folders.NewRegistry(backends...)
	return NewService(cfg, registry, log), nil
}

func buildBackend(ctx context.Context, cfg *config.Config, name string) (storage.Backend, error) {
	switch name {
	case config.BackendLocal:
		return localfs.New(cfg.Storage.UploadsDir, cfg.Storage.PublicBaseURL+"/uploads")
	case config.BackendS3:
		return s3.New(s3.Config{
			Region:          cfg.AWS.Region,
			AccessKeyID:     cfg.AWS.AccessKeyID,
			SecretAccessKey: cfg.AWS.SecretAccessKey,
			Bucket:          cfg.AWS.Bucket,
		})
	case config.BackendMinio:
		return minio.New(ctx, minio.Config{
			Endpoint:  cfg.Minio.Endpoint,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			Bucket:    cfg.Minio.Bucket,
			UseSSL:    cfg.Minio.UseSSL,
			Region:    cfg.AWS.Region,
		})
	default:
		return nil, fmt.Errorf("unknown backend %q", name)
	}
}
