package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	envPort                  = "PORT"
	envServerReadTimeout     = "SERVER_READ_TIMEOUT"
	envServerWriteTimeout    = "SERVER_WRITE_TIMEOUT"
	envServerShutdownTimeout = "SERVER_SHUTDOWN_TIMEOUT"
	envStorageBackends       = "STORAGE_BACKENDS"
	envUploadsDir            = "UPLOADS_DIR"
	envPublicBaseURL         = "PUBLIC_BASE_URL"
	envAWSRegion             = "REGION"
	envAWSAccessKeyID        = "AWS_ACCESS_KEY_ID"
	envAWSSecretAccessKey    = "AWS_SECRET_ACCESS_KEY"
	envBucketName            = "BUCKET_NAME"
	envMinioEndpoint         = "MINIO_ENDPOINT"
	envMinioAccessKey        = "MINIO_ACCESS_KEY"
	envMinioSecretKey        = "MINIO_SECRET_KEY"
	envMinioBucket           = "MINIO_BUCKET"
	envMinioUseSSL           = "MINIO_USE_SSL"
	envMaxUploadSize         = "MAX_UPLOAD_SIZE"
	envDownloadURLTimeLimit  = "DOWNLOAD_URL_TIME_LIMIT"
	envLogLevel              = "LOG_LEVEL"
	envLogFormat             = "LOG_FORMAT"
)

const (
	defaultServerPort         = "8080"
	defaultServerReadTimeout  = 10 * time.Second
	defaultServerWriteTimeout = 30 * time.Second
	defaultServerShutdown     = 10 * time.Second
	defaultUploadsDir         = "uploads"
	defaultPublicBaseURL      = "http://localhost:8080"
	defaultMaxUploadSize      = int64(5 * 1024 * 1024)
	defaultPresignedExpiry    = 15 * time.Minute
	defaultLogLevel           = "info"
	defaultLogFormat          = "json"

	// Recognized storage backend names.
	BackendLocal = "local"
	BackendS3    = "s3"
	BackendMinio = "minio"

	errNoBackendsFmt           = "at least one storage backend must be configured"
	errUnknownBackendFmt       = "unknown storage backend %q (expected local, s3 or minio)"
	errRegionRequiredFmt       = "REGION must be set when the s3 backend is enabled"
	errAWSAccessKeyRequiredFmt = "AWS_ACCESS_KEY_ID must be set when the s3 backend is enabled"
	errAWSSecretKeyRequiredFmt = "AWS_SECRET_ACCESS_KEY must be set when the s3 backend is enabled"
	errBucketRequiredFmt       = "BUCKET_NAME must be set when the s3 backend is enabled"
	errMinioEndpointFmt        = "MINIO_ENDPOINT must be set when the minio backend is enabled"
	errMinioAccessKeyFmt       = "MINIO_ACCESS_KEY must be set when the minio backend is enabled"
	errMinioSecretKeyFmt       = "MINIO_SECRET_KEY must be set when the minio backend is enabled"
	errMinioBucketFmt          = "MINIO_BUCKET must be set when the minio backend is enabled"
	errInvalidConfigurationFmt = "invalid configuration: %w"
)

type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	AWS     AWSConfig
	Minio   MinioConfig
	App     AppConfig
	Log     LogConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type StorageConfig struct {
	// Backends lists enabled storage backends in priority order; the first
	// receives all writes, the rest participate in listings and deletes.
	Backends      []string
	UploadsDir    string
	PublicBaseURL string
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type AppConfig struct {
	MaxUploadSize  int64
	PresignedExpiry time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv(envPort, defaultServerPort),
			ReadTimeout:     getDurationEnv(envServerReadTimeout, defaultServerReadTimeout),
			WriteTimeout:    getDurationEnv(envServerWriteTimeout, defaultServerWriteTimeout),
			ShutdownTimeout: getDurationEnv(envServerShutdownTimeout, defaultServerShutdown),
		},
		Storage: StorageConfig{
			Backends:      getListEnv(envStorageBackends, []string{BackendLocal}),
			UploadsDir:    getEnv(envUploadsDir, defaultUploadsDir),
			PublicBaseURL: getEnv(envPublicBaseURL, defaultPublicBaseURL),
		},
		AWS: AWSConfig{
			Region:          os.Getenv(envAWSRegion),
			AccessKeyID:     os.Getenv(envAWSAccessKeyID),
			SecretAccessKey: os.Getenv(envAWSSecretAccessKey),
			Bucket:          os.Getenv(envBucketName),
		},
		Minio: MinioConfig{
			Endpoint:  os.Getenv(envMinioEndpoint),
			AccessKey: os.Getenv(envMinioAccessKey),
			SecretKey: os.Getenv(envMinioSecretKey),
			Bucket:    os.Getenv(envMinioBucket),
			UseSSL:    getBoolEnv(envMinioUseSSL, false),
		},
		App: AppConfig{
			MaxUploadSize:   getInt64Env(envMaxUploadSize, defaultMaxUploadSize),
			PresignedExpiry: getDurationEnv(envDownloadURLTimeLimit, defaultPresignedExpiry),
		},
		Log: LogConfig{
			Level:  getEnv(envLogLevel, defaultLogLevel),
			Format: getEnv(envLogFormat, defaultLogFormat),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf(errInvalidConfigurationFmt, err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if len(c.Storage.Backends) == 0 {
		return fmt.Errorf(errNoBackendsFmt)
	}

	for _, backend := range c.Storage.Backends {
		switch backend {
		case BackendLocal:
		case BackendS3:
			if c.AWS.Region == "" {
				return fmt.Errorf(errRegionRequiredFmt)
			}
			if c.AWS.AccessKeyID == "" {
				return fmt.Errorf(errAWSAccessKeyRequiredFmt)
			}
			if c.AWS.SecretAccessKey == "" {
				return fmt.Errorf(errAWSSecretKeyRequiredFmt)
			}
			if c.AWS.Bucket == "" {
				return fmt.Errorf(errBucketRequiredFmt)
			}
		case BackendMinio:
			if c.Minio.Endpoint == "" {
				return fmt.Errorf(errMinioEndpointFmt)
			}
			if c.Minio.AccessKey == "" {
				return fmt.Errorf(errMinioAccessKeyFmt)
			}
			if c.Minio.SecretKey == "" {
				return fmt.Errorf(errMinioSecretKeyFmt)
			}
			if c.Minio.Bucket == "" {
				return fmt.Errorf(errMinioBucketFmt)
			}
		default:
			return fmt.Errorf(errUnknownBackendFmt, backend)
		}
	}

	return nil
}

// LocalEnabled reports whether the local filesystem backend is configured.
func (c *Config) LocalEnabled() bool {
	for _, backend := range c.Storage.Backends {
		if backend == BackendLocal {
			return true
		}
	}
	return false
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var list []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	if len(list) == 0 {
		return defaultValue
	}
	return list
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}
