package echo

import (
	"context"
	"fmt"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"media-service/config"
	"media-service/internal/app"
	"media-service/internal/http/middleware"
	"media-service/pkg/validator"
)

const (
	rateLimitPerSecond = 10
	rateLimitBurst     = 30

	// multipartOverheadBytes is headroom on top of the upload cap for
	// multipart boundaries, part headers and the folder form field.
	multipartOverheadBytes = 64 * 1024
)

// Server wraps the Echo server with dependencies
type Server struct {
	echo   *echo.Echo
	config *config.Config
	svc    *app.Service
	log    zerolog.Logger
}

// NewServer creates a new Echo server with middleware and routes
func NewServer(cfg *config.Config, svc *app.Service, log zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(middleware.NewRateLimiter(rateLimitPerSecond, rateLimitBurst).Middleware())
	e.Use(echomiddleware.CORS())
	e.Use(echomiddleware.BodyLimit(uploadBodyLimit(cfg.App.MaxUploadSize)))

	server := &Server{
		echo:   e,
		config: cfg,
		svc:    svc,
		log:    log,
	}

	server.registerRoutes()

	return server
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.echo.Server.ReadTimeout = s.config.Server.ReadTimeout
	s.echo.Server.WriteTimeout = s.config.Server.WriteTimeout
	return s.echo.Start(":" + s.config.Server.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// uploadBodyLimit bounds the request body so oversized uploads are rejected
// before the multipart reader spools them to disk. MAX_UPLOAD_SIZE may lower
// the cap but never raise it past the hard image size limit.
func uploadBodyLimit(maxUploadSize int64) string {
	limit := validator.MaxImageSizeBytes()
	if maxUploadSize > 0 && maxUploadSize < limit {
		limit = maxUploadSize
	}
	return fmt.Sprintf("%dB", limit+multipartOverheadBytes)
}
