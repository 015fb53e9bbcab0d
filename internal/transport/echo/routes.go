package echo

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"media-service/internal/app"
)

// registerRoutes registers all HTTP routes
func (s *Server) registerRoutes() {
	api := s.echo.Group("/api")

	api.POST("/images", s.uploadImageHandler)
	api.GET("/images", s.listImagesHandler)
	api.DELETE("/images", s.deleteImageHandler)
	api.GET("/images/download-link", s.downloadLinkHandler)

	api.GET("/folders", s.listFoldersHandler)
	api.GET("/folders/tree", s.folderTreeHandler)
	api.POST("/folders", s.createFolderHandler)
	api.DELETE("/folders", s.deleteFolderHandler)
	api.POST("/folders/empty", s.emptyFolderHandler)

	s.echo.GET("/ping", s.pingHandler)

	if s.config.LocalEnabled() {
		s.echo.Static("/uploads", s.config.Storage.UploadsDir)
	}
}

func (s *Server) uploadImageHandler(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "no file provided; use 'file' as the form-data field name")
	}

	src, err := file.Open()
	if err != nil {
		return respondError(c, http.StatusBadRequest, "failed to open uploaded file")
	}
	defer src.Close()

	resp, err := s.svc.UploadImage(c.Request().Context(), &app.UploadImageRequest{
		Reader:      src,
		FileName:    file.Filename,
		ContentType: file.Header.Get(echo.HeaderContentType),
		SizeBytes:   file.Size,
		Folder:      c.FormValue("folder"),
	})
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(http.StatusCreated, getSuccessResponseWithData(resp))
}

func (s *Server) listImagesHandler(c echo.Context) error {
	images, err := s.svc.ListImages(c.Request().Context(), c.QueryParam("folder"))
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(http.StatusOK, getSuccessResponseWithData(images))
}

func (s *Server) deleteImageHandler(c echo.Context) error {
	filename := c.QueryParam("filename")
	if filename == "" {
		return respondError(c, http.StatusBadRequest, "filename is required")
	}

	err := s.svc.DeleteImage(c.Request().Context(), c.QueryParam("folder"), filename)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(http.StatusOK, getSuccessResponse("Image deleted successfully"))
}

func (s *Server) downloadLinkHandler(c echo.Context) error {
	key := c.QueryParam("key")
	if key == "" {
		return respondError(c, http.StatusBadRequest, "key is required")
	}

	url, err := s.svc.DownloadLink(c.Request().Context(), key)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(http.StatusOK, getSuccessResponseWithData(map[string]string{"url": url}))
}

func (s *Server) listFoldersHandler(c echo.Context) error {
	list, err := s.svc.ListFolders(c.Request().Context(), c.QueryParam("parent"))
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(http.StatusOK, getSuccessResponseWithData(list))
}

func (s *Server) folderTreeHandler(c echo.Context) error {
	var expanded []string
	if raw := c.QueryParam("expanded"); raw != "" {
		for _, p := range strings.Split(raw, ",") {
			if p = strings.TrimSpace(p); p != "" {
				expanded = append(expanded, p)
			}
		}
	}

	tree, err := s.svc.FolderTree(c.Request().Context(), expanded)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(http.StatusOK, getSuccessResponseWithData(tree))
}

type createFolderRequest struct {
	Name   string `json:"name"`
	Parent string `json:"parent"`
}

func (s *Server) createFolderHandler(c echo.Context) error {
	var req createFolderRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}

	folder, err := s.svc.CreateFolder(c.Request().Context(), req.Name, strings.TrimSpace(req.Parent))
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(http.StatusCreated, getSuccessResponseWithData(folder))
}

func (s *Server) deleteFolderHandler(c echo.Context) error {
	path := c.QueryParam("path")
	if path == "" {
		return respondError(c, http.StatusBadRequest, "path is required")
	}

	report, err := s.svc.DeleteFolder(c.Request().Context(), path)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(http.StatusOK, getDeleteReportResponse(report))
}

func (s *Server) emptyFolderHandler(c echo.Context) error {
	path := c.QueryParam("path")
	if path == "" {
		return respondError(c, http.StatusBadRequest, "path is required")
	}

	report, err := s.svc.EmptyFolder(c.Request().Context(), path)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(http.StatusOK, getDeleteReportResponse(report))
}

func (s *Server) pingHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "pong"})
}
