package echo

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"media-service/internal/folders"
	apperrors "media-service/pkg/errors"
)

type SuccessResponse struct {
	Status       string      `json:"status"`
	ResponseCode int         `json:"response_code"`
	Data         interface{} `json:"data"`
}

type FailureResponse struct {
	Status       string `json:"status"`
	ResponseCode int    `json:"response_code"`
	ErrorMessage string `json:"error_message"`
}

// DeleteReportResponse surfaces partial cascade failures distinctly from
// full success: collapsing the two would hide orphaned storage.
type DeleteReportResponse struct {
	Status       string                `json:"status"`
	ResponseCode int                   `json:"response_code"`
	Partial      bool                  `json:"partial"`
	Data         *folders.DeleteReport `json:"data"`
}

func getSuccessResponse(message string) SuccessResponse {
	return SuccessResponse{
		Status:       "Success",
		ResponseCode: http.StatusOK,
		Data:         message,
	}
}

func getSuccessResponseWithData(data interface{}) SuccessResponse {
	return SuccessResponse{
		Status:       "Success",
		ResponseCode: http.StatusOK,
		Data:         data,
	}
}

func getDeleteReportResponse(report *folders.DeleteReport) DeleteReportResponse {
	status := "Success"
	if report.Partial() {
		status = "Partial"
	}
	return DeleteReportResponse{
		Status:       status,
		ResponseCode: http.StatusOK,
		Partial:      report.Partial(),
		Data:         report,
	}
}

func respondError(c echo.Context, code int, message string) error {
	return c.JSON(code, FailureResponse{
		Status:       "Failure",
		ResponseCode: code,
		ErrorMessage: message,
	})
}

// respondAppError maps the domain error taxonomy onto HTTP statuses.
func respondAppError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput), errors.Is(err, apperrors.ErrInvalidName):
		return respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrAlreadyExists):
		return respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, apperrors.ErrNotFound):
		return respondError(c, http.StatusNotFound, err.Error())
	default:
		return respondError(c, http.StatusInternalServerError, err.Error())
	}
}
