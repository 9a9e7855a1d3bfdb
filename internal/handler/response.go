package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"invox/internal/domain"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrNoFiles):
		return http.StatusBadRequest, "NO_FILES", "no files provided"
	case errors.Is(err, domain.ErrTooManyFiles):
		return http.StatusBadRequest, "TOO_MANY_FILES", "too many files in batch"
	case errors.Is(err, domain.ErrNotPDF):
		return http.StatusBadRequest, "NOT_PDF", "only PDF files are accepted"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrNoResults):
		return http.StatusUnprocessableEntity, "NO_RESULTS", "no files were processed successfully"
	case errors.Is(err, domain.ErrWorkbookNotFound):
		return http.StatusNotFound, "WORKBOOK_NOT_FOUND", "workbook not found"
	case errors.Is(err, domain.ErrWorkbookWriteFailed):
		return http.StatusInternalServerError, "WORKBOOK_WRITE_FAILED", "workbook write failed"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError logs the error and sends the mapped error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status == http.StatusInternalServerError {
		log.Printf("handler: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	RespondError(c, status, code, msg)
}
