// Package api provides the HTTP surface of fieldarchive: watcher control
// under /api/teams and document upload and retrieval under /api/documents.
package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/custodia-labs/fieldarchive/internal/core/domain"
)

var (
	// ErrMissingWatcher is returned when the watcher is not provided.
	ErrMissingWatcher = errors.New("api: watcher is required")

	// ErrMissingIngestService is returned when the ingest service is not provided.
	ErrMissingIngestService = errors.New("api: ingest service is required")
)

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnsupportedFormat), errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrRemoteUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// errorJSON writes err as {"error": "..."} with the mapped status.
func errorJSON(c echo.Context, err error) error {
	return c.JSON(statusFor(err), map[string]string{
		"error": err.Error(),
	})
}
