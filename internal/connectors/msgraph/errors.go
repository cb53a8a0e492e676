package msgraph

import (
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/fieldarchive/internal/core/domain"
)

// Graph-specific errors.
var (
	// ErrNotConfigured indicates missing tenant, client or site settings.
	ErrNotConfigured = errors.New("msgraph: not configured")

	// ErrUnauthorized indicates invalid client credentials or an expired token.
	ErrUnauthorized = errors.New("msgraph: unauthorised (invalid credentials)")

	// ErrForbidden indicates the application lacks Sites.Read.All.
	ErrForbidden = errors.New("msgraph: forbidden (insufficient permissions)")

	// ErrNotFound indicates the site, drive or item does not exist.
	ErrNotFound = errors.New("msgraph: resource not found")

	// ErrDriveNotFound indicates the site has no library with the configured name.
	ErrDriveNotFound = errors.New("msgraph: document library not found")

	// ErrThrottled indicates Graph returned 429 or 503.
	ErrThrottled = errors.New("msgraph: throttled")

	// ErrDeltaExpired indicates the delta link is no longer valid (410 GONE).
	// The client should perform a full resync.
	ErrDeltaExpired = errors.New("msgraph: delta token expired, full resync required")

	// ErrInvalidCursor indicates a cursor that is not a Graph delta link.
	ErrInvalidCursor = errors.New("msgraph: invalid cursor")

	// ErrTooLarge indicates a download exceeded the configured size limit.
	ErrTooLarge = errors.New("msgraph: file exceeds download limit")
)

// APIError is a non-success Graph response.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("graph API error (%d)", e.StatusCode)
	}
	return fmt.Sprintf("graph API error (%d %s): %s", e.StatusCode, e.Code, e.Message)
}

// Unwrap maps the status code to a package sentinel.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusGone:
		return ErrDeltaExpired
	case http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return ErrThrottled
	default:
		return nil
	}
}

// IsThrottled returns true if the error indicates throttling.
func IsThrottled(err error) bool {
	return errors.Is(err, ErrThrottled)
}

// IsDeltaExpired returns true if the delta link must be discarded.
func IsDeltaExpired(err error) bool {
	return errors.Is(err, ErrDeltaExpired)
}

// wrapError annotates err with the operation and maps it onto domain errors.
func wrapError(err error, op string) error {
	if err == nil {
		return nil
	}

	var rerr *oauth2.RetrieveError
	if errors.As(err, &rerr) {
		err = fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	if IsThrottled(err) {
		return fmt.Errorf("%s: %w: %w: %w", op, domain.ErrRemoteUnavailable, domain.ErrRateLimited, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrRemoteUnavailable, err)
}
