package google

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/fieldarchive/internal/core/domain"
)

// Common Google API errors.
var (
	// ErrUnauthorized indicates invalid or expired credentials.
	ErrUnauthorized = errors.New("google: unauthorised (invalid credentials)")

	// ErrForbidden indicates insufficient permissions.
	ErrForbidden = errors.New("google: forbidden (insufficient permissions)")

	// ErrNotFound indicates the requested resource was not found.
	ErrNotFound = errors.New("google: resource not found")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("google: rate limit exceeded")

	// ErrSyncTokenExpired indicates the page token has expired (410 GONE).
	// The client should perform a full resync.
	ErrSyncTokenExpired = errors.New("google: sync token expired, full resync required")
)

// IsUnauthorized returns true if the error indicates invalid credentials.
func IsUnauthorized(err error) bool {
	return matches(err, ErrUnauthorized, http.StatusUnauthorized)
}

// IsForbidden returns true if the error indicates insufficient permissions.
func IsForbidden(err error) bool {
	return matches(err, ErrForbidden, http.StatusForbidden)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return matches(err, ErrNotFound, http.StatusNotFound)
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	return matches(err, ErrRateLimited, http.StatusTooManyRequests)
}

// IsSyncTokenExpired returns true if the error indicates an expired page token (410 GONE).
func IsSyncTokenExpired(err error) bool {
	return matches(err, ErrSyncTokenExpired, http.StatusGone)
}

func matches(err, sentinel error, code int) bool {
	if errors.Is(err, sentinel) {
		return true
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == code
	}
	return false
}

// WrapError converts a Google API error to a more specific error type.
// The original error stays in the chain.
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err
	}

	switch gerr.Code {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %w", ErrUnauthorized, err)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %w", ErrForbidden, err)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", ErrRateLimited, err)
	case http.StatusGone:
		return fmt.Errorf("%w: %w", ErrSyncTokenExpired, err)
	default:
		return err
	}
}

// RemoteError wraps err for the ingestion pipeline: every failure is
// domain.ErrRemoteUnavailable, and rate limiting is also domain.ErrRateLimited.
func RemoteError(err error, op string) error {
	if err == nil {
		return nil
	}
	err = WrapError(err)
	if IsRateLimited(err) {
		return fmt.Errorf("%s: %w: %w: %w", op, domain.ErrRemoteUnavailable, domain.ErrRateLimited, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrRemoteUnavailable, err)
}
