package google

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/fieldarchive/internal/core/domain"
)

func TestWrapError(t *testing.T) {
	tests := []struct {
		code     int
		sentinel error
		check    func(error) bool
	}{
		{code: http.StatusUnauthorized, sentinel: ErrUnauthorized, check: IsUnauthorized},
		{code: http.StatusForbidden, sentinel: ErrForbidden, check: IsForbidden},
		{code: http.StatusNotFound, sentinel: ErrNotFound, check: IsNotFound},
		{code: http.StatusTooManyRequests, sentinel: ErrRateLimited, check: IsRateLimited},
		{code: http.StatusGone, sentinel: ErrSyncTokenExpired, check: IsSyncTokenExpired},
	}

	for _, tc := range tests {
		t.Run(http.StatusText(tc.code), func(t *testing.T) {
			gerr := &googleapi.Error{Code: tc.code}
			assert.True(t, tc.check(gerr))

			wrapped := WrapError(fmt.Errorf("call: %w", gerr))
			assert.ErrorIs(t, wrapped, tc.sentinel)

			var target *googleapi.Error
			assert.True(t, errors.As(wrapped, &target))
		})
	}
}

func TestWrapError_Passthrough(t *testing.T) {
	assert.NoError(t, WrapError(nil))

	plain := errors.New("dial tcp: refused")
	assert.Equal(t, plain, WrapError(plain))

	server := &googleapi.Error{Code: http.StatusInternalServerError}
	assert.Equal(t, error(server), WrapError(server))
}

func TestRemoteError(t *testing.T) {
	assert.NoError(t, RemoteError(nil, "op"))

	err := RemoteError(&googleapi.Error{Code: http.StatusTooManyRequests}, "list changes")
	assert.ErrorIs(t, err, domain.ErrRemoteUnavailable)
	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.Contains(t, err.Error(), "list changes")

	err = RemoteError(errors.New("dial tcp: refused"), "about")
	assert.ErrorIs(t, err, domain.ErrRemoteUnavailable)
	assert.NotErrorIs(t, err, domain.ErrRateLimited)
}

func TestNewDriveService_NoCredentials(t *testing.T) {
	svc, err := NewDriveService(t.Context(), "")
	assert.ErrorIs(t, err, ErrNoCredentials)
	assert.Nil(t, svc)
}
