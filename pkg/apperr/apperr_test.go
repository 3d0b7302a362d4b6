package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesByKind(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("create user: %w", Wrap(KindStoreUnavailable, "storage is unavailable", cause))

	assert.True(t, errors.Is(err, ErrStoreUnavailable))
	assert.False(t, errors.Is(err, ErrDuplicateEmail))
	assert.True(t, errors.Is(err, cause))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindTokenExpired, KindOf(ErrTokenExpired))
	assert.Equal(t, KindDuplicateEmail, KindOf(fmt.Errorf("wrap: %w", ErrDuplicateEmail)))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, KindInternal, KindOf(nil))
}

func TestMessageOfHidesCause(t *testing.T) {
	err := Wrap(KindStoreUnavailable, "storage is unavailable", errors.New("dial tcp 10.0.0.3:5432"))
	assert.Equal(t, "storage is unavailable", MessageOf(err))
	assert.Equal(t, "internal error", MessageOf(errors.New("secret detail")))
}

func TestStatus(t *testing.T) {
	cases := map[Kind]int{
		KindMissingTenant:      http.StatusBadRequest,
		KindNoToken:            http.StatusUnauthorized,
		KindTokenInvalid:       http.StatusUnauthorized,
		KindTokenExpired:       http.StatusUnauthorized,
		KindTenantMismatch:     http.StatusForbidden,
		KindForbidden:          http.StatusForbidden,
		KindDuplicateEmail:     http.StatusConflict,
		KindInvalidCredentials: http.StatusUnauthorized,
		KindStoreUnavailable:   http.StatusServiceUnavailable,
		KindNotFound:           http.StatusNotFound,
		KindValidation:         http.StatusBadRequest,
		KindRateLimited:        http.StatusTooManyRequests,
		KindInternal:           http.StatusInternalServerError,
	}
	for kind, want := range cases {
		t.Run(string(kind), func(t *testing.T) {
			assert.Equal(t, want, Status(kind))
		})
	}
}
