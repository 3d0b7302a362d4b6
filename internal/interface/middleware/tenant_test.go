package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhudevswayam/service-app/pkg/apperr"
)

func TestResolveTenant(t *testing.T) {
	h := http.Header{}
	_, err := ResolveTenant(h)
	assert.ErrorIs(t, err, apperr.ErrMissingTenant)

	h.Set(TenantHeader, "  acme ")
	tenant, err := ResolveTenant(h)
	require.NoError(t, err)
	assert.Equal(t, "acme", tenant)

	h.Set("X-Tenant-ID", "other")
	tenant, err = ResolveTenant(h)
	require.NoError(t, err)
	assert.Equal(t, "other", tenant, "header lookup is case-insensitive")

	h.Set(TenantHeader, strings.Repeat("t", MaxTenantLen))
	_, err = ResolveTenant(h)
	assert.NoError(t, err)

	h.Set(TenantHeader, strings.Repeat("t", MaxTenantLen+1))
	_, err = ResolveTenant(h)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.NotErrorIs(t, err, apperr.ErrMissingTenant)
}

func TestTenantMiddleware(t *testing.T) {
	r := gin.New()
	r.POST("/register", Tenant(nil), func(c *gin.Context) {
		c.String(http.StatusOK, TenantFrom(c)+"|"+TenantFromContext(c.Request.Context()))
	})

	req := httptest.NewRequest(http.MethodPost, "/register", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"kind":"missing_tenant"`)

	req = httptest.NewRequest(http.MethodPost, "/register", nil)
	req.Header.Set(TenantHeader, strings.Repeat("t", MaxTenantLen+1))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"kind":"validation"`)

	req = httptest.NewRequest(http.MethodPost, "/register", nil)
	req.Header.Set(TenantHeader, "acme")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "acme|acme", w.Body.String())
}
