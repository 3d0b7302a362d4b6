package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/bhudevswayam/service-app/internal/infrastructure/metrics"
	"github.com/bhudevswayam/service-app/pkg/apperr"
	"github.com/bhudevswayam/service-app/pkg/response"
)

// TenantHeader carries the tenant on every request, independently of the token.
const TenantHeader = "x-tenant-id"

// MaxTenantLen bounds the tenant id. It ends up in rate-limit keys and logs.
const MaxTenantLen = 64

// ErrTenantTooLong rejects an oversized tenant header.
var ErrTenantTooLong = apperr.New(apperr.KindValidation, "tenant id is too long")

// ResolveTenant extracts the tenant id from the request headers.
func ResolveTenant(h http.Header) (string, error) {
	tenant := strings.TrimSpace(h.Get(TenantHeader))
	if tenant == "" {
		return "", apperr.ErrMissingTenant
	}
	if len(tenant) > MaxTenantLen {
		return "", ErrTenantTooLong
	}
	return tenant, nil
}

// Tenant resolves the tenant for public routes (register, login) and rejects
// requests without one.
func Tenant(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant, err := ResolveTenant(c.Request.Header)
		if err != nil {
			metrics.ObserveGuardDecision(string(apperr.KindOf(err)))
			if logger != nil {
				logger.WithFields(logrus.Fields{
					"request_id": c.GetString("request_id"),
					"path":       c.Request.URL.Path,
				}).Warn("request without a usable tenant header")
			}
			response.Fail(c, err)
			return
		}
		setTenant(c, tenant)
		c.Next()
	}
}
