package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/bhudevswayam/service-app/internal/domain/entity"
)

type contextKey string

const (
	CtxIdentityKey = "identity"
	CtxTenantKey   = "tenant_id"

	identityContextKey contextKey = "identity"
	tenantContextKey   contextKey = "tenant_id"
)

func setIdentity(c *gin.Context, id entity.Identity) {
	c.Set(CtxIdentityKey, id)
	c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), identityContextKey, id))
}

func setTenant(c *gin.Context, tenantID string) {
	c.Set(CtxTenantKey, tenantID)
	c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), tenantContextKey, tenantID))
}

// IdentityFrom returns the identity admitted by the guard.
func IdentityFrom(c *gin.Context) (entity.Identity, bool) {
	v, ok := c.Get(CtxIdentityKey)
	if !ok {
		return entity.Identity{}, false
	}
	id, ok := v.(entity.Identity)
	return id, ok
}

// IdentityFromContext is IdentityFrom for code that only has a context.Context.
func IdentityFromContext(ctx context.Context) (entity.Identity, bool) {
	id, ok := ctx.Value(identityContextKey).(entity.Identity)
	return id, ok
}

// TenantFrom returns the tenant resolved from the request header.
func TenantFrom(c *gin.Context) string {
	return c.GetString(CtxTenantKey)
}

func TenantFromContext(ctx context.Context) string {
	s, _ := ctx.Value(tenantContextKey).(string)
	return s
}
