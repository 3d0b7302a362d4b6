package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bhudevswayam/service-app/internal/application"
	"github.com/bhudevswayam/service-app/internal/domain/entity"
	"github.com/bhudevswayam/service-app/internal/interface/middleware"
	"github.com/bhudevswayam/service-app/pkg/apperr"
	"github.com/bhudevswayam/service-app/pkg/response"
	"github.com/bhudevswayam/service-app/pkg/validation"
)

func writeError(c *gin.Context, err error) {
	response.Fail(c, err)
}

func writeBindError(c *gin.Context, err error) {
	response.Error[any](c, http.StatusBadRequest, apperr.KindValidation, "invalid payload", validation.ToDetails(err))
}

// identityOrAbort reads the identity put there by the guard.
func identityOrAbort(c *gin.Context) (entity.Identity, bool) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		writeError(c, apperr.ErrNoToken)
	}
	return id, ok
}

func clientIP(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	return c.ClientIP()
}

func requestMeta(c *gin.Context) application.RequestMeta {
	return application.RequestMeta{IP: clientIP(c), UserAgent: c.GetHeader("User-Agent")}
}
