package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/bhudevswayam/service-app/internal/domain/entity"
	handlers "github.com/bhudevswayam/service-app/internal/interface/http"
	"github.com/bhudevswayam/service-app/internal/interface/middleware"
)

// ServiceModule wires the listing routes. Reads need any identity in the
// tenant; writes need the business role, ownership is checked by the service.
type ServiceModule struct {
	Handler *handlers.ServiceHandler
	Guard   *middleware.Guard
	RDB     *redis.Client
}

func NewServiceModule(h *handlers.ServiceHandler, guard *middleware.Guard, rdb *redis.Client) *ServiceModule {
	return &ServiceModule{Handler: h, Guard: guard, RDB: rdb}
}

func (m *ServiceModule) Register(rg *gin.RouterGroup) {
	svc := rg.Group("/services")
	svc.Use(
		m.Guard.Authenticate(),
		middleware.RateLimit(m.RDB, 300, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		svc.GET("", m.Handler.List)
		svc.GET("/search", m.Handler.Search)
		svc.GET("/:id", m.Handler.Get)
	}

	biz := svc.Group("", m.Guard.RequireRole(entity.RoleBusiness))
	{
		biz.POST("", m.Handler.Create)
		biz.DELETE("", m.Handler.BulkDelete)
		biz.PUT("/:id", m.Handler.Update)
		biz.DELETE("/:id", m.Handler.Delete)
		biz.POST("/:id/image", m.Handler.UploadImage)
	}
}
