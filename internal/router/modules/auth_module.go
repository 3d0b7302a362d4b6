package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	handlers "github.com/bhudevswayam/service-app/internal/interface/http"
	"github.com/bhudevswayam/service-app/internal/interface/middleware"
)

// AuthModule wires registration, login and the /auth/me routes.
// Public: POST /api/auth/register, /api/auth/register-business, /api/auth/login
// Protected: GET, PUT, DELETE /api/auth/me
type AuthModule struct {
	Auth       *handlers.AuthHandler
	Users      *handlers.UserHandler
	Guard      *middleware.Guard
	RDB        *redis.Client
	Logger     *logrus.Logger
	LoginLimit int
}

func NewAuthModule(auth *handlers.AuthHandler, users *handlers.UserHandler, guard *middleware.Guard, rdb *redis.Client, logger *logrus.Logger, loginLimit int) *AuthModule {
	return &AuthModule{Auth: auth, Users: users, Guard: guard, RDB: rdb, Logger: logger, LoginLimit: loginLimit}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// per tenant and IP, so one tenant cannot exhaust another's budget
	limiter := middleware.RateLimit(m.RDB, m.LoginLimit, time.Minute, middleware.KeyByTenantAndIP(), nil)

	public := rg.Group("/auth")
	public.Use(middleware.Tenant(m.Logger))
	{
		public.POST("/register", limiter, m.Auth.Register)
		public.POST("/register-business", limiter, m.Auth.RegisterBusiness)
		public.POST("/login", limiter, m.Auth.Login)
	}

	me := rg.Group("/auth/me")
	me.Use(
		m.Guard.Authenticate(),
		middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		me.GET("", m.Users.GetProfile)
		me.PUT("", m.Users.UpdateProfile)
		me.DELETE("", m.Users.Deactivate)
	}
}
