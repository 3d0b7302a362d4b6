package router

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/bhudevswayam/service-app/config"
	"github.com/bhudevswayam/service-app/internal/application"
	"github.com/bhudevswayam/service-app/internal/container"
	pginfra "github.com/bhudevswayam/service-app/internal/infrastructure/postgres"
	handlers "github.com/bhudevswayam/service-app/internal/interface/http"
	"github.com/bhudevswayam/service-app/internal/interface/middleware"
	"github.com/bhudevswayam/service-app/internal/router/modules"
	mailtpl "github.com/bhudevswayam/service-app/pkg/mailer/templates"
)

// Deps is everything the HTTP modules need. Tests build it by hand.
type Deps struct {
	Config   *config.Config
	Logger   *logrus.Logger
	Redis    *redis.Client
	Health   handlers.Pinger
	Auth     *application.AuthService
	Listings *application.ListingService
	Guard    *middleware.Guard
}

func buildDeps() Deps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()
	tokens := container.GetTokens()

	// a nil *RabbitPublisher must not become a non-nil interface
	var jobs application.JobPublisher
	if pub := container.GetRabbitPub(); pub != nil && cfg.MailSendEnabled {
		jobs = pub
	}

	auth := application.NewAuthService(
		pginfra.NewUserRepository(pool),
		pginfra.NewAuditRepository(pool),
		tokens,
		jobs,
		mailtpl.Branding{CompanyName: cfg.CompanyName, AppName: cfg.AppName, SupportURL: cfg.SupportURL, LoginURL: cfg.LoginURL},
		logger,
	)
	listings := application.NewListingService(
		pginfra.NewListingRepository(pool),
		container.GetES(),
		cfg.ESServicesIndex,
		container.GetGCS(),
		cfg.GCSBucket,
		logger,
	)

	d := Deps{
		Config:   cfg,
		Logger:   logger,
		Redis:    container.GetRedis(),
		Auth:     auth,
		Listings: listings,
		Guard:    middleware.NewGuard(tokens, logger),
	}
	if pool != nil {
		d.Health = pool
	}
	return d
}

// Mount registers every module built from d.
func Mount(r *Registry, d Deps) {
	health := handlers.NewHealthHandler(d.Health)
	r.AddRoot(ModuleFunc(func(rg *gin.RouterGroup) { rg.GET("/health", health.Health) }))
	r.Add(modules.NewAuthModule(
		handlers.NewAuthHandler(d.Auth, d.Logger),
		handlers.NewUserHandler(d.Auth, d.Logger),
		d.Guard,
		d.Redis,
		d.Logger,
		d.Config.LoginRateLimit,
	))
	r.Add(modules.NewServiceModule(handlers.NewServiceHandler(d.Listings, d.Logger), d.Guard, d.Redis))
	if d.Config.DebugMetricsEnabled {
		r.AddRoot(modules.NewDebugModule(d.Redis))
	}
}

// InitModules initializes all application modules from the container and
// registers them with the router registry. Call once during startup.
func InitModules(r *Registry) {
	Mount(r, buildDeps())
}
