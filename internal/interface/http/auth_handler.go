package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/bhudevswayam/service-app/internal/application"
	"github.com/bhudevswayam/service-app/internal/domain/entity"
	"github.com/bhudevswayam/service-app/internal/interface/middleware"
	"github.com/bhudevswayam/service-app/pkg/apperr"
	"github.com/bhudevswayam/service-app/pkg/response"
)

// AuthHandler serves the public register and login routes. The tenant is
// taken from the x-tenant-id header resolved by middleware.Tenant.
type AuthHandler struct {
	Svc    *application.AuthService
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Email        string `json:"email" binding:"required,email,max=254"`
	Password     string `json:"password" binding:"required,pwd"`
	Name         string `json:"name" binding:"max=120"`
	BusinessName string `json:"businessName" binding:"max=160"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	h.register(c, entity.RoleRegular)
}

// RegisterBusiness POST /api/auth/register-business
func (h *AuthHandler) RegisterBusiness(c *gin.Context) {
	h.register(c, entity.RoleBusiness)
}

func (h *AuthHandler) register(c *gin.Context, role entity.Role) {
	tenant := middleware.TenantFrom(c)
	if tenant == "" {
		writeError(c, apperr.ErrMissingTenant)
		return
	}
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	in := application.RegisterInput{
		TenantID: tenant,
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     role,
	}
	if role == entity.RoleBusiness {
		in.BusinessName = req.BusinessName
		if in.BusinessName == "" {
			in.BusinessName = req.Name
		}
	}
	u, err := h.Svc.Register(c.Request.Context(), in, requestMeta(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"user": toUserResponse(u)}, "registered", nil)
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	tenant := middleware.TenantFrom(c)
	if tenant == "" {
		writeError(c, apperr.ErrMissingTenant)
		return
	}
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), tenant, req.Email, req.Password, requestMeta(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"user":      toUserResponse(res.User),
		"token":     res.Token,
		"tenantId":  res.User.TenantID,
		"expiresAt": res.ExpiresAt,
	}, "login successful", nil)
}
