package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/bhudevswayam/service-app/internal/application"
	"github.com/bhudevswayam/service-app/pkg/response"
)

// UserHandler serves /api/auth/me for the authenticated user.
type UserHandler struct {
	Svc    *application.AuthService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.AuthService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type updateProfileRequest struct {
	Name         *string `json:"name" binding:"omitempty,max=120"`
	BusinessName *string `json:"businessName" binding:"omitempty,max=160"`
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	id, ok := identityOrAbort(c)
	if !ok {
		return
	}
	u, err := h.Svc.GetProfile(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": toUserResponse(u)}, "profile", nil)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	id, ok := identityOrAbort(c)
	if !ok {
		return
	}
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	u, err := h.Svc.UpdateProfile(c.Request.Context(), id, application.UpdateProfileInput{Name: req.Name, BusinessName: req.BusinessName})
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": toUserResponse(u)}, "profile updated", nil)
}

// Deactivate DELETE /api/auth/me. The account is kept but can no longer log in.
func (h *UserHandler) Deactivate(c *gin.Context) {
	id, ok := identityOrAbort(c)
	if !ok {
		return
	}
	if err := h.Svc.Deactivate(c.Request.Context(), id, requestMeta(c)); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deactivated": true}, "account deactivated", nil)
}
