package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/bhudevswayam/service-app/internal/application"
	"github.com/bhudevswayam/service-app/pkg/apperr"
	"github.com/bhudevswayam/service-app/pkg/response"
)

const defaultMaxImageBytes = 5 << 20

// ServiceHandler serves /api/services. Owner and tenant are never read from
// the body; unknown fields such as "business" or "tenantId" are dropped by
// binding.
type ServiceHandler struct {
	Svc           *application.ListingService
	Logger        *logrus.Logger
	MaxImageBytes int64
}

func NewServiceHandler(svc *application.ListingService, logger *logrus.Logger) *ServiceHandler {
	return &ServiceHandler{Svc: svc, Logger: logger, MaxImageBytes: defaultMaxImageBytes}
}

type listingRequest struct {
	Name          *string `json:"name" binding:"omitempty,max=200"`
	Category      *string `json:"category" binding:"omitempty,max=100"`
	Description   *string `json:"description" binding:"omitempty,max=4000"`
	AddressLine1  *string `json:"addressLine1" binding:"omitempty,max=200"`
	AddressLine2  *string `json:"addressLine2" binding:"omitempty,max=200"`
	City          *string `json:"city" binding:"omitempty,max=100"`
	State         *string `json:"state" binding:"omitempty,max=100"`
	ZipCode       *string `json:"zipCode" binding:"omitempty,max=20"`
	PhoneNumber   *string `json:"phoneNumber" binding:"omitempty,phone"`
	Email         *string `json:"email" binding:"omitempty,email"`
	PriceRange    *string `json:"priceRange" binding:"omitempty,max=50"`
	BusinessHours *string `json:"businessHours" binding:"omitempty,max=200"`
	Active        *bool   `json:"active"`
}

func (r listingRequest) input() application.ListingInput {
	return application.ListingInput{
		Name:          r.Name,
		Category:      r.Category,
		Description:   r.Description,
		AddressLine1:  r.AddressLine1,
		AddressLine2:  r.AddressLine2,
		City:          r.City,
		State:         r.State,
		ZipCode:       r.ZipCode,
		PhoneNumber:   r.PhoneNumber,
		Email:         r.Email,
		PriceRange:    r.PriceRange,
		BusinessHours: r.BusinessHours,
		Active:        r.Active,
	}
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids" binding:"required,min=1,max=100,dive,required"`
}

// List GET /api/services?business=<userId>
func (h *ServiceHandler) List(c *gin.Context) {
	id, ok := identityOrAbort(c)
	if !ok {
		return
	}
	ls, err := h.Svc.List(c.Request.Context(), id, c.Query("business"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toListingResponses(ls), "services", map[string]any{"count": len(ls)})
}

// Search GET /api/services/search?q=&category=&city=&size=
func (h *ServiceHandler) Search(c *gin.Context) {
	id, ok := identityOrAbort(c)
	if !ok {
		return
	}
	q := application.SearchQuery{
		Text:     c.Query("q"),
		Category: c.Query("category"),
		City:     c.Query("city"),
	}
	if s := c.Query("size"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			response.Error[any](c, http.StatusBadRequest, apperr.KindValidation, "invalid query", map[string]string{"size": "must be a number"})
			return
		}
		q.Size = n
	}
	ls, err := h.Svc.Search(c.Request.Context(), id, q)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toListingResponses(ls), "search results", map[string]any{"count": len(ls)})
}

func (h *ServiceHandler) Get(c *gin.Context) {
	id, ok := identityOrAbort(c)
	if !ok {
		return
	}
	l, err := h.Svc.Get(c.Request.Context(), id, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toListingResponse(l), "service", nil)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	id, ok := identityOrAbort(c)
	if !ok {
		return
	}
	var req listingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	l, err := h.Svc.Create(c.Request.Context(), id, req.input())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toListingResponse(l), "service created", nil)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	id, ok := identityOrAbort(c)
	if !ok {
		return
	}
	var req listingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	l, err := h.Svc.Update(c.Request.Context(), id, c.Param("id"), req.input())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toListingResponse(l), "service updated", nil)
}

func (h *ServiceHandler) Delete(c *gin.Context) {
	id, ok := identityOrAbort(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": 1}, "service deleted", nil)
}

// BulkDelete DELETE /api/services {ids}. Either every id is deleted or none.
func (h *ServiceHandler) BulkDelete(c *gin.Context) {
	id, ok := identityOrAbort(c)
	if !ok {
		return
	}
	var req bulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	n, err := h.Svc.BulkDelete(c.Request.Context(), id, req.IDs)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": n}, "services deleted", nil)
}

// UploadImage POST /api/services/:id/image (multipart field "image")
func (h *ServiceHandler) UploadImage(c *gin.Context) {
	id, ok := identityOrAbort(c)
	if !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxImageBytes+1<<10)
	fh, err := c.FormFile("image")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, apperr.KindValidation, "invalid payload", map[string]string{"image": "is required"})
		return
	}
	if fh.Size > h.MaxImageBytes {
		response.Error[any](c, http.StatusBadRequest, apperr.KindValidation, "invalid payload", map[string]string{"image": "is too large"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		writeError(c, apperr.Wrap(apperr.KindInternal, "could not read upload", err))
		return
	}
	defer func() { _ = f.Close() }()

	l, err := h.Svc.UploadImage(c.Request.Context(), id, c.Param("id"), f, fh.Filename)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toListingResponse(l), "image uploaded", nil)
}
