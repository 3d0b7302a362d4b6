package handlers

import (
	"time"

	"github.com/bhudevswayam/service-app/internal/domain/entity"
)

type userResponse struct {
	ID           string    `json:"id"`
	TenantID     string    `json:"tenantId"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	BusinessName string    `json:"businessName,omitempty"`
	Role         string    `json:"role"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func toUserResponse(u *entity.User) userResponse {
	return userResponse{
		ID:           u.ID,
		TenantID:     u.TenantID,
		Email:        u.Email,
		Name:         u.Name,
		BusinessName: u.BusinessName,
		Role:         string(u.Role),
		Active:       u.Active,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// listingResponse keeps the field names the web client already uses;
// "business" is the owning user's id.
type listingResponse struct {
	ID            string    `json:"id"`
	TenantID      string    `json:"tenantId"`
	Business      string    `json:"business"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	Description   string    `json:"description"`
	AddressLine1  string    `json:"addressLine1"`
	AddressLine2  string    `json:"addressLine2"`
	City          string    `json:"city"`
	State         string    `json:"state"`
	ZipCode       string    `json:"zipCode"`
	PhoneNumber   string    `json:"phoneNumber"`
	Email         string    `json:"email"`
	PriceRange    string    `json:"priceRange"`
	BusinessHours string    `json:"businessHours"`
	ImageURL      string    `json:"imageUrl,omitempty"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func toListingResponse(l *entity.Listing) listingResponse {
	return listingResponse{
		ID:            l.ID,
		TenantID:      l.TenantID,
		Business:      l.OwnerID,
		Name:          l.Name,
		Category:      l.Category,
		Description:   l.Description,
		AddressLine1:  l.AddressLine1,
		AddressLine2:  l.AddressLine2,
		City:          l.City,
		State:         l.State,
		ZipCode:       l.ZipCode,
		PhoneNumber:   l.PhoneNumber,
		Email:         l.Email,
		PriceRange:    l.PriceRange,
		BusinessHours: l.BusinessHours,
		ImageURL:      l.ImageURL,
		Active:        l.Active,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
}

func toListingResponses(ls []*entity.Listing) []listingResponse {
	out := make([]listingResponse, 0, len(ls))
	for _, l := range ls {
		out = append(out, toListingResponse(l))
	}
	return out
}
