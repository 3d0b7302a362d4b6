package client

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// Service is a business listing as returned by /api/services.
type Service struct {
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

// ServiceInput holds editable listing fields. Empty fields are not sent, so
// an update leaves them unchanged.
type ServiceInput struct {
	Name          string `json:"name,omitempty"`
	Category      string `json:"category,omitempty"`
	Description   string `json:"description,omitempty"`
	AddressLine1  string `json:"addressLine1,omitempty"`
	AddressLine2  string `json:"addressLine2,omitempty"`
	City          string `json:"city,omitempty"`
	State         string `json:"state,omitempty"`
	ZipCode       string `json:"zipCode,omitempty"`
	PhoneNumber   string `json:"phoneNumber,omitempty"`
	Email         string `json:"email,omitempty"`
	PriceRange    string `json:"priceRange,omitempty"`
	BusinessHours string `json:"businessHours,omitempty"`
	Active        *bool  `json:"active,omitempty"`
}

// ListServices lists the tenant's services, only businessID's when set.
func (c *Client) ListServices(ctx context.Context, businessID string) ([]Service, error) {
	path := "/api/services"
	if businessID != "" {
		path += "?business=" + url.QueryEscape(businessID)
	}
	return call[[]Service](ctx, c, http.MethodGet, path, nil)
}

func (c *Client) SearchServices(ctx context.Context, text, category, city string) ([]Service, error) {
	q := url.Values{}
	if text != "" {
		q.Set("q", text)
	}
	if category != "" {
		q.Set("category", category)
	}
	if city != "" {
		q.Set("city", city)
	}
	path := "/api/services/search"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	return call[[]Service](ctx, c, http.MethodGet, path, nil)
}

func (c *Client) GetService(ctx context.Context, id string) (*Service, error) {
	s, err := call[Service](ctx, c, http.MethodGet, "/api/services/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) CreateService(ctx context.Context, in ServiceInput) (*Service, error) {
	s, err := call[Service](ctx, c, http.MethodPost, "/api/services", in)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) UpdateService(ctx context.Context, id string, in ServiceInput) (*Service, error) {
	s, err := call[Service](ctx, c, http.MethodPut, "/api/services/"+url.PathEscape(id), in)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) DeleteService(ctx context.Context, id string) error {
	_, err := call[map[string]any](ctx, c, http.MethodDelete, "/api/services/"+url.PathEscape(id), nil)
	return err
}

type deleted struct {
	Deleted int64 `json:"deleted"`
}

// BulkDeleteServices deletes all ids or none of them.
func (c *Client) BulkDeleteServices(ctx context.Context, ids []string) (int64, error) {
	res, err := call[deleted](ctx, c, http.MethodDelete, "/api/services", map[string][]string{"ids": ids})
	if err != nil {
		return 0, err
	}
	return res.Deleted, nil
}
