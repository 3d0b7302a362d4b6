package entity

import "time"

// Listing is a service offered by a business user inside one tenant.
type Listing struct {
	ID            string
	TenantID      string
	OwnerID       string
	Name          string
	Category      string
	Description   string
	AddressLine1  string
	AddressLine2  string
	City          string
	State         string
	ZipCode       string
	PhoneNumber   string
	Email         string
	PriceRange    string
	BusinessHours string
	ImageURL      string
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ListingFilter narrows a tenant's listings. Empty fields do not filter.
type ListingFilter struct {
	OwnerID         string
	IncludeInactive bool
}
