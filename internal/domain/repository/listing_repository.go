package repository

import (
	"context"

	"github.com/bhudevswayam/service-app/internal/domain/entity"
)

// ListingRepository persists business listings. Every method is tenant scoped:
// a listing in another tenant behaves exactly like a missing one.
type ListingRepository interface {
	Create(ctx context.Context, l *entity.Listing) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Listing, error)
	List(ctx context.Context, tenantID string, f entity.ListingFilter) ([]*entity.Listing, error)
	Update(ctx context.Context, l *entity.Listing) error
	// Deactivate soft-deletes the given ids that belong to ownerID and
	// returns how many rows changed.
	Deactivate(ctx context.Context, tenantID, ownerID string, ids []string) (int64, error)
}
