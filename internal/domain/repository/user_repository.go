package repository

import (
	"context"

	"github.com/bhudevswayam/service-app/internal/domain/entity"
)

// UserRepository defines the credential store operations.
// Create fails with apperr.ErrDuplicateEmail when (tenant, email) already exists.
// FindByEmail returns (nil, nil) when no user matches.
// GetByID returns apperr.ErrNotFound for unknown ids or ids in another tenant.
// Any other storage failure is reported as apperr.ErrStoreUnavailable.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	FindByEmail(ctx context.Context, tenantID, email string) (*entity.User, error)
	GetByID(ctx context.Context, tenantID, id string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	Deactivate(ctx context.Context, tenantID, id string) error
}
