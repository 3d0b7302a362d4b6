package repository

import (
	"context"

	"github.com/bhudevswayam/service-app/internal/domain/entity"
)

type AuditRepository interface {
	Insert(ctx context.Context, e *entity.AuditEntry) error
}
