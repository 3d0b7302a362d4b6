package postgres

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bhudevswayam/service-app/internal/domain/entity"
	"github.com/bhudevswayam/service-app/internal/domain/repository"
)

type AuditRepository struct {
	pool *pgxpool.Pool
}

func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

func (r *AuditRepository) Insert(ctx context.Context, e *entity.AuditEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	meta := []byte("{}")
	if len(e.Metadata) > 0 {
		b, err := json.Marshal(e.Metadata)
		if err != nil {
			return err
		}
		meta = b
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO audit_logs (id, tenant_id, user_id, email, action, ip, user_agent, metadata)
		VALUES ($1, $2, NULLIF($3, '')::uuid, $4, $5, $6, $7, $8)
		RETURNING created_at
	`, e.ID, e.TenantID, e.UserID, e.Email, string(e.Action), e.IP, e.UserAgent, meta)
	return classify(row.Scan(&e.CreatedAt))
}

var _ repository.AuditRepository = (*AuditRepository)(nil)
