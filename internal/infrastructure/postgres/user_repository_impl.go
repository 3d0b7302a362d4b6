package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bhudevswayam/service-app/internal/domain/entity"
	"github.com/bhudevswayam/service-app/internal/domain/repository"
	"github.com/bhudevswayam/service-app/pkg/apperr"
)

const userColumns = `id, tenant_id, email, password_hash, name, business_name, role, active, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create relies on the users_tenant_email_key unique index for duplicate
// detection, so concurrent registrations race safely.
func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (tenant_id, email, password_hash, name, business_name, role)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, active, created_at, updated_at
	`, u.TenantID, u.Email, u.Password, u.Name, u.BusinessName, string(u.Role))

	return classify(row.Scan(&u.ID, &u.Active, &u.CreatedAt, &u.UpdatedAt))
}

func (r *UserRepository) FindByEmail(ctx context.Context, tenantID, email string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE tenant_id = $1 AND email = $2
	`, tenantID, email)

	u, err := scanUser(row)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, nil
	}
	return u, err
}

func (r *UserRepository) GetByID(ctx context.Context, tenantID, id string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE tenant_id = $1 AND id = $2
	`, tenantID, id)

	return scanUser(row)
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		UPDATE users
		SET name = $1, business_name = $2, password_hash = $3, updated_at = now()
		WHERE tenant_id = $4 AND id = $5
		RETURNING updated_at
	`, u.Name, u.BusinessName, u.Password, u.TenantID, u.ID)

	return classify(row.Scan(&u.UpdatedAt))
}

func (r *UserRepository) Deactivate(ctx context.Context, tenantID, id string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users SET active = false, updated_at = now()
		WHERE tenant_id = $1 AND id = $2
	`, tenantID, id)
	if err != nil {
		return classify(err)
	}
	if res.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*entity.User, error) {
	u := &entity.User{}
	var role string
	if err := row.Scan(&u.ID, &u.TenantID, &u.Email, &u.Password, &u.Name, &u.BusinessName,
		&role, &u.Active, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, classify(err)
	}
	u.Role = entity.Role(role)
	return u, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
