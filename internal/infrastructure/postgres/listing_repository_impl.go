package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bhudevswayam/service-app/internal/domain/entity"
	"github.com/bhudevswayam/service-app/internal/domain/repository"
)

const listingColumns = `id, tenant_id, owner_id, name, category, description, address_line1, address_line2,
	city, state, zip_code, phone_number, email, price_range, business_hours, image_url, active,
	created_at, updated_at`

type ListingRepository struct {
	pool *pgxpool.Pool
}

func NewListingRepository(pool *pgxpool.Pool) *ListingRepository {
	return &ListingRepository{pool: pool}
}

func (r *ListingRepository) Create(ctx context.Context, l *entity.Listing) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO services (id, tenant_id, owner_id, name, category, description, address_line1,
			address_line2, city, state, zip_code, phone_number, email, price_range, business_hours,
			image_url, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING created_at, updated_at
	`, l.ID, l.TenantID, l.OwnerID, l.Name, l.Category, l.Description, l.AddressLine1,
		l.AddressLine2, l.City, l.State, l.ZipCode, l.PhoneNumber, l.Email, l.PriceRange,
		l.BusinessHours, l.ImageURL, l.Active)

	return classify(row.Scan(&l.CreatedAt, &l.UpdatedAt))
}

func (r *ListingRepository) GetByID(ctx context.Context, tenantID, id string) (*entity.Listing, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+listingColumns+`
		FROM services
		WHERE tenant_id = $1 AND id = $2
	`, tenantID, id)
	return scanListing(row)
}

func (r *ListingRepository) List(ctx context.Context, tenantID string, f entity.ListingFilter) ([]*entity.Listing, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+listingColumns+`
		FROM services
		WHERE tenant_id = $1
		  AND ($2 = '' OR owner_id::text = $2)
		  AND ($3 OR active)
		ORDER BY created_at DESC
	`, tenantID, f.OwnerID, f.IncludeInactive)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	out := make([]*entity.Listing, 0)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return out, nil
}

func (r *ListingRepository) Update(ctx context.Context, l *entity.Listing) error {
	row := r.pool.QueryRow(ctx, `
		UPDATE services
		SET name = $1, category = $2, description = $3, address_line1 = $4, address_line2 = $5,
			city = $6, state = $7, zip_code = $8, phone_number = $9, email = $10, price_range = $11,
			business_hours = $12, image_url = $13, active = $14, updated_at = now()
		WHERE tenant_id = $15 AND id = $16
		RETURNING updated_at
	`, l.Name, l.Category, l.Description, l.AddressLine1, l.AddressLine2, l.City, l.State,
		l.ZipCode, l.PhoneNumber, l.Email, l.PriceRange, l.BusinessHours, l.ImageURL, l.Active,
		l.TenantID, l.ID)

	return classify(row.Scan(&l.UpdatedAt))
}

func (r *ListingRepository) Deactivate(ctx context.Context, tenantID, ownerID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := r.pool.Exec(ctx, `
		UPDATE services SET active = false, updated_at = now()
		WHERE tenant_id = $1 AND owner_id = $2 AND id = ANY($3::uuid[]) AND active
	`, tenantID, ownerID, ids)
	if err != nil {
		return 0, classify(err)
	}
	return res.RowsAffected(), nil
}

func scanListing(row rowScanner) (*entity.Listing, error) {
	l := &entity.Listing{}
	if err := row.Scan(&l.ID, &l.TenantID, &l.OwnerID, &l.Name, &l.Category, &l.Description,
		&l.AddressLine1, &l.AddressLine2, &l.City, &l.State, &l.ZipCode, &l.PhoneNumber, &l.Email,
		&l.PriceRange, &l.BusinessHours, &l.ImageURL, &l.Active, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, classify(err)
	}
	return l, nil
}

var _ repository.ListingRepository = (*ListingRepository)(nil)
