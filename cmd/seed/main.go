package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"

	"github.com/bhudevswayam/service-app/config"
	"github.com/bhudevswayam/service-app/internal/domain/entity"
	pginfra "github.com/bhudevswayam/service-app/internal/infrastructure/postgres"
	"github.com/bhudevswayam/service-app/pkg/helpers"
)

const demoTenant = "acme"

type seedUser struct {
	email        string
	password     string
	name         string
	businessName string
	role         entity.Role
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pginfra.NewPool(ctx, pginfra.PoolConfig{DSN: cfg.PostgresDSN(), AppName: cfg.AppName + "-seed", MaxConns: 2})
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	users := []seedUser{
		{email: "owner@acme.test", password: "password123", name: "Olivia Owner", businessName: "Acme Plumbing", role: entity.RoleBusiness},
		{email: "alice@acme.test", password: "password123", name: "Alice", role: entity.RoleRegular},
	}

	ids := make(map[string]string, len(users))
	for _, u := range users {
		hash, err := helpers.HashPassword(u.password)
		if err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}
		var id string
		err = pool.QueryRow(ctx, `
			INSERT INTO users (tenant_id, email, password_hash, name, business_name, role)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (tenant_id, email) DO UPDATE SET name = EXCLUDED.name, updated_at = now()
			RETURNING id
		`, demoTenant, entity.NormalizeEmail(u.email), hash, u.name, u.businessName, string(u.role)).Scan(&id)
		if err != nil {
			log.Fatalf("failed to seed user %s: %v", u.email, err)
		}
		ids[u.email] = id
		fmt.Printf("seeded %s user: tenant=%s id=%s email=%s password=%s\n", u.role, demoTenant, id, u.email, u.password)
	}

	owner := ids["owner@acme.test"]
	var existing string
	err = pool.QueryRow(ctx, `SELECT id FROM services WHERE tenant_id = $1 AND owner_id = $2 LIMIT 1`, demoTenant, owner).Scan(&existing)
	switch {
	case err == nil:
		fmt.Printf("listing already present: id=%s\n", existing)
		return
	case !errors.Is(err, pgx.ErrNoRows):
		log.Fatalf("failed to look up listings: %v", err)
	}

	id := uuid.NewString()
	if _, err := pool.Exec(ctx, `
		INSERT INTO services (id, tenant_id, owner_id, name, category, description, city, state, price_range, business_hours)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, id, demoTenant, owner, "Drain cleaning", "plumbing", "Same-day drain and pipe cleaning.", "Austin", "TX", "$$", "Mon-Fri 8:00-18:00"); err != nil {
		log.Fatalf("failed to seed listing: %v", err)
	}
	fmt.Printf("seeded listing: id=%s owner=%s\n", id, owner)
}
