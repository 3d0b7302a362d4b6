package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bhudevswayam/service-app/internal/domain/entity"
	"github.com/bhudevswayam/service-app/internal/domain/repository"
	"github.com/bhudevswayam/service-app/pkg/apperr"
)

// UserRepository is an in-memory repository.UserRepository for tests.
// It enforces (tenant, email) uniqueness under its mutex, the way the
// database unique index does.
type UserRepository struct {
	mu    sync.Mutex
	byID  map[string]*entity.User
	byKey map[string]string
	Err   error
}

func NewUserRepository() *UserRepository {
	return &UserRepository{byID: map[string]*entity.User{}, byKey: map[string]string{}}
}

func userKey(tenantID, email string) string { return tenantID + "\x00" + email }

func (m *UserRepository) Create(ctx context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	key := userKey(u.TenantID, u.Email)
	if _, ok := m.byKey[key]; ok {
		return apperr.ErrDuplicateEmail
	}
	now := time.Now().UTC()
	u.ID = uuid.NewString()
	u.Active = true
	u.CreatedAt, u.UpdatedAt = now, now
	cp := *u
	m.byID[u.ID] = &cp
	m.byKey[key] = u.ID
	return nil
}

func (m *UserRepository) FindByEmail(ctx context.Context, tenantID, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	id, ok := m.byKey[userKey(tenantID, email)]
	if !ok {
		return nil, nil
	}
	cp := *m.byID[id]
	return &cp, nil
}

func (m *UserRepository) GetByID(ctx context.Context, tenantID, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	u, ok := m.byID[id]
	if !ok || u.TenantID != tenantID {
		return nil, apperr.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *UserRepository) Update(ctx context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	cur, ok := m.byID[u.ID]
	if !ok || cur.TenantID != u.TenantID {
		return apperr.ErrNotFound
	}
	u.UpdatedAt = time.Now().UTC()
	cur.Name = u.Name
	cur.BusinessName = u.BusinessName
	cur.Password = u.Password
	cur.UpdatedAt = u.UpdatedAt
	return nil
}

func (m *UserRepository) Deactivate(ctx context.Context, tenantID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	u, ok := m.byID[id]
	if !ok || u.TenantID != tenantID {
		return apperr.ErrNotFound
	}
	u.Active = false
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// Count returns the number of stored users.
func (m *UserRepository) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

// ListingRepository is an in-memory repository.ListingRepository for tests.
type ListingRepository struct {
	mu    sync.Mutex
	items map[string]*entity.Listing
	Err   error
}

func NewListingRepository() *ListingRepository {
	return &ListingRepository{items: map[string]*entity.Listing{}}
}

func (m *ListingRepository) Create(ctx context.Context, l *entity.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	l.CreatedAt, l.UpdatedAt = now, now
	cp := *l
	m.items[l.ID] = &cp
	return nil
}

func (m *ListingRepository) GetByID(ctx context.Context, tenantID, id string) (*entity.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	l, ok := m.items[id]
	if !ok || l.TenantID != tenantID {
		return nil, apperr.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (m *ListingRepository) List(ctx context.Context, tenantID string, f entity.ListingFilter) ([]*entity.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]*entity.Listing, 0)
	for _, l := range m.items {
		if l.TenantID != tenantID {
			continue
		}
		if f.OwnerID != "" && l.OwnerID != f.OwnerID {
			continue
		}
		if !f.IncludeInactive && !l.Active {
			continue
		}
		cp := *l
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *ListingRepository) Update(ctx context.Context, l *entity.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	cur, ok := m.items[l.ID]
	if !ok || cur.TenantID != l.TenantID {
		return apperr.ErrNotFound
	}
	l.UpdatedAt = time.Now().UTC()
	cp := *l
	m.items[l.ID] = &cp
	return nil
}

func (m *ListingRepository) Deactivate(ctx context.Context, tenantID, ownerID string, ids []string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	var n int64
	for _, id := range ids {
		l, ok := m.items[id]
		if !ok || l.TenantID != tenantID || l.OwnerID != ownerID || !l.Active {
			continue
		}
		l.Active = false
		l.UpdatedAt = time.Now().UTC()
		n++
	}
	return n, nil
}

// AuditRepository records entries in memory.
type AuditRepository struct {
	mu      sync.Mutex
	Entries []entity.AuditEntry
	Err     error
}

func (m *AuditRepository) Insert(ctx context.Context, e *entity.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Entries = append(m.Entries, *e)
	return nil
}

// Actions returns the recorded actions in insertion order.
func (m *AuditRepository) Actions() []entity.AuditAction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]entity.AuditAction, 0, len(m.Entries))
	for _, e := range m.Entries {
		out = append(out, e.Action)
	}
	return out
}

var (
	_ repository.UserRepository    = (*UserRepository)(nil)
	_ repository.ListingRepository = (*ListingRepository)(nil)
	_ repository.AuditRepository   = (*AuditRepository)(nil)
)
