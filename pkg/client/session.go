package client

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"sync"
)

// TenantHeader is the header the backend reads the tenant from.
const TenantHeader = "x-tenant-id"

type State string

const (
	StateAnonymous     State = "anonymous"
	StateAuthenticated State = "authenticated"
)

type User struct {
	ID           string `json:"id"`
	TenantID     string `json:"tenantId"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	BusinessName string `json:"businessName,omitempty"`
	Role         string `json:"role"`
}

// IsBusiness reports whether the user may manage listings.
func (u User) IsBusiness() bool { return u.Role == "business" }

// Snapshot is the persisted form of a session.
type Snapshot struct {
	Token    string `json:"token,omitempty"`
	TenantID string `json:"tenantId,omitempty"`
	User     *User  `json:"user,omitempty"`
}

// Store persists a session snapshot between process runs.
type Store interface {
	Load() (Snapshot, error)
	Save(Snapshot) error
	Clear() error
}

// MemoryStore keeps the snapshot in memory. Useful for tests and short-lived tools.
type MemoryStore struct {
	mu   sync.Mutex
	snap Snapshot
}

func (m *MemoryStore) Load() (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap, nil
}

func (m *MemoryStore) Save(s Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = s
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = Snapshot{}
	return nil
}

// FileStore keeps the snapshot in a JSON file readable only by the owner.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore { return &FileStore{Path: path} }

func (f *FileStore) Load() (Snapshot, error) {
	var s Snapshot
	b, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, err
	}
	if len(b) == 0 {
		return s, nil
	}
	err = json.Unmarshal(b, &s)
	return s, err
}

// Save writes to a temp file and renames it so a crash never leaves a
// half-written session behind.
func (f *FileStore) Save(s Snapshot) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return err
	}
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.Path)
}

func (f *FileStore) Clear() error {
	err := os.Remove(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Session is the client-side view of who is logged in. It is safe for
// concurrent use; listeners run outside the lock.
type Session struct {
	mu        sync.RWMutex
	store     Store
	snap      Snapshot
	listeners []func(State)
}

// NewSession restores whatever store holds.
func NewSession(store Store) (*Session, error) {
	if store == nil {
		store = &MemoryStore{}
	}
	snap, err := store.Load()
	if err != nil {
		return nil, err
	}
	return &Session{store: store, snap: snap}, nil
}

func stateOf(s Snapshot) State {
	if s.Token == "" {
		return StateAnonymous
	}
	return StateAuthenticated
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return stateOf(s.snap)
}

// CurrentUser returns the logged-in user, if any.
func (s *Session) CurrentUser() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap.Token == "" || s.snap.User == nil {
		return User{}, false
	}
	return *s.snap.User, true
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Token
}

func (s *Session) TenantID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.TenantID
}

// OnChange registers fn to run after every login, logout or expiry.
func (s *Session) OnChange(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// AttachAuthHeaders is the only place credentials are put on a request.
func (s *Session) AttachAuthHeaders(h http.Header) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap.TenantID != "" {
		h.Set(TenantHeader, s.snap.TenantID)
	}
	if s.snap.Token != "" {
		h.Set("Authorization", "Bearer "+s.snap.Token)
	}
}

// Establish stores a fresh login.
func (s *Session) Establish(token, tenantID string, user User) error {
	u := user
	return s.establish(Snapshot{Token: token, TenantID: tenantID, User: &u})
}

// SetUser updates the cached user without touching the token.
func (s *Session) SetUser(user User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap.Token == "" {
		return nil
	}
	u := user
	next := s.snap
	next.User = &u
	if err := s.store.Save(next); err != nil {
		return err
	}
	s.snap = next
	return nil
}

// Clear forgets the token, tenant and user. Memory is cleared even when the
// store fails, so an unusable token is never sent again.
func (s *Session) Clear() error {
	s.mu.Lock()
	if s.snap == (Snapshot{}) {
		s.mu.Unlock()
		return nil
	}
	s.snap = Snapshot{}
	listeners := s.listenersLocked()
	s.mu.Unlock()

	err := s.store.Clear()
	notify(listeners, StateAnonymous)
	return err
}

// establish persists next before it becomes visible. A failed save leaves
// the previous session in place and notifies nobody.
func (s *Session) establish(next Snapshot) error {
	s.mu.Lock()
	if err := s.store.Save(next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.snap = next
	listeners := s.listenersLocked()
	s.mu.Unlock()

	notify(listeners, stateOf(next))
	return nil
}

func (s *Session) listenersLocked() []func(State) {
	return append(([]func(State))(nil), s.listeners...)
}

func notify(listeners []func(State), st State) {
	for _, fn := range listeners {
		fn(st)
	}
}
