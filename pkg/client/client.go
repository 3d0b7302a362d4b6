// Package client is a Go session client for the service-app API. It keeps
// the login in a Session, attaches credentials to every request and drops
// the session when the server reports the token is no longer usable.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/bhudevswayam/service-app/pkg/apperr"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrDuplicateEmail     = errors.New("email is already registered")
	ErrNotAuthorized      = errors.New("not authorized")
	ErrSessionExpired     = errors.New("session expired")
)

// APIError is a failure envelope returned by the server.
type APIError struct {
	Status  int
	Kind    apperr.Kind
	Message string
	Details map[string]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("service-app: %d %s: %s", e.Status, e.Kind, e.Message)
}

// Unwrap lets callers match the kinds a UI reacts to with errors.Is.
func (e *APIError) Unwrap() error {
	switch e.Kind {
	case apperr.KindInvalidCredentials:
		return ErrInvalidCredentials
	case apperr.KindDuplicateEmail:
		return ErrDuplicateEmail
	case apperr.KindTenantMismatch, apperr.KindForbidden:
		return ErrNotAuthorized
	case apperr.KindNoToken, apperr.KindTokenInvalid, apperr.KindTokenExpired:
		return ErrSessionExpired
	}
	return nil
}

type Options struct {
	BaseURL string
	// TenantID is sent on requests made before a login has established one.
	TenantID string
	Timeout  time.Duration
	// OnSessionExpired runs after a 401 has cleared the session.
	OnSessionExpired func(kind apperr.Kind)
}

type Client struct {
	http      *resty.Client
	session   *Session
	tenant    string
	onExpired func(apperr.Kind)
}

func New(opts Options, session *Session) *Client {
	if session == nil {
		session, _ = NewSession(&MemoryStore{})
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	c := &Client{session: session, tenant: opts.TenantID, onExpired: opts.OnSessionExpired}
	c.http = resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	c.http.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		c.session.AttachAuthHeaders(r.Header)
		if r.Header.Get(TenantHeader) == "" && c.tenant != "" {
			r.Header.Set(TenantHeader, c.tenant)
		}
		return nil
	})
	c.http.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		if resp.StatusCode() != http.StatusUnauthorized {
			return nil
		}
		kind := kindFromBody(resp.Body())
		switch kind {
		case apperr.KindNoToken, apperr.KindTokenInvalid, apperr.KindTokenExpired:
			_ = c.session.Clear()
			if c.onExpired != nil {
				c.onExpired(kind)
			}
		}
		return nil
	})
	return c
}

func (c *Client) Session() *Session { return c.session }

type envelope[T any] struct {
	Status  int    `json:"status"`
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type failure struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Error   *struct {
		Kind    apperr.Kind     `json:"kind"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func kindFromBody(b []byte) apperr.Kind {
	var f failure
	if err := json.Unmarshal(b, &f); err != nil || f.Error == nil {
		return ""
	}
	return f.Error.Kind
}

func call[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	var out envelope[T]
	var fail failure
	req := c.http.R().SetContext(ctx).SetResult(&out).SetError(&fail)
	if body != nil {
		req.SetBody(body)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		var zero T
		return zero, err
	}
	if resp.IsError() {
		var zero T
		return zero, toAPIError(resp, fail)
	}
	return out.Data, nil
}

func toAPIError(resp *resty.Response, f failure) *APIError {
	e := &APIError{Status: resp.StatusCode(), Message: f.Message, Kind: apperr.KindInternal}
	if f.Error != nil {
		e.Kind = f.Error.Kind
		if len(f.Error.Details) > 0 {
			_ = json.Unmarshal(f.Error.Details, &e.Details)
		}
	}
	if e.Message == "" {
		e.Message = http.StatusText(e.Status)
	}
	return e
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResult struct {
	User      User      `json:"user"`
	Token     string    `json:"token"`
	TenantID  string    `json:"tenantId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Login authenticates against the configured tenant and stores the session.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	res, err := call[LoginResult](ctx, c, http.MethodPost, "/api/auth/login", credentials{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	if err := c.session.Establish(res.Token, res.TenantID, res.User); err != nil {
		return nil, err
	}
	return &res, nil
}

type RegisterInput struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	Name         string `json:"name,omitempty"`
	BusinessName string `json:"businessName,omitempty"`
}

type userEnvelope struct {
	User User `json:"user"`
}

// Register creates a regular user. It does not log in.
func (c *Client) Register(ctx context.Context, in RegisterInput) (*User, error) {
	res, err := call[userEnvelope](ctx, c, http.MethodPost, "/api/auth/register", in)
	if err != nil {
		return nil, err
	}
	return &res.User, nil
}

func (c *Client) RegisterBusiness(ctx context.Context, in RegisterInput) (*User, error) {
	res, err := call[userEnvelope](ctx, c, http.MethodPost, "/api/auth/register-business", in)
	if err != nil {
		return nil, err
	}
	return &res.User, nil
}

// Logout is local only: tokens are stateless and stay valid until they expire.
func (c *Client) Logout() error {
	return c.session.Clear()
}

// Me fetches the current user and refreshes the cached copy.
func (c *Client) Me(ctx context.Context) (*User, error) {
	res, err := call[userEnvelope](ctx, c, http.MethodGet, "/api/auth/me", nil)
	if err != nil {
		return nil, err
	}
	if err := c.session.SetUser(res.User); err != nil {
		return nil, err
	}
	return &res.User, nil
}
