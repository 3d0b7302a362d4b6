package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhudevswayam/service-app/config"
	"github.com/bhudevswayam/service-app/internal/application"
	"github.com/bhudevswayam/service-app/internal/domain/repository/mocks"
	"github.com/bhudevswayam/service-app/internal/interface/middleware"
	"github.com/bhudevswayam/service-app/pkg/apperr"
	"github.com/bhudevswayam/service-app/pkg/helpers"
	mailtpl "github.com/bhudevswayam/service-app/pkg/mailer/templates"
	"github.com/bhudevswayam/service-app/pkg/validation"
)

type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Kind    apperr.Kind       `json:"kind"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

type testUser struct {
	ID       string `json:"id"`
	TenantID string `json:"tenantId"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type testListing struct {
	ID       string `json:"id"`
	TenantID string `json:"tenantId"`
	Business string `json:"business"`
	Name     string `json:"name"`
	Active   bool   `json:"active"`
}

type api struct {
	t      *testing.T
	engine *gin.Engine
}

func newAPI(t *testing.T) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	tokens := helpers.NewTokenService("router-test-secret", "service-app", 24*time.Hour, 0)
	auth := application.NewAuthService(mocks.NewUserRepository(), &mocks.AuditRepository{}, tokens, nil, mailtpl.Branding{}, nil)
	listings := application.NewListingService(mocks.NewListingRepository(), nil, "", nil, "", nil)

	r := gin.New()
	r.Use(middleware.RequestIDMiddleware())
	reg := NewRegistry(r)
	Mount(reg, Deps{
		Config:   &config.Config{LoginRateLimit: 10},
		Auth:     auth,
		Listings: listings,
		Guard:    middleware.NewGuard(tokens, nil),
	})
	reg.RegisterAll()
	return &api{t: t, engine: r}
}

func (a *api) do(method, path, tenant, token string, body any) (int, envelope) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if tenant != "" {
		req.Header.Set(middleware.TenantHeader, tenant)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w.Code, env
}

func (a *api) login(tenant, email, password string) (string, testUser) {
	a.t.Helper()
	code, env := a.do(http.MethodPost, "/api/auth/login", tenant, "", map[string]string{"email": email, "password": password})
	require.Equal(a.t, http.StatusOK, code)
	var data struct {
		Token    string   `json:"token"`
		TenantID string   `json:"tenantId"`
		User     testUser `json:"user"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(a.t, data.Token)
	assert.Equal(a.t, tenant, data.TenantID)
	return data.Token, data.User
}

func kindOf(env envelope) apperr.Kind {
	if env.Error == nil {
		return ""
	}
	return env.Error.Kind
}

func TestHealth(t *testing.T) {
	a := newAPI(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())
}

func TestTenantScopedSessionScenario(t *testing.T) {
	a := newAPI(t)

	code, env := a.do(http.MethodPost, "/api/auth/register", "acme", "", map[string]string{"email": "alice@x.com", "password": "pw123", "name": "Alice"})
	require.Equal(t, http.StatusCreated, code)
	assert.True(t, env.Success)

	token, alice := a.login("acme", "alice@x.com", "pw123")
	assert.Equal(t, "regular", alice.Role)
	assert.Equal(t, "acme", alice.TenantID)

	code, env = a.do(http.MethodGet, "/api/auth/me", "acme", token, nil)
	require.Equal(t, http.StatusOK, code)
	var me struct {
		User testUser `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, alice.ID, me.User.ID)

	code, env = a.do(http.MethodGet, "/api/auth/me", "other", token, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, apperr.KindTenantMismatch, kindOf(env))

	code, env = a.do(http.MethodPost, "/api/services", "acme", token, map[string]string{"name": "Drain cleaning"})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, apperr.KindForbidden, kindOf(env))

	code, env = a.do(http.MethodGet, "/api/auth/me", "acme", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, apperr.KindNoToken, kindOf(env))

	code, env = a.do(http.MethodGet, "/api/auth/me", "", token, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, apperr.KindMissingTenant, kindOf(env))
}

func TestRegisterErrors(t *testing.T) {
	a := newAPI(t)
	body := map[string]string{"email": "alice@x.com", "password": "pw123"}

	code, env := a.do(http.MethodPost, "/api/auth/register", "", "", body)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, apperr.KindMissingTenant, kindOf(env))

	code, _ = a.do(http.MethodPost, "/api/auth/register", "acme", "", body)
	require.Equal(t, http.StatusCreated, code)

	code, env = a.do(http.MethodPost, "/api/auth/register", "acme", "", map[string]string{"email": "ALICE@X.com", "password": "pw123"})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, apperr.KindDuplicateEmail, kindOf(env))

	code, _ = a.do(http.MethodPost, "/api/auth/register", "other", "", body)
	assert.Equal(t, http.StatusCreated, code, "emails are unique per tenant only")

	code, env = a.do(http.MethodPost, "/api/auth/register", "acme", "", map[string]string{"email": "bob@x.com", "password": "pw1"})
	assert.Equal(t, http.StatusBadRequest, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, apperr.KindValidation, env.Error.Kind)
	assert.Contains(t, env.Error.Details, "password")
}

func TestLoginFailures(t *testing.T) {
	a := newAPI(t)
	code, _ := a.do(http.MethodPost, "/api/auth/register", "acme", "", map[string]string{"email": "alice@x.com", "password": "pw123"})
	require.Equal(t, http.StatusCreated, code)

	cases := []struct {
		name, tenant, email, password string
	}{
		{"wrong password", "acme", "alice@x.com", "nope1"},
		{"unknown email", "acme", "nobody@x.com", "pw123"},
		{"other tenant", "other", "alice@x.com", "pw123"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, env := a.do(http.MethodPost, "/api/auth/login", tc.tenant, "", map[string]string{"email": tc.email, "password": tc.password})
			assert.Equal(t, http.StatusUnauthorized, code)
			assert.Equal(t, apperr.KindInvalidCredentials, kindOf(env))
		})
	}
}

func TestDeactivateMe(t *testing.T) {
	a := newAPI(t)
	code, _ := a.do(http.MethodPost, "/api/auth/register", "acme", "", map[string]string{"email": "alice@x.com", "password": "pw123"})
	require.Equal(t, http.StatusCreated, code)
	token, _ := a.login("acme", "alice@x.com", "pw123")

	code, _ = a.do(http.MethodDelete, "/api/auth/me", "acme", token, nil)
	require.Equal(t, http.StatusOK, code)

	code, env := a.do(http.MethodPost, "/api/auth/login", "acme", "", map[string]string{"email": "alice@x.com", "password": "pw123"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, apperr.KindInvalidCredentials, kindOf(env))
}

func TestListingOwnership(t *testing.T) {
	a := newAPI(t)
	for _, email := range []string{"bob@x.com", "carol@x.com"} {
		code, _ := a.do(http.MethodPost, "/api/auth/register-business", "acme", "", map[string]string{"email": email, "password": "pw123", "businessName": "Shop"})
		require.Equal(t, http.StatusCreated, code)
	}
	code, _ := a.do(http.MethodPost, "/api/auth/register", "acme", "", map[string]string{"email": "alice@x.com", "password": "pw123"})
	require.Equal(t, http.StatusCreated, code)

	bobToken, bob := a.login("acme", "bob@x.com", "pw123")
	carolToken, _ := a.login("acme", "carol@x.com", "pw123")
	aliceToken, _ := a.login("acme", "alice@x.com", "pw123")
	assert.Equal(t, "business", bob.Role)

	code, env := a.do(http.MethodPost, "/api/services", "acme", bobToken, map[string]any{
		"name":     "Drain cleaning",
		"category": "plumbing",
		"business": "someone-else",
		"tenantId": "other",
	})
	require.Equal(t, http.StatusCreated, code)
	var created testListing
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, bob.ID, created.Business)
	assert.Equal(t, "acme", created.TenantID)

	code, env = a.do(http.MethodPut, "/api/services/"+created.ID, "acme", bobToken, map[string]string{"phoneNumber": "call me"})
	assert.Equal(t, http.StatusBadRequest, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, apperr.KindValidation, env.Error.Kind)
	assert.Contains(t, env.Error.Details, "phoneNumber")

	code, _ = a.do(http.MethodPut, "/api/services/"+created.ID, "acme", bobToken, map[string]string{"phoneNumber": "(555) 123-4567"})
	assert.Equal(t, http.StatusOK, code)

	code, env = a.do(http.MethodPut, "/api/services/"+created.ID, "acme", carolToken, map[string]string{"name": "Mine now"})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, apperr.KindForbidden, kindOf(env))

	code, _ = a.do(http.MethodDelete, "/api/services/"+created.ID, "acme", aliceToken, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, env = a.do(http.MethodGet, "/api/services?business="+bob.ID, "acme", aliceToken, nil)
	require.Equal(t, http.StatusOK, code)
	var list []testListing
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	code, env = a.do(http.MethodDelete, "/api/services", "acme", bobToken, map[string]any{"ids": []string{}})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, apperr.KindValidation, kindOf(env))

	code, _ = a.do(http.MethodDelete, "/api/services", "acme", bobToken, map[string]any{"ids": []string{created.ID}})
	require.Equal(t, http.StatusOK, code)

	code, env = a.do(http.MethodGet, "/api/services/"+created.ID, "acme", aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, apperr.KindNotFound, kindOf(env))
}

func TestListingSearchFallsBackToStore(t *testing.T) {
	a := newAPI(t)
	code, _ := a.do(http.MethodPost, "/api/auth/register-business", "acme", "", map[string]string{"email": "bob@x.com", "password": "pw123"})
	require.Equal(t, http.StatusCreated, code)
	token, _ := a.login("acme", "bob@x.com", "pw123")

	for _, name := range []string{"Drain cleaning", "Lawn care"} {
		code, _ := a.do(http.MethodPost, "/api/services", "acme", token, map[string]string{"name": name, "city": "Austin"})
		require.Equal(t, http.StatusCreated, code)
	}

	code, env := a.do(http.MethodGet, "/api/services/search?q=drain&city=austin", "acme", token, nil)
	require.Equal(t, http.StatusOK, code)
	var found []testListing
	require.NoError(t, json.Unmarshal(env.Data, &found))
	require.Len(t, found, 1)
	assert.Equal(t, "Drain cleaning", found[0].Name)

	code, env = a.do(http.MethodGet, "/api/services/search?size=abc", "acme", token, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, apperr.KindValidation, kindOf(env))
}
