package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bhudevswayam/service-app/internal/domain/entity"
	repo "github.com/bhudevswayam/service-app/internal/domain/repository"
	"github.com/bhudevswayam/service-app/internal/infrastructure/metrics"
	"github.com/bhudevswayam/service-app/pkg/apperr"
	"github.com/bhudevswayam/service-app/pkg/helpers"
	"github.com/bhudevswayam/service-app/pkg/mailer"
	mailtpl "github.com/bhudevswayam/service-app/pkg/mailer/templates"
)

// JobPublisher is satisfied by *helpers.RabbitPublisher.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// RequestMeta is request context recorded in the audit log.
type RequestMeta struct {
	IP        string
	UserAgent string
}

type AuthService struct {
	Users    repo.UserRepository
	Audit    repo.AuditRepository
	Tokens   *helpers.TokenService
	Jobs     JobPublisher
	Branding mailtpl.Branding
	Logger   *logrus.Logger
}

func NewAuthService(users repo.UserRepository, audit repo.AuditRepository, tokens *helpers.TokenService, jobs JobPublisher, branding mailtpl.Branding, logger *logrus.Logger) *AuthService {
	return &AuthService{
		Users:    users,
		Audit:    audit,
		Tokens:   tokens,
		Jobs:     jobs,
		Branding: branding,
		Logger:   logger,
	}
}

type RegisterInput struct {
	TenantID     string
	Email        string
	Password     string
	Name         string
	BusinessName string
	Role         entity.Role
}

type LoginResult struct {
	User      *entity.User
	Token     string
	ExpiresAt time.Time
}

type UpdateProfileInput struct {
	Name         *string
	BusinessName *string
}

// Register creates a user in the given tenant. Duplicate detection is left
// entirely to the store so two concurrent registrations for the same
// (tenant, email) produce one user and one apperr.ErrDuplicateEmail.
func (s *AuthService) Register(ctx context.Context, in RegisterInput, meta RequestMeta) (*entity.User, error) {
	op := "register"
	if in.Role == entity.RoleBusiness {
		op = "register_business"
	}
	if !in.Role.Valid() {
		return nil, apperr.New(apperr.KindValidation, "unknown role")
	}
	if in.TenantID == "" {
		return nil, apperr.ErrMissingTenant
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "could not hash password", err)
	}
	u := &entity.User{
		TenantID:     in.TenantID,
		Email:        entity.NormalizeEmail(in.Email),
		Password:     hash,
		Name:         strings.TrimSpace(in.Name),
		BusinessName: strings.TrimSpace(in.BusinessName),
		Role:         in.Role,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		metrics.ObserveAuthAttempt(op, string(apperr.KindOf(err)))
		if !errors.Is(err, apperr.ErrDuplicateEmail) {
			s.logError("create user failed", err, u.TenantID, "")
		}
		return nil, err
	}
	metrics.ObserveAuthAttempt(op, "ok")

	action := entity.AuditRegister
	if u.Role == entity.RoleBusiness {
		action = entity.AuditRegisterBusiness
	}
	s.audit(ctx, &entity.AuditEntry{TenantID: u.TenantID, UserID: u.ID, Email: u.Email, Action: action, IP: meta.IP, UserAgent: meta.UserAgent})
	s.enqueueWelcome(ctx, u)
	return u, nil
}

// Authenticate checks credentials within one tenant. Unknown users,
// deactivated users and wrong passwords are indistinguishable to the caller
// and cost one bcrypt comparison each.
func (s *AuthService) Authenticate(ctx context.Context, tenantID, email, password string) (*entity.User, error) {
	u, err := s.Users.FindByEmail(ctx, tenantID, entity.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	hash := ""
	if u != nil {
		hash = u.Password
	}
	if !helpers.VerifyPassword(hash, password) || u == nil || !u.Active {
		return nil, apperr.ErrInvalidCredentials
	}
	return u, nil
}

// Login authenticates and issues a session token for the user's tenant.
func (s *AuthService) Login(ctx context.Context, tenantID, email, password string, meta RequestMeta) (*LoginResult, error) {
	u, err := s.Authenticate(ctx, tenantID, email, password)
	if err != nil {
		metrics.ObserveAuthAttempt("login", string(apperr.KindOf(err)))
		if errors.Is(err, apperr.ErrInvalidCredentials) {
			s.audit(ctx, &entity.AuditEntry{TenantID: tenantID, Email: entity.NormalizeEmail(email), Action: entity.AuditLoginFailure, IP: meta.IP, UserAgent: meta.UserAgent})
		} else {
			s.logError("login lookup failed", err, tenantID, "")
		}
		return nil, err
	}
	token, exp, err := s.Tokens.Issue(u.ID, u.TenantID, string(u.Role))
	if err != nil {
		s.logError("issue token failed", err, u.TenantID, u.ID)
		return nil, apperr.Wrap(apperr.KindInternal, "could not issue token", err)
	}
	metrics.ObserveAuthAttempt("login", "ok")
	s.audit(ctx, &entity.AuditEntry{TenantID: u.TenantID, UserID: u.ID, Email: u.Email, Action: entity.AuditLoginSuccess, IP: meta.IP, UserAgent: meta.UserAgent})
	return &LoginResult{User: u, Token: token, ExpiresAt: exp}, nil
}

func (s *AuthService) GetProfile(ctx context.Context, id entity.Identity) (*entity.User, error) {
	return s.Users.GetByID(ctx, id.TenantID, id.UserID)
}

func (s *AuthService) UpdateProfile(ctx context.Context, id entity.Identity, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, id.TenantID, id.UserID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		u.Name = strings.TrimSpace(*in.Name)
	}
	if in.BusinessName != nil {
		if u.Role != entity.RoleBusiness {
			return nil, apperr.ErrForbidden
		}
		u.BusinessName = strings.TrimSpace(*in.BusinessName)
	}
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Deactivate soft-deletes the acting user. Tokens already issued stay valid
// until they expire.
func (s *AuthService) Deactivate(ctx context.Context, id entity.Identity, meta RequestMeta) error {
	if err := s.Users.Deactivate(ctx, id.TenantID, id.UserID); err != nil {
		return err
	}
	s.audit(ctx, &entity.AuditEntry{TenantID: id.TenantID, UserID: id.UserID, Action: entity.AuditDeactivate, IP: meta.IP, UserAgent: meta.UserAgent})
	return nil
}

func (s *AuthService) enqueueWelcome(ctx context.Context, u *entity.User) {
	if s.Jobs == nil {
		return
	}
	tpl, data := mailtpl.NewWelcomeData(s.Branding, u.Name, u.Email, u.TenantID, string(u.Role),
		mailtpl.WithBusinessName(u.BusinessName), mailtpl.WithTime(u.CreatedAt))
	job := mailer.EmailJob{To: u.Email, Template: tpl, Data: data, TenantID: u.TenantID}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := s.Jobs.PublishJSON(c, job); err != nil {
		helpers.LogWarn(s.Logger, "enqueue welcome email failed", err, logrus.Fields{"tenant_id": u.TenantID, "user_id": u.ID})
	}
}

func (s *AuthService) audit(ctx context.Context, e *entity.AuditEntry) {
	if s.Audit == nil {
		return
	}
	if err := s.Audit.Insert(ctx, e); err != nil {
		helpers.LogWarn(s.Logger, "audit insert failed", err, logrus.Fields{"tenant_id": e.TenantID, "action": e.Action})
	}
}

func (s *AuthService) logError(msg string, err error, tenantID, userID string) {
	helpers.LogError(s.Logger, msg, err, logrus.Fields{"tenant_id": tenantID, "user_id": userID})
}
