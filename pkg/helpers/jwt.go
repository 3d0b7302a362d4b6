package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bhudevswayam/service-app/pkg/apperr"
)

// TokenService issues and verifies HS256 session tokens.
//
// A token is expired once now >= exp + Leeway. Verify never re-issues or
// extends a token.
type TokenService struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
	Leeway time.Duration

	now func() time.Time
}

func NewTokenService(secret, issuer string, ttl, leeway time.Duration) *TokenService {
	return &TokenService{
		Secret: []byte(secret),
		Issuer: issuer,
		TTL:    ttl,
		Leeway: leeway,
		now:    time.Now,
	}
}

// WithClock replaces the time source; used by tests.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

// Claims are the session claims: sub, tenantId, role, iat, exp.
type Claims struct {
	TenantID string `json:"tenantId"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// UserID returns the subject claim.
func (c *Claims) UserID() string { return c.Subject }

// Issue signs a token for the given identity. expiresAt is the signed exp
// claim, iat + TTL truncated to whole seconds.
func (s *TokenService) Issue(userID, tenantID, role string) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.TTL)
	claims := &Claims{
		TenantID: tenantID,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    s.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, claims.ExpiresAt.Time, nil
}

// Verify checks signature, algorithm and expiry. It fails with
// apperr.ErrTokenExpired for an otherwise valid but expired token and with
// apperr.ErrTokenInvalid for everything else.
func (s *TokenService) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(s.Leeway),
		jwt.WithTimeFunc(s.now),
	}
	if s.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.Issuer))
	}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.Secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.Wrap(apperr.KindTokenExpired, apperr.ErrTokenExpired.Message, err)
		}
		return nil, apperr.Wrap(apperr.KindTokenInvalid, apperr.ErrTokenInvalid.Message, err)
	}
	if !tkn.Valid {
		return nil, apperr.ErrTokenInvalid
	}
	if claims.Subject == "" || claims.TenantID == "" || !validRole(claims.Role) {
		return nil, apperr.ErrTokenInvalid
	}
	return claims, nil
}

func validRole(r string) bool {
	return r == "regular" || r == "business"
}
