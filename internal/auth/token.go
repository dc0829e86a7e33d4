package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"lumora.life/internal/access"
)

// Identity is what the authenticator knows about a user at token time.
type Identity struct {
	ID    string
	Email string
	Name  string
	Roles access.RoleAssignment
}

// Claims are the session JWT claims. Roles carry the per-domain assignment;
// MFAVerified reflects session elevation, never the persisted user record.
type Claims struct {
	Email       string                `json:"email,omitempty"`
	Name        string                `json:"name,omitempty"`
	Roles       access.RoleAssignment `json:"roles"`
	MFAVerified bool                  `json:"mfa,omitempty"`
	jwt.RegisteredClaims
}

// TokenService issues and validates session tokens with HS256. The secret is
// injected through configuration; nothing here reads process-wide state.
type TokenService struct {
	issuer string
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService validates its inputs and returns a ready service.
func NewTokenService(issuer, secret string, ttl time.Duration) (*TokenService, error) {
	issuer = strings.TrimSpace(issuer)
	if issuer == "" {
		return nil, errors.New("auth: issuer is required")
	}
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("auth: token secret is required")
	}
	if ttl <= 0 {
		return nil, errors.New("auth: token ttl must be greater than zero")
	}
	return &TokenService{
		issuer: issuer,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue signs a session token for the identity. mfaVerified marks an elevated
// session; a login that still awaits its code issues with mfaVerified=false.
func (s *TokenService) Issue(identity Identity, mfaVerified bool) (string, time.Time, error) {
	userID := strings.TrimSpace(identity.ID)
	if userID == "" {
		return "", time.Time{}, errors.New("auth: user id is required")
	}
	if identity.Roles.Empty() {
		return "", time.Time{}, ErrNoPortalAccess
	}
	if err := identity.Roles.Validate(); err != nil {
		return "", time.Time{}, err
	}

	now := s.now().UTC()
	expiresAt := now.Add(s.ttl)
	claims := Claims{
		Email:       strings.TrimSpace(identity.Email),
		Name:        strings.TrimSpace(identity.Name),
		Roles:       identity.Roles,
		MFAVerified: mfaVerified,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse verifies the token signature and required claims.
func (s *TokenService) Parse(token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if err := s.validateClaims(claims); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *TokenService) validateClaims(claims *Claims) error {
	if claims.Issuer != s.issuer {
		return fmt.Errorf("unexpected issuer: %s", claims.Issuer)
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return errors.New("subject missing")
	}
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		return errors.New("timestamps missing")
	}
	now := s.now().UTC()
	if now.After(claims.ExpiresAt.Time) {
		return errors.New("token expired")
	}
	// Allow a small clock skew of 5 seconds when validating issued-at.
	if claims.IssuedAt.Time.After(now.Add(5 * time.Second)) {
		return errors.New("token issued in the future")
	}
	if claims.ExpiresAt.Time.Before(claims.IssuedAt.Time) {
		return errors.New("token expiry precedes issued-at")
	}
	if claims.Roles.Empty() {
		return errors.New("roles missing")
	}
	if err := claims.Roles.Validate(); err != nil {
		return err
	}
	return nil
}
