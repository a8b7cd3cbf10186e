package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"transport-service/internal/models"
)

// Principal is the authenticated identity services receive. TenantID is nil
// only for super_admin principals.
type Principal struct {
	ID       uuid.UUID
	Role     string
	Name     string
	TenantID *uuid.UUID
}

// IsSuperAdmin reports whether the principal spans tenants
func (p *Principal) IsSuperAdmin() bool {
	return p.Role == models.RoleSuperAdmin
}

// claims is the JWT payload. Mirrors the bearer credential format:
// {id, role, name, tenant_id, issued_at, expiry}.
type claims struct {
	Role     string `json:"role"`
	Name     string `json:"name"`
	TenantID string `json:"tenant_id,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies bearer tokens
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager creates a token manager with the given signing secret and
// token lifetime.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Sign issues a token for the given user
func (m *TokenManager) Sign(user *models.User) (string, error) {
	now := time.Now()
	c := claims{
		Role: user.Role,
		Name: user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	if user.TenantID != nil {
		c.TenantID = user.TenantID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token and returns the principal it encodes.
// Expired or tampered tokens return an error.
func (m *TokenManager) Verify(tokenString string) (*Principal, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid or expired token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return nil, fmt.Errorf("invalid subject claim: %w", err)
	}

	principal := &Principal{ID: id, Role: c.Role, Name: c.Name}
	if c.TenantID != "" {
		tenantID, err := uuid.Parse(c.TenantID)
		if err != nil {
			return nil, fmt.Errorf("invalid tenant_id claim: %w", err)
		}
		principal.TenantID = &tenantID
	}
	return principal, nil
}
