package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transport-service/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Hour)
	tenantID := uuid.New()
	user := &models.User{
		ID:       uuid.New(),
		TenantID: &tenantID,
		Name:     "Maria Silva",
		Role:     models.RoleAdmin,
	}

	token, err := manager.Sign(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	principal, err := manager.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, principal.ID)
	assert.Equal(t, models.RoleAdmin, principal.Role)
	assert.Equal(t, "Maria Silva", principal.Name)
	require.NotNil(t, principal.TenantID)
	assert.Equal(t, tenantID, *principal.TenantID)
	assert.False(t, principal.IsSuperAdmin())
}

func TestTokenSuperAdminHasNoTenant(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Hour)
	user := &models.User{
		ID:   uuid.New(),
		Name: "Operator",
		Role: models.RoleSuperAdmin,
	}

	token, err := manager.Sign(user)
	require.NoError(t, err)

	principal, err := manager.Verify(token)
	require.NoError(t, err)
	assert.Nil(t, principal.TenantID)
	assert.True(t, principal.IsSuperAdmin())
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	signer := NewTokenManager("secret-one", time.Hour)
	verifier := NewTokenManager("secret-two", time.Hour)

	token, err := signer.Sign(&models.User{ID: uuid.New(), Role: models.RoleAdmin})
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestTokenRejectsExpired(t *testing.T) {
	manager := NewTokenManager("test-secret", -time.Minute)

	token, err := manager.Sign(&models.User{ID: uuid.New(), Role: models.RoleAdmin})
	require.NoError(t, err)

	_, err = manager.Verify(token)
	assert.Error(t, err)
}

func TestTokenRejectsGarbage(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Hour)
	_, err := manager.Verify("not-a-token")
	assert.Error(t, err)
}
