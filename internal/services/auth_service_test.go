package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transport-service/internal/auth"
	"transport-service/internal/models"
	"transport-service/internal/repository"
)

func newAuthFixture(t *testing.T) (*AuthService, *InviteService, *models.Tenant, *auth.Principal) {
	t.Helper()
	db := newTestDB(t)
	tenant := createTestTenant(t, db, "Transportes Alfa")
	admin := createTestUser(t, db, tenant.ID, models.RoleAdmin)

	userRepo := repository.NewUserRepository(db)
	inviteRepo := repository.NewInviteRepository(db)
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	return NewAuthService(db, userRepo, inviteRepo, tokens),
		NewInviteService(inviteRepo),
		tenant,
		principalFor(admin)
}

func TestRegisterWithInviteAndLogin(t *testing.T) {
	authService, inviteService, tenant, admin := newAuthFixture(t)
	ctx := context.Background()

	invite, err := inviteService.CreateInvite(ctx, admin, &CreateInviteRequest{
		Email: "driver@test.local",
		Role:  models.RoleDriver,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, invite.Token)
	assert.False(t, invite.IsUsed)

	user, err := authService.Register(ctx, &RegisterRequest{
		Name:        "Carlos Souza",
		Email:       "driver@test.local",
		Password:    "driver-password",
		InviteToken: invite.Token,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleDriver, user.Role)
	require.NotNil(t, user.TenantID)
	assert.Equal(t, tenant.ID, *user.TenantID)

	// The invite is consumed: redeeming again fails
	_, err = authService.Register(ctx, &RegisterRequest{
		Name:        "Someone Else",
		Email:       "driver@test.local",
		Password:    "other-password",
		InviteToken: invite.Token,
	})
	require.Error(t, err)

	// And the public lookup no longer resolves it
	_, err = inviteService.GetInviteByToken(ctx, invite.Token)
	require.Error(t, err)
	_, ok := IsNotFoundError(err)
	assert.True(t, ok)

	result, err := authService.Login(ctx, "driver@test.local", "driver-password")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, user.ID, result.User.ID)

	_, err = authService.Login(ctx, "driver@test.local", "wrong-password")
	require.Error(t, err)
	_, ok = IsAuthenticationError(err)
	assert.True(t, ok)
}

func TestRegisterRejectsMismatchedEmail(t *testing.T) {
	authService, inviteService, _, admin := newAuthFixture(t)
	ctx := context.Background()

	invite, err := inviteService.CreateInvite(ctx, admin, &CreateInviteRequest{
		Email: "monitor@test.local",
		Role:  models.RoleMonitor,
	})
	require.NoError(t, err)

	_, err = authService.Register(ctx, &RegisterRequest{
		Name:        "Ana Lima",
		Email:       "someone-else@test.local",
		Password:    "password",
		InviteToken: invite.Token,
	})
	require.Error(t, err)
	_, ok := IsValidationError(err)
	assert.True(t, ok)
}

func TestRegisterRequiresInvite(t *testing.T) {
	authService, _, _, _ := newAuthFixture(t)

	_, err := authService.Register(context.Background(), &RegisterRequest{
		Name:     "No Invite",
		Email:    "lost@test.local",
		Password: "password",
	})
	require.Error(t, err)
	_, ok := IsValidationError(err)
	assert.True(t, ok)
}

func TestCreateInviteValidatesRole(t *testing.T) {
	_, inviteService, _, admin := newAuthFixture(t)

	_, err := inviteService.CreateInvite(context.Background(), admin, &CreateInviteRequest{
		Email: "root@test.local",
		Role:  models.RoleSuperAdmin,
	})
	require.Error(t, err)
	_, ok := IsValidationError(err)
	assert.True(t, ok)
}

func TestCreateInviteRequiresAdmin(t *testing.T) {
	db := newTestDB(t)
	tenant := createTestTenant(t, db, "Transportes Alfa")
	guardian := createTestUser(t, db, tenant.ID, models.RoleGuardian)
	inviteService := NewInviteService(repository.NewInviteRepository(db))

	_, err := inviteService.CreateInvite(context.Background(), principalFor(guardian), &CreateInviteRequest{
		Email: "friend@test.local",
		Role:  models.RoleGuardian,
	})
	require.Error(t, err)
	_, ok := IsAuthorizationError(err)
	assert.True(t, ok)
}
