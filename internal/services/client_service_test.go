package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transport-service/internal/auth"
	"transport-service/internal/models"
	"transport-service/internal/repository"
)

func operatorPrincipal() *auth.Principal {
	return &auth.Principal{Role: models.RoleSuperAdmin, Name: "Operator"}
}

func validClientRequest() *CreateClientRequest {
	return &CreateClientRequest{
		CompanyName:  "Transportes Alfa",
		CPFCNPJ:      "12345678000190",
		ContactEmail: "contato@alfa.local",
		Address: AddressInput{
			CEP:        "01310-100",
			Logradouro: "Avenida Paulista",
			Numero:     "1000",
			Bairro:     "Bela Vista",
			Cidade:     "Sao Paulo",
			Estado:     "SP",
		},
		AdminName:     "Maria Silva",
		AdminEmail:    "maria@alfa.local",
		AdminPassword: "admin-password",
	}
}

func TestCreateClientProvisionsTenantAddressAndAdmin(t *testing.T) {
	db := newTestDB(t)
	service := NewClientService(db, repository.NewTenantRepository(db))
	ctx := context.Background()

	tenant, err := service.CreateClient(ctx, operatorPrincipal(), validClientRequest())
	require.NoError(t, err)
	require.NotNil(t, tenant.MainAddressID)

	var addr models.Address
	require.NoError(t, db.First(&addr, "id = ?", tenant.MainAddressID).Error)
	assert.Equal(t, "Avenida Paulista", addr.Logradouro)

	var admin models.User
	require.NoError(t, db.First(&admin, "email = ?", "maria@alfa.local").Error)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	require.NotNil(t, admin.TenantID)
	assert.Equal(t, tenant.ID, *admin.TenantID)
	assert.NotEqual(t, "admin-password", admin.Password)
}

func TestCreateClientRollsBackOnDuplicateAdminEmail(t *testing.T) {
	db := newTestDB(t)
	service := NewClientService(db, repository.NewTenantRepository(db))
	ctx := context.Background()

	_, err := service.CreateClient(ctx, operatorPrincipal(), validClientRequest())
	require.NoError(t, err)

	// Same admin email under a new document: the user insert fails and the
	// whole provisioning rolls back.
	req := validClientRequest()
	req.CPFCNPJ = "98765432000110"
	req.ContactEmail = "contato@beta.local"
	req.CompanyName = "Transportes Beta"
	_, err = service.CreateClient(ctx, operatorPrincipal(), req)
	require.Error(t, err)
	_, ok := IsConflictError(err)
	assert.True(t, ok)

	var tenantCount int64
	require.NoError(t, db.Model(&models.Tenant{}).Count(&tenantCount).Error)
	assert.Equal(t, int64(1), tenantCount)
}

func TestCreateClientRejectsDuplicateDocument(t *testing.T) {
	db := newTestDB(t)
	service := NewClientService(db, repository.NewTenantRepository(db))
	ctx := context.Background()

	_, err := service.CreateClient(ctx, operatorPrincipal(), validClientRequest())
	require.NoError(t, err)

	req := validClientRequest()
	req.AdminEmail = "other@beta.local"
	req.ContactEmail = "contato@beta.local"
	_, err = service.CreateClient(ctx, operatorPrincipal(), req)
	require.Error(t, err)
	_, ok := IsConflictError(err)
	assert.True(t, ok)
}

func TestClientEndpointsRequireOperator(t *testing.T) {
	db := newTestDB(t)
	tenant := createTestTenant(t, db, "Transportes Alfa")
	admin := createTestUser(t, db, tenant.ID, models.RoleAdmin)
	service := NewClientService(db, repository.NewTenantRepository(db))
	ctx := context.Background()

	_, err := service.CreateClient(ctx, principalFor(admin), validClientRequest())
	require.Error(t, err)
	_, ok := IsAuthorizationError(err)
	assert.True(t, ok)

	_, err = service.ListClients(ctx, principalFor(admin))
	require.Error(t, err)

	_, err = service.GetClient(ctx, principalFor(admin), tenant.ID.String())
	require.Error(t, err)
}

func TestListClientsReportsCounts(t *testing.T) {
	db := newTestDB(t)
	service := NewClientService(db, repository.NewTenantRepository(db))
	ctx := context.Background()

	tenant, err := service.CreateClient(ctx, operatorPrincipal(), validClientRequest())
	require.NoError(t, err)
	guardian := createTestUser(t, db, tenant.ID, models.RoleGuardian)
	school := createTestSchool(t, db, tenant.ID)
	createTestStudent(t, db, tenant.ID, guardian.ID, school.ID)

	summaries, err := service.ListClients(ctx, operatorPrincipal())
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, int64(2), summaries[0].UserCount) // admin + guardian
	assert.Equal(t, int64(1), summaries[0].StudentCount)
}
