package repository

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"transport-service/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Tenant{}, &models.Vehicle{}))
	return db
}

func seedVehicles(t *testing.T, db *gorm.DB) (uuid.UUID, uuid.UUID) {
	t.Helper()
	tenantA := uuid.New()
	tenantB := uuid.New()
	for _, v := range []models.Vehicle{
		{TenantID: tenantA, Placa: "AAA1A11", Status: models.VehicleStatusActive},
		{TenantID: tenantA, Placa: "AAA2A22", Status: models.VehicleStatusActive},
		{TenantID: tenantB, Placa: "BBB1B11", Status: models.VehicleStatusActive},
	} {
		vehicle := v
		require.NoError(t, db.Create(&vehicle).Error)
	}
	return tenantA, tenantB
}

func TestTenantScopeIsolatesRows(t *testing.T) {
	db := newTestDB(t)
	tenantA, tenantB := seedVehicles(t, db)
	repo := NewVehicleRepository(db)
	ctx := context.Background()

	vehiclesA, err := repo.List(ctx, TenantScope(tenantA))
	require.NoError(t, err)
	assert.Len(t, vehiclesA, 2)

	vehiclesB, err := repo.List(ctx, TenantScope(tenantB))
	require.NoError(t, err)
	assert.Len(t, vehiclesB, 1)

	// A cross-tenant id behaves as missing
	_, err = repo.FindByID(ctx, TenantScope(tenantB), vehiclesA[0].ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGlobalScopeSeesEverything(t *testing.T) {
	db := newTestDB(t)
	seedVehicles(t, db)
	repo := NewVehicleRepository(db)

	vehicles, err := repo.List(context.Background(), GlobalScope())
	require.NoError(t, err)
	assert.Len(t, vehicles, 3)
}

func TestScopedUpdateAndDeleteReportMatches(t *testing.T) {
	db := newTestDB(t)
	tenantA, tenantB := seedVehicles(t, db)
	repo := NewVehicleRepository(db)
	ctx := context.Background()

	vehiclesA, err := repo.List(ctx, TenantScope(tenantA))
	require.NoError(t, err)

	// Updating through the wrong tenant matches nothing
	matched, err := repo.Update(ctx, TenantScope(tenantB), vehiclesA[0].ID, map[string]interface{}{
		"status": models.VehicleStatusInactive,
	})
	require.NoError(t, err)
	assert.Zero(t, matched)

	matched, err = repo.Update(ctx, TenantScope(tenantA), vehiclesA[0].ID, map[string]interface{}{
		"status": models.VehicleStatusInactive,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), matched)

	matched, err = repo.Delete(ctx, TenantScope(tenantB), vehiclesA[0].ID)
	require.NoError(t, err)
	assert.Zero(t, matched)

	matched, err = repo.Delete(ctx, TenantScope(tenantA), vehiclesA[0].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), matched)
}
