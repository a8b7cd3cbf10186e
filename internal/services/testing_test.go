package services

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"transport-service/internal/auth"
	"transport-service/internal/models"
)

// newTestDB opens an isolated in-memory database with the full schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Tenant{},
		&models.Address{},
		&models.User{},
		&models.Invite{},
		&models.School{},
		&models.Vehicle{},
		&models.Student{},
		&models.StudentAddress{},
		&models.Route{},
		&models.RouteStudent{},
		&models.RouteStaff{},
		&models.DailyCheck{},
		&models.Contract{},
		&models.Installment{},
	))
	return db
}

func createTestTenant(t *testing.T, db *gorm.DB, name string) *models.Tenant {
	t.Helper()
	tenant := &models.Tenant{
		CompanyName:  name,
		CPFCNPJ:      uuid.NewString(),
		ContactEmail: uuid.NewString() + "@test.local",
		Status:       models.TenantStatusActive,
	}
	require.NoError(t, db.Create(tenant).Error)
	return tenant
}

func createTestUser(t *testing.T, db *gorm.DB, tenantID uuid.UUID, role string) *models.User {
	t.Helper()
	user := &models.User{
		TenantID: &tenantID,
		Name:     "Test " + role,
		Email:    uuid.NewString() + "@test.local",
		Password: "not-a-real-hash",
		Role:     role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestSchool(t *testing.T, db *gorm.DB, tenantID uuid.UUID) *models.School {
	t.Helper()
	school := &models.School{TenantID: tenantID, Name: "Escola Teste"}
	require.NoError(t, db.Create(school).Error)
	return school
}

func createTestStudent(t *testing.T, db *gorm.DB, tenantID, guardianID, schoolID uuid.UUID) *models.Student {
	t.Helper()
	student := &models.Student{
		TenantID:   tenantID,
		Name:       "Aluno Teste",
		GuardianID: guardianID,
		SchoolID:   schoolID,
	}
	require.NoError(t, db.Create(student).Error)
	return student
}

func principalFor(user *models.User) *auth.Principal {
	return &auth.Principal{
		ID:       user.ID,
		Role:     user.Role,
		Name:     user.Name,
		TenantID: user.TenantID,
	}
}

func fixedClock(year int, month time.Month, day int) func() time.Time {
	return func() time.Time {
		return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
	}
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
