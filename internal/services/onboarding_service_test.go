package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"transport-service/internal/models"
	"transport-service/internal/repository"
)

func newOnboardingFixture(t *testing.T) (*OnboardingService, *gorm.DB, *models.Tenant, *models.School) {
	t.Helper()
	db := newTestDB(t)
	tenant := createTestTenant(t, db, "Transportes Alfa")
	school := createTestSchool(t, db, tenant.ID)
	service := NewOnboardingService(db, repository.NewTenantRepository(db), repository.NewSchoolRepository(db))
	return service, db, tenant, school
}

func TestEnrollCreatesGuardianAndStudents(t *testing.T) {
	service, db, tenant, school := newOnboardingFixture(t)

	result, err := service.Enroll(context.Background(), tenant.ID.String(), &MatriculaRequest{
		GuardianName:     "Joao Pereira",
		GuardianEmail:    "joao@familia.local",
		GuardianPassword: "senha-segura",
		Students: []MatriculaStudentInput{
			{Name: "Pedro", SchoolID: school.ID, Addresses: []StudentAddressInput{homeAddress("Casa")}},
			{Name: "Julia", SchoolID: school.ID},
		},
	})
	require.NoError(t, err)
	assert.True(t, result.GuardianCreated)
	assert.Len(t, result.StudentIDs, 2)

	var guardian models.User
	require.NoError(t, db.First(&guardian, "email = ?", "joao@familia.local").Error)
	assert.Equal(t, models.RoleGuardian, guardian.Role)
	require.NotNil(t, guardian.TenantID)
	assert.Equal(t, tenant.ID, *guardian.TenantID)
	assert.NotEqual(t, "senha-segura", guardian.Password)

	var studentCount int64
	require.NoError(t, db.Model(&models.Student{}).Where("guardian_id = ?", guardian.ID).Count(&studentCount).Error)
	assert.Equal(t, int64(2), studentCount)
}

func TestEnrollReusesExistingGuardian(t *testing.T) {
	service, db, tenant, school := newOnboardingFixture(t)
	existing := createTestUser(t, db, tenant.ID, models.RoleGuardian)

	result, err := service.Enroll(context.Background(), tenant.ID.String(), &MatriculaRequest{
		GuardianName:  existing.Name,
		GuardianEmail: existing.Email,
		Students:      []MatriculaStudentInput{{Name: "Pedro", SchoolID: school.ID}},
	})
	require.NoError(t, err)
	assert.False(t, result.GuardianCreated)
	assert.Equal(t, existing.ID, result.GuardianID)
}

func TestEnrollRejectsEmailBelongingToStaff(t *testing.T) {
	service, db, tenant, school := newOnboardingFixture(t)
	admin := createTestUser(t, db, tenant.ID, models.RoleAdmin)

	_, err := service.Enroll(context.Background(), tenant.ID.String(), &MatriculaRequest{
		GuardianName:  admin.Name,
		GuardianEmail: admin.Email,
		Students:      []MatriculaStudentInput{{Name: "Pedro", SchoolID: school.ID}},
	})
	require.Error(t, err)
	_, ok := IsConflictError(err)
	assert.True(t, ok)
}

func TestEnrollRejectsForeignSchool(t *testing.T) {
	service, db, tenant, _ := newOnboardingFixture(t)
	other := createTestTenant(t, db, "Transportes Beta")
	foreignSchool := createTestSchool(t, db, other.ID)

	_, err := service.Enroll(context.Background(), tenant.ID.String(), &MatriculaRequest{
		GuardianName:     "Joao",
		GuardianEmail:    "joao@familia.local",
		GuardianPassword: "senha",
		Students:         []MatriculaStudentInput{{Name: "Pedro", SchoolID: foreignSchool.ID}},
	})
	require.Error(t, err)
	_, ok := IsValidationError(err)
	assert.True(t, ok)

	// Nothing was created
	var userCount int64
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "joao@familia.local").Count(&userCount).Error)
	assert.Zero(t, userCount)
}

func TestEnrollRejectsInactiveTenant(t *testing.T) {
	service, db, tenant, school := newOnboardingFixture(t)
	require.NoError(t, db.Model(tenant).Update("status", models.TenantStatusSuspended).Error)

	_, err := service.Enroll(context.Background(), tenant.ID.String(), &MatriculaRequest{
		GuardianName:     "Joao",
		GuardianEmail:    "joao@familia.local",
		GuardianPassword: "senha",
		Students:         []MatriculaStudentInput{{Name: "Pedro", SchoolID: school.ID}},
	})
	require.Error(t, err)
	_, ok := IsNotFoundError(err)
	assert.True(t, ok)
}
