package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transport-service/internal/models"
	"transport-service/internal/repository"
)

func TestMonthlyFrequencyCountsStatuses(t *testing.T) {
	db := newTestDB(t)
	tenant := createTestTenant(t, db, "Transportes Alfa")
	admin := createTestUser(t, db, tenant.ID, models.RoleAdmin)
	guardian := createTestUser(t, db, tenant.ID, models.RoleGuardian)
	school := createTestSchool(t, db, tenant.ID)
	student := createTestStudent(t, db, tenant.ID, guardian.ID, school.ID)

	route := &models.Route{TenantID: tenant.ID, Name: "Rota Manha", SchoolID: school.ID}
	require.NoError(t, db.Create(route).Error)

	checks := []models.DailyCheck{
		{TenantID: tenant.ID, RouteID: route.ID, StudentID: student.ID, CheckDate: date(2025, time.March, 3), TripLeg: models.TripLegIda, Status: models.CheckStatusPresent, CheckedAt: time.Now()},
		{TenantID: tenant.ID, RouteID: route.ID, StudentID: student.ID, CheckDate: date(2025, time.March, 3), TripLeg: models.TripLegVolta, Status: models.CheckStatusPresent, CheckedAt: time.Now()},
		{TenantID: tenant.ID, RouteID: route.ID, StudentID: student.ID, CheckDate: date(2025, time.March, 4), TripLeg: models.TripLegIda, Status: models.CheckStatusAbsent, CheckedAt: time.Now()},
		{TenantID: tenant.ID, RouteID: route.ID, StudentID: student.ID, CheckDate: date(2025, time.March, 5), TripLeg: models.TripLegIda, Status: models.CheckStatusJustified, Notes: "consulta medica", CheckedAt: time.Now()},
		// Outside the requested month
		{TenantID: tenant.ID, RouteID: route.ID, StudentID: student.ID, CheckDate: date(2025, time.April, 1), TripLeg: models.TripLegIda, Status: models.CheckStatusPresent, CheckedAt: time.Now()},
	}
	for _, c := range checks {
		check := c
		require.NoError(t, db.Create(&check).Error)
	}

	service := NewReportService(repository.NewStudentRepository(db), repository.NewDailyCheckRepository(db))
	report, err := service.MonthlyFrequency(context.Background(), principalFor(admin), student.ID.String(), 3, 2025)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Present)
	assert.Equal(t, 1, report.Absent)
	assert.Equal(t, 1, report.Justified)
	assert.Len(t, report.Checks, 4)
	assert.Equal(t, "2025-03-03", report.Checks[0].Date)
}

func TestMonthlyFrequencyGuardianRestrictedToOwnStudents(t *testing.T) {
	db := newTestDB(t)
	tenant := createTestTenant(t, db, "Transportes Alfa")
	guardian := createTestUser(t, db, tenant.ID, models.RoleGuardian)
	otherGuardian := createTestUser(t, db, tenant.ID, models.RoleGuardian)
	school := createTestSchool(t, db, tenant.ID)
	student := createTestStudent(t, db, tenant.ID, otherGuardian.ID, school.ID)

	service := NewReportService(repository.NewStudentRepository(db), repository.NewDailyCheckRepository(db))
	_, err := service.MonthlyFrequency(context.Background(), principalFor(guardian), student.ID.String(), 3, 2025)
	require.Error(t, err)
	_, ok := IsNotFoundError(err)
	assert.True(t, ok)
}

func TestMonthlyFrequencyValidatesMonth(t *testing.T) {
	db := newTestDB(t)
	tenant := createTestTenant(t, db, "Transportes Alfa")
	admin := createTestUser(t, db, tenant.ID, models.RoleAdmin)

	service := NewReportService(repository.NewStudentRepository(db), repository.NewDailyCheckRepository(db))
	_, err := service.MonthlyFrequency(context.Background(), principalFor(admin), "00000000-0000-0000-0000-000000000000", 13, 2025)
	require.Error(t, err)
	_, ok := IsValidationError(err)
	assert.True(t, ok)
}
