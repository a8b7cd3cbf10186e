package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"transport-service/internal/auth"
	"transport-service/internal/models"
	"transport-service/internal/repository"
)

type routeFixture struct {
	db      *gorm.DB
	service *RouteService
	tenant  *models.Tenant
	admin   *auth.Principal
	driver  *models.User
	student *models.Student
	route   *models.Route
}

func newRouteFixture(t *testing.T) *routeFixture {
	t.Helper()
	db := newTestDB(t)
	tenant := createTestTenant(t, db, "Transportes Alfa")
	adminUser := createTestUser(t, db, tenant.ID, models.RoleAdmin)
	guardian := createTestUser(t, db, tenant.ID, models.RoleGuardian)
	driver := createTestUser(t, db, tenant.ID, models.RoleDriver)
	school := createTestSchool(t, db, tenant.ID)
	student := createTestStudent(t, db, tenant.ID, guardian.ID, school.ID)

	service := NewRouteService(
		db,
		repository.NewRouteRepository(db),
		repository.NewStudentRepository(db),
		repository.NewUserRepository(db),
		repository.NewSchoolRepository(db),
		repository.NewDailyCheckRepository(db),
	)

	admin := principalFor(adminUser)
	route, err := service.CreateRoute(context.Background(), admin, &CreateRouteRequest{
		Name:     "Rota Manha",
		SchoolID: school.ID,
	})
	require.NoError(t, err)

	return &routeFixture{
		db:      db,
		service: service,
		tenant:  tenant,
		admin:   admin,
		driver:  driver,
		student: student,
		route:   route,
	}
}

func (f *routeFixture) assignAll(t *testing.T, weekdays []string) {
	t.Helper()
	_, err := f.service.AssignStudent(context.Background(), f.admin, f.route.ID.String(), &AssignStudentRequest{
		StudentID: f.student.ID,
		Weekdays:  weekdays,
	})
	require.NoError(t, err)
	_, err = f.service.AssignStaff(context.Background(), f.admin, f.route.ID.String(), &AssignStaffRequest{
		UserID:         f.driver.ID,
		AssignmentType: models.AssignmentMainDriver,
	})
	require.NoError(t, err)
}

func TestAssignStaffValidatesRole(t *testing.T) {
	f := newRouteFixture(t)

	// A driver cannot be assigned as monitor
	_, err := f.service.AssignStaff(context.Background(), f.admin, f.route.ID.String(), &AssignStaffRequest{
		UserID:         f.driver.ID,
		AssignmentType: models.AssignmentMonitor,
	})
	require.Error(t, err)
	_, ok := IsValidationError(err)
	assert.True(t, ok)
}

func TestPerformCheckUpsertsOnRecheck(t *testing.T) {
	f := newRouteFixture(t)
	f.assignAll(t, nil)
	driverPrincipal := principalFor(f.driver)
	ctx := context.Background()

	first, err := f.service.PerformCheck(ctx, driverPrincipal, f.route.ID.String(), &PerformCheckRequest{
		StudentID: f.student.ID,
		CheckDate: "2025-03-10",
		TripLeg:   models.TripLegIda,
		Status:    models.CheckStatusPresent,
	})
	require.NoError(t, err)
	assert.Equal(t, models.CheckStatusPresent, first.Status)

	// Correcting the same (student, date, leg) overwrites instead of duplicating
	_, err = f.service.PerformCheck(ctx, driverPrincipal, f.route.ID.String(), &PerformCheckRequest{
		StudentID: f.student.ID,
		CheckDate: "2025-03-10",
		TripLeg:   models.TripLegIda,
		Status:    models.CheckStatusAbsent,
		Notes:     "faltou",
	})
	require.NoError(t, err)

	var checks []models.DailyCheck
	require.NoError(t, f.db.Where("student_id = ?", f.student.ID).Find(&checks).Error)
	require.Len(t, checks, 1)
	assert.Equal(t, models.CheckStatusAbsent, checks[0].Status)
	assert.Equal(t, "faltou", checks[0].Notes)

	// A different leg on the same day is a separate record
	_, err = f.service.PerformCheck(ctx, driverPrincipal, f.route.ID.String(), &PerformCheckRequest{
		StudentID: f.student.ID,
		CheckDate: "2025-03-10",
		TripLeg:   models.TripLegVolta,
		Status:    models.CheckStatusPresent,
	})
	require.NoError(t, err)
	require.NoError(t, f.db.Where("student_id = ?", f.student.ID).Find(&checks).Error)
	assert.Len(t, checks, 2)
}

func TestPerformCheckRequiresRouteAssignment(t *testing.T) {
	f := newRouteFixture(t)
	f.assignAll(t, nil)

	stranger := createTestUser(t, f.db, f.tenant.ID, models.RoleDriver)
	_, err := f.service.PerformCheck(context.Background(), principalFor(stranger), f.route.ID.String(), &PerformCheckRequest{
		StudentID: f.student.ID,
		CheckDate: "2025-03-10",
		TripLeg:   models.TripLegIda,
		Status:    models.CheckStatusPresent,
	})
	require.Error(t, err)
	_, ok := IsAuthorizationError(err)
	assert.True(t, ok)
}

func TestChecklistFiltersByWeekday(t *testing.T) {
	f := newRouteFixture(t)
	// Monday-only rider
	f.assignAll(t, []string{"seg"})
	f.service.SetClock(fixedClock(2025, time.March, 10))

	// 2025-03-10 is a Monday
	entries, err := f.service.GetChecklist(context.Background(), f.admin, f.route.ID.String(), "2025-03-10", "")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Nil(t, entries[0].Check)

	// 2025-03-11 is a Tuesday: the student does not ride
	entries, err = f.service.GetChecklist(context.Background(), f.admin, f.route.ID.String(), "2025-03-11", "")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestChecklistIncludesRecordedChecks(t *testing.T) {
	f := newRouteFixture(t)
	f.assignAll(t, nil)
	ctx := context.Background()

	_, err := f.service.PerformCheck(ctx, principalFor(f.driver), f.route.ID.String(), &PerformCheckRequest{
		StudentID: f.student.ID,
		CheckDate: "2025-03-10",
		TripLeg:   models.TripLegIda,
		Status:    models.CheckStatusPresent,
	})
	require.NoError(t, err)

	entries, err := f.service.GetChecklist(ctx, f.admin, f.route.ID.String(), "2025-03-10", models.TripLegIda)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].Check)
	assert.Equal(t, models.CheckStatusPresent, entries[0].Check.Status)
}

func TestListRoutesScopedToStaffAssignments(t *testing.T) {
	f := newRouteFixture(t)
	f.assignAll(t, nil)

	// A second route the driver is not assigned to
	school := createTestSchool(t, f.db, f.tenant.ID)
	_, err := f.service.CreateRoute(context.Background(), f.admin, &CreateRouteRequest{
		Name:     "Rota Tarde",
		SchoolID: school.ID,
	})
	require.NoError(t, err)

	adminRoutes, err := f.service.ListRoutes(context.Background(), f.admin)
	require.NoError(t, err)
	assert.Len(t, adminRoutes, 2)

	driverRoutes, err := f.service.ListRoutes(context.Background(), principalFor(f.driver))
	require.NoError(t, err)
	require.Len(t, driverRoutes, 1)
	assert.Equal(t, f.route.ID, driverRoutes[0].ID)
}
