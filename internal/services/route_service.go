package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"transport-service/internal/auth"
	"transport-service/internal/models"
	"transport-service/internal/repository"
)

// RouteService manages routes, their student and staff assignments, and the
// daily attendance checklist.
type RouteService struct {
	db          *gorm.DB
	routeRepo   *repository.RouteRepository
	studentRepo *repository.StudentRepository
	userRepo    *repository.UserRepository
	schoolRepo  *repository.SchoolRepository
	checkRepo   *repository.DailyCheckRepository
	now         func() time.Time
}

// NewRouteService creates a new route service
func NewRouteService(
	db *gorm.DB,
	routeRepo *repository.RouteRepository,
	studentRepo *repository.StudentRepository,
	userRepo *repository.UserRepository,
	schoolRepo *repository.SchoolRepository,
	checkRepo *repository.DailyCheckRepository,
) *RouteService {
	return &RouteService{
		db:          db,
		routeRepo:   routeRepo,
		studentRepo: studentRepo,
		userRepo:    userRepo,
		schoolRepo:  schoolRepo,
		checkRepo:   checkRepo,
		now:         time.Now,
	}
}

// SetClock overrides the service's time source. Test hook.
func (s *RouteService) SetClock(now func() time.Time) { s.now = now }

// CreateRouteRequest carries the inputs for route creation
type CreateRouteRequest struct {
	Name                     string    `json:"name"`
	Description              string    `json:"description"`
	SchoolID                 uuid.UUID `json:"school_id"`
	EstimatedDurationSeconds *int      `json:"estimated_duration_seconds"`
}

// AssignStudentRequest attaches a student to a route with its logistics
type AssignStudentRequest struct {
	StudentID        uuid.UUID  `json:"student_id"`
	PickupAddressID  *uuid.UUID `json:"pickup_address_id"`
	DropoffAddressID *uuid.UUID `json:"dropoff_address_id"`
	Weekdays         []string   `json:"weekdays"`
	PickupOrder      int        `json:"pickup_order"`
}

// AssignStaffRequest attaches a driver or monitor to a route
type AssignStaffRequest struct {
	UserID         uuid.UUID `json:"user_id"`
	AssignmentType string    `json:"assignment_type"`
}

// PerformCheckRequest records one student's attendance on a trip leg
type PerformCheckRequest struct {
	StudentID uuid.UUID `json:"student_id"`
	CheckDate string    `json:"check_date"`
	TripLeg   string    `json:"trip_leg"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes"`
}

// RouteDetails is a route with its assignments expanded
type RouteDetails struct {
	Route    models.Route          `json:"route"`
	Students []models.RouteStudent `json:"students"`
	Staff    []models.RouteStaff   `json:"staff"`
}

// ChecklistEntry pairs a route student with any check already recorded for
// the requested date and leg.
type ChecklistEntry struct {
	Assignment models.RouteStudent `json:"assignment"`
	Check      *models.DailyCheck  `json:"check,omitempty"`
}

// weekdayLabels matches time.Weekday ordering, Sunday first
var weekdayLabels = []string{"dom", "seg", "ter", "qua", "qui", "sex", "sab"}

// CreateRoute creates a route serving a school in the caller's tenant
func (s *RouteService) CreateRoute(ctx context.Context, principal *auth.Principal, req *CreateRouteRequest) (*models.Route, error) {
	tenantID, err := requireTenantAdmin(principal)
	if err != nil {
		return nil, err
	}
	if req.Name == "" {
		return nil, NewValidationError("name", "name is required")
	}
	if req.SchoolID == uuid.Nil {
		return nil, NewValidationError("school_id", "school_id is required")
	}

	scope := repository.TenantScope(tenantID)
	if _, err := s.schoolRepo.FindByID(ctx, scope, req.SchoolID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("school")
		}
		return nil, fmt.Errorf("failed to load school: %w", err)
	}

	route := &models.Route{
		TenantID:                 tenantID,
		Name:                     req.Name,
		Description:              req.Description,
		SchoolID:                 req.SchoolID,
		EstimatedDurationSeconds: req.EstimatedDurationSeconds,
	}
	if err := s.routeRepo.Create(ctx, route); err != nil {
		return nil, err
	}
	return route, nil
}

// ListRoutes returns the routes visible to the caller. Drivers and monitors
// see only the routes they are assigned to.
func (s *RouteService) ListRoutes(ctx context.Context, principal *auth.Principal) ([]models.Route, error) {
	scope, err := scopeFor(principal)
	if err != nil {
		return nil, err
	}
	if principal.Role == models.RoleDriver || principal.Role == models.RoleMonitor {
		routes, err := s.routeRepo.ListByStaff(ctx, scope, principal.ID)
		if err != nil {
			return nil, err
		}
		return routes, nil
	}
	return s.routeRepo.List(ctx, scope)
}

// GetRouteDetails returns a route with its student and staff assignments
func (s *RouteService) GetRouteDetails(ctx context.Context, principal *auth.Principal, id string) (*RouteDetails, error) {
	scope, err := scopeFor(principal)
	if err != nil {
		return nil, err
	}
	routeID, err := parseID("id", id)
	if err != nil {
		return nil, err
	}

	route, err := s.routeRepo.FindByID(ctx, scope, routeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("route")
		}
		return nil, fmt.Errorf("failed to load route: %w", err)
	}

	students, err := s.routeRepo.ListStudents(ctx, route.ID)
	if err != nil {
		return nil, err
	}
	staff, err := s.routeRepo.ListStaff(ctx, route.ID)
	if err != nil {
		return nil, err
	}
	return &RouteDetails{Route: *route, Students: students, Staff: staff}, nil
}

// AssignStudent adds a student to a route or updates the existing assignment
func (s *RouteService) AssignStudent(ctx context.Context, principal *auth.Principal, routeID string, req *AssignStudentRequest) (*models.RouteStudent, error) {
	tenantID, err := requireTenantAdmin(principal)
	if err != nil {
		return nil, err
	}
	rid, err := parseID("route_id", routeID)
	if err != nil {
		return nil, err
	}
	if req.StudentID == uuid.Nil {
		return nil, NewValidationError("student_id", "student_id is required")
	}
	for _, day := range req.Weekdays {
		if !validWeekday(day) {
			return nil, NewValidationError("weekdays", "weekdays must be dom, seg, ter, qua, qui, sex, or sab")
		}
	}

	scope := repository.TenantScope(tenantID)
	if _, err := s.routeRepo.FindByID(ctx, scope, rid); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("route")
		}
		return nil, fmt.Errorf("failed to load route: %w", err)
	}
	if _, err := s.studentRepo.FindByID(ctx, scope, req.StudentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("student")
		}
		return nil, fmt.Errorf("failed to load student: %w", err)
	}

	weekdays, err := models.NewJSONB(req.Weekdays)
	if err != nil {
		return nil, fmt.Errorf("failed to encode weekdays: %w", err)
	}
	assignment := &models.RouteStudent{
		TenantID:         tenantID,
		RouteID:          rid,
		StudentID:        req.StudentID,
		PickupAddressID:  req.PickupAddressID,
		DropoffAddressID: req.DropoffAddressID,
		Weekdays:         weekdays,
		PickupOrder:      req.PickupOrder,
	}
	if err := s.routeRepo.UpsertStudent(ctx, assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

// AssignStaff adds a driver or monitor to a route or updates the assignment
// type. The assignment type must match the user's role.
func (s *RouteService) AssignStaff(ctx context.Context, principal *auth.Principal, routeID string, req *AssignStaffRequest) (*models.RouteStaff, error) {
	tenantID, err := requireTenantAdmin(principal)
	if err != nil {
		return nil, err
	}
	rid, err := parseID("route_id", routeID)
	if err != nil {
		return nil, err
	}
	if req.UserID == uuid.Nil {
		return nil, NewValidationError("user_id", "user_id is required")
	}

	scope := repository.TenantScope(tenantID)
	if _, err := s.routeRepo.FindByID(ctx, scope, rid); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("route")
		}
		return nil, fmt.Errorf("failed to load route: %w", err)
	}
	user, err := s.userRepo.FindByID(ctx, scope, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("user")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	switch req.AssignmentType {
	case models.AssignmentMainDriver, models.AssignmentSubstituteDriver:
		if user.Role != models.RoleDriver {
			return nil, NewValidationError("assignment_type", "driver assignments require a driver")
		}
	case models.AssignmentMonitor:
		if user.Role != models.RoleMonitor {
			return nil, NewValidationError("assignment_type", "monitor assignments require a monitor")
		}
	default:
		return nil, NewValidationError("assignment_type", "assignment_type must be main_driver, substitute_driver, or monitor")
	}

	assignment := &models.RouteStaff{
		TenantID:       tenantID,
		RouteID:        rid,
		UserID:         req.UserID,
		AssignmentType: req.AssignmentType,
	}
	if err := s.routeRepo.UpsertStaff(ctx, assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

// GetChecklist returns the students riding a route on the given date,
// paired with any checks already recorded for that date. Only students whose
// weekdays include the date's weekday appear; an assignment with no weekdays
// rides every day.
func (s *RouteService) GetChecklist(ctx context.Context, principal *auth.Principal, routeID, dateStr, tripLeg string) ([]ChecklistEntry, error) {
	scope, err := scopeFor(principal)
	if err != nil {
		return nil, err
	}
	rid, err := parseID("route_id", routeID)
	if err != nil {
		return nil, err
	}
	date, err := parseDate(dateStr, s.now())
	if err != nil {
		return nil, err
	}
	if tripLeg != "" && tripLeg != models.TripLegIda && tripLeg != models.TripLegVolta {
		return nil, NewValidationError("trip_leg", "trip_leg must be ida or volta")
	}

	if err := s.requireRouteAccess(ctx, scope, principal, rid); err != nil {
		return nil, err
	}

	assignments, err := s.routeRepo.ListStudents(ctx, rid)
	if err != nil {
		return nil, err
	}
	checks, err := s.checkRepo.ListForRouteDate(ctx, scope, rid, date)
	if err != nil {
		return nil, err
	}

	checkByStudent := make(map[uuid.UUID]*models.DailyCheck, len(checks))
	for i := range checks {
		if tripLeg != "" && checks[i].TripLeg != tripLeg {
			continue
		}
		checkByStudent[checks[i].StudentID] = &checks[i]
	}

	label := weekdayLabels[date.Weekday()]
	entries := make([]ChecklistEntry, 0, len(assignments))
	for _, a := range assignments {
		if !ridesOn(a.Weekdays, label) {
			continue
		}
		entries = append(entries, ChecklistEntry{Assignment: a, Check: checkByStudent[a.StudentID]})
	}
	return entries, nil
}

// PerformCheck records attendance for one student on a route. Re-checking
// the same (student, date, leg) overwrites the earlier record.
func (s *RouteService) PerformCheck(ctx context.Context, principal *auth.Principal, routeID string, req *PerformCheckRequest) (*models.DailyCheck, error) {
	scope, err := scopeFor(principal)
	if err != nil {
		return nil, err
	}
	if principal.Role != models.RoleDriver && principal.Role != models.RoleMonitor && principal.Role != models.RoleAdmin {
		return nil, NewAuthorizationError("only route staff may record checks")
	}
	rid, err := parseID("route_id", routeID)
	if err != nil {
		return nil, err
	}
	if req.StudentID == uuid.Nil {
		return nil, NewValidationError("student_id", "student_id is required")
	}
	if req.TripLeg != models.TripLegIda && req.TripLeg != models.TripLegVolta {
		return nil, NewValidationError("trip_leg", "trip_leg must be ida or volta")
	}
	switch req.Status {
	case models.CheckStatusPresent, models.CheckStatusAbsent, models.CheckStatusJustified:
	default:
		return nil, NewValidationError("status", "status must be presente, ausente, or justificado")
	}
	date, err := parseDate(req.CheckDate, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.requireRouteAccess(ctx, scope, principal, rid); err != nil {
		return nil, err
	}
	if _, err := s.studentRepo.FindByID(ctx, scope, req.StudentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("student")
		}
		return nil, fmt.Errorf("failed to load student: %w", err)
	}

	checkerID := principal.ID
	tenantID := scope.TenantID()
	if tenantID == nil {
		return nil, NewAuthorizationError("checks require a tenant-scoped account")
	}
	check := &models.DailyCheck{
		TenantID:        *tenantID,
		RouteID:         rid,
		StudentID:       req.StudentID,
		CheckDate:       date,
		TripLeg:         req.TripLeg,
		Status:          req.Status,
		Notes:           req.Notes,
		CheckedByUserID: &checkerID,
		CheckedAt:       s.now(),
	}
	if err := s.checkRepo.Upsert(ctx, check); err != nil {
		return nil, err
	}
	return check, nil
}

// requireRouteAccess verifies the route exists in scope and, for drivers and
// monitors, that they are assigned to it.
func (s *RouteService) requireRouteAccess(ctx context.Context, scope repository.Scope, principal *auth.Principal, routeID uuid.UUID) error {
	if _, err := s.routeRepo.FindByID(ctx, scope, routeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError("route")
		}
		return fmt.Errorf("failed to load route: %w", err)
	}
	if principal.Role != models.RoleDriver && principal.Role != models.RoleMonitor {
		return nil
	}
	staff, err := s.routeRepo.ListStaff(ctx, routeID)
	if err != nil {
		return err
	}
	for _, a := range staff {
		if a.UserID == principal.ID {
			return nil
		}
	}
	return NewAuthorizationError("you are not assigned to this route")
}

// parseDate parses a YYYY-MM-DD date, defaulting to today when empty
func parseDate(raw string, today time.Time) (time.Time, error) {
	if raw == "" {
		return truncateToDate(today), nil
	}
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, NewValidationError("date", "must be formatted YYYY-MM-DD")
	}
	return date, nil
}

func validWeekday(day string) bool {
	for _, label := range weekdayLabels {
		if day == label {
			return true
		}
	}
	return false
}

// ridesOn reports whether a weekday list includes the label. An empty or
// absent list means the student rides every day.
func ridesOn(weekdays models.JSONB, label string) bool {
	if len(weekdays) == 0 {
		return true
	}
	var days []string
	if err := json.Unmarshal([]byte(weekdays), &days); err != nil || len(days) == 0 {
		return true
	}
	for _, d := range days {
		if d == label {
			return true
		}
	}
	return false
}
