package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"transport-service/internal/models"
)

// RouteRepository handles route database operations, including the student
// and staff assignment join tables.
type RouteRepository struct {
	db *gorm.DB
}

// NewRouteRepository creates a new route repository
func NewRouteRepository(db *gorm.DB) *RouteRepository {
	return &RouteRepository{db: db}
}

// Create inserts a new route
func (r *RouteRepository) Create(ctx context.Context, route *models.Route) error {
	if err := r.db.WithContext(ctx).Create(route).Error; err != nil {
		return fmt.Errorf("failed to create route: %w", err)
	}
	return nil
}

// List returns routes within the scope
func (r *RouteRepository) List(ctx context.Context, scope Scope) ([]models.Route, error) {
	var routes []models.Route
	query := scope.Apply(r.db.WithContext(ctx)).Preload("School").Order("name asc")
	if err := query.Find(&routes).Error; err != nil {
		return nil, fmt.Errorf("failed to list routes: %w", err)
	}
	return routes, nil
}

// FindByID retrieves a route within the scope
func (r *RouteRepository) FindByID(ctx context.Context, scope Scope, id uuid.UUID) (*models.Route, error) {
	var route models.Route
	query := scope.Apply(r.db.WithContext(ctx)).Preload("School").Where("id = ?", id)
	if err := query.First(&route).Error; err != nil {
		return nil, err
	}
	return &route, nil
}

// ListByStaff returns the routes a driver or monitor is assigned to
func (r *RouteRepository) ListByStaff(ctx context.Context, scope Scope, userID uuid.UUID) ([]models.Route, error) {
	var routes []models.Route
	query := scope.ApplyOn(r.db.WithContext(ctx).Model(&models.Route{}), "routes.tenant_id").
		Joins("JOIN routes_staff rs ON rs.route_id = routes.id").
		Where("rs.user_id = ?", userID).
		Order("routes.name asc")
	if err := query.Find(&routes).Error; err != nil {
		return nil, fmt.Errorf("failed to list routes by staff: %w", err)
	}
	return routes, nil
}

// ListStudents returns the student assignments of a route, with student and
// pickup/dropoff addresses loaded.
func (r *RouteRepository) ListStudents(ctx context.Context, routeID uuid.UUID) ([]models.RouteStudent, error) {
	var assignments []models.RouteStudent
	query := r.db.WithContext(ctx).
		Where("route_id = ?", routeID).
		Preload("Student").
		Order("pickup_order asc")
	if err := query.Find(&assignments).Error; err != nil {
		return nil, fmt.Errorf("failed to list route students: %w", err)
	}
	return assignments, nil
}

// ListStaff returns the staff assignments of a route with users loaded
func (r *RouteRepository) ListStaff(ctx context.Context, routeID uuid.UUID) ([]models.RouteStaff, error) {
	var assignments []models.RouteStaff
	query := r.db.WithContext(ctx).Where("route_id = ?", routeID).Preload("User")
	if err := query.Find(&assignments).Error; err != nil {
		return nil, fmt.Errorf("failed to list route staff: %w", err)
	}
	return assignments, nil
}

// UpsertStudent adds a student to a route or updates the existing assignment
// in place; uniqueness is on (route_id, student_id).
func (r *RouteRepository) UpsertStudent(ctx context.Context, assignment *models.RouteStudent) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "route_id"}, {Name: "student_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"pickup_address_id", "dropoff_address_id", "weekdays", "pickup_order",
		}),
	}).Create(assignment).Error
	if err != nil {
		return fmt.Errorf("failed to upsert route student: %w", err)
	}
	return nil
}

// UpsertStaff adds a driver/monitor to a route or updates the assignment
// type; uniqueness is on (route_id, user_id).
func (r *RouteRepository) UpsertStaff(ctx context.Context, assignment *models.RouteStaff) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "route_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"assignment_type"}),
	}).Create(assignment).Error
	if err != nil {
		return fmt.Errorf("failed to upsert route staff: %w", err)
	}
	return nil
}

// Count returns the number of routes within the scope
func (r *RouteRepository) Count(ctx context.Context, scope Scope) (int64, error) {
	var count int64
	if err := scope.Apply(r.db.WithContext(ctx).Model(&models.Route{})).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count routes: %w", err)
	}
	return count, nil
}
