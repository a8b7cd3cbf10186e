package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"transport-service/internal/models"
)

// DailyCheckRepository handles attendance check database operations
type DailyCheckRepository struct {
	db *gorm.DB
}

// NewDailyCheckRepository creates a new daily check repository
func NewDailyCheckRepository(db *gorm.DB) *DailyCheckRepository {
	return &DailyCheckRepository{db: db}
}

// Upsert records a check, overwriting any previous check for the same
// (student, date, leg) triple.
func (r *DailyCheckRepository) Upsert(ctx context.Context, check *models.DailyCheck) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "student_id"}, {Name: "check_date"}, {Name: "trip_leg"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"route_id", "status", "notes", "checked_by_user_id", "checked_at",
		}),
	}).Create(check).Error
	if err != nil {
		return fmt.Errorf("failed to record daily check: %w", err)
	}
	return nil
}

// ListForRouteDate returns the checks recorded for a route on a given date
func (r *DailyCheckRepository) ListForRouteDate(ctx context.Context, scope Scope, routeID uuid.UUID, date time.Time) ([]models.DailyCheck, error) {
	var checks []models.DailyCheck
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	query := scope.Apply(r.db.WithContext(ctx)).
		Where("route_id = ?", routeID).
		Where("check_date >= ? AND check_date < ?", day, day.AddDate(0, 0, 1))
	if err := query.Find(&checks).Error; err != nil {
		return nil, fmt.Errorf("failed to list daily checks: %w", err)
	}
	return checks, nil
}

// ListForStudentMonth returns a student's checks in a calendar month,
// ordered by date. Backs the attendance frequency report.
func (r *DailyCheckRepository) ListForStudentMonth(ctx context.Context, scope Scope, studentID uuid.UUID, month time.Month, year int) ([]models.DailyCheck, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	var checks []models.DailyCheck
	query := scope.Apply(r.db.WithContext(ctx)).
		Where("student_id = ?", studentID).
		Where("check_date >= ? AND check_date < ?", start, end).
		Order("check_date asc")
	if err := query.Find(&checks).Error; err != nil {
		return nil, fmt.Errorf("failed to list student checks: %w", err)
	}
	return checks, nil
}
