package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"transport-service/internal/models"
)

// StudentRepository handles student database operations
type StudentRepository struct {
	db *gorm.DB
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db *gorm.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns students within the scope with guardian, school, and
// address links preloaded.
func (r *StudentRepository) List(ctx context.Context, scope Scope) ([]models.Student, error) {
	var students []models.Student
	query := scope.Apply(r.db.WithContext(ctx)).
		Preload("Guardian").
		Preload("School").
		Preload("Addresses.Address").
		Order("name asc")
	if err := query.Find(&students).Error; err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return students, nil
}

// ListByGuardian returns a guardian's students within the scope
func (r *StudentRepository) ListByGuardian(ctx context.Context, scope Scope, guardianID uuid.UUID) ([]models.Student, error) {
	var students []models.Student
	query := scope.Apply(r.db.WithContext(ctx)).
		Where("guardian_id = ?", guardianID).
		Preload("School").
		Preload("Addresses.Address").
		Order("name asc")
	if err := query.Find(&students).Error; err != nil {
		return nil, fmt.Errorf("failed to list students by guardian: %w", err)
	}
	return students, nil
}

// FindByID retrieves a student within the scope
func (r *StudentRepository) FindByID(ctx context.Context, scope Scope, id uuid.UUID) (*models.Student, error) {
	var student models.Student
	query := scope.Apply(r.db.WithContext(ctx)).
		Preload("Guardian").
		Preload("School").
		Preload("Addresses.Address").
		Where("id = ?", id)
	if err := query.First(&student).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

// Count returns the number of students within the scope
func (r *StudentRepository) Count(ctx context.Context, scope Scope) (int64, error) {
	var count int64
	if err := scope.Apply(r.db.WithContext(ctx).Model(&models.Student{})).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count students: %w", err)
	}
	return count, nil
}
