package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"transport-service/internal/models"
)

// SchoolRepository handles school database operations
type SchoolRepository struct {
	db *gorm.DB
}

// NewSchoolRepository creates a new school repository
func NewSchoolRepository(db *gorm.DB) *SchoolRepository {
	return &SchoolRepository{db: db}
}

// List returns schools within the scope, with their address
func (r *SchoolRepository) List(ctx context.Context, scope Scope) ([]models.School, error) {
	var schools []models.School
	query := scope.Apply(r.db.WithContext(ctx)).Preload("Address").Order("name asc")
	if err := query.Find(&schools).Error; err != nil {
		return nil, fmt.Errorf("failed to list schools: %w", err)
	}
	return schools, nil
}

// FindByID retrieves a school within the scope
func (r *SchoolRepository) FindByID(ctx context.Context, scope Scope, id uuid.UUID) (*models.School, error) {
	var school models.School
	query := scope.Apply(r.db.WithContext(ctx)).Preload("Address").Where("id = ?", id)
	if err := query.First(&school).Error; err != nil {
		return nil, err
	}
	return &school, nil
}
