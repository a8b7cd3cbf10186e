package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"transport-service/internal/models"
)

// VehicleRepository handles vehicle database operations
type VehicleRepository struct {
	db *gorm.DB
}

// NewVehicleRepository creates a new vehicle repository
func NewVehicleRepository(db *gorm.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

// Create inserts a new vehicle
func (r *VehicleRepository) Create(ctx context.Context, vehicle *models.Vehicle) error {
	if err := r.db.WithContext(ctx).Create(vehicle).Error; err != nil {
		return fmt.Errorf("failed to create vehicle: %w", err)
	}
	return nil
}

// List returns vehicles within the scope
func (r *VehicleRepository) List(ctx context.Context, scope Scope) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	query := scope.Apply(r.db.WithContext(ctx)).Order("placa asc")
	if err := query.Find(&vehicles).Error; err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	return vehicles, nil
}

// FindByID retrieves a vehicle within the scope
func (r *VehicleRepository) FindByID(ctx context.Context, scope Scope, id uuid.UUID) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	query := scope.Apply(r.db.WithContext(ctx)).Where("id = ?", id)
	if err := query.First(&vehicle).Error; err != nil {
		return nil, err
	}
	return &vehicle, nil
}

// Update applies the given column updates to a vehicle within the scope and
// reports how many rows matched.
func (r *VehicleRepository) Update(ctx context.Context, scope Scope, id uuid.UUID, updates map[string]interface{}) (int64, error) {
	query := scope.Apply(r.db.WithContext(ctx).Model(&models.Vehicle{})).Where("id = ?", id)
	result := query.Updates(updates)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to update vehicle: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// Delete removes a vehicle within the scope and reports how many rows matched
func (r *VehicleRepository) Delete(ctx context.Context, scope Scope, id uuid.UUID) (int64, error) {
	query := scope.Apply(r.db.WithContext(ctx)).Where("id = ?", id)
	result := query.Delete(&models.Vehicle{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete vehicle: %w", result.Error)
	}
	return result.RowsAffected, nil
}
