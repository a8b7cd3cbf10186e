package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"transport-service/internal/models"
)

// ContractWithNames is a contract row joined with guardian and student
// display names for listing.
type ContractWithNames struct {
	models.Contract
	GuardianName string `json:"guardian_name"`
	StudentName  string `json:"student_name"`
}

// ContractRepository handles contract database operations
type ContractRepository struct {
	db *gorm.DB
}

// NewContractRepository creates a new contract repository
func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

// ListWithNames returns contracts within the scope joined with guardian and
// student names.
func (r *ContractRepository) ListWithNames(ctx context.Context, scope Scope) ([]ContractWithNames, error) {
	var rows []ContractWithNames
	query := r.db.WithContext(ctx).
		Table("contracts").
		Select("contracts.*, u.name AS guardian_name, s.name AS student_name").
		Joins("JOIN users u ON u.id = contracts.guardian_id").
		Joins("JOIN students s ON s.id = contracts.student_id").
		Order("contracts.created_at desc")
	query = scope.ApplyOn(query, "contracts.tenant_id")
	if err := query.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}
	return rows, nil
}

// FindByID retrieves a contract within the scope
func (r *ContractRepository) FindByID(ctx context.Context, scope Scope, id uuid.UUID) (*models.Contract, error) {
	var contract models.Contract
	query := scope.Apply(r.db.WithContext(ctx)).Where("id = ?", id)
	if err := query.First(&contract).Error; err != nil {
		return nil, err
	}
	return &contract, nil
}

// CountForTenant returns the number of contracts within the scope
func (r *ContractRepository) CountForTenant(ctx context.Context, scope Scope) (int64, error) {
	var count int64
	if err := scope.Apply(r.db.WithContext(ctx).Model(&models.Contract{})).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count contracts: %w", err)
	}
	return count, nil
}
