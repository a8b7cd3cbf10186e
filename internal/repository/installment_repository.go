package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"transport-service/internal/models"
)

// InstallmentRepository handles installment database operations. Rows are
// created only alongside their contract and mutated only by the payment
// operations below.
type InstallmentRepository struct {
	db *gorm.DB
}

// NewInstallmentRepository creates a new installment repository
func NewInstallmentRepository(db *gorm.DB) *InstallmentRepository {
	return &InstallmentRepository{db: db}
}

// ListByContract returns a contract's installments ordered by number
func (r *InstallmentRepository) ListByContract(ctx context.Context, scope Scope, contractID uuid.UUID) ([]models.Installment, error) {
	var installments []models.Installment
	query := scope.Apply(r.db.WithContext(ctx)).
		Where("contract_id = ?", contractID).
		Order("installment_number asc")
	if err := query.Find(&installments).Error; err != nil {
		return nil, fmt.Errorf("failed to list installments: %w", err)
	}
	return installments, nil
}

// ListByContracts returns the installments of many contracts at once, for
// the contract listing's current-month computation.
func (r *InstallmentRepository) ListByContracts(ctx context.Context, scope Scope, contractIDs []uuid.UUID) ([]models.Installment, error) {
	if len(contractIDs) == 0 {
		return nil, nil
	}
	var installments []models.Installment
	query := scope.Apply(r.db.WithContext(ctx)).
		Where("contract_id IN ?", contractIDs).
		Order("installment_number asc")
	if err := query.Find(&installments).Error; err != nil {
		return nil, fmt.Errorf("failed to list installments: %w", err)
	}
	return installments, nil
}

// FindByID retrieves an installment within the scope. A cross-tenant id
// behaves exactly like a missing one.
func (r *InstallmentRepository) FindByID(ctx context.Context, scope Scope, id uuid.UUID) (*models.Installment, error) {
	var installment models.Installment
	query := scope.Apply(r.db.WithContext(ctx)).Where("id = ?", id)
	if err := query.First(&installment).Error; err != nil {
		return nil, err
	}
	return &installment, nil
}

// Update applies the given column updates to an installment within the scope
// and reports how many rows matched.
func (r *InstallmentRepository) Update(ctx context.Context, scope Scope, id uuid.UUID, updates map[string]interface{}) (int64, error) {
	query := scope.Apply(r.db.WithContext(ctx).Model(&models.Installment{})).Where("id = ?", id)
	result := query.Updates(updates)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to update installment: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// BulkPay marks every listed installment that matches the scope as paid on
// the given date, with paid_value taken from each row's own base_value. Ids
// outside the scope are silently skipped; the caller gets the matched count.
func (r *InstallmentRepository) BulkPay(ctx context.Context, scope Scope, ids []uuid.UUID, paymentDate time.Time) (int64, error) {
	query := scope.Apply(r.db.WithContext(ctx).Model(&models.Installment{})).Where("id IN ?", ids)
	result := query.Updates(map[string]interface{}{
		"status":       models.InstallmentStatusPaid,
		"payment_date": paymentDate,
		"paid_value":   gorm.Expr("base_value"),
	})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to bulk pay installments: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// SumPendingBaseValue totals the stored-pending installment values within
// the scope. Backs the admin dashboard.
func (r *InstallmentRepository) SumPendingBaseValue(ctx context.Context, scope Scope) (float64, error) {
	var total *float64
	query := scope.Apply(r.db.WithContext(ctx).Model(&models.Installment{})).
		Where("status = ?", models.InstallmentStatusPending).
		Select("SUM(base_value)")
	if err := query.Scan(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to sum pending installments: %w", err)
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}
