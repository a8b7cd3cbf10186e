package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"transport-service/internal/auth"
	"transport-service/internal/models"
	"transport-service/internal/repository"
)

// ContractService owns the contract/installment lifecycle: creation with
// atomic installment generation, payment registration and undo, bulk
// payment, and listing with derived statuses.
type ContractService struct {
	db              *gorm.DB
	contractRepo    *repository.ContractRepository
	installmentRepo *repository.InstallmentRepository

	// now is the clock used for status derivation; injectable for tests
	now func() time.Time
}

// NewContractService creates a new contract service
func NewContractService(
	db *gorm.DB,
	contractRepo *repository.ContractRepository,
	installmentRepo *repository.InstallmentRepository,
) *ContractService {
	return &ContractService{
		db:              db,
		contractRepo:    contractRepo,
		installmentRepo: installmentRepo,
		now:             time.Now,
	}
}

// SetClock overrides the reference clock. Test hook.
func (s *ContractService) SetClock(now func() time.Time) {
	s.now = now
}

// CreateContractRequest carries the inputs for contract creation
type CreateContractRequest struct {
	GuardianID        uuid.UUID `json:"guardian_id"`
	StudentID         uuid.UUID `json:"student_id"`
	InstallmentsCount int       `json:"installments_count"`
	InstallmentValue  float64   `json:"installment_value"`
	FirstDueDate      time.Time `json:"first_due_date"`
	DueDay            int       `json:"due_day"`
	Notes             string    `json:"notes"`
}

// RegisterPaymentRequest carries the inputs for single-installment payment
type RegisterPaymentRequest struct {
	PaidValue   float64   `json:"paid_value"`
	PaymentDate time.Time `json:"payment_date"`
}

// ContractSummary is one row of the contract listing: the contract joined
// with display names plus the derived current-month billing state.
type ContractSummary struct {
	repository.ContractWithNames
	CurrentMonthStatus     string `json:"current_month_status"`
	HasPastDueInstallments bool   `json:"has_past_due_installments"`
}

// InstallmentView is an installment with its derived status attached
type InstallmentView struct {
	models.Installment
	DerivedStatus string `json:"derived_status"`
}

// ContractDetails is a contract with names and its full installment plan
type ContractDetails struct {
	repository.ContractWithNames
	Installments []InstallmentView `json:"installments"`
}

// CreateContract validates the request and writes the contract together with
// all of its installments in a single transaction. Only tenant admins may
// create contracts; the tenant comes from the principal, never the body.
func (s *ContractService) CreateContract(ctx context.Context, principal *auth.Principal, req *CreateContractRequest) (*models.Contract, error) {
	tenantID, err := requireTenantAdmin(principal)
	if err != nil {
		return nil, err
	}

	if req.GuardianID == uuid.Nil {
		return nil, NewValidationError("guardian_id", "guardian is required")
	}
	if req.StudentID == uuid.Nil {
		return nil, NewValidationError("student_id", "student is required")
	}
	if req.InstallmentsCount <= 0 {
		return nil, NewValidationError("installments_count", "must be greater than zero")
	}
	if req.InstallmentValue <= 0 {
		return nil, NewValidationError("installment_value", "must be greater than zero")
	}
	if req.FirstDueDate.IsZero() {
		return nil, NewValidationError("first_due_date", "first due date is required")
	}

	contract := &models.Contract{
		TenantID:          tenantID,
		GuardianID:        req.GuardianID,
		StudentID:         req.StudentID,
		InstallmentsCount: req.InstallmentsCount,
		InstallmentValue:  req.InstallmentValue,
		FirstDueDate:      truncateToDate(req.FirstDueDate),
		DueDay:            req.DueDay,
		Status:            models.ContractStatusActive,
		Notes:             req.Notes,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The guardian and student must exist in this tenant. Checking inside
		// the transaction keeps a failed check from leaving a contract behind.
		var guardianCount int64
		if err := tx.Model(&models.User{}).
			Where("id = ? AND tenant_id = ? AND role = ?", req.GuardianID, tenantID, models.RoleGuardian).
			Count(&guardianCount).Error; err != nil {
			return fmt.Errorf("failed to verify guardian: %w", err)
		}
		if guardianCount == 0 {
			return NewNotFoundError("guardian")
		}

		var studentCount int64
		if err := tx.Model(&models.Student{}).
			Where("id = ? AND tenant_id = ?", req.StudentID, tenantID).
			Count(&studentCount).Error; err != nil {
			return fmt.Errorf("failed to verify student: %w", err)
		}
		if studentCount == 0 {
			return NewNotFoundError("student")
		}

		if err := tx.Create(contract).Error; err != nil {
			return fmt.Errorf("failed to create contract: %w", err)
		}

		installments := make([]models.Installment, 0, req.InstallmentsCount)
		for i := 0; i < req.InstallmentsCount; i++ {
			installments = append(installments, models.Installment{
				TenantID:          tenantID,
				ContractID:        contract.ID,
				InstallmentNumber: i + 1,
				DueDate:           addMonthsClamped(contract.FirstDueDate, i),
				BaseValue:         req.InstallmentValue,
				Status:            models.InstallmentStatusPending,
			})
		}

		if err := tx.Create(&installments).Error; err != nil {
			return fmt.Errorf("failed to create installments: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return contract, nil
}

// ListContracts returns the contracts visible to the principal, each
// annotated with the derived status of the installment due in the current
// calendar month ("no_installment" when there is none) and a flag for
// stored-pending installments due before this month. statusFilter narrows to
// "pending" (current month pending/overdue, or past dues) or "paid".
func (s *ContractService) ListContracts(ctx context.Context, principal *auth.Principal, statusFilter string) ([]ContractSummary, error) {
	scope, err := scopeFor(principal)
	if err != nil {
		return nil, err
	}

	rows, err := s.contractRepo.ListWithNames(ctx, scope)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []ContractSummary{}, nil
	}

	contractIDs := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		contractIDs = append(contractIDs, row.ID)
	}
	installments, err := s.installmentRepo.ListByContracts(ctx, scope, contractIDs)
	if err != nil {
		return nil, err
	}
	byContract := make(map[uuid.UUID][]models.Installment, len(rows))
	for _, inst := range installments {
		byContract[inst.ContractID] = append(byContract[inst.ContractID], inst)
	}

	today := s.now()
	monthStart := firstOfMonth(today)

	summaries := make([]ContractSummary, 0, len(rows))
	for _, row := range rows {
		summary := ContractSummary{
			ContractWithNames:  row,
			CurrentMonthStatus: CurrentMonthNoInstallment,
		}
		for _, inst := range byContract[row.ID] {
			if sameCalendarMonth(inst.DueDate, today) {
				summary.CurrentMonthStatus = DeriveInstallmentStatus(inst.Status, inst.DueDate, today)
			}
			if inst.Status == models.InstallmentStatusPending && truncateToDate(inst.DueDate).Before(monthStart) {
				summary.HasPastDueInstallments = true
			}
		}

		switch statusFilter {
		case "pending":
			if summary.CurrentMonthStatus == DerivedStatusPending ||
				summary.CurrentMonthStatus == DerivedStatusOverdue ||
				summary.HasPastDueInstallments {
				summaries = append(summaries, summary)
			}
		case "paid":
			if summary.CurrentMonthStatus == DerivedStatusPaid {
				summaries = append(summaries, summary)
			}
		default:
			summaries = append(summaries, summary)
		}
	}
	return summaries, nil
}

// GetContractDetails returns a contract with guardian/student names and its
// installments, each carrying a derived status.
func (s *ContractService) GetContractDetails(ctx context.Context, principal *auth.Principal, contractID uuid.UUID) (*ContractDetails, error) {
	scope, err := scopeFor(principal)
	if err != nil {
		return nil, err
	}

	contract, err := s.contractRepo.FindByID(ctx, scope, contractID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("contract")
		}
		return nil, fmt.Errorf("failed to load contract: %w", err)
	}

	var guardian models.User
	if err := s.db.WithContext(ctx).Select("name").First(&guardian, "id = ?", contract.GuardianID).Error; err != nil {
		return nil, fmt.Errorf("failed to load guardian: %w", err)
	}
	var student models.Student
	if err := s.db.WithContext(ctx).Select("name").First(&student, "id = ?", contract.StudentID).Error; err != nil {
		return nil, fmt.Errorf("failed to load student: %w", err)
	}

	installments, err := s.installmentRepo.ListByContract(ctx, scope, contractID)
	if err != nil {
		return nil, err
	}

	today := s.now()
	views := make([]InstallmentView, 0, len(installments))
	for _, inst := range installments {
		views = append(views, InstallmentView{
			Installment:   inst,
			DerivedStatus: DeriveInstallmentStatus(inst.Status, inst.DueDate, today),
		})
	}

	return &ContractDetails{
		ContractWithNames: repository.ContractWithNames{
			Contract:     *contract,
			GuardianName: guardian.Name,
			StudentName:  student.Name,
		},
		Installments: views,
	}, nil
}

// RegisterPayment marks one installment as paid with the given value and
// date. An installment outside the caller's tenant is reported as not found.
// Paying an already-paid installment is rejected; undo it first.
func (s *ContractService) RegisterPayment(ctx context.Context, principal *auth.Principal, installmentID uuid.UUID, req *RegisterPaymentRequest) (*models.Installment, error) {
	tenantID, err := requireTenantAdmin(principal)
	if err != nil {
		return nil, err
	}
	scope := repository.TenantScope(tenantID)

	if req.PaidValue <= 0 {
		return nil, NewValidationError("paid_value", "must be greater than zero")
	}
	if req.PaymentDate.IsZero() {
		return nil, NewValidationError("payment_date", "payment date is required")
	}

	installment, err := s.installmentRepo.FindByID(ctx, scope, installmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("installment")
		}
		return nil, fmt.Errorf("failed to load installment: %w", err)
	}
	if installment.Status == models.InstallmentStatusPaid {
		return nil, NewConflictError("installment", "installment is already paid; undo the payment first")
	}

	paymentDate := truncateToDate(req.PaymentDate)
	if _, err := s.installmentRepo.Update(ctx, scope, installmentID, map[string]interface{}{
		"status":       models.InstallmentStatusPaid,
		"paid_value":   req.PaidValue,
		"payment_date": paymentDate,
	}); err != nil {
		return nil, err
	}

	installment.Status = models.InstallmentStatusPaid
	installment.PaidValue = &req.PaidValue
	installment.PaymentDate = &paymentDate
	return installment, nil
}

// UndoPayment reverts an installment to pending, clearing the paid value and
// payment date.
func (s *ContractService) UndoPayment(ctx context.Context, principal *auth.Principal, installmentID uuid.UUID) (*models.Installment, error) {
	tenantID, err := requireTenantAdmin(principal)
	if err != nil {
		return nil, err
	}
	scope := repository.TenantScope(tenantID)

	installment, err := s.installmentRepo.FindByID(ctx, scope, installmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("installment")
		}
		return nil, fmt.Errorf("failed to load installment: %w", err)
	}

	if _, err := s.installmentRepo.Update(ctx, scope, installmentID, map[string]interface{}{
		"status":       models.InstallmentStatusPending,
		"paid_value":   nil,
		"payment_date": nil,
	}); err != nil {
		return nil, err
	}

	installment.Status = models.InstallmentStatusPending
	installment.PaidValue = nil
	installment.PaymentDate = nil
	return installment, nil
}

// BulkPaymentResult reports how many installments a bulk payment touched
type BulkPaymentResult struct {
	Count int64 `json:"count"`
}

// RegisterBulkPayment pays every listed installment that belongs to the
// caller's tenant on the given date, with paid_value set to each row's own
// base_value. Ids outside the tenant are skipped silently; the count tells
// the caller how many rows actually changed.
func (s *ContractService) RegisterBulkPayment(ctx context.Context, principal *auth.Principal, installmentIDs []uuid.UUID, paymentDate time.Time) (*BulkPaymentResult, error) {
	tenantID, err := requireTenantAdmin(principal)
	if err != nil {
		return nil, err
	}
	if len(installmentIDs) == 0 {
		return nil, NewValidationError("installment_ids", "no installments selected for payment")
	}
	if paymentDate.IsZero() {
		return nil, NewValidationError("payment_date", "payment date is required")
	}

	count, err := s.installmentRepo.BulkPay(ctx, repository.TenantScope(tenantID), installmentIDs, truncateToDate(paymentDate))
	if err != nil {
		return nil, err
	}
	return &BulkPaymentResult{Count: count}, nil
}
