package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Contract lifecycle statuses
const (
	ContractStatusActive    = "active"
	ContractStatusFinished  = "finished"
	ContractStatusCancelled = "cancelled"
)

// Installment stored statuses. Overdue is never written; it is derived at
// read time from the due date (see services.DeriveInstallmentStatus).
const (
	InstallmentStatusPending   = "pending"
	InstallmentStatusPaid      = "paid"
	InstallmentStatusOverdue   = "overdue"
	InstallmentStatusCancelled = "cancelled"
)

// Contract is an agreement with a guardian to transport a student for a
// fixed number of monthly installments. Immutable after creation.
type Contract struct {
	ID                uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	TenantID          uuid.UUID `json:"tenant_id" gorm:"type:uuid;not null;index"`
	GuardianID        uuid.UUID `json:"guardian_id" gorm:"type:uuid;not null;index"`
	StudentID         uuid.UUID `json:"student_id" gorm:"type:uuid;not null;index"`
	InstallmentsCount int       `json:"installments_count" gorm:"not null"`
	InstallmentValue  float64   `json:"installment_value" gorm:"not null"`
	FirstDueDate      time.Time `json:"first_due_date" gorm:"type:date;not null"`
	DueDay            int       `json:"due_day" gorm:"not null"`
	Status            string    `json:"status" gorm:"default:'active'" validate:"oneof=active finished cancelled"`
	Notes             string    `json:"notes"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	Installments []Installment `json:"installments,omitempty" gorm:"foreignKey:ContractID"`
}

// BeforeCreate assigns the primary key
func (c *Contract) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Installment is one billing period owed under a contract. Exactly
// installments_count rows exist per contract, numbered from 1, created in
// the same transaction as the contract and mutated only by payment
// registration, undo, or bulk payment.
type Installment struct {
	ID                uuid.UUID  `json:"id" gorm:"type:uuid;primary_key"`
	TenantID          uuid.UUID  `json:"tenant_id" gorm:"type:uuid;not null;index"`
	ContractID        uuid.UUID  `json:"contract_id" gorm:"type:uuid;not null;uniqueIndex:idx_installments_contract_number"`
	InstallmentNumber int        `json:"installment_number" gorm:"not null;uniqueIndex:idx_installments_contract_number"`
	DueDate           time.Time  `json:"due_date" gorm:"type:date;not null"`
	BaseValue         float64    `json:"base_value" gorm:"not null"`
	PaidValue         *float64   `json:"paid_value"`
	PaymentDate       *time.Time `json:"payment_date" gorm:"type:date"`
	Status            string     `json:"status" gorm:"default:'pending'" validate:"oneof=pending paid overdue cancelled"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// BeforeCreate assigns the primary key
func (i *Installment) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
