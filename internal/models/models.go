package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles a user can hold. A user has exactly one role; super_admin spans
// tenants and is the only role allowed to operate with a global scope.
const (
	RoleAdmin      = "admin"
	RoleGuardian   = "guardian"
	RoleDriver     = "driver"
	RoleMonitor    = "monitor"
	RoleSuperAdmin = "super_admin"
)

// Tenant lifecycle statuses
const (
	TenantStatusActive    = "active"
	TenantStatusInactive  = "inactive"
	TenantStatusSuspended = "suspended"
)

// JSONB is a custom type for PostgreSQL JSONB fields
// It can hold any valid JSON value (objects, arrays, primitives)
type JSONB json.RawMessage

// Value implements the driver.Valuer interface for JSONB
func (j JSONB) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return []byte(j), nil
}

// Scan implements the sql.Scanner interface for JSONB
func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		*j = JSONB(v)
		return nil
	case string:
		*j = JSONB([]byte(v))
		return nil
	default:
		return nil
	}
}

// MarshalJSON implements json.Marshaler
func (j JSONB) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return []byte(j), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (j *JSONB) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		*j = nil
		return nil
	}
	*j = JSONB(data)
	return nil
}

// NewJSONB creates a JSONB from any value
func NewJSONB(v interface{}) (JSONB, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return JSONB(data), nil
}

// Tenant is a transport company. Every other row in the system belongs to
// exactly one tenant, directly or through its parent.
type Tenant struct {
	ID            uuid.UUID  `json:"id" gorm:"type:uuid;primary_key"`
	CompanyName   string     `json:"company_name" gorm:"not null"`
	CPFCNPJ       string     `json:"cpf_cnpj" gorm:"column:cpf_cnpj;uniqueIndex;not null"`
	ContactEmail  string     `json:"contact_email" gorm:"uniqueIndex;not null"`
	ContactPhone  string     `json:"contact_phone"`
	MainAddressID *uuid.UUID `json:"main_address_id" gorm:"type:uuid"`
	Status        string     `json:"status" gorm:"default:'active'" validate:"oneof=active inactive suspended"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	MainAddress *Address `json:"main_address,omitempty" gorm:"foreignKey:MainAddressID"`
}

// BeforeCreate assigns the primary key
func (t *Tenant) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Address is a Brazilian street address. Tenant-owned except for tenant main
// addresses created during client provisioning, which are re-pointed at the
// new tenant inside the same transaction.
type Address struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primary_key"`
	TenantID    *uuid.UUID `json:"tenant_id" gorm:"type:uuid;index"`
	CEP         string     `json:"cep"`
	Logradouro  string     `json:"logradouro" gorm:"not null"`
	Numero      string     `json:"numero"`
	Complemento string     `json:"complemento"`
	Bairro      string     `json:"bairro" gorm:"not null"`
	Cidade      string     `json:"cidade" gorm:"not null"`
	Estado      string     `json:"estado" gorm:"type:varchar(2);not null"`
	Latitude    *float64   `json:"latitude"`
	Longitude   *float64   `json:"longitude"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// BeforeCreate assigns the primary key
func (a *Address) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// User is a person with exactly one role. TenantID is nil only for
// super_admin accounts. The password column holds a bcrypt hash and is never
// serialized.
type User struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primary_key"`
	TenantID  *uuid.UUID `json:"tenant_id" gorm:"type:uuid;index"`
	Name      string     `json:"name" gorm:"not null"`
	Email     string     `json:"email" gorm:"uniqueIndex;not null"`
	Password  string     `json:"-" gorm:"not null"`
	Role      string     `json:"role" gorm:"not null;index" validate:"oneof=admin guardian driver monitor super_admin"`
	Phone     string     `json:"phone"`
	CPF       *string    `json:"cpf" gorm:"uniqueIndex"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// BeforeCreate assigns the primary key
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// TableName keeps the conventional plural
func (User) TableName() string { return "users" }

// Invite is a one-time token that lets a specific (email, role) pair
// self-register into a tenant. Expires after seven days.
type Invite struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	TenantID  uuid.UUID `json:"tenant_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_invites_tenant_email_role"`
	Email     string    `json:"email" gorm:"not null;uniqueIndex:idx_invites_tenant_email_role"`
	Role      string    `json:"role" gorm:"not null;uniqueIndex:idx_invites_tenant_email_role" validate:"oneof=guardian driver monitor"`
	Token     string    `json:"token" gorm:"uniqueIndex;not null"`
	IsUsed    bool      `json:"is_used" gorm:"default:false"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns the primary key
func (i *Invite) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
