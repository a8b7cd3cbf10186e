package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vehicle operating statuses
const (
	VehicleStatusActive      = "ativo"
	VehicleStatusInactive    = "inativo"
	VehicleStatusMaintenance = "em_manutencao"
)

// Route staff assignment types
const (
	AssignmentMainDriver       = "main_driver"
	AssignmentSubstituteDriver = "substitute_driver"
	AssignmentMonitor          = "monitor"
)

// Trip legs for daily checks
const (
	TripLegIda   = "ida"
	TripLegVolta = "volta"
)

// Daily check statuses
const (
	CheckStatusPresent   = "presente"
	CheckStatusAbsent    = "ausente"
	CheckStatusJustified = "justificado"
)

// School served by a tenant. CNPJ is unique per tenant, not globally.
type School struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primary_key"`
	TenantID  uuid.UUID  `json:"tenant_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_schools_tenant_cnpj"`
	Name      string     `json:"name" gorm:"not null"`
	CNPJ      *string    `json:"cnpj" gorm:"uniqueIndex:idx_schools_tenant_cnpj"`
	Phone     string     `json:"phone"`
	AddressID *uuid.UUID `json:"address_id" gorm:"type:uuid"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	Address *Address `json:"address,omitempty" gorm:"foreignKey:AddressID"`
}

// BeforeCreate assigns the primary key
func (s *School) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Vehicle belongs to a tenant; the plate is unique per tenant only.
type Vehicle struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	TenantID   uuid.UUID `json:"tenant_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_vehicles_tenant_placa"`
	Placa      string    `json:"placa" gorm:"not null;uniqueIndex:idx_vehicles_tenant_placa"`
	Modelo     string    `json:"modelo"`
	Ano        int       `json:"ano"`
	Capacidade int       `json:"capacidade"`
	Status     string    `json:"status" gorm:"default:'ativo'" validate:"oneof=ativo inativo em_manutencao"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// BeforeCreate assigns the primary key
func (v *Vehicle) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// Student belongs to one guardian and one school. Addresses are attached
// through StudentAddress links with a free-form label.
type Student struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primary_key"`
	TenantID   uuid.UUID  `json:"tenant_id" gorm:"type:uuid;not null;index"`
	Name       string     `json:"name" gorm:"not null"`
	BirthDate  *time.Time `json:"birth_date"`
	GuardianID uuid.UUID  `json:"guardian_id" gorm:"type:uuid;not null;index"`
	SchoolID   uuid.UUID  `json:"school_id" gorm:"type:uuid;not null;index"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	Guardian  *User            `json:"guardian,omitempty" gorm:"foreignKey:GuardianID"`
	School    *School          `json:"school,omitempty" gorm:"foreignKey:SchoolID"`
	Addresses []StudentAddress `json:"addresses,omitempty" gorm:"foreignKey:StudentID"`
}

// BeforeCreate assigns the primary key
func (s *Student) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// StudentAddress links a student to an address with a label such as
// "Casa da Mae" or "Judo". Updates replace the full set of links.
type StudentAddress struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	StudentID uuid.UUID `json:"student_id" gorm:"type:uuid;not null;uniqueIndex:idx_student_addresses_pair"`
	AddressID uuid.UUID `json:"address_id" gorm:"type:uuid;not null;uniqueIndex:idx_student_addresses_pair"`
	Label     string    `json:"label" gorm:"not null"`

	Address *Address `json:"address,omitempty" gorm:"foreignKey:AddressID"`
}

// BeforeCreate assigns the primary key
func (s *StudentAddress) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Route is a scheduled transport path serving one school.
type Route struct {
	ID                       uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	TenantID                 uuid.UUID `json:"tenant_id" gorm:"type:uuid;not null;index"`
	Name                     string    `json:"name" gorm:"not null"`
	Description              string    `json:"description"`
	SchoolID                 uuid.UUID `json:"school_id" gorm:"type:uuid;not null;index"`
	EstimatedDurationSeconds *int      `json:"estimated_duration_seconds"`
	CreatedAt                time.Time `json:"created_at"`
	UpdatedAt                time.Time `json:"updated_at"`

	School *School `json:"school,omitempty" gorm:"foreignKey:SchoolID"`
}

// BeforeCreate assigns the primary key
func (r *Route) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// RouteStudent assigns a student to a route with per-student logistics:
// pickup/dropoff points and the weekdays the student rides, stored as a JSON
// array like ["seg","qua","sex"]. Unique per (route, student).
type RouteStudent struct {
	ID               uuid.UUID  `json:"id" gorm:"type:uuid;primary_key"`
	TenantID         uuid.UUID  `json:"tenant_id" gorm:"type:uuid;not null;index"`
	RouteID          uuid.UUID  `json:"route_id" gorm:"type:uuid;not null;uniqueIndex:idx_routes_students_pair"`
	StudentID        uuid.UUID  `json:"student_id" gorm:"type:uuid;not null;uniqueIndex:idx_routes_students_pair"`
	PickupAddressID  *uuid.UUID `json:"pickup_address_id" gorm:"type:uuid"`
	DropoffAddressID *uuid.UUID `json:"dropoff_address_id" gorm:"type:uuid"`
	Weekdays         JSONB      `json:"weekdays" gorm:"type:jsonb"`
	PickupOrder      int        `json:"pickup_order" gorm:"default:0"`

	Student *Student `json:"student,omitempty" gorm:"foreignKey:StudentID"`
}

// BeforeCreate assigns the primary key
func (r *RouteStudent) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName keeps the original join-table name
func (RouteStudent) TableName() string { return "routes_students" }

// RouteStaff assigns a driver or monitor to a route. Unique per (route, user).
type RouteStaff struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	TenantID       uuid.UUID `json:"tenant_id" gorm:"type:uuid;not null;index"`
	RouteID        uuid.UUID `json:"route_id" gorm:"type:uuid;not null;uniqueIndex:idx_routes_staff_pair"`
	UserID         uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_routes_staff_pair"`
	AssignmentType string    `json:"assignment_type" gorm:"not null" validate:"oneof=main_driver substitute_driver monitor"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// BeforeCreate assigns the primary key
func (r *RouteStaff) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName keeps the original join-table name
func (RouteStaff) TableName() string { return "routes_staff" }

// DailyCheck is the attendance record for one student, one date, one trip
// leg. Re-checking the same (student, date, leg) overwrites the previous row.
type DailyCheck struct {
	ID              uuid.UUID  `json:"id" gorm:"type:uuid;primary_key"`
	TenantID        uuid.UUID  `json:"tenant_id" gorm:"type:uuid;not null;index"`
	RouteID         uuid.UUID  `json:"route_id" gorm:"type:uuid;not null;index"`
	StudentID       uuid.UUID  `json:"student_id" gorm:"type:uuid;not null;uniqueIndex:idx_daily_checks_unique"`
	CheckDate       time.Time  `json:"check_date" gorm:"type:date;not null;uniqueIndex:idx_daily_checks_unique"`
	TripLeg         string     `json:"trip_leg" gorm:"not null;uniqueIndex:idx_daily_checks_unique" validate:"oneof=ida volta"`
	Status          string     `json:"status" gorm:"not null" validate:"oneof=presente ausente justificado"`
	Notes           string     `json:"notes"`
	CheckedByUserID *uuid.UUID `json:"checked_by_user_id" gorm:"type:uuid"`
	CheckedAt       time.Time  `json:"checked_at"`
}

// BeforeCreate assigns the primary key
func (d *DailyCheck) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
