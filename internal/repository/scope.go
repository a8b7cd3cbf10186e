package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Scope decides how queries are partitioned by tenant. A TenantScope filters
// every query by tenant_id; GlobalScope applies no filter and is reserved for
// super_admin principals. Making the unfiltered path an explicit value keeps
// it auditable instead of hiding it behind a nil check.
type Scope struct {
	tenantID *uuid.UUID
}

// TenantScope restricts queries to a single tenant
func TenantScope(tenantID uuid.UUID) Scope {
	return Scope{tenantID: &tenantID}
}

// GlobalScope applies no tenant filter. Callers must have verified the
// principal is a super_admin before using it.
func GlobalScope() Scope {
	return Scope{}
}

// IsGlobal reports whether the scope spans all tenants
func (s Scope) IsGlobal() bool {
	return s.tenantID == nil
}

// TenantID returns the tenant the scope is bound to, or nil for GlobalScope
func (s Scope) TenantID() *uuid.UUID {
	return s.tenantID
}

// Apply adds the tenant filter to a query builder
func (s Scope) Apply(db *gorm.DB) *gorm.DB {
	if s.tenantID == nil {
		return db
	}
	return db.Where("tenant_id = ?", *s.tenantID)
}

// ApplyOn adds the tenant filter against a qualified column, for joined
// queries where tenant_id alone would be ambiguous.
func (s Scope) ApplyOn(db *gorm.DB, column string) *gorm.DB {
	if s.tenantID == nil {
		return db
	}
	return db.Where(column+" = ?", *s.tenantID)
}
