package services

import (
	"github.com/google/uuid"

	"transport-service/internal/auth"
	"transport-service/internal/models"
	"transport-service/internal/repository"
)

// scopeFor maps a principal to its data scope: super_admin reads across
// tenants, everyone else is pinned to their own tenant. Tenant id always
// comes from the verified credential, never from request input.
func scopeFor(principal *auth.Principal) (repository.Scope, error) {
	if principal == nil {
		return repository.Scope{}, NewAuthenticationError("authentication required")
	}
	if principal.IsSuperAdmin() {
		return repository.GlobalScope(), nil
	}
	if principal.TenantID == nil {
		return repository.Scope{}, NewAuthorizationError("account is not linked to a tenant")
	}
	return repository.TenantScope(*principal.TenantID), nil
}

// parseID validates a path id as a UUID. A malformed id is a validation
// error, not a lookup miss.
func parseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, NewValidationError(field, "must be a valid UUID")
	}
	return id, nil
}

// requireTenantAdmin enforces the precondition shared by all contract and
// fleet write paths: role admin with a non-nil tenant.
func requireTenantAdmin(principal *auth.Principal) (uuid.UUID, error) {
	if principal == nil {
		return uuid.Nil, NewAuthenticationError("authentication required")
	}
	if principal.Role != models.RoleAdmin || principal.TenantID == nil {
		return uuid.Nil, NewAuthorizationError("only tenant administrators may perform this action")
	}
	return *principal.TenantID, nil
}
