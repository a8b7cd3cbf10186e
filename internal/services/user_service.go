package services

import (
	"context"
	"fmt"

	"transport-service/internal/auth"
	"transport-service/internal/models"
	"transport-service/internal/repository"
)

// UserService exposes tenant user directories
type UserService struct {
	userRepo *repository.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ListStaff returns the tenant's drivers and monitors
func (s *UserService) ListStaff(ctx context.Context, principal *auth.Principal) ([]models.User, error) {
	scope, err := scopeFor(principal)
	if err != nil {
		return nil, err
	}
	if principal.Role != models.RoleAdmin && !principal.IsSuperAdmin() {
		return nil, NewAuthorizationError("only administrators may list staff")
	}
	users, err := s.userRepo.FindStaff(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	return users, nil
}

// ListGuardians returns the tenant's guardians
func (s *UserService) ListGuardians(ctx context.Context, principal *auth.Principal) ([]models.User, error) {
	scope, err := scopeFor(principal)
	if err != nil {
		return nil, err
	}
	if principal.Role != models.RoleAdmin && !principal.IsSuperAdmin() {
		return nil, NewAuthorizationError("only administrators may list guardians")
	}
	users, err := s.userRepo.FindGuardians(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list guardians: %w", err)
	}
	return users, nil
}
