package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"transport-service/internal/auth"
	"transport-service/internal/models"
	"transport-service/internal/repository"
)

// inviteTTL is how long an invite stays redeemable
const inviteTTL = 7 * 24 * time.Hour

// InviteService handles one-time registration invites
type InviteService struct {
	inviteRepo *repository.InviteRepository
}

// NewInviteService creates a new invite service
func NewInviteService(inviteRepo *repository.InviteRepository) *InviteService {
	return &InviteService{inviteRepo: inviteRepo}
}

// CreateInviteRequest carries the inputs for invite creation
type CreateInviteRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// CreateInvite issues an invite for (email, role) into the caller's tenant.
// Admin-only; the tenant comes from the principal.
func (s *InviteService) CreateInvite(ctx context.Context, principal *auth.Principal, req *CreateInviteRequest) (*models.Invite, error) {
	tenantID, err := requireTenantAdmin(principal)
	if err != nil {
		return nil, err
	}

	if req.Email == "" {
		return nil, NewValidationError("email", "email is required")
	}
	switch req.Role {
	case models.RoleGuardian, models.RoleDriver, models.RoleMonitor:
	default:
		return nil, NewValidationError("role", "role must be guardian, driver, or monitor")
	}

	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to generate invite token: %w", err)
	}

	invite := &models.Invite{
		TenantID:  tenantID,
		Email:     req.Email,
		Role:      req.Role,
		Token:     hex.EncodeToString(buf),
		ExpiresAt: time.Now().Add(inviteTTL),
	}
	if err := s.inviteRepo.Create(ctx, invite); err != nil {
		return nil, NewConflictError("invite", "an invite for this email and role already exists")
	}
	return invite, nil
}

// GetInviteByToken returns an invite if it is still redeemable. Used,
// expired, and unknown tokens all come back as not found.
func (s *InviteService) GetInviteByToken(ctx context.Context, token string) (*models.Invite, error) {
	invite, err := s.inviteRepo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("invite")
		}
		return nil, fmt.Errorf("failed to load invite: %w", err)
	}
	if invite.IsUsed || time.Now().After(invite.ExpiresAt) {
		return nil, NewNotFoundError("invite")
	}
	return invite, nil
}
