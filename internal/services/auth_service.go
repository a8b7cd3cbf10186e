package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"golang.org/x/crypto/bcrypt"

	"transport-service/internal/auth"
	"transport-service/internal/models"
	"transport-service/internal/repository"
)

const bcryptCost = 10

// AuthService handles registration and credential verification
type AuthService struct {
	db         *gorm.DB
	userRepo   *repository.UserRepository
	inviteRepo *repository.InviteRepository
	tokens     *auth.TokenManager
}

// NewAuthService creates a new auth service
func NewAuthService(
	db *gorm.DB,
	userRepo *repository.UserRepository,
	inviteRepo *repository.InviteRepository,
	tokens *auth.TokenManager,
) *AuthService {
	return &AuthService{db: db, userRepo: userRepo, inviteRepo: inviteRepo, tokens: tokens}
}

// RegisterRequest carries the inputs for invite-based self-registration
type RegisterRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Phone       string `json:"phone"`
	CPF         string `json:"cpf"`
	InviteToken string `json:"invite_token"`
}

// LoginResult is the response to a successful login
type LoginResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// Register creates a user from a valid invite. The invite pins the tenant
// and role, and is consumed in the same transaction that creates the user.
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, NewValidationError("", "name, email, and password are required")
	}
	if req.InviteToken == "" {
		return nil, NewValidationError("invite_token", "an invite is required to register")
	}

	invite, err := s.inviteRepo.FindByToken(ctx, req.InviteToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("invite")
		}
		return nil, fmt.Errorf("failed to load invite: %w", err)
	}
	if invite.IsUsed || time.Now().After(invite.ExpiresAt) {
		return nil, NewNotFoundError("invite")
	}
	if invite.Email != req.Email {
		return nil, NewValidationError("email", "email does not match the invite")
	}

	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, NewConflictError("user", "this email is already in use")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	tenantID := invite.TenantID
	user := &models.User{
		TenantID: &tenantID,
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Role:     invite.Role,
		Phone:    req.Phone,
	}
	if req.CPF != "" {
		cpf := req.CPF
		user.CPF = &cpf
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		result := tx.Model(&models.Invite{}).
			Where("id = ? AND is_used = ?", invite.ID, false).
			Update("is_used", true)
		if result.Error != nil {
			return fmt.Errorf("failed to consume invite: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return NewConflictError("invite", "invite has already been used")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and issues a bearer token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, NewValidationError("", "email and password are required")
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewAuthenticationError("invalid credentials")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, NewAuthenticationError("invalid credentials")
	}

	token, err := s.tokens.Sign(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &LoginResult{User: user, Token: token}, nil
}

// HashPassword hashes a plaintext password with the service's bcrypt cost.
// Shared by the provisioning and onboarding flows.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}
