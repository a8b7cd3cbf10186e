package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"transport-service/internal/models"
)

// UserRepository handles user database operations
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByEmail looks a user up by email. Emails are unique platform-wide, so
// this lookup is deliberately unscoped; it backs the login flow.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID retrieves a user within the given scope
func (r *UserRepository) FindByID(ctx context.Context, scope Scope, id uuid.UUID) (*models.User, error) {
	var user models.User
	query := scope.Apply(r.db.WithContext(ctx)).Where("id = ?", id)
	if err := query.First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindStaff lists drivers and monitors within the scope
func (r *UserRepository) FindStaff(ctx context.Context, scope Scope) ([]models.User, error) {
	var users []models.User
	query := scope.Apply(r.db.WithContext(ctx)).
		Where("role IN ?", []string{models.RoleDriver, models.RoleMonitor}).
		Order("name asc")
	if err := query.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	return users, nil
}

// FindGuardians lists guardians within the scope
func (r *UserRepository) FindGuardians(ctx context.Context, scope Scope) ([]models.User, error) {
	var users []models.User
	query := scope.Apply(r.db.WithContext(ctx)).
		Where("role = ?", models.RoleGuardian).
		Order("name asc")
	if err := query.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list guardians: %w", err)
	}
	return users, nil
}

// Count returns the number of users within the scope
func (r *UserRepository) Count(ctx context.Context, scope Scope) (int64, error) {
	var count int64
	if err := scope.Apply(r.db.WithContext(ctx).Model(&models.User{})).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// CountByRole counts users with the given role within the scope
func (r *UserRepository) CountByRole(ctx context.Context, scope Scope, role string) (int64, error) {
	var count int64
	query := scope.Apply(r.db.WithContext(ctx).Model(&models.User{})).Where("role = ?", role)
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
