package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"transport-service/internal/auth"
	"transport-service/internal/models"
	"transport-service/internal/repository"
)

// SchoolService manages the schools students are driven to
type SchoolService struct {
	db         *gorm.DB
	schoolRepo *repository.SchoolRepository
}

// NewSchoolService creates a new school service
func NewSchoolService(db *gorm.DB, schoolRepo *repository.SchoolRepository) *SchoolService {
	return &SchoolService{db: db, schoolRepo: schoolRepo}
}

// CreateSchoolRequest carries the inputs for school creation
type CreateSchoolRequest struct {
	Name    string       `json:"name"`
	CNPJ    string       `json:"cnpj"`
	Phone   string       `json:"phone"`
	Address AddressInput `json:"address"`
}

// CreateSchool creates a school with its address in one transaction
func (s *SchoolService) CreateSchool(ctx context.Context, principal *auth.Principal, req *CreateSchoolRequest) (*models.School, error) {
	tenantID, err := requireTenantAdmin(principal)
	if err != nil {
		return nil, err
	}
	if req.Name == "" {
		return nil, NewValidationError("name", "name is required")
	}

	school := &models.School{
		TenantID: tenantID,
		Name:     req.Name,
		Phone:    req.Phone,
	}
	if req.CNPJ != "" {
		cnpj := req.CNPJ
		school.CNPJ = &cnpj
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		addr := addressFromInput(req.Address, nil)
		addr.TenantID = &tenantID
		if err := tx.Create(addr).Error; err != nil {
			return fmt.Errorf("failed to create address: %w", err)
		}
		school.AddressID = &addr.ID
		if err := tx.Create(school).Error; err != nil {
			return translateDuplicate(err, "school", "a school with this CNPJ already exists")
		}
		school.Address = addr
		return nil
	})
	if err != nil {
		return nil, err
	}
	return school, nil
}

// ListSchools returns the caller's schools with their addresses
func (s *SchoolService) ListSchools(ctx context.Context, principal *auth.Principal) ([]models.School, error) {
	scope, err := scopeFor(principal)
	if err != nil {
		return nil, err
	}
	schools, err := s.schoolRepo.List(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list schools: %w", err)
	}
	return schools, nil
}

// GetSchool returns a single school by id within the caller's tenant
func (s *SchoolService) GetSchool(ctx context.Context, principal *auth.Principal, id string) (*models.School, error) {
	scope, err := scopeFor(principal)
	if err != nil {
		return nil, err
	}
	schoolID, err := parseID("id", id)
	if err != nil {
		return nil, err
	}
	school, err := s.schoolRepo.FindByID(ctx, scope, schoolID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("school")
		}
		return nil, fmt.Errorf("failed to load school: %w", err)
	}
	return school, nil
}
