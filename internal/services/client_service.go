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

// ClientService provisions tenants for the platform operator
type ClientService struct {
	db         *gorm.DB
	tenantRepo *repository.TenantRepository
}

// NewClientService creates a new client service
func NewClientService(db *gorm.DB, tenantRepo *repository.TenantRepository) *ClientService {
	return &ClientService{db: db, tenantRepo: tenantRepo}
}

// AddressInput is the address payload shared by provisioning, school, and
// onboarding flows.
type AddressInput struct {
	CEP         string   `json:"cep"`
	Logradouro  string   `json:"logradouro"`
	Numero      string   `json:"numero"`
	Complemento string   `json:"complemento"`
	Bairro      string   `json:"bairro"`
	Cidade      string   `json:"cidade"`
	Estado      string   `json:"estado"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

// CreateClientRequest provisions a tenant with its main address and first
// admin account in one shot.
type CreateClientRequest struct {
	CompanyName   string       `json:"company_name"`
	CPFCNPJ       string       `json:"cpf_cnpj"`
	ContactEmail  string       `json:"contact_email"`
	ContactPhone  string       `json:"contact_phone"`
	Address       AddressInput `json:"address"`
	AdminName     string       `json:"admin_name"`
	AdminEmail    string       `json:"admin_email"`
	AdminPassword string       `json:"admin_password"`
}

// ClientSummary is the operator-facing view of a tenant
type ClientSummary struct {
	Tenant       models.Tenant `json:"tenant"`
	UserCount    int64         `json:"user_count"`
	StudentCount int64         `json:"student_count"`
}

func addressFromInput(in AddressInput, tenantID *models.Tenant) *models.Address {
	addr := &models.Address{
		CEP:         in.CEP,
		Logradouro:  in.Logradouro,
		Numero:      in.Numero,
		Complemento: in.Complemento,
		Bairro:      in.Bairro,
		Cidade:      in.Cidade,
		Estado:      in.Estado,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
	}
	if tenantID != nil {
		id := tenantID.ID
		addr.TenantID = &id
	}
	return addr
}

// CreateClient provisions a new tenant. Tenant, main address, and admin user
// are created in one transaction; a duplicate document or email rolls the
// whole thing back.
func (s *ClientService) CreateClient(ctx context.Context, principal *auth.Principal, req *CreateClientRequest) (*models.Tenant, error) {
	if principal == nil || !principal.IsSuperAdmin() {
		return nil, NewAuthorizationError("only the platform operator may provision clients")
	}
	if req.CompanyName == "" || req.CPFCNPJ == "" || req.ContactEmail == "" {
		return nil, NewValidationError("", "company_name, cpf_cnpj, and contact_email are required")
	}
	if req.AdminName == "" || req.AdminEmail == "" || req.AdminPassword == "" {
		return nil, NewValidationError("", "admin_name, admin_email, and admin_password are required")
	}

	hashed, err := HashPassword(req.AdminPassword)
	if err != nil {
		return nil, err
	}

	tenant := &models.Tenant{
		CompanyName:  req.CompanyName,
		CPFCNPJ:      req.CPFCNPJ,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		Status:       models.TenantStatusActive,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(tenant).Error; err != nil {
			return translateDuplicate(err, "client", "a client with this document or email already exists")
		}

		addr := addressFromInput(req.Address, tenant)
		if err := tx.Create(addr).Error; err != nil {
			return fmt.Errorf("failed to create address: %w", err)
		}
		if err := tx.Model(tenant).Update("main_address_id", addr.ID).Error; err != nil {
			return fmt.Errorf("failed to link main address: %w", err)
		}
		tenant.MainAddressID = &addr.ID

		admin := &models.User{
			TenantID: &tenant.ID,
			Name:     req.AdminName,
			Email:    req.AdminEmail,
			Password: hashed,
			Role:     models.RoleAdmin,
			Phone:    req.ContactPhone,
		}
		if err := tx.Create(admin).Error; err != nil {
			return translateDuplicate(err, "user", "a user with this email already exists")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tenant, nil
}

// ListClients returns all tenants with per-tenant user and student counts
func (s *ClientService) ListClients(ctx context.Context, principal *auth.Principal) ([]ClientSummary, error) {
	if principal == nil || !principal.IsSuperAdmin() {
		return nil, NewAuthorizationError("only the platform operator may list clients")
	}

	tenants, err := s.tenantRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	summaries := make([]ClientSummary, 0, len(tenants))
	for _, t := range tenants {
		var userCount, studentCount int64
		if err := s.db.WithContext(ctx).Model(&models.User{}).
			Where("tenant_id = ?", t.ID).Count(&userCount).Error; err != nil {
			return nil, fmt.Errorf("failed to count users: %w", err)
		}
		if err := s.db.WithContext(ctx).Model(&models.Student{}).
			Where("tenant_id = ?", t.ID).Count(&studentCount).Error; err != nil {
			return nil, fmt.Errorf("failed to count students: %w", err)
		}
		summaries = append(summaries, ClientSummary{Tenant: t, UserCount: userCount, StudentCount: studentCount})
	}
	return summaries, nil
}

// GetClient returns a single tenant by id
func (s *ClientService) GetClient(ctx context.Context, principal *auth.Principal, id string) (*models.Tenant, error) {
	if principal == nil || !principal.IsSuperAdmin() {
		return nil, NewAuthorizationError("only the platform operator may view clients")
	}

	tenantID, err := parseID("id", id)
	if err != nil {
		return nil, err
	}

	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("client")
		}
		return nil, fmt.Errorf("failed to load client: %w", err)
	}
	return tenant, nil
}

// translateDuplicate turns a unique-constraint violation into a conflict
// error and wraps anything else.
func translateDuplicate(err error, resource, message string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return NewConflictError(resource, message)
	}
	return fmt.Errorf("failed to create %s: %w", resource, err)
}
