package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"transport-service/internal/auth"
	"transport-service/internal/models"
	"transport-service/internal/repository"
)

// StudentService manages students and their labeled address links
type StudentService struct {
	db          *gorm.DB
	studentRepo *repository.StudentRepository
	userRepo    *repository.UserRepository
	schoolRepo  *repository.SchoolRepository
}

// NewStudentService creates a new student service
func NewStudentService(
	db *gorm.DB,
	studentRepo *repository.StudentRepository,
	userRepo *repository.UserRepository,
	schoolRepo *repository.SchoolRepository,
) *StudentService {
	return &StudentService{db: db, studentRepo: studentRepo, userRepo: userRepo, schoolRepo: schoolRepo}
}

// StudentAddressInput is one labeled address for a student
type StudentAddressInput struct {
	Label   string       `json:"label"`
	Address AddressInput `json:"address"`
}

// CreateStudentRequest carries the inputs for student creation
type CreateStudentRequest struct {
	Name       string                `json:"name"`
	BirthDate  *time.Time            `json:"birth_date"`
	GuardianID uuid.UUID             `json:"guardian_id"`
	SchoolID   uuid.UUID             `json:"school_id"`
	Addresses  []StudentAddressInput `json:"addresses"`
}

// UpdateStudentAddressesRequest replaces a student's full set of address
// links. Omitted addresses are removed; this is a full replace, not a merge.
type UpdateStudentAddressesRequest struct {
	Addresses []StudentAddressInput `json:"addresses"`
}

// CreateStudent creates a student with its labeled addresses in one
// transaction. Guardian and school must exist in the caller's tenant.
func (s *StudentService) CreateStudent(ctx context.Context, principal *auth.Principal, req *CreateStudentRequest) (*models.Student, error) {
	tenantID, err := requireTenantAdmin(principal)
	if err != nil {
		return nil, err
	}
	if req.Name == "" {
		return nil, NewValidationError("name", "name is required")
	}
	if req.GuardianID == uuid.Nil || req.SchoolID == uuid.Nil {
		return nil, NewValidationError("", "guardian_id and school_id are required")
	}
	for i, addr := range req.Addresses {
		if addr.Label == "" {
			return nil, NewValidationError(fmt.Sprintf("addresses[%d].label", i), "label is required")
		}
	}

	scope := repository.TenantScope(tenantID)
	guardian, err := s.userRepo.FindByID(ctx, scope, req.GuardianID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("guardian")
		}
		return nil, fmt.Errorf("failed to load guardian: %w", err)
	}
	if guardian.Role != models.RoleGuardian {
		return nil, NewValidationError("guardian_id", "user is not a guardian")
	}
	if _, err := s.schoolRepo.FindByID(ctx, scope, req.SchoolID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("school")
		}
		return nil, fmt.Errorf("failed to load school: %w", err)
	}

	student := &models.Student{
		TenantID:   tenantID,
		Name:       req.Name,
		BirthDate:  req.BirthDate,
		GuardianID: req.GuardianID,
		SchoolID:   req.SchoolID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(student).Error; err != nil {
			return fmt.Errorf("failed to create student: %w", err)
		}
		return createStudentAddresses(tx, tenantID, student.ID, req.Addresses)
	})
	if err != nil {
		return nil, err
	}
	return s.studentRepo.FindByID(ctx, scope, student.ID)
}

// createStudentAddresses inserts the address rows and their links
func createStudentAddresses(tx *gorm.DB, tenantID, studentID uuid.UUID, inputs []StudentAddressInput) error {
	for _, in := range inputs {
		addr := addressFromInput(in.Address, nil)
		addr.TenantID = &tenantID
		if err := tx.Create(addr).Error; err != nil {
			return fmt.Errorf("failed to create address: %w", err)
		}
		link := &models.StudentAddress{
			StudentID: studentID,
			AddressID: addr.ID,
			Label:     in.Label,
		}
		if err := tx.Create(link).Error; err != nil {
			return fmt.Errorf("failed to link address: %w", err)
		}
	}
	return nil
}

// ListStudents returns all students in the caller's tenant
func (s *StudentService) ListStudents(ctx context.Context, principal *auth.Principal) ([]models.Student, error) {
	scope, err := scopeFor(principal)
	if err != nil {
		return nil, err
	}
	students, err := s.studentRepo.List(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return students, nil
}

// ListMyStudents returns the students whose guardian is the caller
func (s *StudentService) ListMyStudents(ctx context.Context, principal *auth.Principal) ([]models.Student, error) {
	if principal == nil {
		return nil, NewAuthenticationError("authentication required")
	}
	if principal.Role != models.RoleGuardian {
		return nil, NewAuthorizationError("only guardians may list their own students")
	}
	scope, err := scopeFor(principal)
	if err != nil {
		return nil, err
	}
	students, err := s.studentRepo.ListByGuardian(ctx, scope, principal.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return students, nil
}

// GetStudent returns one student within the caller's tenant. Guardians may
// only see their own students.
func (s *StudentService) GetStudent(ctx context.Context, principal *auth.Principal, id string) (*models.Student, error) {
	scope, err := scopeFor(principal)
	if err != nil {
		return nil, err
	}
	studentID, err := parseID("id", id)
	if err != nil {
		return nil, err
	}
	student, err := s.studentRepo.FindByID(ctx, scope, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("student")
		}
		return nil, fmt.Errorf("failed to load student: %w", err)
	}
	if principal.Role == models.RoleGuardian && student.GuardianID != principal.ID {
		return nil, NewNotFoundError("student")
	}
	return student, nil
}

// UpdateStudentAddresses replaces a student's address links with the given
// set, atomically. Old links and their addresses are dropped first.
func (s *StudentService) UpdateStudentAddresses(ctx context.Context, principal *auth.Principal, id string, req *UpdateStudentAddressesRequest) (*models.Student, error) {
	tenantID, err := requireTenantAdmin(principal)
	if err != nil {
		return nil, err
	}
	studentID, err := parseID("id", id)
	if err != nil {
		return nil, err
	}
	for i, addr := range req.Addresses {
		if addr.Label == "" {
			return nil, NewValidationError(fmt.Sprintf("addresses[%d].label", i), "label is required")
		}
	}

	scope := repository.TenantScope(tenantID)
	if _, err := s.studentRepo.FindByID(ctx, scope, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("student")
		}
		return nil, fmt.Errorf("failed to load student: %w", err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var links []models.StudentAddress
		if err := tx.Where("student_id = ?", studentID).Find(&links).Error; err != nil {
			return fmt.Errorf("failed to load address links: %w", err)
		}
		if err := tx.Where("student_id = ?", studentID).Delete(&models.StudentAddress{}).Error; err != nil {
			return fmt.Errorf("failed to remove address links: %w", err)
		}
		for _, link := range links {
			if err := tx.Where("id = ?", link.AddressID).Delete(&models.Address{}).Error; err != nil {
				return fmt.Errorf("failed to remove address: %w", err)
			}
		}
		return createStudentAddresses(tx, tenantID, studentID, req.Addresses)
	})
	if err != nil {
		return nil, err
	}
	return s.studentRepo.FindByID(ctx, scope, studentID)
}
