package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"transport-service/internal/models"
	"transport-service/internal/repository"
)

// OnboardingService handles the public enrollment (matricula) flow: a
// guardian self-enrolls their students into a tenant in one transaction.
type OnboardingService struct {
	db         *gorm.DB
	tenantRepo *repository.TenantRepository
	schoolRepo *repository.SchoolRepository
}

// NewOnboardingService creates a new onboarding service
func NewOnboardingService(db *gorm.DB, tenantRepo *repository.TenantRepository, schoolRepo *repository.SchoolRepository) *OnboardingService {
	return &OnboardingService{db: db, tenantRepo: tenantRepo, schoolRepo: schoolRepo}
}

// MatriculaStudentInput is one student in an enrollment
type MatriculaStudentInput struct {
	Name      string                `json:"name"`
	BirthDate *time.Time            `json:"birth_date"`
	SchoolID  uuid.UUID             `json:"school_id"`
	Addresses []StudentAddressInput `json:"addresses"`
}

// MatriculaRequest is the public enrollment payload. The guardian is created
// if the email is new, otherwise the students are attached to the existing
// guardian account.
type MatriculaRequest struct {
	GuardianName     string                  `json:"guardian_name"`
	GuardianEmail    string                  `json:"guardian_email"`
	GuardianPassword string                  `json:"guardian_password"`
	GuardianPhone    string                  `json:"guardian_phone"`
	GuardianCPF      string                  `json:"guardian_cpf"`
	Students         []MatriculaStudentInput `json:"students"`
}

// MatriculaResult reports what the enrollment created
type MatriculaResult struct {
	GuardianID      uuid.UUID   `json:"guardian_id"`
	GuardianCreated bool        `json:"guardian_created"`
	StudentIDs      []uuid.UUID `json:"student_ids"`
}

// Enroll runs the matricula flow against a tenant. Guardian lookup or
// creation, student creation, and address creation all commit or roll back
// together.
func (s *OnboardingService) Enroll(ctx context.Context, tenantIDStr string, req *MatriculaRequest) (*MatriculaResult, error) {
	tenantID, err := parseID("tenant_id", tenantIDStr)
	if err != nil {
		return nil, err
	}
	if req.GuardianName == "" || req.GuardianEmail == "" {
		return nil, NewValidationError("", "guardian_name and guardian_email are required")
	}
	if len(req.Students) == 0 {
		return nil, NewValidationError("students", "at least one student is required")
	}
	for i, st := range req.Students {
		if st.Name == "" {
			return nil, NewValidationError(fmt.Sprintf("students[%d].name", i), "name is required")
		}
		if st.SchoolID == uuid.Nil {
			return nil, NewValidationError(fmt.Sprintf("students[%d].school_id", i), "school_id is required")
		}
	}

	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("client")
		}
		return nil, fmt.Errorf("failed to load tenant: %w", err)
	}
	if tenant.Status != models.TenantStatusActive {
		return nil, NewNotFoundError("client")
	}

	scope := repository.TenantScope(tenantID)
	for i, st := range req.Students {
		if _, err := s.schoolRepo.FindByID(ctx, scope, st.SchoolID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, NewValidationError(fmt.Sprintf("students[%d].school_id", i), "school not found")
			}
			return nil, fmt.Errorf("failed to load school: %w", err)
		}
	}

	result := &MatriculaResult{}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var guardian models.User
		lookupErr := tx.Where("email = ?", req.GuardianEmail).First(&guardian).Error
		switch {
		case lookupErr == nil:
			if guardian.Role != models.RoleGuardian || guardian.TenantID == nil || *guardian.TenantID != tenantID {
				return NewConflictError("guardian", "this email belongs to another account")
			}
		case errors.Is(lookupErr, gorm.ErrRecordNotFound):
			if req.GuardianPassword == "" {
				return NewValidationError("guardian_password", "a password is required for new guardians")
			}
			hashed, err := HashPassword(req.GuardianPassword)
			if err != nil {
				return err
			}
			guardian = models.User{
				TenantID: &tenantID,
				Name:     req.GuardianName,
				Email:    req.GuardianEmail,
				Password: hashed,
				Role:     models.RoleGuardian,
				Phone:    req.GuardianPhone,
			}
			if req.GuardianCPF != "" {
				cpf := req.GuardianCPF
				guardian.CPF = &cpf
			}
			if err := tx.Create(&guardian).Error; err != nil {
				return fmt.Errorf("failed to create guardian: %w", err)
			}
			result.GuardianCreated = true
		default:
			return fmt.Errorf("failed to look up guardian: %w", lookupErr)
		}
		result.GuardianID = guardian.ID

		for _, st := range req.Students {
			student := models.Student{
				TenantID:   tenantID,
				Name:       st.Name,
				BirthDate:  st.BirthDate,
				GuardianID: guardian.ID,
				SchoolID:   st.SchoolID,
			}
			if err := tx.Create(&student).Error; err != nil {
				return fmt.Errorf("failed to create student: %w", err)
			}
			if err := createStudentAddresses(tx, tenantID, student.ID, st.Addresses); err != nil {
				return err
			}
			result.StudentIDs = append(result.StudentIDs, student.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
