package services

import (
	"context"

	"transport-service/internal/auth"
	"transport-service/internal/models"
	"transport-service/internal/repository"
)

// DashboardService produces the per-role landing summaries
type DashboardService struct {
	tenantRepo      *repository.TenantRepository
	userRepo        *repository.UserRepository
	studentRepo     *repository.StudentRepository
	routeRepo       *repository.RouteRepository
	contractRepo    *repository.ContractRepository
	installmentRepo *repository.InstallmentRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	tenantRepo *repository.TenantRepository,
	userRepo *repository.UserRepository,
	studentRepo *repository.StudentRepository,
	routeRepo *repository.RouteRepository,
	contractRepo *repository.ContractRepository,
	installmentRepo *repository.InstallmentRepository,
) *DashboardService {
	return &DashboardService{
		tenantRepo:      tenantRepo,
		userRepo:        userRepo,
		studentRepo:     studentRepo,
		routeRepo:       routeRepo,
		contractRepo:    contractRepo,
		installmentRepo: installmentRepo,
	}
}

// AdminDashboard summarizes a tenant for its administrator
type AdminDashboard struct {
	StudentCount       int64   `json:"student_count"`
	GuardianCount      int64   `json:"guardian_count"`
	StaffCount         int64   `json:"staff_count"`
	RouteCount         int64   `json:"route_count"`
	ContractCount      int64   `json:"contract_count"`
	PendingReceivables float64 `json:"pending_receivables"`
}

// OperatorDashboard summarizes the platform for the operator
type OperatorDashboard struct {
	TenantCount int64 `json:"tenant_count"`
	UserCount   int64 `json:"user_count"`
}

// GuardianDashboard summarizes a guardian's own family
type GuardianDashboard struct {
	Students []models.Student `json:"students"`
}

// StaffDashboard lists the routes a driver or monitor works
type StaffDashboard struct {
	Routes []models.Route `json:"routes"`
}

// Summary returns the dashboard matching the caller's role
func (s *DashboardService) Summary(ctx context.Context, principal *auth.Principal) (interface{}, error) {
	if principal == nil {
		return nil, NewAuthenticationError("authentication required")
	}

	switch principal.Role {
	case models.RoleSuperAdmin:
		tenants, err := s.tenantRepo.Count(ctx)
		if err != nil {
			return nil, err
		}
		users, err := s.userRepo.Count(ctx, repository.GlobalScope())
		if err != nil {
			return nil, err
		}
		return &OperatorDashboard{TenantCount: tenants, UserCount: users}, nil

	case models.RoleAdmin:
		scope, err := scopeFor(principal)
		if err != nil {
			return nil, err
		}
		return s.adminSummary(ctx, scope)

	case models.RoleGuardian:
		scope, err := scopeFor(principal)
		if err != nil {
			return nil, err
		}
		students, err := s.studentRepo.ListByGuardian(ctx, scope, principal.ID)
		if err != nil {
			return nil, err
		}
		return &GuardianDashboard{Students: students}, nil

	case models.RoleDriver, models.RoleMonitor:
		scope, err := scopeFor(principal)
		if err != nil {
			return nil, err
		}
		routes, err := s.routeRepo.ListByStaff(ctx, scope, principal.ID)
		if err != nil {
			return nil, err
		}
		return &StaffDashboard{Routes: routes}, nil

	default:
		return nil, NewAuthorizationError("no dashboard for this role")
	}
}

func (s *DashboardService) adminSummary(ctx context.Context, scope repository.Scope) (*AdminDashboard, error) {
	students, err := s.studentRepo.Count(ctx, scope)
	if err != nil {
		return nil, err
	}
	guardians, err := s.userRepo.CountByRole(ctx, scope, models.RoleGuardian)
	if err != nil {
		return nil, err
	}
	drivers, err := s.userRepo.CountByRole(ctx, scope, models.RoleDriver)
	if err != nil {
		return nil, err
	}
	monitors, err := s.userRepo.CountByRole(ctx, scope, models.RoleMonitor)
	if err != nil {
		return nil, err
	}
	routes, err := s.routeRepo.Count(ctx, scope)
	if err != nil {
		return nil, err
	}
	contracts, err := s.contractRepo.CountForTenant(ctx, scope)
	if err != nil {
		return nil, err
	}
	pending, err := s.installmentRepo.SumPendingBaseValue(ctx, scope)
	if err != nil {
		return nil, err
	}

	return &AdminDashboard{
		StudentCount:       students,
		GuardianCount:      guardians,
		StaffCount:         drivers + monitors,
		RouteCount:         routes,
		ContractCount:      contracts,
		PendingReceivables: pending,
	}, nil
}
