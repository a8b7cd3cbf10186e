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

// VehicleService manages the tenant's fleet
type VehicleService struct {
	vehicleRepo *repository.VehicleRepository
}

// NewVehicleService creates a new vehicle service
func NewVehicleService(vehicleRepo *repository.VehicleRepository) *VehicleService {
	return &VehicleService{vehicleRepo: vehicleRepo}
}

// CreateVehicleRequest carries the inputs for vehicle creation
type CreateVehicleRequest struct {
	Placa      string `json:"placa"`
	Modelo     string `json:"modelo"`
	Ano        int    `json:"ano"`
	Capacidade int    `json:"capacidade"`
}

// UpdateVehicleRequest carries the mutable vehicle fields. Nil means leave
// the field alone.
type UpdateVehicleRequest struct {
	Placa      *string `json:"placa"`
	Modelo     *string `json:"modelo"`
	Ano        *int    `json:"ano"`
	Capacidade *int    `json:"capacidade"`
	Status     *string `json:"status"`
}

// CreateVehicle registers a vehicle in the caller's tenant
func (s *VehicleService) CreateVehicle(ctx context.Context, principal *auth.Principal, req *CreateVehicleRequest) (*models.Vehicle, error) {
	tenantID, err := requireTenantAdmin(principal)
	if err != nil {
		return nil, err
	}
	if req.Placa == "" {
		return nil, NewValidationError("placa", "placa is required")
	}

	vehicle := &models.Vehicle{
		TenantID:   tenantID,
		Placa:      req.Placa,
		Modelo:     req.Modelo,
		Ano:        req.Ano,
		Capacidade: req.Capacidade,
		Status:     models.VehicleStatusActive,
	}
	if err := s.vehicleRepo.Create(ctx, vehicle); err != nil {
		return nil, NewConflictError("vehicle", "a vehicle with this placa already exists")
	}
	return vehicle, nil
}

// ListVehicles returns the caller's fleet
func (s *VehicleService) ListVehicles(ctx context.Context, principal *auth.Principal) ([]models.Vehicle, error) {
	scope, err := scopeFor(principal)
	if err != nil {
		return nil, err
	}
	vehicles, err := s.vehicleRepo.List(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	return vehicles, nil
}

// GetVehicle returns a single vehicle within the caller's tenant
func (s *VehicleService) GetVehicle(ctx context.Context, principal *auth.Principal, id string) (*models.Vehicle, error) {
	scope, err := scopeFor(principal)
	if err != nil {
		return nil, err
	}
	vehicleID, err := parseID("id", id)
	if err != nil {
		return nil, err
	}
	vehicle, err := s.vehicleRepo.FindByID(ctx, scope, vehicleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("vehicle")
		}
		return nil, fmt.Errorf("failed to load vehicle: %w", err)
	}
	return vehicle, nil
}

// UpdateVehicle applies a partial update to a vehicle
func (s *VehicleService) UpdateVehicle(ctx context.Context, principal *auth.Principal, id string, req *UpdateVehicleRequest) (*models.Vehicle, error) {
	tenantID, err := requireTenantAdmin(principal)
	if err != nil {
		return nil, err
	}
	vehicleID, err := parseID("id", id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Placa != nil {
		if *req.Placa == "" {
			return nil, NewValidationError("placa", "placa cannot be empty")
		}
		updates["placa"] = *req.Placa
	}
	if req.Modelo != nil {
		updates["modelo"] = *req.Modelo
	}
	if req.Ano != nil {
		updates["ano"] = *req.Ano
	}
	if req.Capacidade != nil {
		updates["capacidade"] = *req.Capacidade
	}
	if req.Status != nil {
		switch *req.Status {
		case models.VehicleStatusActive, models.VehicleStatusInactive, models.VehicleStatusMaintenance:
		default:
			return nil, NewValidationError("status", "status must be ativo, inativo, or em_manutencao")
		}
		updates["status"] = *req.Status
	}
	if len(updates) == 0 {
		return nil, NewValidationError("", "no fields to update")
	}

	scope := repository.TenantScope(tenantID)
	matched, err := s.vehicleRepo.Update(ctx, scope, vehicleID, updates)
	if err != nil {
		return nil, err
	}
	if matched == 0 {
		return nil, NewNotFoundError("vehicle")
	}
	return s.vehicleRepo.FindByID(ctx, scope, vehicleID)
}

// DeleteVehicle removes a vehicle from the fleet
func (s *VehicleService) DeleteVehicle(ctx context.Context, principal *auth.Principal, id string) error {
	tenantID, err := requireTenantAdmin(principal)
	if err != nil {
		return err
	}
	vehicleID, err := parseID("id", id)
	if err != nil {
		return err
	}

	matched, err := s.vehicleRepo.Delete(ctx, repository.TenantScope(tenantID), vehicleID)
	if err != nil {
		return err
	}
	if matched == 0 {
		return NewNotFoundError("vehicle")
	}
	return nil
}
