package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"poultry_nexus_backend/internal/models"
	"poultry_nexus_backend/internal/repositories"
)

// --- Warehouse DTOs ---

type CreateWarehouseRequest struct {
	Code    string  `json:"code" binding:"required"`
	Name    string  `json:"name" binding:"required"`
	Address *string `json:"address"`
}

type UpdateWarehouseRequest struct {
	Code    *string `json:"code"`
	Name    *string `json:"name"`
	Address *string `json:"address"`
}

// --- WarehouseService Interface ---

type WarehouseService interface {
	CreateWarehouse(req CreateWarehouseRequest) (*models.Warehouse, error)
	GetWarehouseByID(warehouseID int64) (*models.Warehouse, error)
	GetWarehouses(page, pageSize int) ([]models.Warehouse, int, error)
	UpdateWarehouse(warehouseID int64, req UpdateWarehouseRequest) (*models.Warehouse, error)
	DeleteWarehouse(warehouseID int64) error
}

type warehouseService struct {
	warehouseRepo repositories.WarehouseRepository
	db            *sql.DB
}

// NewWarehouseService creates a new instance of WarehouseService.
func NewWarehouseService(warehouseRepo repositories.WarehouseRepository, db *sql.DB) WarehouseService {
	return &warehouseService{warehouseRepo: warehouseRepo, db: db}
}

func (s *warehouseService) CreateWarehouse(req CreateWarehouseRequest) (*models.Warehouse, error) {
	if strings.TrimSpace(req.Code) == "" || strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: warehouse code and name cannot be empty", ErrValidation)
	}

	warehouse := &models.Warehouse{
		Code:    strings.TrimSpace(req.Code),
		Name:    strings.TrimSpace(req.Name),
		Address: req.Address,
	}
	id, err := s.warehouseRepo.CreateWarehouse(s.db, warehouse)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: warehouse code '%s' already exists", ErrValidation, req.Code)
		}
		return nil, fmt.Errorf("failed to create warehouse: %w", err)
	}
	return s.warehouseRepo.GetWarehouseByID(id)
}

func (s *warehouseService) GetWarehouseByID(warehouseID int64) (*models.Warehouse, error) {
	warehouse, err := s.warehouseRepo.GetWarehouseByID(warehouseID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: warehouse %d", ErrNotFound, warehouseID)
		}
		return nil, fmt.Errorf("failed to get warehouse: %w", err)
	}
	return warehouse, nil
}

func (s *warehouseService) GetWarehouses(page, pageSize int) ([]models.Warehouse, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	return s.warehouseRepo.GetWarehouses(page, pageSize)
}

func (s *warehouseService) UpdateWarehouse(warehouseID int64, req UpdateWarehouseRequest) (*models.Warehouse, error) {
	warehouse, err := s.GetWarehouseByID(warehouseID)
	if err != nil {
		return nil, err
	}

	if req.Code != nil {
		if strings.TrimSpace(*req.Code) == "" {
			return nil, fmt.Errorf("%w: warehouse code cannot be empty", ErrValidation)
		}
		warehouse.Code = strings.TrimSpace(*req.Code)
	}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("%w: warehouse name cannot be empty", ErrValidation)
		}
		warehouse.Name = strings.TrimSpace(*req.Name)
	}
	if req.Address != nil {
		warehouse.Address = req.Address
	}

	if err := s.warehouseRepo.UpdateWarehouse(s.db, warehouse); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: warehouse code '%s' already exists", ErrValidation, warehouse.Code)
		}
		return nil, fmt.Errorf("failed to update warehouse: %w", err)
	}
	return s.warehouseRepo.GetWarehouseByID(warehouseID)
}

// DeleteWarehouse refuses to remove a warehouse that still holds stock.
func (s *warehouseService) DeleteWarehouse(warehouseID int64) error {
	stockCount, err := s.warehouseRepo.CountStockInWarehouse(s.db, warehouseID)
	if err != nil {
		return fmt.Errorf("failed to count stock in warehouse: %w", err)
	}
	if stockCount > 0 {
		return fmt.Errorf("%w: warehouse %d holds %d stock item(s)", ErrConflict, warehouseID, stockCount)
	}

	if err := s.warehouseRepo.DeleteWarehouse(s.db, warehouseID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: warehouse %d", ErrNotFound, warehouseID)
		}
		if errors.Is(err, repositories.ErrForeignKey) {
			return fmt.Errorf("%w: warehouse %d is still referenced", ErrConflict, warehouseID)
		}
		return fmt.Errorf("failed to delete warehouse: %w", err)
	}
	return nil
}
