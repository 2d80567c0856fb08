package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"poultry_nexus_backend/internal/models"
	"poultry_nexus_backend/internal/repositories"
)

// --- Dimension DTOs ---

type CreateDimensionRequest struct {
	Name       string `json:"name" binding:"required"`
	UomGroupID int64  `json:"uom_group_id" binding:"required"`
}

type UpdateDimensionRequest struct {
	Name       *string `json:"name"`
	UomGroupID *int64  `json:"uom_group_id"`
}

// --- DimensionService Interface ---

// DimensionService is the registry of named measurable product attributes
// (height, width, ...), each tied to the unit group its values use.
type DimensionService interface {
	CreateDimension(req CreateDimensionRequest) (*models.Dimension, error)
	GetDimensionByID(dimensionID int64) (*models.Dimension, error)
	GetDimensions(page, pageSize int) ([]models.Dimension, int, error)
	GetDimensionsByUomGroup(groupID int64) ([]models.Dimension, error)
	GetDimensionsByProduct(productID int64) ([]models.Dimension, error)
	UpdateDimension(dimensionID int64, req UpdateDimensionRequest) (*models.Dimension, error)
	DeleteDimension(dimensionID int64) error

	AttachToProduct(productID, dimensionID int64) error
	DetachFromProduct(productID, dimensionID int64) error
}

type dimensionService struct {
	dimensionRepo repositories.DimensionRepository
	uomRepo       repositories.UomRepository
	productRepo   repositories.ProductRepository
	db            *sql.DB
}

// NewDimensionService creates a new instance of DimensionService.
func NewDimensionService(
	dimensionRepo repositories.DimensionRepository,
	uomRepo repositories.UomRepository,
	productRepo repositories.ProductRepository,
	db *sql.DB,
) DimensionService {
	return &dimensionService{
		dimensionRepo: dimensionRepo,
		uomRepo:       uomRepo,
		productRepo:   productRepo,
		db:            db,
	}
}

func (s *dimensionService) CreateDimension(req CreateDimensionRequest) (*models.Dimension, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: dimension name cannot be empty", ErrValidation)
	}
	if _, err := s.uomRepo.GetGroupByID(req.UomGroupID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: uom group %d", ErrNotFound, req.UomGroupID)
		}
		return nil, fmt.Errorf("failed to check uom group: %w", err)
	}

	dimension := &models.Dimension{
		Name:       strings.TrimSpace(req.Name),
		UomGroupID: req.UomGroupID,
	}
	id, err := s.dimensionRepo.CreateDimension(s.db, dimension)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: dimension name '%s' already exists", ErrValidation, req.Name)
		}
		return nil, fmt.Errorf("failed to create dimension: %w", err)
	}
	return s.dimensionRepo.GetDimensionByID(id)
}

func (s *dimensionService) GetDimensionByID(dimensionID int64) (*models.Dimension, error) {
	dimension, err := s.dimensionRepo.GetDimensionByID(dimensionID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: dimension %d", ErrNotFound, dimensionID)
		}
		return nil, fmt.Errorf("failed to get dimension: %w", err)
	}
	return dimension, nil
}

func (s *dimensionService) GetDimensions(page, pageSize int) ([]models.Dimension, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	return s.dimensionRepo.GetDimensions(page, pageSize)
}

func (s *dimensionService) GetDimensionsByUomGroup(groupID int64) ([]models.Dimension, error) {
	if _, err := s.uomRepo.GetGroupByID(groupID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: uom group %d", ErrNotFound, groupID)
		}
		return nil, fmt.Errorf("failed to check uom group: %w", err)
	}
	return s.dimensionRepo.GetDimensionsByUomGroup(s.db, groupID)
}

func (s *dimensionService) GetDimensionsByProduct(productID int64) ([]models.Dimension, error) {
	if _, err := s.productRepo.GetProductByID(productID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, productID)
		}
		return nil, fmt.Errorf("failed to check product: %w", err)
	}
	return s.dimensionRepo.GetDimensionsByProduct(productID)
}

func (s *dimensionService) UpdateDimension(dimensionID int64, req UpdateDimensionRequest) (*models.Dimension, error) {
	dimension, err := s.GetDimensionByID(dimensionID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("%w: dimension name cannot be empty", ErrValidation)
		}
		dimension.Name = strings.TrimSpace(*req.Name)
	}
	if req.UomGroupID != nil {
		if _, err := s.uomRepo.GetGroupByID(*req.UomGroupID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: uom group %d", ErrNotFound, *req.UomGroupID)
			}
			return nil, fmt.Errorf("failed to check uom group: %w", err)
		}
		dimension.UomGroupID = *req.UomGroupID
	}

	if err := s.dimensionRepo.UpdateDimension(s.db, dimension); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: dimension name '%s' already exists", ErrValidation, dimension.Name)
		}
		return nil, fmt.Errorf("failed to update dimension: %w", err)
	}
	return s.dimensionRepo.GetDimensionByID(dimensionID)
}

func (s *dimensionService) DeleteDimension(dimensionID int64) error {
	if err := s.dimensionRepo.DeleteDimension(s.db, dimensionID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: dimension %d", ErrNotFound, dimensionID)
		}
		if errors.Is(err, repositories.ErrForeignKey) {
			return fmt.Errorf("%w: dimension %d is still referenced by products or stock", ErrConflict, dimensionID)
		}
		return fmt.Errorf("failed to delete dimension: %w", err)
	}
	return nil
}

// AttachToProduct declares that the product carries this dimension. Attaching
// the same dimension twice is a validation error, not an upsert.
func (s *dimensionService) AttachToProduct(productID, dimensionID int64) error {
	if _, err := s.productRepo.GetProductByID(productID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: product %d", ErrNotFound, productID)
		}
		return fmt.Errorf("failed to check product: %w", err)
	}
	if _, err := s.dimensionRepo.GetDimensionByID(dimensionID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: dimension %d", ErrNotFound, dimensionID)
		}
		return fmt.Errorf("failed to check dimension: %w", err)
	}

	attached, err := s.dimensionRepo.IsAttachedToProduct(s.db, productID, dimensionID)
	if err != nil {
		return fmt.Errorf("failed to check existing attachment: %w", err)
	}
	if attached {
		return fmt.Errorf("%w: dimension %d is already attached to product %d", ErrValidation, dimensionID, productID)
	}

	if err := s.dimensionRepo.AttachToProduct(s.db, productID, dimensionID); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return fmt.Errorf("%w: dimension %d is already attached to product %d", ErrValidation, dimensionID, productID)
		}
		return fmt.Errorf("failed to attach dimension to product: %w", err)
	}
	return nil
}

func (s *dimensionService) DetachFromProduct(productID, dimensionID int64) error {
	if err := s.dimensionRepo.DetachFromProduct(s.db, productID, dimensionID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: dimension %d is not attached to product %d", ErrNotFound, dimensionID, productID)
		}
		return fmt.Errorf("failed to detach dimension from product: %w", err)
	}
	return nil
}
