package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"poultry_nexus_backend/internal/models"
	"poultry_nexus_backend/internal/repositories"
)

// --- Product DTOs ---

type CreateProductRequest struct {
	SKU          string  `json:"sku" binding:"required"`
	Name         string  `json:"name" binding:"required"`
	Description  *string `json:"description"`
	DefaultUomID int64   `json:"default_uom_id" binding:"required"`
	AllowedUoms  []int64 `json:"allowed_uoms"`
}

type UpdateProductRequest struct {
	SKU          *string  `json:"sku"`
	Name         *string  `json:"name"`
	Description  *string  `json:"description"`
	DefaultUomID *int64   `json:"default_uom_id"`
	AllowedUoms  *[]int64 `json:"allowed_uoms"` // Pointer to distinguish "unchanged" from "clear"
}

// --- ProductService Interface ---

type ProductService interface {
	CreateProduct(req CreateProductRequest) (*models.Product, error)
	GetProductByID(productID int64) (*models.Product, error)
	GetProducts(search *string, page, pageSize int) ([]models.Product, int, error)
	UpdateProduct(productID int64, req UpdateProductRequest) (*models.Product, error)
	DeleteProduct(productID int64) error
}

type productService struct {
	productRepo repositories.ProductRepository
	uomRepo     repositories.UomRepository
	db          *sql.DB
}

// NewProductService creates a new instance of ProductService.
func NewProductService(productRepo repositories.ProductRepository, uomRepo repositories.UomRepository, db *sql.DB) ProductService {
	return &productService{
		productRepo: productRepo,
		uomRepo:     uomRepo,
		db:          db,
	}
}

// checkAllowedUoms verifies every allowed unit shares the default unit's group.
func (s *productService) checkAllowedUoms(defaultUomID int64, allowedUomIDs []int64) error {
	defaultUom, err := s.uomRepo.GetUnitByID(defaultUomID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: uom unit %d", ErrNotFound, defaultUomID)
		}
		return fmt.Errorf("failed to resolve default uom: %w", err)
	}

	for _, uomID := range allowedUomIDs {
		unit, err := s.uomRepo.GetUnitByID(uomID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return fmt.Errorf("%w: uom unit %d", ErrNotFound, uomID)
			}
			return fmt.Errorf("failed to resolve allowed uom %d: %w", uomID, err)
		}
		if unit.GroupID != defaultUom.GroupID {
			return fmt.Errorf("%w: allowed unit '%s' belongs to group %d, default unit's group is %d",
				ErrValidation, unit.Symbol, unit.GroupID, defaultUom.GroupID)
		}
	}
	return nil
}

func (s *productService) CreateProduct(req CreateProductRequest) (*models.Product, error) {
	if strings.TrimSpace(req.SKU) == "" || strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: product sku and name cannot be empty", ErrValidation)
	}
	if err := s.checkAllowedUoms(req.DefaultUomID, req.AllowedUoms); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	product := &models.Product{
		SKU:          strings.TrimSpace(req.SKU),
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		DefaultUomID: req.DefaultUomID,
	}
	id, err := s.productRepo.CreateProduct(tx, product)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: product sku '%s' already exists", ErrValidation, req.SKU)
		}
		if errors.Is(err, repositories.ErrForeignKey) {
			return nil, fmt.Errorf("%w: uom unit %d", ErrNotFound, req.DefaultUomID)
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	if len(req.AllowedUoms) > 0 {
		if err := s.productRepo.SetAllowedUoms(tx, id, req.AllowedUoms); err != nil {
			return nil, fmt.Errorf("failed to set allowed uoms: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit product creation: %w", err)
	}
	return s.productRepo.GetProductByID(id)
}

func (s *productService) GetProductByID(productID int64) (*models.Product, error) {
	product, err := s.productRepo.GetProductByID(productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, productID)
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

func (s *productService) GetProducts(search *string, page, pageSize int) ([]models.Product, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	return s.productRepo.GetProducts(search, page, pageSize)
}

func (s *productService) UpdateProduct(productID int64, req UpdateProductRequest) (*models.Product, error) {
	product, err := s.GetProductByID(productID)
	if err != nil {
		return nil, err
	}

	if req.SKU != nil {
		if strings.TrimSpace(*req.SKU) == "" {
			return nil, fmt.Errorf("%w: product sku cannot be empty", ErrValidation)
		}
		product.SKU = strings.TrimSpace(*req.SKU)
	}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("%w: product name cannot be empty", ErrValidation)
		}
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		product.Description = req.Description
	}
	if req.DefaultUomID != nil {
		product.DefaultUomID = *req.DefaultUomID
	}

	allowedUomIDs := make([]int64, 0, len(product.AllowedUoms))
	for _, unit := range product.AllowedUoms {
		allowedUomIDs = append(allowedUomIDs, unit.ID)
	}
	if req.AllowedUoms != nil {
		allowedUomIDs = *req.AllowedUoms
	}
	if err := s.checkAllowedUoms(product.DefaultUomID, allowedUomIDs); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.productRepo.UpdateProduct(tx, product); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: product sku '%s' already exists", ErrValidation, product.SKU)
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if req.AllowedUoms != nil {
		if err := s.productRepo.SetAllowedUoms(tx, productID, *req.AllowedUoms); err != nil {
			return nil, fmt.Errorf("failed to set allowed uoms: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit product update: %w", err)
	}
	return s.productRepo.GetProductByID(productID)
}

// DeleteProduct refuses to remove a product with stock history; the ledger
// must stay resolvable.
func (s *productService) DeleteProduct(productID int64) error {
	stockCount, err := s.productRepo.CountStockForProduct(s.db, productID)
	if err != nil {
		return fmt.Errorf("failed to count stock for product: %w", err)
	}
	if stockCount > 0 {
		return fmt.Errorf("%w: product %d has %d stock item(s)", ErrConflict, productID, stockCount)
	}

	if err := s.productRepo.DeleteProduct(s.db, productID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: product %d", ErrNotFound, productID)
		}
		if errors.Is(err, repositories.ErrForeignKey) {
			return fmt.Errorf("%w: product %d is still referenced", ErrConflict, productID)
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}
