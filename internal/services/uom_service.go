package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"poultry_nexus_backend/internal/models"
	"poultry_nexus_backend/internal/repositories"

	"github.com/shopspring/decimal"
)

// --- UoM DTOs ---

type CreateUomGroupRequest struct {
	Name string `json:"name" binding:"required"`
}

type UpdateUomGroupRequest struct {
	Name string `json:"name" binding:"required"`
}

type CreateUomUnitRequest struct {
	GroupID          int64            `json:"group_id" binding:"required"`
	Name             string           `json:"name" binding:"required"`
	Symbol           string           `json:"symbol" binding:"required"`
	IsBase           bool             `json:"is_base"`
	ConversionFactor *decimal.Decimal `json:"conversion_factor"` // Pointer to distinguish omitted from zero
}

type UpdateUomUnitRequest struct {
	Name             *string          `json:"name"`
	Symbol           *string          `json:"symbol"`
	IsBase           *bool            `json:"is_base"`
	ConversionFactor *decimal.Decimal `json:"conversion_factor"`
}

// --- UomService Interface ---

// UomService is the unit-of-measure registry: groups and their units, with
// base-unit uniqueness enforced per group.
type UomService interface {
	CreateGroup(req CreateUomGroupRequest) (*models.UomGroup, error)
	GetGroupByID(groupID int64) (*models.UomGroup, error)
	GetGroups(page, pageSize int) ([]models.UomGroup, int, error)
	UpdateGroup(groupID int64, req UpdateUomGroupRequest) (*models.UomGroup, error)
	DeleteGroup(groupID int64) error

	CreateUnit(req CreateUomUnitRequest) (*models.UnitOfMeasure, error)
	ResolveUnit(unitID int64) (*models.UnitOfMeasure, error)
	UnitsInGroup(groupID int64) ([]models.UnitOfMeasure, error)
	UpdateUnit(unitID int64, req UpdateUomUnitRequest) (*models.UnitOfMeasure, error)
	DeleteUnit(unitID int64) error
}

type uomService struct {
	uomRepo       repositories.UomRepository
	dimensionRepo repositories.DimensionRepository
	db            *sql.DB
}

// NewUomService creates a new instance of UomService.
func NewUomService(uomRepo repositories.UomRepository, dimensionRepo repositories.DimensionRepository, db *sql.DB) UomService {
	return &uomService{
		uomRepo:       uomRepo,
		dimensionRepo: dimensionRepo,
		db:            db,
	}
}

// --- Group Method Implementations ---

func (s *uomService) CreateGroup(req CreateUomGroupRequest) (*models.UomGroup, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: group name cannot be empty", ErrValidation)
	}
	group := &models.UomGroup{Name: strings.TrimSpace(req.Name)}
	id, err := s.uomRepo.CreateGroup(s.db, group)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: group name '%s' already exists", ErrValidation, req.Name)
		}
		return nil, fmt.Errorf("failed to create uom group: %w", err)
	}
	return s.uomRepo.GetGroupByID(id)
}

func (s *uomService) GetGroupByID(groupID int64) (*models.UomGroup, error) {
	group, err := s.uomRepo.GetGroupByID(groupID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: uom group %d", ErrNotFound, groupID)
		}
		return nil, fmt.Errorf("failed to get uom group: %w", err)
	}
	units, err := s.uomRepo.GetUnitsInGroup(groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get units of group %d: %w", groupID, err)
	}
	group.Units = units
	return group, nil
}

func (s *uomService) GetGroups(page, pageSize int) ([]models.UomGroup, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	return s.uomRepo.GetGroups(page, pageSize)
}

func (s *uomService) UpdateGroup(groupID int64, req UpdateUomGroupRequest) (*models.UomGroup, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: group name cannot be empty", ErrValidation)
	}
	group := &models.UomGroup{ID: groupID, Name: strings.TrimSpace(req.Name)}
	if err := s.uomRepo.UpdateGroup(s.db, group); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: uom group %d", ErrNotFound, groupID)
		}
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: group name '%s' already exists", ErrValidation, req.Name)
		}
		return nil, fmt.Errorf("failed to update uom group: %w", err)
	}
	return s.uomRepo.GetGroupByID(groupID)
}

// DeleteGroup refuses to remove a group that still owns units or is referenced
// by dimensions, so quantities recorded against it stay resolvable.
func (s *uomService) DeleteGroup(groupID int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.uomRepo.LockGroup(tx, groupID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: uom group %d", ErrNotFound, groupID)
		}
		return fmt.Errorf("failed to lock uom group: %w", err)
	}

	unitCount, err := s.uomRepo.CountUnitsInGroup(tx, groupID)
	if err != nil {
		return fmt.Errorf("failed to count units in group: %w", err)
	}
	if unitCount > 0 {
		return fmt.Errorf("%w: group %d still owns %d unit(s)", ErrConflict, groupID, unitCount)
	}

	dimensions, err := s.dimensionRepo.GetDimensionsByUomGroup(tx, groupID)
	if err != nil {
		return fmt.Errorf("failed to check dimensions of group: %w", err)
	}
	if len(dimensions) > 0 {
		return fmt.Errorf("%w: group %d is used by %d dimension(s)", ErrConflict, groupID, len(dimensions))
	}

	if err := s.uomRepo.DeleteGroup(tx, groupID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: uom group %d", ErrNotFound, groupID)
		}
		if errors.Is(err, repositories.ErrForeignKey) {
			return fmt.Errorf("%w: group %d is still referenced", ErrConflict, groupID)
		}
		return fmt.Errorf("failed to delete uom group: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit group deletion: %w", err)
	}
	return nil
}

// --- Unit Method Implementations ---

// CreateUnit enforces the per-group base invariant: exactly one base unit with
// factor 1, every other unit with a positive factor. The check-and-insert runs
// under a group row lock so two concurrent base-unit creations cannot both pass.
func (s *uomService) CreateUnit(req CreateUomUnitRequest) (*models.UnitOfMeasure, error) {
	factor := decimal.NewFromInt(1)
	if req.ConversionFactor != nil {
		factor = *req.ConversionFactor
	}

	if req.IsBase {
		if req.ConversionFactor != nil && !req.ConversionFactor.Equal(decimal.NewFromInt(1)) {
			return nil, fmt.Errorf("%w: base unit conversion factor must be 1", ErrValidation)
		}
		factor = decimal.NewFromInt(1)
	} else if factor.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: conversion factor must be positive, got %s", ErrValidation, factor)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.uomRepo.LockGroup(tx, req.GroupID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: uom group %d", ErrNotFound, req.GroupID)
		}
		return nil, fmt.Errorf("failed to lock uom group: %w", err)
	}

	if req.IsBase {
		existing, err := s.uomRepo.GetBaseUnit(tx, req.GroupID)
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("failed to check for existing base unit: %w", err)
		}
		if existing != nil {
			return nil, fmt.Errorf("%w: group %d already has base unit '%s'", ErrValidation, req.GroupID, existing.Name)
		}
	}

	unit := &models.UnitOfMeasure{
		GroupID:          req.GroupID,
		Name:             strings.TrimSpace(req.Name),
		Symbol:           strings.TrimSpace(req.Symbol),
		IsBase:           req.IsBase,
		ConversionFactor: factor,
	}
	id, err := s.uomRepo.CreateUnit(tx, unit)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: unit '%s' already exists in group %d", ErrValidation, req.Name, req.GroupID)
		}
		return nil, fmt.Errorf("failed to create uom unit: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit unit creation: %w", err)
	}
	return s.uomRepo.GetUnitByID(id)
}

func (s *uomService) ResolveUnit(unitID int64) (*models.UnitOfMeasure, error) {
	unit, err := s.uomRepo.GetUnitByID(unitID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: uom unit %d", ErrNotFound, unitID)
		}
		return nil, fmt.Errorf("failed to resolve uom unit: %w", err)
	}
	return unit, nil
}

func (s *uomService) UnitsInGroup(groupID int64) ([]models.UnitOfMeasure, error) {
	if _, err := s.uomRepo.GetGroupByID(groupID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: uom group %d", ErrNotFound, groupID)
		}
		return nil, fmt.Errorf("failed to get uom group: %w", err)
	}
	return s.uomRepo.GetUnitsInGroup(groupID)
}

func (s *uomService) UpdateUnit(unitID int64, req UpdateUomUnitRequest) (*models.UnitOfMeasure, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	unit, err := s.uomRepo.GetUnitByID(unitID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: uom unit %d", ErrNotFound, unitID)
		}
		return nil, fmt.Errorf("failed to get uom unit: %w", err)
	}

	if err := s.uomRepo.LockGroup(tx, unit.GroupID); err != nil {
		return nil, fmt.Errorf("failed to lock uom group: %w", err)
	}

	if req.Name != nil {
		unit.Name = strings.TrimSpace(*req.Name)
	}
	if req.Symbol != nil {
		unit.Symbol = strings.TrimSpace(*req.Symbol)
	}
	if req.IsBase != nil {
		unit.IsBase = *req.IsBase
	}
	if req.ConversionFactor != nil {
		unit.ConversionFactor = *req.ConversionFactor
	}

	if unit.IsBase {
		if !unit.ConversionFactor.Equal(decimal.NewFromInt(1)) {
			return nil, fmt.Errorf("%w: base unit conversion factor must be 1", ErrValidation)
		}
		existing, err := s.uomRepo.GetBaseUnit(tx, unit.GroupID)
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("failed to check for existing base unit: %w", err)
		}
		if existing != nil && existing.ID != unitID {
			return nil, fmt.Errorf("%w: group %d already has base unit '%s'", ErrValidation, unit.GroupID, existing.Name)
		}
	} else if unit.ConversionFactor.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: conversion factor must be positive, got %s", ErrValidation, unit.ConversionFactor)
	}

	if err := s.uomRepo.UpdateUnit(tx, unit); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: unit '%s' already exists in group %d", ErrValidation, unit.Name, unit.GroupID)
		}
		return nil, fmt.Errorf("failed to update uom unit: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit unit update: %w", err)
	}
	return s.uomRepo.GetUnitByID(unitID)
}

func (s *uomService) DeleteUnit(unitID int64) error {
	references, err := s.uomRepo.CountUnitReferences(s.db, unitID)
	if err != nil {
		return fmt.Errorf("failed to count unit references: %w", err)
	}
	if references > 0 {
		return fmt.Errorf("%w: unit %d is referenced by %d record(s)", ErrConflict, unitID, references)
	}

	if err := s.uomRepo.DeleteUnit(s.db, unitID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: uom unit %d", ErrNotFound, unitID)
		}
		if errors.Is(err, repositories.ErrForeignKey) {
			return fmt.Errorf("%w: unit %d is still referenced", ErrConflict, unitID)
		}
		return fmt.Errorf("failed to delete uom unit: %w", err)
	}
	return nil
}
