package services

import (
	"errors"
	"fmt"

	"poultry_nexus_backend/internal/models"
	"poultry_nexus_backend/internal/repositories"

	"github.com/shopspring/decimal"
)

// QuantityConverter converts quantities between units of the same group.
// Conversion is linear: value * fromFactor / toFactor, with factors expressed
// relative to the group's base unit. It is the single authority every stock
// and bundle operation goes through, replacing per-form ad hoc conversions.
type QuantityConverter interface {
	// Convert converts value from one unit to another. Fails with ErrNotFound
	// if either unit is unknown and ErrIncompatibleUnits if they belong to
	// different groups. Zero and negative values pass through unchanged in
	// sign; quantity positivity is the caller's concern.
	Convert(value decimal.Decimal, fromUnitID, toUnitID int64) (decimal.Decimal, error)

	// ToBase converts value from the given unit to its group's base unit.
	ToBase(value decimal.Decimal, unitID int64) (decimal.Decimal, error)

	// FromBase converts value from the group's base unit into the given unit.
	FromBase(value decimal.Decimal, unitID int64) (decimal.Decimal, error)

	// ResolveUnit looks a unit up by id, failing with ErrNotFound.
	ResolveUnit(unitID int64) (*models.UnitOfMeasure, error)
}

type quantityConverter struct {
	uomRepo repositories.UomRepository
}

// NewQuantityConverter creates a new QuantityConverter backed by the UoM registry.
func NewQuantityConverter(uomRepo repositories.UomRepository) QuantityConverter {
	return &quantityConverter{uomRepo: uomRepo}
}

func (c *quantityConverter) ResolveUnit(unitID int64) (*models.UnitOfMeasure, error) {
	unit, err := c.uomRepo.GetUnitByID(unitID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: unit %d", ErrNotFound, unitID)
		}
		return nil, fmt.Errorf("failed to resolve unit %d: %w", unitID, err)
	}
	return unit, nil
}

func (c *quantityConverter) Convert(value decimal.Decimal, fromUnitID, toUnitID int64) (decimal.Decimal, error) {
	fromUnit, err := c.ResolveUnit(fromUnitID)
	if err != nil {
		return decimal.Zero, err
	}

	// Same-unit conversion returns the input untouched rather than running a
	// multiply/divide round-trip that could lose precision.
	if fromUnitID == toUnitID {
		return value, nil
	}

	toUnit, err := c.ResolveUnit(toUnitID)
	if err != nil {
		return decimal.Zero, err
	}

	if fromUnit.GroupID != toUnit.GroupID {
		return decimal.Zero, fmt.Errorf("%w: cannot convert %s (group %d) to %s (group %d)",
			ErrIncompatibleUnits, fromUnit.Symbol, fromUnit.GroupID, toUnit.Symbol, toUnit.GroupID)
	}

	base := value.Mul(fromUnit.ConversionFactor)
	return base.Div(toUnit.ConversionFactor), nil
}

func (c *quantityConverter) ToBase(value decimal.Decimal, unitID int64) (decimal.Decimal, error) {
	unit, err := c.ResolveUnit(unitID)
	if err != nil {
		return decimal.Zero, err
	}
	if unit.IsBase {
		return value, nil
	}
	return value.Mul(unit.ConversionFactor), nil
}

func (c *quantityConverter) FromBase(value decimal.Decimal, unitID int64) (decimal.Decimal, error) {
	unit, err := c.ResolveUnit(unitID)
	if err != nil {
		return decimal.Zero, err
	}
	if unit.IsBase {
		return value, nil
	}
	return value.Div(unit.ConversionFactor), nil
}
