package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// UomGroup represents a family of interconvertible units (e.g. "length", "mass", "count").
// A group owns its units and cannot be deleted while units or dimensions reference it.
type UomGroup struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name" db:"name" binding:"required"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
	Units     []UnitOfMeasure `json:"units,omitempty"` // For joining with units
}

// UnitOfMeasure represents a single unit within a group.
// For the base unit ConversionFactor is 1; for every other unit it expresses
// 1 unit = ConversionFactor * base_unit.
type UnitOfMeasure struct {
	ID               int64           `json:"id"`
	GroupID          int64           `json:"group_id" db:"group_id" binding:"required"`
	Name             string          `json:"name" db:"name" binding:"required"`
	Symbol           string          `json:"symbol" db:"symbol" binding:"required"`
	IsBase           bool            `json:"is_base" db:"is_base"`
	ConversionFactor decimal.Decimal `json:"conversion_factor" db:"conversion_factor"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" db:"updated_at"`
	Group            *UomGroup       `json:"group,omitempty"` // For joining with group
}

// Dimension is a named measurable product attribute (e.g. height, width),
// tied to the unit group its values are expressed in.
type Dimension struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name" db:"name" binding:"required"`
	UomGroupID int64     `json:"uom_group_id" db:"uom_group_id" binding:"required"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
	UomGroup   *UomGroup `json:"uom_group,omitempty"` // For joining with group
}
