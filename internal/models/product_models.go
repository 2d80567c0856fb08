package models

import "time"

// Product represents a sellable or stockable item (e.g. belts, cages, feeders).
// Quantities are tracked in the base unit of DefaultUom's group; AllowedUoms
// restricts which units stock operations may use and must all share that group.
type Product struct {
	ID           int64           `json:"id"`
	SKU          string          `json:"sku" db:"sku" binding:"required"`
	Name         string          `json:"name" db:"name" binding:"required"`
	Description  *string         `json:"description,omitempty" db:"description"`
	DefaultUomID int64           `json:"default_uom_id" db:"default_uom_id" binding:"required"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
	DefaultUom   *UnitOfMeasure  `json:"default_uom,omitempty"` // For joining with uom_units
	AllowedUoms  []UnitOfMeasure `json:"allowed_uoms,omitempty"`
	Dimensions   []Dimension     `json:"dimensions,omitempty"` // Declared measurable attributes
}

// Warehouse represents a physical stock location.
type Warehouse struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code" db:"code" binding:"required"`
	Name      string    `json:"name" db:"name" binding:"required"`
	Address   *string   `json:"address,omitempty" db:"address"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
