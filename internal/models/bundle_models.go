package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Parameter types a bundle can declare.
const (
	ParameterNumber = "number"
	ParameterText   = "text"
	ParameterSelect = "select"
)

// Formula block types. A formula is an ordered, flat list of blocks read as an
// infix expression; there is no grouping construct, so evaluation is strictly
// left to right.
const (
	BlockParameter = "parameter"
	BlockProduct   = "product"
	BlockConstant  = "constant"
	BlockOperator  = "operator"
)

// ProductBundle is a configurable set of products (e.g. a complete cage line)
// whose per-product quantities are derived from parameter values via formulas.
type ProductBundle struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name" db:"name" binding:"required"`
	Description *string           `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at" db:"updated_at"`
	Parameters  []BundleParameter `json:"parameters,omitempty"`
	Products    []BundleProduct   `json:"products,omitempty"`
}

// BundleParameter is a named input the customer supplies when instantiating a
// bundle (e.g. house length, row count).
type BundleParameter struct {
	ID           int64    `json:"id"`
	BundleID     int64    `json:"bundle_id" db:"bundle_id"`
	Name         string   `json:"name" db:"name" binding:"required"`
	Type         string   `json:"type" db:"type" binding:"required"` // number, text, select
	DefaultValue *string  `json:"default_value,omitempty" db:"default_value"`
	Options      []string `json:"options,omitempty" db:"options"` // For select parameters
}

// BundleProduct links a product into a bundle together with the formula that
// computes its required quantity.
type BundleProduct struct {
	ID        int64          `json:"id"`
	BundleID  int64          `json:"bundle_id" db:"bundle_id"`
	ProductID int64          `json:"product_id" db:"product_id" binding:"required"`
	UomID     *int64         `json:"uom_id,omitempty" db:"uom_id"` // Unit the computed quantity is expressed in
	Formula   []FormulaBlock `json:"formula" db:"formula"`
	Product   *Product       `json:"product,omitempty"`
}

// FormulaBlock is one typed element of a bundle formula. Exactly one of the
// value fields is meaningful depending on Type.
type FormulaBlock struct {
	Type      string           `json:"type" binding:"required"`
	Name      string           `json:"name,omitempty"`       // parameter blocks
	ProductID int64            `json:"product_id,omitempty"` // product blocks
	Value     *decimal.Decimal `json:"value,omitempty"`      // constant blocks
	Symbol    string           `json:"symbol,omitempty"`     // operator blocks: + - * /
}
