package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Movement type constants. Adjustments carry their sign in the quantity itself.
const (
	MovementInbound     = "inbound"
	MovementOutbound    = "outbound"
	MovementTransferIn  = "transfer_in"
	MovementTransferOut = "transfer_out"
	MovementAdjustment  = "adjustment"
)

// Adjustment reason recorded when a stock count reconciles an item.
const ReasonStockCount = "stock_count"

// StockItem is the stock of one product at one warehouse. InputQuantity and
// InputUomID record what was originally entered; NormalizedQuantity is the
// current level expressed in the product's base unit. A depleted item stays at
// zero rather than being deleted, so its movement history remains auditable.
type StockItem struct {
	ID                 int64                `json:"id"`
	ProductID          int64                `json:"product_id" db:"product_id" binding:"required"`
	WarehouseID        int64                `json:"warehouse_id" db:"warehouse_id" binding:"required"`
	InputQuantity      decimal.Decimal      `json:"input_quantity" db:"input_quantity"`
	InputUomID         int64                `json:"input_uom_id" db:"input_uom_id"`
	NormalizedQuantity decimal.Decimal      `json:"normalized_quantity" db:"normalized_quantity"`
	CreatedAt          time.Time            `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at" db:"updated_at"`
	Product            *Product             `json:"product,omitempty"`
	Warehouse          *Warehouse           `json:"warehouse,omitempty"`
	Dimensions         []StockItemDimension `json:"dimensions,omitempty"`
}

// StockItemDimension is a per-item dimension value (e.g. height = 1.2 m),
// tagged with the unit it was entered in.
type StockItemDimension struct {
	ID          int64           `json:"id"`
	StockItemID int64           `json:"stock_item_id" db:"stock_item_id"`
	DimensionID int64           `json:"dimension_id" db:"dimension_id" binding:"required"`
	Value       decimal.Decimal `json:"value" db:"value"`
	UomID       int64           `json:"uom_id" db:"uom_id" binding:"required"`
	Dimension   *Dimension      `json:"dimension,omitempty"`
	Uom         *UnitOfMeasure  `json:"uom,omitempty"`
}

// StockMovement is an append-only record of a single change to a StockItem.
// Quantity is stored in the unit used at entry time; NormalizedDelta is the
// signed effect on the item's normalized quantity. The sum of all normalized
// deltas for a (product, warehouse) pair equals the current stock level there.
type StockMovement struct {
	ID              int64           `json:"id"`
	StockItemID     int64           `json:"stock_item_id" db:"stock_item_id"`
	ProductID       int64           `json:"product_id" db:"product_id"`
	WarehouseID     int64           `json:"warehouse_id" db:"warehouse_id"`
	MovementType    string          `json:"movement_type" db:"movement_type"`
	Quantity        decimal.Decimal `json:"quantity" db:"quantity"`
	UomID           int64           `json:"uom_id" db:"uom_id"`
	NormalizedDelta decimal.Decimal `json:"normalized_delta" db:"normalized_delta"`
	Reason          *string         `json:"reason,omitempty" db:"reason"`
	Reference       *string         `json:"reference,omitempty" db:"reference"` // Ties the two legs of a transfer together
	CreatedBy       *int64          `json:"created_by,omitempty" db:"created_by"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}
