package services

import (
	"database/sql"
	"errors"
	"fmt"

	"poultry_nexus_backend/internal/models"
	"poultry_nexus_backend/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- Stock DTOs ---

type StockDimensionInput struct {
	DimensionID int64           `json:"dimension_id" binding:"required"`
	Value       decimal.Decimal `json:"value" binding:"required"`
	UomID       int64           `json:"uom_id" binding:"required"`
}

type CreateStockEntryRequest struct {
	ProductID   int64                 `json:"product_id" binding:"required"`
	WarehouseID int64                 `json:"warehouse_id" binding:"required"`
	Quantity    decimal.Decimal       `json:"quantity" binding:"required"`
	UomID       int64                 `json:"uom_id" binding:"required"`
	Dimensions  []StockDimensionInput `json:"dimensions"`
	Reason      *string               `json:"reason"`
}

type IssueStockRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
	UomID    int64           `json:"uom_id" binding:"required"`
	Reason   *string         `json:"reason"`
}

type TransferStockRequest struct {
	ToWarehouseID int64           `json:"to_warehouse_id" binding:"required"`
	Quantity      decimal.Decimal `json:"quantity" binding:"required"`
	UomID         int64           `json:"uom_id" binding:"required"`
	Reason        *string         `json:"reason"`
}

type AdjustStockRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required"` // Signed; negative shrinks stock
	UomID    int64           `json:"uom_id" binding:"required"`
	Reason   *string         `json:"reason"`
}

type StockCountRequest struct {
	CountedQuantity decimal.Decimal `json:"counted_quantity"`
	UomID           int64           `json:"uom_id" binding:"required"`
}

// StockLevel is the current level of one product at one warehouse,
// expressed in the product's base unit.
type StockLevel struct {
	ProductID   int64           `json:"product_id"`
	WarehouseID int64           `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UomID       int64           `json:"uom_id"`
	UomSymbol   string          `json:"uom_symbol"`
}

// --- StockService Interface ---

type StockService interface {
	CreateEntry(req CreateStockEntryRequest, userID *int64) (*models.StockItem, error)
	GetItemByID(itemID int64) (*models.StockItem, error)
	GetItems(productID, warehouseID *int64, page, pageSize int) ([]models.StockItem, int, error)

	Issue(itemID int64, req IssueStockRequest, userID *int64) (*models.StockItem, error)
	Transfer(itemID int64, req TransferStockRequest, userID *int64) (*models.StockItem, error)
	Adjust(itemID int64, req AdjustStockRequest, userID *int64) (*models.StockItem, error)
	StockCount(itemID int64, req StockCountRequest, userID *int64) (*models.StockItem, error)

	GetMovements(productID, warehouseID *int64, movementType *string, page, pageSize int) ([]models.StockMovement, int, error)
	GetStockLevel(productID, warehouseID int64) (*StockLevel, error)

	// NetQuantity folds a list of movements into a single net quantity in the
	// product's base unit. The result does not depend on movement order.
	NetQuantity(movements []models.StockMovement) (decimal.Decimal, error)
}

// stockTx is the slice of *sql.Tx the stock flows use: an executor the
// repositories accept plus transaction control.
type stockTx interface {
	repositories.SQLExecutor
	Commit() error
	Rollback() error
}

type stockService struct {
	stockRepo     repositories.StockRepository
	productRepo   repositories.ProductRepository
	warehouseRepo repositories.WarehouseRepository
	uomRepo       repositories.UomRepository
	dimensionRepo repositories.DimensionRepository
	converter     QuantityConverter
	db            *sql.DB
	begin         func() (stockTx, error)
}

// NewStockService creates a new instance of StockService.
func NewStockService(
	stockRepo repositories.StockRepository,
	productRepo repositories.ProductRepository,
	warehouseRepo repositories.WarehouseRepository,
	uomRepo repositories.UomRepository,
	dimensionRepo repositories.DimensionRepository,
	converter QuantityConverter,
	db *sql.DB,
) StockService {
	s := &stockService{
		stockRepo:     stockRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		uomRepo:       uomRepo,
		dimensionRepo: dimensionRepo,
		converter:     converter,
		db:            db,
	}
	s.begin = func() (stockTx, error) {
		tx, err := s.begin()
		if err != nil {
			return nil, err
		}
		return tx, nil
	}
	return s
}

// normalize converts quantity from the given entry unit into the base unit of
// its group, checking that the entry unit is allowed for the product. Allowed
// units all share the default unit's group, so every stored normalized value
// is denominated in that one base unit.
func (s *stockService) normalize(executor repositories.SQLExecutor, product *models.Product, quantity decimal.Decimal, uomID int64) (decimal.Decimal, error) {
	allowed, err := s.productRepo.IsUomAllowed(executor, product.ID, uomID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to check allowed uoms: %w", err)
	}
	if !allowed {
		return decimal.Zero, fmt.Errorf("%w: unit %d is not allowed for product '%s'", ErrValidation, uomID, product.SKU)
	}
	return s.converter.ToBase(quantity, uomID)
}

// baseUnit resolves the base unit of the product's unit group, the unit every
// normalized quantity of the product is expressed in.
func (s *stockService) baseUnit(executor repositories.SQLExecutor, product *models.Product) (*models.UnitOfMeasure, error) {
	defaultUnit := product.DefaultUom
	if defaultUnit == nil {
		var err error
		defaultUnit, err = s.converter.ResolveUnit(product.DefaultUomID)
		if err != nil {
			return nil, err
		}
	}
	if defaultUnit.IsBase {
		return defaultUnit, nil
	}
	unit, err := s.uomRepo.GetBaseUnit(executor, defaultUnit.GroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base unit of group %d: %w", defaultUnit.GroupID, err)
	}
	return unit, nil
}

func (s *stockService) checkDimensions(productID int64, dimensions []StockDimensionInput) error {
	for _, dim := range dimensions {
		dimension, err := s.dimensionRepo.GetDimensionByID(dim.DimensionID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return fmt.Errorf("%w: dimension %d", ErrNotFound, dim.DimensionID)
			}
			return fmt.Errorf("failed to resolve dimension: %w", err)
		}
		attached, err := s.dimensionRepo.IsAttachedToProduct(s.db, productID, dim.DimensionID)
		if err != nil {
			return fmt.Errorf("failed to check dimension attachment: %w", err)
		}
		if !attached {
			return fmt.Errorf("%w: dimension '%s' is not attached to product %d", ErrValidation, dimension.Name, productID)
		}
		unit, err := s.uomRepo.GetUnitByID(dim.UomID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return fmt.Errorf("%w: uom unit %d", ErrNotFound, dim.UomID)
			}
			return fmt.Errorf("failed to resolve dimension uom: %w", err)
		}
		if unit.GroupID != dimension.UomGroupID {
			return fmt.Errorf("%w: dimension '%s' expects group %d units, got '%s' from group %d",
				ErrIncompatibleUnits, dimension.Name, dimension.UomGroupID, unit.Symbol, unit.GroupID)
		}
	}
	return nil
}

// CreateEntry creates a stock item together with its inbound movement,
// normalizing the entered quantity into the product's base unit.
func (s *stockService) CreateEntry(req CreateStockEntryRequest, userID *int64) (*models.StockItem, error) {
	if !req.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: quantity must be positive, got %s", ErrValidation, req.Quantity)
	}

	product, err := s.productRepo.GetProductByID(req.ProductID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, req.ProductID)
		}
		return nil, fmt.Errorf("failed to resolve product: %w", err)
	}
	if _, err := s.warehouseRepo.GetWarehouseByID(req.WarehouseID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: warehouse %d", ErrNotFound, req.WarehouseID)
		}
		return nil, fmt.Errorf("failed to resolve warehouse: %w", err)
	}
	if err := s.checkDimensions(req.ProductID, req.Dimensions); err != nil {
		return nil, err
	}

	tx, err := s.begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	normalized, err := s.normalize(tx, product, req.Quantity, req.UomID)
	if err != nil {
		return nil, err
	}

	item := &models.StockItem{
		ProductID:          req.ProductID,
		WarehouseID:        req.WarehouseID,
		InputQuantity:      req.Quantity,
		InputUomID:         req.UomID,
		NormalizedQuantity: normalized,
	}
	itemID, err := s.stockRepo.CreateItem(tx, item)
	if err != nil {
		return nil, fmt.Errorf("failed to create stock item: %w", err)
	}

	for _, dim := range req.Dimensions {
		err := s.stockRepo.AddItemDimension(tx, &models.StockItemDimension{
			StockItemID: itemID,
			DimensionID: dim.DimensionID,
			Value:       dim.Value,
			UomID:       dim.UomID,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to record stock item dimension: %w", err)
		}
	}

	movement := &models.StockMovement{
		StockItemID:     itemID,
		ProductID:       req.ProductID,
		WarehouseID:     req.WarehouseID,
		MovementType:    models.MovementInbound,
		Quantity:        req.Quantity,
		UomID:           req.UomID,
		NormalizedDelta: normalized,
		Reason:          req.Reason,
		CreatedBy:       userID,
	}
	if _, err := s.stockRepo.CreateMovement(tx, movement); err != nil {
		return nil, fmt.Errorf("failed to record inbound movement: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit stock entry: %w", err)
	}
	return s.GetItemByID(itemID)
}

func (s *stockService) GetItemByID(itemID int64) (*models.StockItem, error) {
	item, err := s.stockRepo.GetItemByID(itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: stock item %d", ErrNotFound, itemID)
		}
		return nil, fmt.Errorf("failed to get stock item: %w", err)
	}
	return item, nil
}

func (s *stockService) GetItems(productID, warehouseID *int64, page, pageSize int) ([]models.StockItem, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	return s.stockRepo.GetItems(productID, warehouseID, page, pageSize)
}

// Issue removes stock from an item, failing with ErrInsufficientStock when the
// converted quantity exceeds the current normalized level. The item row is
// locked for the duration of the transaction.
func (s *stockService) Issue(itemID int64, req IssueStockRequest, userID *int64) (*models.StockItem, error) {
	if !req.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: quantity must be positive, got %s", ErrValidation, req.Quantity)
	}

	tx, err := s.begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	item, err := s.stockRepo.GetItemForUpdate(tx, itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: stock item %d", ErrNotFound, itemID)
		}
		return nil, fmt.Errorf("failed to lock stock item: %w", err)
	}
	product, err := s.productRepo.GetProductByID(item.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve product: %w", err)
	}

	delta, err := s.normalize(tx, product, req.Quantity, req.UomID)
	if err != nil {
		return nil, err
	}
	if delta.GreaterThan(item.NormalizedQuantity) {
		return nil, fmt.Errorf("%w: requested %s base units, only %s available",
			ErrInsufficientStock, delta, item.NormalizedQuantity)
	}

	if _, err := s.stockRepo.ApplyQuantityDelta(tx, itemID, delta.Neg()); err != nil {
		return nil, fmt.Errorf("failed to apply stock delta: %w", err)
	}
	movement := &models.StockMovement{
		StockItemID:     itemID,
		ProductID:       item.ProductID,
		WarehouseID:     item.WarehouseID,
		MovementType:    models.MovementOutbound,
		Quantity:        req.Quantity,
		UomID:           req.UomID,
		NormalizedDelta: delta.Neg(),
		Reason:          req.Reason,
		CreatedBy:       userID,
	}
	if _, err := s.stockRepo.CreateMovement(tx, movement); err != nil {
		return nil, fmt.Errorf("failed to record outbound movement: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit stock issue: %w", err)
	}
	return s.GetItemByID(itemID)
}

// Transfer moves stock between warehouses in one transaction. Both legs share
// a generated reference so the pair can be reconstructed from the ledger; the
// destination item is created on first transfer, denominated in the product's
// base unit.
func (s *stockService) Transfer(itemID int64, req TransferStockRequest, userID *int64) (*models.StockItem, error) {
	if !req.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: quantity must be positive, got %s", ErrValidation, req.Quantity)
	}
	if _, err := s.warehouseRepo.GetWarehouseByID(req.ToWarehouseID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: warehouse %d", ErrNotFound, req.ToWarehouseID)
		}
		return nil, fmt.Errorf("failed to resolve destination warehouse: %w", err)
	}

	tx, err := s.begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	source, err := s.stockRepo.GetItemForUpdate(tx, itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: stock item %d", ErrNotFound, itemID)
		}
		return nil, fmt.Errorf("failed to lock source stock item: %w", err)
	}
	if source.WarehouseID == req.ToWarehouseID {
		return nil, fmt.Errorf("%w: source and destination warehouse are the same", ErrValidation)
	}
	product, err := s.productRepo.GetProductByID(source.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve product: %w", err)
	}

	delta, err := s.normalize(tx, product, req.Quantity, req.UomID)
	if err != nil {
		return nil, err
	}
	if delta.GreaterThan(source.NormalizedQuantity) {
		return nil, fmt.Errorf("%w: requested %s base units, only %s available",
			ErrInsufficientStock, delta, source.NormalizedQuantity)
	}

	dest, err := s.stockRepo.FindItemForUpdate(tx, source.ProductID, req.ToWarehouseID)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to lock destination stock item: %w", err)
	}
	if dest == nil {
		baseUom, err := s.baseUnit(tx, product)
		if err != nil {
			return nil, err
		}
		dest = &models.StockItem{
			ProductID:          source.ProductID,
			WarehouseID:        req.ToWarehouseID,
			InputQuantity:      decimal.Zero,
			InputUomID:         baseUom.ID,
			NormalizedQuantity: decimal.Zero,
		}
		if _, err := s.stockRepo.CreateItem(tx, dest); err != nil {
			return nil, fmt.Errorf("failed to create destination stock item: %w", err)
		}
	}

	if _, err := s.stockRepo.ApplyQuantityDelta(tx, source.ID, delta.Neg()); err != nil {
		return nil, fmt.Errorf("failed to debit source item: %w", err)
	}
	if _, err := s.stockRepo.ApplyQuantityDelta(tx, dest.ID, delta); err != nil {
		return nil, fmt.Errorf("failed to credit destination item: %w", err)
	}

	reference := uuid.NewString()
	outLeg := &models.StockMovement{
		StockItemID:     source.ID,
		ProductID:       source.ProductID,
		WarehouseID:     source.WarehouseID,
		MovementType:    models.MovementTransferOut,
		Quantity:        req.Quantity,
		UomID:           req.UomID,
		NormalizedDelta: delta.Neg(),
		Reason:          req.Reason,
		Reference:       &reference,
		CreatedBy:       userID,
	}
	if _, err := s.stockRepo.CreateMovement(tx, outLeg); err != nil {
		return nil, fmt.Errorf("failed to record transfer-out movement: %w", err)
	}
	inLeg := &models.StockMovement{
		StockItemID:     dest.ID,
		ProductID:       source.ProductID,
		WarehouseID:     req.ToWarehouseID,
		MovementType:    models.MovementTransferIn,
		Quantity:        req.Quantity,
		UomID:           req.UomID,
		NormalizedDelta: delta,
		Reason:          req.Reason,
		Reference:       &reference,
		CreatedBy:       userID,
	}
	if _, err := s.stockRepo.CreateMovement(tx, inLeg); err != nil {
		return nil, fmt.Errorf("failed to record transfer-in movement: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit stock transfer: %w", err)
	}
	return s.GetItemByID(source.ID)
}

// Adjust applies a signed correction. A negative adjustment may not take the
// item below zero.
func (s *stockService) Adjust(itemID int64, req AdjustStockRequest, userID *int64) (*models.StockItem, error) {
	if req.Quantity.IsZero() {
		return nil, fmt.Errorf("%w: adjustment quantity cannot be zero", ErrValidation)
	}

	tx, err := s.begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	item, err := s.stockRepo.GetItemForUpdate(tx, itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: stock item %d", ErrNotFound, itemID)
		}
		return nil, fmt.Errorf("failed to lock stock item: %w", err)
	}
	product, err := s.productRepo.GetProductByID(item.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve product: %w", err)
	}

	delta, err := s.normalize(tx, product, req.Quantity, req.UomID)
	if err != nil {
		return nil, err
	}
	if item.NormalizedQuantity.Add(delta).IsNegative() {
		return nil, fmt.Errorf("%w: adjustment of %s base units would take stock below zero (current %s)",
			ErrInsufficientStock, delta, item.NormalizedQuantity)
	}

	if _, err := s.stockRepo.ApplyQuantityDelta(tx, itemID, delta); err != nil {
		return nil, fmt.Errorf("failed to apply stock delta: %w", err)
	}
	movement := &models.StockMovement{
		StockItemID:     itemID,
		ProductID:       item.ProductID,
		WarehouseID:     item.WarehouseID,
		MovementType:    models.MovementAdjustment,
		Quantity:        req.Quantity,
		UomID:           req.UomID,
		NormalizedDelta: delta,
		Reason:          req.Reason,
		CreatedBy:       userID,
	}
	if _, err := s.stockRepo.CreateMovement(tx, movement); err != nil {
		return nil, fmt.Errorf("failed to record adjustment movement: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit stock adjustment: %w", err)
	}
	return s.GetItemByID(itemID)
}

// StockCount reconciles an item against a physically counted quantity. The
// difference is recorded as a single adjustment movement with a fixed reason;
// a count matching the current level records nothing.
func (s *stockService) StockCount(itemID int64, req StockCountRequest, userID *int64) (*models.StockItem, error) {
	if req.CountedQuantity.IsNegative() {
		return nil, fmt.Errorf("%w: counted quantity cannot be negative, got %s", ErrValidation, req.CountedQuantity)
	}

	tx, err := s.begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	item, err := s.stockRepo.GetItemForUpdate(tx, itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: stock item %d", ErrNotFound, itemID)
		}
		return nil, fmt.Errorf("failed to lock stock item: %w", err)
	}
	product, err := s.productRepo.GetProductByID(item.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve product: %w", err)
	}

	counted, err := s.normalize(tx, product, req.CountedQuantity, req.UomID)
	if err != nil {
		return nil, err
	}
	delta := counted.Sub(item.NormalizedQuantity)
	if delta.IsZero() {
		return s.GetItemByID(itemID)
	}

	if _, err := s.stockRepo.ApplyQuantityDelta(tx, itemID, delta); err != nil {
		return nil, fmt.Errorf("failed to apply stock delta: %w", err)
	}
	reason := models.ReasonStockCount
	quantity, err := s.converter.FromBase(delta, req.UomID)
	if err != nil {
		return nil, err
	}
	movement := &models.StockMovement{
		StockItemID:     itemID,
		ProductID:       item.ProductID,
		WarehouseID:     item.WarehouseID,
		MovementType:    models.MovementAdjustment,
		Quantity:        quantity,
		UomID:           req.UomID,
		NormalizedDelta: delta,
		Reason:          &reason,
		CreatedBy:       userID,
	}
	if _, err := s.stockRepo.CreateMovement(tx, movement); err != nil {
		return nil, fmt.Errorf("failed to record stock count adjustment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit stock count: %w", err)
	}
	return s.GetItemByID(itemID)
}

func (s *stockService) GetMovements(productID, warehouseID *int64, movementType *string, page, pageSize int) ([]models.StockMovement, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	return s.stockRepo.GetMovements(productID, warehouseID, movementType, page, pageSize)
}

// GetStockLevel folds a pair's full movement history rather than reading the
// materialized item quantity, so the ledger remains the source of truth.
func (s *stockService) GetStockLevel(productID, warehouseID int64) (*StockLevel, error) {
	product, err := s.productRepo.GetProductByID(productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, productID)
		}
		return nil, fmt.Errorf("failed to resolve product: %w", err)
	}
	if _, err := s.warehouseRepo.GetWarehouseByID(warehouseID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: warehouse %d", ErrNotFound, warehouseID)
		}
		return nil, fmt.Errorf("failed to resolve warehouse: %w", err)
	}

	movements, err := s.stockRepo.GetMovementsForPair(productID, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load movements: %w", err)
	}
	quantity, err := s.NetQuantity(movements)
	if err != nil {
		return nil, err
	}

	baseUom, err := s.baseUnit(s.db, product)
	if err != nil {
		return nil, err
	}
	return &StockLevel{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Quantity:    quantity,
		UomID:       baseUom.ID,
		UomSymbol:   baseUom.Symbol,
	}, nil
}

// NetQuantity sums the normalized effect of each movement: inbound and
// transfer-in add, outbound and transfer-out subtract, adjustments carry
// their own sign. Each quantity is converted to the base unit before summing,
// so exact decimal arithmetic makes the fold order-independent.
func (s *stockService) NetQuantity(movements []models.StockMovement) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, movement := range movements {
		converted, err := s.converter.ToBase(movement.Quantity, movement.UomID)
		if err != nil {
			return decimal.Zero, err
		}
		switch movement.MovementType {
		case models.MovementInbound, models.MovementTransferIn:
			total = total.Add(converted)
		case models.MovementOutbound, models.MovementTransferOut:
			total = total.Sub(converted)
		case models.MovementAdjustment:
			total = total.Add(converted)
		default:
			return decimal.Zero, fmt.Errorf("%w: unknown movement type '%s'", ErrValidation, movement.MovementType)
		}
	}
	return total, nil
}
