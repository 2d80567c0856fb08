package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"poultry_nexus_backend/internal/models"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// StockRepository defines the interface for stock item and movement database operations.
// Movements are append-only; items are only updated through ApplyQuantityDelta so the
// ledger and the materialized level stay in step inside one transaction.
type StockRepository interface {
	CreateItem(executor SQLExecutor, item *models.StockItem) (int64, error)
	GetItemByID(id int64) (*models.StockItem, error)
	GetItemForUpdate(executor SQLExecutor, id int64) (*models.StockItem, error)
	FindItemForUpdate(executor SQLExecutor, productID, warehouseID int64) (*models.StockItem, error)
	GetItems(productID, warehouseID *int64, page, pageSize int) ([]models.StockItem, int, error)
	ApplyQuantityDelta(executor SQLExecutor, itemID int64, delta decimal.Decimal) (decimal.Decimal, error)

	CreateMovement(executor SQLExecutor, movement *models.StockMovement) (int64, error)
	GetMovements(productID, warehouseID *int64, movementType *string, page, pageSize int) ([]models.StockMovement, int, error)
	GetMovementsForPair(productID, warehouseID int64) ([]models.StockMovement, error)
	SumNormalizedDeltas(productID, warehouseID int64) (decimal.Decimal, error)

	AddItemDimension(executor SQLExecutor, dimension *models.StockItemDimension) error
	GetItemDimensions(itemID int64) ([]models.StockItemDimension, error)
}

type stockRepository struct {
	db *sql.DB
}

// NewStockRepository creates a new instance of StockRepository.
func NewStockRepository(db *sql.DB) StockRepository {
	return &stockRepository{db: db}
}

// --- StockItem Methods ---

func (r *stockRepository) CreateItem(executor SQLExecutor, item *models.StockItem) (int64, error) {
	query := `INSERT INTO stock_items
	          (product_id, warehouse_id, input_quantity, input_uom_id, normalized_quantity, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`
	currentTime := time.Now()
	err := executor.QueryRow(query,
		item.ProductID, item.WarehouseID, item.InputQuantity, item.InputUomID,
		item.NormalizedQuantity, currentTime, currentTime,
	).Scan(&item.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return 0, fmt.Errorf("%w: product, warehouse or uom missing (constraint: %s)", ErrForeignKey, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating stock item: %v", ErrDatabaseError, err)
	}
	return item.ID, nil
}

const stockItemSelect = `SELECT si.id, si.product_id, si.warehouse_id, si.input_quantity, si.input_uom_id,
	       si.normalized_quantity, si.created_at, si.updated_at,
	       p.sku, p.name, p.default_uom_id, w.code, w.name
	  FROM stock_items si
	  JOIN products p ON si.product_id = p.id
	  JOIN warehouses w ON si.warehouse_id = w.id`

func (r *stockRepository) scanItem(row scannerRow) (*models.StockItem, error) {
	item := &models.StockItem{}
	product := models.Product{}
	warehouse := models.Warehouse{}
	err := row.Scan(
		&item.ID, &item.ProductID, &item.WarehouseID, &item.InputQuantity, &item.InputUomID,
		&item.NormalizedQuantity, &item.CreatedAt, &item.UpdatedAt,
		&product.SKU, &product.Name, &product.DefaultUomID, &warehouse.Code, &warehouse.Name,
	)
	if err != nil {
		return nil, err
	}
	product.ID = item.ProductID
	warehouse.ID = item.WarehouseID
	item.Product = &product
	item.Warehouse = &warehouse
	return item, nil
}

// scannerRow is satisfied by *sql.Row and *sql.Rows.
type scannerRow interface {
	Scan(dest ...interface{}) error
}

func (r *stockRepository) GetItemByID(id int64) (*models.StockItem, error) {
	item, err := r.scanItem(r.db.QueryRow(stockItemSelect+" WHERE si.id = $1", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting stock item by ID %d: %v", ErrDatabaseError, id, err)
	}
	dimensions, err := r.GetItemDimensions(id)
	if err != nil {
		return nil, err
	}
	item.Dimensions = dimensions
	return item, nil
}

// GetItemForUpdate locks the item row for the surrounding transaction so the
// quantity check and the later delta cannot race with a concurrent writer.
func (r *stockRepository) GetItemForUpdate(executor SQLExecutor, id int64) (*models.StockItem, error) {
	query := `SELECT id, product_id, warehouse_id, input_quantity, input_uom_id, normalized_quantity,
	                 created_at, updated_at
	          FROM stock_items WHERE id = $1 FOR UPDATE`
	item := &models.StockItem{}
	err := executor.QueryRow(query, id).Scan(
		&item.ID, &item.ProductID, &item.WarehouseID, &item.InputQuantity, &item.InputUomID,
		&item.NormalizedQuantity, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: locking stock item ID %d: %v", ErrDatabaseError, id, err)
	}
	return item, nil
}

// FindItemForUpdate locates and locks the stock item for a (product, warehouse)
// pair. Returns ErrNotFound when the pair has no stock yet.
func (r *stockRepository) FindItemForUpdate(executor SQLExecutor, productID, warehouseID int64) (*models.StockItem, error) {
	query := `SELECT id, product_id, warehouse_id, input_quantity, input_uom_id, normalized_quantity,
	                 created_at, updated_at
	          FROM stock_items
	          WHERE product_id = $1 AND warehouse_id = $2
	          ORDER BY id
	          LIMIT 1
	          FOR UPDATE`
	item := &models.StockItem{}
	err := executor.QueryRow(query, productID, warehouseID).Scan(
		&item.ID, &item.ProductID, &item.WarehouseID, &item.InputQuantity, &item.InputUomID,
		&item.NormalizedQuantity, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: locking stock item for product %d in warehouse %d: %v", ErrDatabaseError, productID, warehouseID, err)
	}
	return item, nil
}

func (r *stockRepository) GetItems(productID, warehouseID *int64, page, pageSize int) ([]models.StockItem, int, error) {
	items := []models.StockItem{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT si.id, si.product_id, si.warehouse_id, si.input_quantity, si.input_uom_id,
	       si.normalized_quantity, si.created_at, si.updated_at,
	       p.sku, p.name, p.default_uom_id, w.code, w.name,
	       COUNT(*) OVER() AS total_count
	  FROM stock_items si
	  JOIN products p ON si.product_id = p.id
	  JOIN warehouses w ON si.warehouse_id = w.id`)

	var conditions []string
	var args []interface{}
	argCount := 1
	if productID != nil {
		conditions = append(conditions, fmt.Sprintf("si.product_id = $%d", argCount))
		args = append(args, *productID)
		argCount++
	}
	if warehouseID != nil {
		conditions = append(conditions, fmt.Sprintf("si.warehouse_id = $%d", argCount))
		args = append(args, *warehouseID)
		argCount++
	}
	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY p.name, w.name")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: getting stock items: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		item := models.StockItem{}
		product := models.Product{}
		warehouse := models.Warehouse{}
		if err := rows.Scan(
			&item.ID, &item.ProductID, &item.WarehouseID, &item.InputQuantity, &item.InputUomID,
			&item.NormalizedQuantity, &item.CreatedAt, &item.UpdatedAt,
			&product.SKU, &product.Name, &product.DefaultUomID, &warehouse.Code, &warehouse.Name,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning stock item: %v", ErrDatabaseError, err)
		}
		product.ID = item.ProductID
		warehouse.ID = item.WarehouseID
		item.Product = &product
		item.Warehouse = &warehouse
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating stock items: %v", ErrDatabaseError, err)
	}
	return items, totalCount, nil
}

// ApplyQuantityDelta adds delta (signed, in the product's base unit) to the
// item's normalized quantity and returns the new level.
func (r *stockRepository) ApplyQuantityDelta(executor SQLExecutor, itemID int64, delta decimal.Decimal) (decimal.Decimal, error) {
	var newQuantity decimal.Decimal
	query := `UPDATE stock_items
	          SET normalized_quantity = normalized_quantity + $1, updated_at = $2
	          WHERE id = $3
	          RETURNING normalized_quantity`
	err := executor.QueryRow(query, delta, time.Now(), itemID).Scan(&newQuantity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, ErrNotFound
		}
		return decimal.Zero, fmt.Errorf("%w: applying quantity delta to stock item %d: %v", ErrDatabaseError, itemID, err)
	}
	return newQuantity, nil
}

// --- StockMovement Methods ---

func (r *stockRepository) CreateMovement(executor SQLExecutor, movement *models.StockMovement) (int64, error) {
	query := `INSERT INTO stock_movements
	          (stock_item_id, product_id, warehouse_id, movement_type, quantity, uom_id,
	           normalized_delta, reason, reference, created_by, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	          RETURNING id`
	if movement.CreatedAt.IsZero() {
		movement.CreatedAt = time.Now()
	}

	var createdBy sql.NullInt64
	if movement.CreatedBy != nil {
		createdBy = sql.NullInt64{Int64: *movement.CreatedBy, Valid: true}
	}

	err := executor.QueryRow(query,
		movement.StockItemID, movement.ProductID, movement.WarehouseID, movement.MovementType,
		movement.Quantity, movement.UomID, movement.NormalizedDelta,
		movement.Reason, movement.Reference, createdBy, movement.CreatedAt,
	).Scan(&movement.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return 0, fmt.Errorf("%w: stock movement references missing row (constraint: %s)", ErrForeignKey, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating stock movement: %v", ErrDatabaseError, err)
	}
	return movement.ID, nil
}

func (r *stockRepository) GetMovements(productID, warehouseID *int64, movementType *string, page, pageSize int) ([]models.StockMovement, int, error) {
	movements := []models.StockMovement{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT sm.id, sm.stock_item_id, sm.product_id, sm.warehouse_id, sm.movement_type,
	       sm.quantity, sm.uom_id, sm.normalized_delta, sm.reason, sm.reference, sm.created_by, sm.created_at,
	       COUNT(*) OVER() AS total_count
	  FROM stock_movements sm`)

	var conditions []string
	var args []interface{}
	argCount := 1
	if productID != nil {
		conditions = append(conditions, fmt.Sprintf("sm.product_id = $%d", argCount))
		args = append(args, *productID)
		argCount++
	}
	if warehouseID != nil {
		conditions = append(conditions, fmt.Sprintf("sm.warehouse_id = $%d", argCount))
		args = append(args, *warehouseID)
		argCount++
	}
	if movementType != nil && *movementType != "" {
		conditions = append(conditions, fmt.Sprintf("sm.movement_type = $%d", argCount))
		args = append(args, *movementType)
		argCount++
	}
	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY sm.created_at DESC, sm.id DESC")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: getting stock movements: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var movement models.StockMovement
		var createdBy sql.NullInt64
		if err := rows.Scan(
			&movement.ID, &movement.StockItemID, &movement.ProductID, &movement.WarehouseID,
			&movement.MovementType, &movement.Quantity, &movement.UomID, &movement.NormalizedDelta,
			&movement.Reason, &movement.Reference, &createdBy, &movement.CreatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning stock movement: %v", ErrDatabaseError, err)
		}
		if createdBy.Valid {
			movement.CreatedBy = &createdBy.Int64
		}
		movements = append(movements, movement)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating stock movements: %v", ErrDatabaseError, err)
	}
	return movements, totalCount, nil
}

func (r *stockRepository) GetMovementsForPair(productID, warehouseID int64) ([]models.StockMovement, error) {
	movements := []models.StockMovement{}
	query := `SELECT id, stock_item_id, product_id, warehouse_id, movement_type, quantity, uom_id,
	                 normalized_delta, reason, reference, created_by, created_at
	          FROM stock_movements
	          WHERE product_id = $1 AND warehouse_id = $2
	          ORDER BY created_at, id`
	rows, err := r.db.Query(query, productID, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("%w: getting movements for product %d in warehouse %d: %v", ErrDatabaseError, productID, warehouseID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var movement models.StockMovement
		var createdBy sql.NullInt64
		if err := rows.Scan(
			&movement.ID, &movement.StockItemID, &movement.ProductID, &movement.WarehouseID,
			&movement.MovementType, &movement.Quantity, &movement.UomID, &movement.NormalizedDelta,
			&movement.Reason, &movement.Reference, &createdBy, &movement.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning stock movement: %v", ErrDatabaseError, err)
		}
		if createdBy.Valid {
			movement.CreatedBy = &createdBy.Int64
		}
		movements = append(movements, movement)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating stock movements: %v", ErrDatabaseError, err)
	}
	return movements, nil
}

// SumNormalizedDeltas returns the ledger total for a (product, warehouse) pair.
// Invariant: equals the sum of normalized quantities of that pair's items.
func (r *stockRepository) SumNormalizedDeltas(productID, warehouseID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	query := `SELECT COALESCE(SUM(normalized_delta), 0)
	          FROM stock_movements
	          WHERE product_id = $1 AND warehouse_id = $2`
	err := r.db.QueryRow(query, productID, warehouseID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: summing normalized deltas for product %d in warehouse %d: %v", ErrDatabaseError, productID, warehouseID, err)
	}
	return total, nil
}

// --- StockItemDimension Methods ---

func (r *stockRepository) AddItemDimension(executor SQLExecutor, dimension *models.StockItemDimension) error {
	query := `INSERT INTO stock_item_dimensions (stock_item_id, dimension_id, value, uom_id)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id`
	err := executor.QueryRow(query,
		dimension.StockItemID, dimension.DimensionID, dimension.Value, dimension.UomID,
	).Scan(&dimension.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code.Name() == "unique_violation" {
				return fmt.Errorf("%w: dimension %d already recorded for stock item %d", ErrDuplicateKey, dimension.DimensionID, dimension.StockItemID)
			}
			if pqErr.Code.Name() == "foreign_key_violation" {
				return fmt.Errorf("%w: stock item, dimension or uom missing (constraint: %s)", ErrForeignKey, pqErr.Constraint)
			}
		}
		return fmt.Errorf("%w: adding dimension value to stock item %d: %v", ErrDatabaseError, dimension.StockItemID, err)
	}
	return nil
}

func (r *stockRepository) GetItemDimensions(itemID int64) ([]models.StockItemDimension, error) {
	dimensions := []models.StockItemDimension{}
	query := `SELECT sid.id, sid.stock_item_id, sid.dimension_id, sid.value, sid.uom_id,
	                 d.name, u.symbol
	          FROM stock_item_dimensions sid
	          JOIN dimensions d ON sid.dimension_id = d.id
	          JOIN uom_units u ON sid.uom_id = u.id
	          WHERE sid.stock_item_id = $1
	          ORDER BY d.name`
	rows, err := r.db.Query(query, itemID)
	if err != nil {
		return nil, fmt.Errorf("%w: getting dimensions for stock item %d: %v", ErrDatabaseError, itemID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var dimension models.StockItemDimension
		var dimensionName, uomSymbol string
		if err := rows.Scan(
			&dimension.ID, &dimension.StockItemID, &dimension.DimensionID, &dimension.Value, &dimension.UomID,
			&dimensionName, &uomSymbol,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning stock item dimension: %v", ErrDatabaseError, err)
		}
		dimension.Dimension = &models.Dimension{ID: dimension.DimensionID, Name: dimensionName}
		dimension.Uom = &models.UnitOfMeasure{ID: dimension.UomID, Symbol: uomSymbol}
		dimensions = append(dimensions, dimension)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating stock item dimensions: %v", ErrDatabaseError, err)
	}
	return dimensions, nil
}
