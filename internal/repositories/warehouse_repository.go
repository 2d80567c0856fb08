package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"poultry_nexus_backend/internal/models"

	"github.com/lib/pq"
)

// WarehouseRepository defines the interface for warehouse-related database operations.
type WarehouseRepository interface {
	CreateWarehouse(executor SQLExecutor, warehouse *models.Warehouse) (int64, error)
	GetWarehouseByID(id int64) (*models.Warehouse, error)
	GetWarehouses(page, pageSize int) ([]models.Warehouse, int, error)
	UpdateWarehouse(executor SQLExecutor, warehouse *models.Warehouse) error
	DeleteWarehouse(executor SQLExecutor, id int64) error
	CountStockInWarehouse(executor SQLExecutor, warehouseID int64) (int, error)
}

type warehouseRepository struct {
	db *sql.DB
}

// NewWarehouseRepository creates a new instance of WarehouseRepository.
func NewWarehouseRepository(db *sql.DB) WarehouseRepository {
	return &warehouseRepository{db: db}
}

func (r *warehouseRepository) CreateWarehouse(executor SQLExecutor, warehouse *models.Warehouse) (int64, error) {
	query := `INSERT INTO warehouses (code, name, address, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id`
	currentTime := time.Now()
	err := executor.QueryRow(query,
		warehouse.Code, warehouse.Name, warehouse.Address, currentTime, currentTime,
	).Scan(&warehouse.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: warehouse code '%s' already exists (constraint: %s)", ErrDuplicateKey, warehouse.Code, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating warehouse: %v", ErrDatabaseError, err)
	}
	return warehouse.ID, nil
}

func (r *warehouseRepository) GetWarehouseByID(id int64) (*models.Warehouse, error) {
	warehouse := &models.Warehouse{}
	query := `SELECT id, code, name, address, created_at, updated_at FROM warehouses WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(
		&warehouse.ID, &warehouse.Code, &warehouse.Name, &warehouse.Address,
		&warehouse.CreatedAt, &warehouse.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting warehouse by ID %d: %v", ErrDatabaseError, id, err)
	}
	return warehouse, nil
}

func (r *warehouseRepository) GetWarehouses(page, pageSize int) ([]models.Warehouse, int, error) {
	warehouses := []models.Warehouse{}
	totalCount := 0
	query := `SELECT id, code, name, address, created_at, updated_at, COUNT(*) OVER() AS total_count
	          FROM warehouses
	          ORDER BY name
	          LIMIT $1 OFFSET $2`
	offset := (page - 1) * pageSize
	rows, err := r.db.Query(query, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: getting warehouses: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var warehouse models.Warehouse
		if err := rows.Scan(
			&warehouse.ID, &warehouse.Code, &warehouse.Name, &warehouse.Address,
			&warehouse.CreatedAt, &warehouse.UpdatedAt, &totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning warehouse: %v", ErrDatabaseError, err)
		}
		warehouses = append(warehouses, warehouse)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating warehouses: %v", ErrDatabaseError, err)
	}
	return warehouses, totalCount, nil
}

func (r *warehouseRepository) UpdateWarehouse(executor SQLExecutor, warehouse *models.Warehouse) error {
	query := `UPDATE warehouses SET code = $1, name = $2, address = $3, updated_at = $4 WHERE id = $5`
	result, err := executor.Exec(query, warehouse.Code, warehouse.Name, warehouse.Address, time.Now(), warehouse.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: warehouse code '%s' already exists (constraint: %s)", ErrDuplicateKey, warehouse.Code, pqErr.Constraint)
		}
		return fmt.Errorf("%w: updating warehouse ID %d: %v", ErrDatabaseError, warehouse.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *warehouseRepository) DeleteWarehouse(executor SQLExecutor, id int64) error {
	result, err := executor.Exec("DELETE FROM warehouses WHERE id = $1", id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return fmt.Errorf("%w: warehouse %d is still referenced (constraint: %s)", ErrForeignKey, id, pqErr.Constraint)
		}
		return fmt.Errorf("%w: deleting warehouse ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *warehouseRepository) CountStockInWarehouse(executor SQLExecutor, warehouseID int64) (int, error) {
	var count int
	err := executor.QueryRow("SELECT COUNT(*) FROM stock_items WHERE warehouse_id = $1", warehouseID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting stock items in warehouse %d: %v", ErrDatabaseError, warehouseID, err)
	}
	return count, nil
}
