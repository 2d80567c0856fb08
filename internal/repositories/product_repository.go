package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"poultry_nexus_backend/internal/models"

	"github.com/lib/pq"
)

// ProductRepository defines the interface for product-related database operations.
type ProductRepository interface {
	CreateProduct(executor SQLExecutor, product *models.Product) (int64, error)
	GetProductByID(id int64) (*models.Product, error)
	GetProducts(search *string, page, pageSize int) ([]models.Product, int, error)
	UpdateProduct(executor SQLExecutor, product *models.Product) error
	DeleteProduct(executor SQLExecutor, id int64) error

	SetAllowedUoms(executor SQLExecutor, productID int64, uomIDs []int64) error
	GetAllowedUoms(productID int64) ([]models.UnitOfMeasure, error)
	IsUomAllowed(executor SQLExecutor, productID, uomID int64) (bool, error)
	CountStockForProduct(executor SQLExecutor, productID int64) (int, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository.
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) CreateProduct(executor SQLExecutor, product *models.Product) (int64, error) {
	query := `INSERT INTO products (sku, name, description, default_uom_id, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id`
	currentTime := time.Now()
	err := executor.QueryRow(query,
		product.SKU, product.Name, product.Description, product.DefaultUomID, currentTime, currentTime,
	).Scan(&product.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code.Name() == "unique_violation" {
				return 0, fmt.Errorf("%w: product sku '%s' already exists (constraint: %s)", ErrDuplicateKey, product.SKU, pqErr.Constraint)
			}
			if pqErr.Code.Name() == "foreign_key_violation" {
				return 0, fmt.Errorf("%w: uom %d does not exist (constraint: %s)", ErrForeignKey, product.DefaultUomID, pqErr.Constraint)
			}
		}
		return 0, fmt.Errorf("%w: creating product: %v", ErrDatabaseError, err)
	}
	return product.ID, nil
}

func (r *productRepository) GetProductByID(id int64) (*models.Product, error) {
	product := &models.Product{}
	uom := models.UnitOfMeasure{}
	query := `SELECT p.id, p.sku, p.name, p.description, p.default_uom_id, p.created_at, p.updated_at,
	                 u.id, u.group_id, u.name, u.symbol, u.is_base, u.conversion_factor
	          FROM products p
	          JOIN uom_units u ON p.default_uom_id = u.id
	          WHERE p.id = $1`
	err := r.db.QueryRow(query, id).Scan(
		&product.ID, &product.SKU, &product.Name, &product.Description, &product.DefaultUomID,
		&product.CreatedAt, &product.UpdatedAt,
		&uom.ID, &uom.GroupID, &uom.Name, &uom.Symbol, &uom.IsBase, &uom.ConversionFactor,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting product by ID %d: %v", ErrDatabaseError, id, err)
	}
	product.DefaultUom = &uom

	allowed, err := r.GetAllowedUoms(id)
	if err != nil {
		return nil, err
	}
	product.AllowedUoms = allowed
	return product, nil
}

func (r *productRepository) GetProducts(search *string, page, pageSize int) ([]models.Product, int, error) {
	products := []models.Product{}
	totalCount := 0

	query := `SELECT p.id, p.sku, p.name, p.description, p.default_uom_id, p.created_at, p.updated_at,
	                 u.symbol, COUNT(*) OVER() AS total_count
	          FROM products p
	          JOIN uom_units u ON p.default_uom_id = u.id`
	var args []interface{}
	argCount := 1
	if search != nil && *search != "" {
		query += fmt.Sprintf(" WHERE p.name ILIKE $%d OR p.sku ILIKE $%d", argCount, argCount)
		args = append(args, "%"+*search+"%")
		argCount++
	}
	query += fmt.Sprintf(" ORDER BY p.name LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: getting products: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var product models.Product
		var uomSymbol string
		if err := rows.Scan(
			&product.ID, &product.SKU, &product.Name, &product.Description, &product.DefaultUomID,
			&product.CreatedAt, &product.UpdatedAt, &uomSymbol, &totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning product: %v", ErrDatabaseError, err)
		}
		product.DefaultUom = &models.UnitOfMeasure{ID: product.DefaultUomID, Symbol: uomSymbol}
		products = append(products, product)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating products: %v", ErrDatabaseError, err)
	}
	return products, totalCount, nil
}

func (r *productRepository) UpdateProduct(executor SQLExecutor, product *models.Product) error {
	query := `UPDATE products SET sku = $1, name = $2, description = $3, default_uom_id = $4, updated_at = $5
	          WHERE id = $6`
	result, err := executor.Exec(query,
		product.SKU, product.Name, product.Description, product.DefaultUomID, time.Now(), product.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: product sku '%s' already exists (constraint: %s)", ErrDuplicateKey, product.SKU, pqErr.Constraint)
		}
		return fmt.Errorf("%w: updating product ID %d: %v", ErrDatabaseError, product.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepository) DeleteProduct(executor SQLExecutor, id int64) error {
	result, err := executor.Exec("DELETE FROM products WHERE id = $1", id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return fmt.Errorf("%w: product %d is still referenced (constraint: %s)", ErrForeignKey, id, pqErr.Constraint)
		}
		return fmt.Errorf("%w: deleting product ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetAllowedUoms replaces the product's allowed-unit set.
func (r *productRepository) SetAllowedUoms(executor SQLExecutor, productID int64, uomIDs []int64) error {
	if _, err := executor.Exec("DELETE FROM product_uoms WHERE product_id = $1", productID); err != nil {
		return fmt.Errorf("%w: clearing allowed uoms for product %d: %v", ErrDatabaseError, productID, err)
	}
	for _, uomID := range uomIDs {
		_, err := executor.Exec(
			"INSERT INTO product_uoms (product_id, uom_id, created_at) VALUES ($1, $2, $3)",
			productID, uomID, time.Now())
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
				return fmt.Errorf("%w: uom %d does not exist (constraint: %s)", ErrForeignKey, uomID, pqErr.Constraint)
			}
			return fmt.Errorf("%w: adding allowed uom %d for product %d: %v", ErrDatabaseError, uomID, productID, err)
		}
	}
	return nil
}

func (r *productRepository) GetAllowedUoms(productID int64) ([]models.UnitOfMeasure, error) {
	units := []models.UnitOfMeasure{}
	query := `SELECT u.id, u.group_id, u.name, u.symbol, u.is_base, u.conversion_factor, u.created_at, u.updated_at
	          FROM uom_units u
	          JOIN product_uoms pu ON pu.uom_id = u.id
	          WHERE pu.product_id = $1
	          ORDER BY u.name`
	rows, err := r.db.Query(query, productID)
	if err != nil {
		return nil, fmt.Errorf("%w: getting allowed uoms for product %d: %v", ErrDatabaseError, productID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var unit models.UnitOfMeasure
		if err := rows.Scan(
			&unit.ID, &unit.GroupID, &unit.Name, &unit.Symbol, &unit.IsBase, &unit.ConversionFactor,
			&unit.CreatedAt, &unit.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning allowed uom: %v", ErrDatabaseError, err)
		}
		units = append(units, unit)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating allowed uoms: %v", ErrDatabaseError, err)
	}
	return units, nil
}

// IsUomAllowed reports whether the unit is usable for stock operations on the
// product: either the default unit or a member of the allowed set.
func (r *productRepository) IsUomAllowed(executor SQLExecutor, productID, uomID int64) (bool, error) {
	var count int
	query := `SELECT
	            (SELECT COUNT(*) FROM products WHERE id = $1 AND default_uom_id = $2) +
	            (SELECT COUNT(*) FROM product_uoms WHERE product_id = $1 AND uom_id = $2)`
	err := executor.QueryRow(query, productID, uomID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("%w: checking uom %d allowance for product %d: %v", ErrDatabaseError, uomID, productID, err)
	}
	return count > 0, nil
}

func (r *productRepository) CountStockForProduct(executor SQLExecutor, productID int64) (int, error) {
	var count int
	err := executor.QueryRow("SELECT COUNT(*) FROM stock_items WHERE product_id = $1", productID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting stock items for product %d: %v", ErrDatabaseError, productID, err)
	}
	return count, nil
}
