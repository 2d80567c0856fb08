package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"poultry_nexus_backend/internal/models"

	"github.com/lib/pq"
)

// BundleRepository defines the interface for product bundle database operations.
// Formula block lists and select-parameter options are stored as JSONB.
type BundleRepository interface {
	CreateBundle(executor SQLExecutor, bundle *models.ProductBundle) (int64, error)
	GetBundleByID(id int64) (*models.ProductBundle, error)
	GetBundles(page, pageSize int) ([]models.ProductBundle, int, error)
	UpdateBundle(executor SQLExecutor, bundle *models.ProductBundle) error
	DeleteBundle(executor SQLExecutor, id int64) error

	ReplaceParameters(executor SQLExecutor, bundleID int64, parameters []models.BundleParameter) error
	ReplaceProducts(executor SQLExecutor, bundleID int64, products []models.BundleProduct) error
}

type bundleRepository struct {
	db *sql.DB
}

// NewBundleRepository creates a new instance of BundleRepository.
func NewBundleRepository(db *sql.DB) BundleRepository {
	return &bundleRepository{db: db}
}

func (r *bundleRepository) CreateBundle(executor SQLExecutor, bundle *models.ProductBundle) (int64, error) {
	query := `INSERT INTO product_bundles (name, description, created_at, updated_at)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id`
	currentTime := time.Now()
	err := executor.QueryRow(query, bundle.Name, bundle.Description, currentTime, currentTime).Scan(&bundle.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: bundle name '%s' already exists (constraint: %s)", ErrDuplicateKey, bundle.Name, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating product bundle: %v", ErrDatabaseError, err)
	}
	return bundle.ID, nil
}

func (r *bundleRepository) GetBundleByID(id int64) (*models.ProductBundle, error) {
	bundle := &models.ProductBundle{}
	query := `SELECT id, name, description, created_at, updated_at FROM product_bundles WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(
		&bundle.ID, &bundle.Name, &bundle.Description, &bundle.CreatedAt, &bundle.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting bundle by ID %d: %v", ErrDatabaseError, id, err)
	}

	parameters, err := r.getParameters(id)
	if err != nil {
		return nil, err
	}
	bundle.Parameters = parameters

	products, err := r.getProducts(id)
	if err != nil {
		return nil, err
	}
	bundle.Products = products
	return bundle, nil
}

func (r *bundleRepository) GetBundles(page, pageSize int) ([]models.ProductBundle, int, error) {
	bundles := []models.ProductBundle{}
	totalCount := 0
	query := `SELECT id, name, description, created_at, updated_at, COUNT(*) OVER() AS total_count
	          FROM product_bundles
	          ORDER BY name
	          LIMIT $1 OFFSET $2`
	offset := (page - 1) * pageSize
	rows, err := r.db.Query(query, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: getting product bundles: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var bundle models.ProductBundle
		if err := rows.Scan(
			&bundle.ID, &bundle.Name, &bundle.Description, &bundle.CreatedAt, &bundle.UpdatedAt, &totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning product bundle: %v", ErrDatabaseError, err)
		}
		bundles = append(bundles, bundle)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating product bundles: %v", ErrDatabaseError, err)
	}
	return bundles, totalCount, nil
}

func (r *bundleRepository) UpdateBundle(executor SQLExecutor, bundle *models.ProductBundle) error {
	query := `UPDATE product_bundles SET name = $1, description = $2, updated_at = $3 WHERE id = $4`
	result, err := executor.Exec(query, bundle.Name, bundle.Description, time.Now(), bundle.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: bundle name '%s' already exists (constraint: %s)", ErrDuplicateKey, bundle.Name, pqErr.Constraint)
		}
		return fmt.Errorf("%w: updating bundle ID %d: %v", ErrDatabaseError, bundle.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *bundleRepository) DeleteBundle(executor SQLExecutor, id int64) error {
	result, err := executor.Exec("DELETE FROM product_bundles WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("%w: deleting bundle ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *bundleRepository) getParameters(bundleID int64) ([]models.BundleParameter, error) {
	parameters := []models.BundleParameter{}
	query := `SELECT id, bundle_id, name, type, default_value, options
	          FROM bundle_parameters
	          WHERE bundle_id = $1
	          ORDER BY id`
	rows, err := r.db.Query(query, bundleID)
	if err != nil {
		return nil, fmt.Errorf("%w: getting parameters for bundle %d: %v", ErrDatabaseError, bundleID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var parameter models.BundleParameter
		var optionsJSON []byte
		if err := rows.Scan(
			&parameter.ID, &parameter.BundleID, &parameter.Name, &parameter.Type,
			&parameter.DefaultValue, &optionsJSON,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning bundle parameter: %v", ErrDatabaseError, err)
		}
		if len(optionsJSON) > 0 {
			if err := json.Unmarshal(optionsJSON, &parameter.Options); err != nil {
				return nil, fmt.Errorf("%w: decoding options of bundle parameter %d: %v", ErrDatabaseError, parameter.ID, err)
			}
		}
		parameters = append(parameters, parameter)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating bundle parameters: %v", ErrDatabaseError, err)
	}
	return parameters, nil
}

func (r *bundleRepository) getProducts(bundleID int64) ([]models.BundleProduct, error) {
	products := []models.BundleProduct{}
	query := `SELECT bp.id, bp.bundle_id, bp.product_id, bp.uom_id, bp.formula, p.sku, p.name, p.default_uom_id
	          FROM bundle_products bp
	          JOIN products p ON bp.product_id = p.id
	          WHERE bp.bundle_id = $1
	          ORDER BY bp.id`
	rows, err := r.db.Query(query, bundleID)
	if err != nil {
		return nil, fmt.Errorf("%w: getting products for bundle %d: %v", ErrDatabaseError, bundleID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var bundleProduct models.BundleProduct
		var formulaJSON []byte
		var uomID sql.NullInt64
		product := models.Product{}
		if err := rows.Scan(
			&bundleProduct.ID, &bundleProduct.BundleID, &bundleProduct.ProductID, &uomID, &formulaJSON,
			&product.SKU, &product.Name, &product.DefaultUomID,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning bundle product: %v", ErrDatabaseError, err)
		}
		if uomID.Valid {
			bundleProduct.UomID = &uomID.Int64
		}
		if len(formulaJSON) > 0 {
			if err := json.Unmarshal(formulaJSON, &bundleProduct.Formula); err != nil {
				return nil, fmt.Errorf("%w: decoding formula of bundle product %d: %v", ErrDatabaseError, bundleProduct.ID, err)
			}
		}
		product.ID = bundleProduct.ProductID
		bundleProduct.Product = &product
		products = append(products, bundleProduct)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating bundle products: %v", ErrDatabaseError, err)
	}
	return products, nil
}

// ReplaceParameters swaps the bundle's parameter set in one statement batch.
func (r *bundleRepository) ReplaceParameters(executor SQLExecutor, bundleID int64, parameters []models.BundleParameter) error {
	if _, err := executor.Exec("DELETE FROM bundle_parameters WHERE bundle_id = $1", bundleID); err != nil {
		return fmt.Errorf("%w: clearing parameters of bundle %d: %v", ErrDatabaseError, bundleID, err)
	}
	for i := range parameters {
		parameter := &parameters[i]
		var optionsJSON interface{}
		if len(parameter.Options) > 0 {
			encoded, err := json.Marshal(parameter.Options)
			if err != nil {
				return fmt.Errorf("%w: encoding options of parameter '%s': %v", ErrDatabaseError, parameter.Name, err)
			}
			optionsJSON = encoded
		}
		err := executor.QueryRow(
			`INSERT INTO bundle_parameters (bundle_id, name, type, default_value, options)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id`,
			bundleID, parameter.Name, parameter.Type, parameter.DefaultValue, optionsJSON,
		).Scan(&parameter.ID)
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
				return fmt.Errorf("%w: parameter '%s' declared twice in bundle %d", ErrDuplicateKey, parameter.Name, bundleID)
			}
			return fmt.Errorf("%w: inserting parameter '%s' of bundle %d: %v", ErrDatabaseError, parameter.Name, bundleID, err)
		}
		parameter.BundleID = bundleID
	}
	return nil
}

// ReplaceProducts swaps the bundle's product/formula set.
func (r *bundleRepository) ReplaceProducts(executor SQLExecutor, bundleID int64, products []models.BundleProduct) error {
	if _, err := executor.Exec("DELETE FROM bundle_products WHERE bundle_id = $1", bundleID); err != nil {
		return fmt.Errorf("%w: clearing products of bundle %d: %v", ErrDatabaseError, bundleID, err)
	}
	for i := range products {
		bundleProduct := &products[i]
		formulaJSON, err := json.Marshal(bundleProduct.Formula)
		if err != nil {
			return fmt.Errorf("%w: encoding formula for product %d in bundle %d: %v", ErrDatabaseError, bundleProduct.ProductID, bundleID, err)
		}
		var uomID sql.NullInt64
		if bundleProduct.UomID != nil {
			uomID = sql.NullInt64{Int64: *bundleProduct.UomID, Valid: true}
		}
		err = executor.QueryRow(
			`INSERT INTO bundle_products (bundle_id, product_id, uom_id, formula)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id`,
			bundleID, bundleProduct.ProductID, uomID, formulaJSON,
		).Scan(&bundleProduct.ID)
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
				return fmt.Errorf("%w: product %d does not exist (constraint: %s)", ErrForeignKey, bundleProduct.ProductID, pqErr.Constraint)
			}
			return fmt.Errorf("%w: inserting product %d into bundle %d: %v", ErrDatabaseError, bundleProduct.ProductID, bundleID, err)
		}
		bundleProduct.BundleID = bundleID
	}
	return nil
}
