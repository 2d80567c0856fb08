package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"poultry_nexus_backend/internal/models"

	"github.com/lib/pq"
)

// DimensionRepository defines the interface for dimension-related database operations.
type DimensionRepository interface {
	CreateDimension(executor SQLExecutor, dimension *models.Dimension) (int64, error)
	GetDimensionByID(id int64) (*models.Dimension, error)
	GetDimensions(page, pageSize int) ([]models.Dimension, int, error)
	GetDimensionsByUomGroup(executor SQLExecutor, groupID int64) ([]models.Dimension, error)
	GetDimensionsByProduct(productID int64) ([]models.Dimension, error)
	UpdateDimension(executor SQLExecutor, dimension *models.Dimension) error
	DeleteDimension(executor SQLExecutor, id int64) error

	AttachToProduct(executor SQLExecutor, productID, dimensionID int64) error
	DetachFromProduct(executor SQLExecutor, productID, dimensionID int64) error
	IsAttachedToProduct(executor SQLExecutor, productID, dimensionID int64) (bool, error)
}

type dimensionRepository struct {
	db *sql.DB
}

// NewDimensionRepository creates a new instance of DimensionRepository.
func NewDimensionRepository(db *sql.DB) DimensionRepository {
	return &dimensionRepository{db: db}
}

func (r *dimensionRepository) CreateDimension(executor SQLExecutor, dimension *models.Dimension) (int64, error) {
	query := `INSERT INTO dimensions (name, uom_group_id, created_at, updated_at)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id`
	currentTime := time.Now()
	err := executor.QueryRow(query, dimension.Name, dimension.UomGroupID, currentTime, currentTime).Scan(&dimension.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code.Name() == "unique_violation" {
				return 0, fmt.Errorf("%w: dimension name '%s' already exists (constraint: %s)", ErrDuplicateKey, dimension.Name, pqErr.Constraint)
			}
			if pqErr.Code.Name() == "foreign_key_violation" {
				return 0, fmt.Errorf("%w: uom group %d does not exist (constraint: %s)", ErrForeignKey, dimension.UomGroupID, pqErr.Constraint)
			}
		}
		return 0, fmt.Errorf("%w: creating dimension: %v", ErrDatabaseError, err)
	}
	return dimension.ID, nil
}

func (r *dimensionRepository) GetDimensionByID(id int64) (*models.Dimension, error) {
	dimension := &models.Dimension{}
	var groupName string
	query := `SELECT d.id, d.name, d.uom_group_id, d.created_at, d.updated_at, g.name AS group_name
	          FROM dimensions d
	          JOIN uom_groups g ON d.uom_group_id = g.id
	          WHERE d.id = $1`
	err := r.db.QueryRow(query, id).Scan(
		&dimension.ID, &dimension.Name, &dimension.UomGroupID, &dimension.CreatedAt, &dimension.UpdatedAt, &groupName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting dimension by ID %d: %v", ErrDatabaseError, id, err)
	}
	dimension.UomGroup = &models.UomGroup{ID: dimension.UomGroupID, Name: groupName}
	return dimension, nil
}

func (r *dimensionRepository) GetDimensions(page, pageSize int) ([]models.Dimension, int, error) {
	dimensions := []models.Dimension{}
	totalCount := 0
	query := `SELECT d.id, d.name, d.uom_group_id, d.created_at, d.updated_at, g.name AS group_name,
	                 COUNT(*) OVER() AS total_count
	          FROM dimensions d
	          JOIN uom_groups g ON d.uom_group_id = g.id
	          ORDER BY d.name
	          LIMIT $1 OFFSET $2`
	offset := (page - 1) * pageSize
	rows, err := r.db.Query(query, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: getting dimensions: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var dimension models.Dimension
		var groupName string
		if err := rows.Scan(
			&dimension.ID, &dimension.Name, &dimension.UomGroupID, &dimension.CreatedAt, &dimension.UpdatedAt,
			&groupName, &totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning dimension: %v", ErrDatabaseError, err)
		}
		dimension.UomGroup = &models.UomGroup{ID: dimension.UomGroupID, Name: groupName}
		dimensions = append(dimensions, dimension)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating dimensions: %v", ErrDatabaseError, err)
	}
	return dimensions, totalCount, nil
}

// GetDimensionsByUomGroup answers "which dimensions are measured in group G",
// needed before a group can be deleted. It takes an executor so the group
// deletion flow can run the check inside its transaction.
func (r *dimensionRepository) GetDimensionsByUomGroup(executor SQLExecutor, groupID int64) ([]models.Dimension, error) {
	query := `SELECT id, name, uom_group_id, created_at, updated_at
	          FROM dimensions
	          WHERE uom_group_id = $1
	          ORDER BY name`
	return r.scanDimensionList(executor.Query(query, groupID))
}

func (r *dimensionRepository) GetDimensionsByProduct(productID int64) ([]models.Dimension, error) {
	query := `SELECT d.id, d.name, d.uom_group_id, d.created_at, d.updated_at
	          FROM dimensions d
	          JOIN product_dimensions pd ON pd.dimension_id = d.id
	          WHERE pd.product_id = $1
	          ORDER BY d.name`
	return r.scanDimensionList(r.db.Query(query, productID))
}

func (r *dimensionRepository) scanDimensionList(rows *sql.Rows, err error) ([]models.Dimension, error) {
	if err != nil {
		return nil, fmt.Errorf("%w: getting dimensions: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	dimensions := []models.Dimension{}
	for rows.Next() {
		var dimension models.Dimension
		if err := rows.Scan(
			&dimension.ID, &dimension.Name, &dimension.UomGroupID, &dimension.CreatedAt, &dimension.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning dimension: %v", ErrDatabaseError, err)
		}
		dimensions = append(dimensions, dimension)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating dimensions: %v", ErrDatabaseError, err)
	}
	return dimensions, nil
}

func (r *dimensionRepository) UpdateDimension(executor SQLExecutor, dimension *models.Dimension) error {
	query := `UPDATE dimensions SET name = $1, uom_group_id = $2, updated_at = $3 WHERE id = $4`
	result, err := executor.Exec(query, dimension.Name, dimension.UomGroupID, time.Now(), dimension.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: dimension name '%s' already exists (constraint: %s)", ErrDuplicateKey, dimension.Name, pqErr.Constraint)
		}
		return fmt.Errorf("%w: updating dimension ID %d: %v", ErrDatabaseError, dimension.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *dimensionRepository) DeleteDimension(executor SQLExecutor, id int64) error {
	result, err := executor.Exec("DELETE FROM dimensions WHERE id = $1", id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return fmt.Errorf("%w: dimension %d is still referenced (constraint: %s)", ErrForeignKey, id, pqErr.Constraint)
		}
		return fmt.Errorf("%w: deleting dimension ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *dimensionRepository) AttachToProduct(executor SQLExecutor, productID, dimensionID int64) error {
	query := `INSERT INTO product_dimensions (product_id, dimension_id, created_at) VALUES ($1, $2, $3)`
	_, err := executor.Exec(query, productID, dimensionID, time.Now())
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code.Name() == "unique_violation" {
				return fmt.Errorf("%w: dimension %d already attached to product %d", ErrDuplicateKey, dimensionID, productID)
			}
			if pqErr.Code.Name() == "foreign_key_violation" {
				return fmt.Errorf("%w: product %d or dimension %d does not exist (constraint: %s)", ErrForeignKey, productID, dimensionID, pqErr.Constraint)
			}
		}
		return fmt.Errorf("%w: attaching dimension %d to product %d: %v", ErrDatabaseError, dimensionID, productID, err)
	}
	return nil
}

func (r *dimensionRepository) DetachFromProduct(executor SQLExecutor, productID, dimensionID int64) error {
	result, err := executor.Exec(
		"DELETE FROM product_dimensions WHERE product_id = $1 AND dimension_id = $2", productID, dimensionID)
	if err != nil {
		return fmt.Errorf("%w: detaching dimension %d from product %d: %v", ErrDatabaseError, dimensionID, productID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *dimensionRepository) IsAttachedToProduct(executor SQLExecutor, productID, dimensionID int64) (bool, error) {
	var count int
	err := executor.QueryRow(
		"SELECT COUNT(*) FROM product_dimensions WHERE product_id = $1 AND dimension_id = $2",
		productID, dimensionID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("%w: checking dimension %d attachment to product %d: %v", ErrDatabaseError, dimensionID, productID, err)
	}
	return count > 0, nil
}
