package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"poultry_nexus_backend/internal/models"

	"github.com/lib/pq"
)

// UomRepository defines the interface for unit-of-measure database operations.
type UomRepository interface {
	// UomGroup methods
	CreateGroup(executor SQLExecutor, group *models.UomGroup) (int64, error)
	GetGroupByID(id int64) (*models.UomGroup, error)
	GetGroups(page, pageSize int) ([]models.UomGroup, int, error)
	UpdateGroup(executor SQLExecutor, group *models.UomGroup) error
	DeleteGroup(executor SQLExecutor, id int64) error
	LockGroup(executor SQLExecutor, id int64) error
	CountUnitsInGroup(executor SQLExecutor, groupID int64) (int, error)

	// UnitOfMeasure methods
	CreateUnit(executor SQLExecutor, unit *models.UnitOfMeasure) (int64, error)
	GetUnitByID(id int64) (*models.UnitOfMeasure, error)
	GetUnitsInGroup(groupID int64) ([]models.UnitOfMeasure, error)
	GetBaseUnit(executor SQLExecutor, groupID int64) (*models.UnitOfMeasure, error)
	UpdateUnit(executor SQLExecutor, unit *models.UnitOfMeasure) error
	DeleteUnit(executor SQLExecutor, id int64) error
	CountUnitReferences(executor SQLExecutor, unitID int64) (int, error)
}

type uomRepository struct {
	db *sql.DB
}

// NewUomRepository creates a new instance of UomRepository.
func NewUomRepository(db *sql.DB) UomRepository {
	return &uomRepository{db: db}
}

// --- UomGroup Methods ---

func (r *uomRepository) CreateGroup(executor SQLExecutor, group *models.UomGroup) (int64, error) {
	query := `INSERT INTO uom_groups (name, created_at, updated_at)
	          VALUES ($1, $2, $3)
	          RETURNING id`
	currentTime := time.Now()
	err := executor.QueryRow(query, group.Name, currentTime, currentTime).Scan(&group.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: uom group name '%s' already exists (constraint: %s)", ErrDuplicateKey, group.Name, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating uom group: %v", ErrDatabaseError, err)
	}
	return group.ID, nil
}

func (r *uomRepository) GetGroupByID(id int64) (*models.UomGroup, error) {
	group := &models.UomGroup{}
	query := `SELECT id, name, created_at, updated_at FROM uom_groups WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(&group.ID, &group.Name, &group.CreatedAt, &group.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting uom group by ID %d: %v", ErrDatabaseError, id, err)
	}
	return group, nil
}

func (r *uomRepository) GetGroups(page, pageSize int) ([]models.UomGroup, int, error) {
	groups := []models.UomGroup{}
	totalCount := 0
	query := `SELECT id, name, created_at, updated_at, COUNT(*) OVER() AS total_count
	          FROM uom_groups
	          ORDER BY name
	          LIMIT $1 OFFSET $2`
	offset := (page - 1) * pageSize
	rows, err := r.db.Query(query, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: getting uom groups: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var group models.UomGroup
		if err := rows.Scan(&group.ID, &group.Name, &group.CreatedAt, &group.UpdatedAt, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning uom group: %v", ErrDatabaseError, err)
		}
		groups = append(groups, group)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating uom groups: %v", ErrDatabaseError, err)
	}
	return groups, totalCount, nil
}

func (r *uomRepository) UpdateGroup(executor SQLExecutor, group *models.UomGroup) error {
	query := `UPDATE uom_groups SET name = $1, updated_at = $2 WHERE id = $3`
	result, err := executor.Exec(query, group.Name, time.Now(), group.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: uom group name '%s' already exists (constraint: %s)", ErrDuplicateKey, group.Name, pqErr.Constraint)
		}
		return fmt.Errorf("%w: updating uom group ID %d: %v", ErrDatabaseError, group.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *uomRepository) DeleteGroup(executor SQLExecutor, id int64) error {
	result, err := executor.Exec("DELETE FROM uom_groups WHERE id = $1", id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return fmt.Errorf("%w: uom group %d is still referenced (constraint: %s)", ErrForeignKey, id, pqErr.Constraint)
		}
		return fmt.Errorf("%w: deleting uom group ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// LockGroup takes a row lock on the group for the duration of the surrounding
// transaction. Serializes concurrent base-unit writes within a group.
func (r *uomRepository) LockGroup(executor SQLExecutor, id int64) error {
	var lockedID int64
	err := executor.QueryRow("SELECT id FROM uom_groups WHERE id = $1 FOR UPDATE", id).Scan(&lockedID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: locking uom group ID %d: %v", ErrDatabaseError, id, err)
	}
	return nil
}

func (r *uomRepository) CountUnitsInGroup(executor SQLExecutor, groupID int64) (int, error) {
	var count int
	err := executor.QueryRow("SELECT COUNT(*) FROM uom_units WHERE group_id = $1", groupID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting units in group %d: %v", ErrDatabaseError, groupID, err)
	}
	return count, nil
}

// --- UnitOfMeasure Methods ---

func (r *uomRepository) CreateUnit(executor SQLExecutor, unit *models.UnitOfMeasure) (int64, error) {
	query := `INSERT INTO uom_units (group_id, name, symbol, is_base, conversion_factor, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`
	currentTime := time.Now()
	err := executor.QueryRow(query,
		unit.GroupID, unit.Name, unit.Symbol, unit.IsBase, unit.ConversionFactor, currentTime, currentTime,
	).Scan(&unit.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code.Name() == "unique_violation" {
				return 0, fmt.Errorf("%w: unit '%s' conflicts in group %d (constraint: %s)", ErrDuplicateKey, unit.Name, unit.GroupID, pqErr.Constraint)
			}
			if pqErr.Code.Name() == "foreign_key_violation" {
				return 0, fmt.Errorf("%w: uom group %d does not exist (constraint: %s)", ErrForeignKey, unit.GroupID, pqErr.Constraint)
			}
		}
		return 0, fmt.Errorf("%w: creating uom unit: %v", ErrDatabaseError, err)
	}
	return unit.ID, nil
}

func (r *uomRepository) GetUnitByID(id int64) (*models.UnitOfMeasure, error) {
	unit := &models.UnitOfMeasure{}
	var groupName string
	query := `SELECT u.id, u.group_id, u.name, u.symbol, u.is_base, u.conversion_factor, u.created_at, u.updated_at,
	                 g.name AS group_name
	          FROM uom_units u
	          JOIN uom_groups g ON u.group_id = g.id
	          WHERE u.id = $1`
	err := r.db.QueryRow(query, id).Scan(
		&unit.ID, &unit.GroupID, &unit.Name, &unit.Symbol, &unit.IsBase, &unit.ConversionFactor,
		&unit.CreatedAt, &unit.UpdatedAt, &groupName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting uom unit by ID %d: %v", ErrDatabaseError, id, err)
	}
	unit.Group = &models.UomGroup{ID: unit.GroupID, Name: groupName}
	return unit, nil
}

func (r *uomRepository) GetUnitsInGroup(groupID int64) ([]models.UnitOfMeasure, error) {
	units := []models.UnitOfMeasure{}
	query := `SELECT id, group_id, name, symbol, is_base, conversion_factor, created_at, updated_at
	          FROM uom_units
	          WHERE group_id = $1
	          ORDER BY name`
	rows, err := r.db.Query(query, groupID)
	if err != nil {
		return nil, fmt.Errorf("%w: getting units in group %d: %v", ErrDatabaseError, groupID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var unit models.UnitOfMeasure
		if err := rows.Scan(
			&unit.ID, &unit.GroupID, &unit.Name, &unit.Symbol, &unit.IsBase, &unit.ConversionFactor,
			&unit.CreatedAt, &unit.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning uom unit: %v", ErrDatabaseError, err)
		}
		units = append(units, unit)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating uom units: %v", ErrDatabaseError, err)
	}
	return units, nil
}

func (r *uomRepository) GetBaseUnit(executor SQLExecutor, groupID int64) (*models.UnitOfMeasure, error) {
	unit := &models.UnitOfMeasure{}
	query := `SELECT id, group_id, name, symbol, is_base, conversion_factor, created_at, updated_at
	          FROM uom_units
	          WHERE group_id = $1 AND is_base`
	err := executor.QueryRow(query, groupID).Scan(
		&unit.ID, &unit.GroupID, &unit.Name, &unit.Symbol, &unit.IsBase, &unit.ConversionFactor,
		&unit.CreatedAt, &unit.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting base unit of group %d: %v", ErrDatabaseError, groupID, err)
	}
	return unit, nil
}

func (r *uomRepository) UpdateUnit(executor SQLExecutor, unit *models.UnitOfMeasure) error {
	query := `UPDATE uom_units SET name = $1, symbol = $2, is_base = $3, conversion_factor = $4, updated_at = $5
	          WHERE id = $6`
	result, err := executor.Exec(query, unit.Name, unit.Symbol, unit.IsBase, unit.ConversionFactor, time.Now(), unit.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: unit '%s' conflicts in group %d (constraint: %s)", ErrDuplicateKey, unit.Name, unit.GroupID, pqErr.Constraint)
		}
		return fmt.Errorf("%w: updating uom unit ID %d: %v", ErrDatabaseError, unit.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *uomRepository) DeleteUnit(executor SQLExecutor, id int64) error {
	result, err := executor.Exec("DELETE FROM uom_units WHERE id = $1", id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return fmt.Errorf("%w: uom unit %d is still referenced (constraint: %s)", ErrForeignKey, id, pqErr.Constraint)
		}
		return fmt.Errorf("%w: deleting uom unit ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountUnitReferences counts rows in other tables that reference the unit:
// product default units, product allowed units, and stock entered in the unit.
// Used before delete to return a conflict instead of a raw constraint error.
func (r *uomRepository) CountUnitReferences(executor SQLExecutor, unitID int64) (int, error) {
	var count int
	query := `SELECT
	            (SELECT COUNT(*) FROM products WHERE default_uom_id = $1) +
	            (SELECT COUNT(*) FROM product_uoms WHERE uom_id = $1) +
	            (SELECT COUNT(*) FROM stock_items WHERE input_uom_id = $1) +
	            (SELECT COUNT(*) FROM stock_movements WHERE uom_id = $1)`
	err := executor.QueryRow(query, unitID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting references to unit %d: %v", ErrDatabaseError, unitID, err)
	}
	return count, nil
}
