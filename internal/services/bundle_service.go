package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"poultry_nexus_backend/internal/models"
	"poultry_nexus_backend/internal/repositories"

	"github.com/shopspring/decimal"
)

// --- Bundle DTOs ---

type BundleParameterInput struct {
	Name         string   `json:"name" binding:"required"`
	Type         string   `json:"type" binding:"required"`
	DefaultValue *string  `json:"default_value"`
	Options      []string `json:"options"`
}

type BundleProductInput struct {
	ProductID int64                 `json:"product_id" binding:"required"`
	UomID     *int64                `json:"uom_id"`
	Formula   []models.FormulaBlock `json:"formula" binding:"required"`
}

type CreateBundleRequest struct {
	Name        string                 `json:"name" binding:"required"`
	Description *string                `json:"description"`
	Parameters  []BundleParameterInput `json:"parameters"`
	Products    []BundleProductInput   `json:"products" binding:"required"`
}

type UpdateBundleRequest struct {
	Name        *string                 `json:"name"`
	Description *string                 `json:"description"`
	Parameters  *[]BundleParameterInput `json:"parameters"`
	Products    *[]BundleProductInput   `json:"products"`
}

type EvaluateBundleRequest struct {
	Parameters map[string]string `json:"parameters"`
}

// BundleLine is one product's computed requirement from a bundle evaluation.
type BundleLine struct {
	ProductID  int64           `json:"product_id"`
	ProductSKU string          `json:"product_sku,omitempty"`
	Quantity   decimal.Decimal `json:"quantity"`
	UomID      *int64          `json:"uom_id,omitempty"`
}

// BundleEvaluation is the full result of instantiating a bundle with a set of
// parameter values.
type BundleEvaluation struct {
	BundleID   int64                      `json:"bundle_id"`
	Parameters map[string]decimal.Decimal `json:"parameters"`
	Lines      []BundleLine               `json:"lines"`
}

// --- BundleService Interface ---

type BundleService interface {
	CreateBundle(req CreateBundleRequest) (*models.ProductBundle, error)
	GetBundleByID(bundleID int64) (*models.ProductBundle, error)
	GetBundles(page, pageSize int) ([]models.ProductBundle, int, error)
	UpdateBundle(bundleID int64, req UpdateBundleRequest) (*models.ProductBundle, error)
	DeleteBundle(bundleID int64) error
	Evaluate(bundleID int64, req EvaluateBundleRequest) (*BundleEvaluation, error)
}

type bundleService struct {
	bundleRepo  repositories.BundleRepository
	productRepo repositories.ProductRepository
	db          *sql.DB
}

// NewBundleService creates a new instance of BundleService.
func NewBundleService(bundleRepo repositories.BundleRepository, productRepo repositories.ProductRepository, db *sql.DB) BundleService {
	return &bundleService{bundleRepo: bundleRepo, productRepo: productRepo, db: db}
}

func validParameterType(t string) bool {
	switch t {
	case models.ParameterNumber, models.ParameterText, models.ParameterSelect:
		return true
	}
	return false
}

func (s *bundleService) checkDefinition(parameters []BundleParameterInput, products []BundleProductInput) error {
	if len(products) == 0 {
		return fmt.Errorf("%w: a bundle needs at least one product", ErrValidation)
	}

	names := make(map[string]bool, len(parameters))
	for _, param := range parameters {
		name := strings.TrimSpace(param.Name)
		if name == "" {
			return fmt.Errorf("%w: parameter name cannot be empty", ErrValidation)
		}
		if names[name] {
			return fmt.Errorf("%w: duplicate parameter '%s'", ErrValidation, name)
		}
		names[name] = true
		if !validParameterType(param.Type) {
			return fmt.Errorf("%w: unknown parameter type '%s'", ErrValidation, param.Type)
		}
		if param.Type == models.ParameterSelect && len(param.Options) == 0 {
			return fmt.Errorf("%w: select parameter '%s' needs options", ErrValidation, name)
		}
	}

	// Product blocks may only reference products listed earlier in the bundle,
	// so evaluation can proceed in one forward pass.
	seenProducts := make(map[int64]bool, len(products))
	for _, bp := range products {
		if _, err := s.productRepo.GetProductByID(bp.ProductID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return fmt.Errorf("%w: product %d", ErrNotFound, bp.ProductID)
			}
			return fmt.Errorf("failed to resolve bundle product: %w", err)
		}
		if err := ValidateFormula(bp.Formula); err != nil {
			return err
		}
		for _, block := range bp.Formula {
			if block.Type == models.BlockParameter && !names[block.Name] {
				return fmt.Errorf("%w: formula references undeclared parameter '%s'", ErrFormula, block.Name)
			}
			if block.Type == models.BlockProduct && !seenProducts[block.ProductID] {
				return fmt.Errorf("%w: formula references product %d before it is computed", ErrFormula, block.ProductID)
			}
		}
		seenProducts[bp.ProductID] = true
	}
	return nil
}

func toParameterModels(bundleID int64, inputs []BundleParameterInput) []models.BundleParameter {
	parameters := make([]models.BundleParameter, 0, len(inputs))
	for _, in := range inputs {
		parameters = append(parameters, models.BundleParameter{
			BundleID:     bundleID,
			Name:         strings.TrimSpace(in.Name),
			Type:         in.Type,
			DefaultValue: in.DefaultValue,
			Options:      in.Options,
		})
	}
	return parameters
}

func toProductModels(bundleID int64, inputs []BundleProductInput) []models.BundleProduct {
	products := make([]models.BundleProduct, 0, len(inputs))
	for _, in := range inputs {
		products = append(products, models.BundleProduct{
			BundleID:  bundleID,
			ProductID: in.ProductID,
			UomID:     in.UomID,
			Formula:   in.Formula,
		})
	}
	return products
}

func (s *bundleService) CreateBundle(req CreateBundleRequest) (*models.ProductBundle, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: bundle name cannot be empty", ErrValidation)
	}
	if err := s.checkDefinition(req.Parameters, req.Products); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	bundle := &models.ProductBundle{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	}
	id, err := s.bundleRepo.CreateBundle(tx, bundle)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: bundle '%s' already exists", ErrValidation, req.Name)
		}
		return nil, fmt.Errorf("failed to create bundle: %w", err)
	}
	if err := s.bundleRepo.ReplaceParameters(tx, id, toParameterModels(id, req.Parameters)); err != nil {
		return nil, fmt.Errorf("failed to store bundle parameters: %w", err)
	}
	if err := s.bundleRepo.ReplaceProducts(tx, id, toProductModels(id, req.Products)); err != nil {
		return nil, fmt.Errorf("failed to store bundle products: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit bundle creation: %w", err)
	}
	return s.bundleRepo.GetBundleByID(id)
}

func (s *bundleService) GetBundleByID(bundleID int64) (*models.ProductBundle, error) {
	bundle, err := s.bundleRepo.GetBundleByID(bundleID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: bundle %d", ErrNotFound, bundleID)
		}
		return nil, fmt.Errorf("failed to get bundle: %w", err)
	}
	return bundle, nil
}

func (s *bundleService) GetBundles(page, pageSize int) ([]models.ProductBundle, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	return s.bundleRepo.GetBundles(page, pageSize)
}

func (s *bundleService) UpdateBundle(bundleID int64, req UpdateBundleRequest) (*models.ProductBundle, error) {
	bundle, err := s.GetBundleByID(bundleID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("%w: bundle name cannot be empty", ErrValidation)
		}
		bundle.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		bundle.Description = req.Description
	}

	// Validate the definition as it will exist after the update, mixing kept
	// and replaced parts.
	parameters := make([]BundleParameterInput, 0, len(bundle.Parameters))
	for _, p := range bundle.Parameters {
		parameters = append(parameters, BundleParameterInput{Name: p.Name, Type: p.Type, DefaultValue: p.DefaultValue, Options: p.Options})
	}
	if req.Parameters != nil {
		parameters = *req.Parameters
	}
	products := make([]BundleProductInput, 0, len(bundle.Products))
	for _, p := range bundle.Products {
		products = append(products, BundleProductInput{ProductID: p.ProductID, UomID: p.UomID, Formula: p.Formula})
	}
	if req.Products != nil {
		products = *req.Products
	}
	if err := s.checkDefinition(parameters, products); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.bundleRepo.UpdateBundle(tx, bundle); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: bundle '%s' already exists", ErrValidation, bundle.Name)
		}
		return nil, fmt.Errorf("failed to update bundle: %w", err)
	}
	if req.Parameters != nil {
		if err := s.bundleRepo.ReplaceParameters(tx, bundleID, toParameterModels(bundleID, *req.Parameters)); err != nil {
			return nil, fmt.Errorf("failed to store bundle parameters: %w", err)
		}
	}
	if req.Products != nil {
		if err := s.bundleRepo.ReplaceProducts(tx, bundleID, toProductModels(bundleID, *req.Products)); err != nil {
			return nil, fmt.Errorf("failed to store bundle products: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit bundle update: %w", err)
	}
	return s.bundleRepo.GetBundleByID(bundleID)
}

func (s *bundleService) DeleteBundle(bundleID int64) error {
	if err := s.bundleRepo.DeleteBundle(s.db, bundleID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: bundle %d", ErrNotFound, bundleID)
		}
		return fmt.Errorf("failed to delete bundle: %w", err)
	}
	return nil
}

// resolveParameters merges declared defaults with request overrides and parses
// number parameters. Text and select parameters are accepted but cannot be
// used in formulas, so they resolve to no numeric value.
func resolveParameters(declared []models.BundleParameter, supplied map[string]string) (map[string]decimal.Decimal, error) {
	values := make(map[string]decimal.Decimal, len(declared))
	for _, param := range declared {
		raw, ok := supplied[param.Name]
		if !ok {
			if param.DefaultValue == nil {
				if param.Type == models.ParameterNumber {
					return nil, fmt.Errorf("%w: parameter '%s' has no value and no default", ErrValidation, param.Name)
				}
				continue
			}
			raw = *param.DefaultValue
		}

		switch param.Type {
		case models.ParameterNumber:
			value, err := decimal.NewFromString(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: parameter '%s' is not numeric: %q", ErrValidation, param.Name, raw)
			}
			values[param.Name] = value
		case models.ParameterSelect:
			found := false
			for _, option := range param.Options {
				if option == raw {
					found = true
					break
				}
			}
			if !found {
				return nil, fmt.Errorf("%w: %q is not an option of parameter '%s'", ErrValidation, raw, param.Name)
			}
		case models.ParameterText:
			// Informational only.
		}
	}

	for name := range supplied {
		known := false
		for _, param := range declared {
			if param.Name == name {
				known = true
				break
			}
		}
		if !known {
			return nil, fmt.Errorf("%w: bundle does not declare parameter '%s'", ErrValidation, name)
		}
	}
	return values, nil
}

// Evaluate instantiates a bundle: parameter values are resolved, then each
// product's formula is evaluated in bundle order, with earlier results
// available to later formulas through product blocks.
func (s *bundleService) Evaluate(bundleID int64, req EvaluateBundleRequest) (*BundleEvaluation, error) {
	bundle, err := s.GetBundleByID(bundleID)
	if err != nil {
		return nil, err
	}

	parameters, err := resolveParameters(bundle.Parameters, req.Parameters)
	if err != nil {
		return nil, err
	}

	productQuantities := make(map[int64]decimal.Decimal, len(bundle.Products))
	lines := make([]BundleLine, 0, len(bundle.Products))
	for _, bp := range bundle.Products {
		quantity, err := EvaluateFormula(bp.Formula, parameters, productQuantities)
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", bp.ProductID, err)
		}
		productQuantities[bp.ProductID] = quantity

		line := BundleLine{ProductID: bp.ProductID, Quantity: quantity, UomID: bp.UomID}
		if bp.Product != nil {
			line.ProductSKU = bp.Product.SKU
		}
		lines = append(lines, line)
	}

	return &BundleEvaluation{
		BundleID:   bundleID,
		Parameters: parameters,
		Lines:      lines,
	}, nil
}
