package services_test

import (
	"errors"
	"testing"

	"poultry_nexus_backend/internal/models"
	"poultry_nexus_backend/internal/repositories"
	"poultry_nexus_backend/internal/services"
)

// fakeBundleRepo serves a fixed set of bundles.
type fakeBundleRepo struct {
	bundles map[int64]models.ProductBundle
}

func (f *fakeBundleRepo) GetBundleByID(id int64) (*models.ProductBundle, error) {
	bundle, ok := f.bundles[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &bundle, nil
}

func (f *fakeBundleRepo) CreateBundle(repositories.SQLExecutor, *models.ProductBundle) (int64, error) {
	return 0, nil
}
func (f *fakeBundleRepo) GetBundles(int, int) ([]models.ProductBundle, int, error) {
	return nil, 0, nil
}
func (f *fakeBundleRepo) UpdateBundle(repositories.SQLExecutor, *models.ProductBundle) error {
	return nil
}
func (f *fakeBundleRepo) DeleteBundle(repositories.SQLExecutor, int64) error { return nil }
func (f *fakeBundleRepo) ReplaceParameters(repositories.SQLExecutor, int64, []models.BundleParameter) error {
	return nil
}
func (f *fakeBundleRepo) ReplaceProducts(repositories.SQLExecutor, int64, []models.BundleProduct) error {
	return nil
}

func strPtr(s string) *string { return &s }

// A cage line: cage count derives from house length, legs derive from the cage
// count computed before them.
func cageLineBundle() *fakeBundleRepo {
	return &fakeBundleRepo{bundles: map[int64]models.ProductBundle{
		1: {
			ID:   1,
			Name: "Cage line",
			Parameters: []models.BundleParameter{
				{Name: "house_length", Type: models.ParameterNumber},
				{Name: "rows", Type: models.ParameterNumber, DefaultValue: strPtr("2")},
			},
			Products: []models.BundleProduct{
				{
					ProductID: 100, // cages: house_length / 2 * rows
					Formula: []models.FormulaBlock{
						parameter("house_length"), operator("/"), constant("2"), operator("*"), parameter("rows"),
					},
				},
				{
					ProductID: 200, // legs: cages * 4
					Formula: []models.FormulaBlock{
						productRef(100), operator("*"), constant("4"),
					},
				},
			},
		},
	}}
}

func TestEvaluateBundle(t *testing.T) {
	bundleService := services.NewBundleService(cageLineBundle(), nil, nil)

	result, err := bundleService.Evaluate(1, services.EvaluateBundleRequest{
		Parameters: map[string]string{"house_length": "60"},
	})
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}

	if len(result.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(result.Lines))
	}
	// house_length 60 / 2 * rows 2 (default) = 60 cages
	if !result.Lines[0].Quantity.Equal(dec("60")) {
		t.Errorf("cages = %s, want 60", result.Lines[0].Quantity)
	}
	// 60 cages * 4 = 240 legs
	if !result.Lines[1].Quantity.Equal(dec("240")) {
		t.Errorf("legs = %s, want 240", result.Lines[1].Quantity)
	}
}

func TestEvaluateBundleOverridesDefault(t *testing.T) {
	bundleService := services.NewBundleService(cageLineBundle(), nil, nil)

	result, err := bundleService.Evaluate(1, services.EvaluateBundleRequest{
		Parameters: map[string]string{"house_length": "60", "rows": "4"},
	})
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if !result.Lines[0].Quantity.Equal(dec("120")) {
		t.Errorf("cages = %s, want 120", result.Lines[0].Quantity)
	}
}

func TestEvaluateBundleErrors(t *testing.T) {
	bundleService := services.NewBundleService(cageLineBundle(), nil, nil)

	tests := []struct {
		name       string
		bundleID   int64
		parameters map[string]string
		wantErr    error
	}{
		{
			name:     "unknown bundle",
			bundleID: 99,
			wantErr:  services.ErrNotFound,
		},
		{
			name:       "missing required parameter",
			bundleID:   1,
			parameters: map[string]string{},
			wantErr:    services.ErrValidation,
		},
		{
			name:       "non-numeric parameter",
			bundleID:   1,
			parameters: map[string]string{"house_length": "long"},
			wantErr:    services.ErrValidation,
		},
		{
			name:       "undeclared parameter",
			bundleID:   1,
			parameters: map[string]string{"house_length": "60", "color": "red"},
			wantErr:    services.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := bundleService.Evaluate(tt.bundleID, services.EvaluateBundleRequest{Parameters: tt.parameters})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
