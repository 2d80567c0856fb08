package services_test

import (
	"errors"
	"testing"

	"poultry_nexus_backend/internal/models"
	"poultry_nexus_backend/internal/services"

	"github.com/shopspring/decimal"
)

func constant(v string) models.FormulaBlock {
	d := dec(v)
	return models.FormulaBlock{Type: models.BlockConstant, Value: &d}
}

func parameter(name string) models.FormulaBlock {
	return models.FormulaBlock{Type: models.BlockParameter, Name: name}
}

func productRef(id int64) models.FormulaBlock {
	return models.FormulaBlock{Type: models.BlockProduct, ProductID: id}
}

func operator(symbol string) models.FormulaBlock {
	return models.FormulaBlock{Type: models.BlockOperator, Symbol: symbol}
}

func TestEvaluateFormula(t *testing.T) {
	params := map[string]decimal.Decimal{
		"length": dec("60"),
		"rows":   dec("4"),
	}
	products := map[int64]decimal.Decimal{
		7: dec("10"),
	}

	tests := []struct {
		name   string
		blocks []models.FormulaBlock
		want   string
	}{
		{
			name:   "single constant",
			blocks: []models.FormulaBlock{constant("5")},
			want:   "5",
		},
		{
			name:   "constant multiplication",
			blocks: []models.FormulaBlock{constant("2"), operator("*"), constant("3")},
			want:   "6",
		},
		{
			name:   "parameter times parameter",
			blocks: []models.FormulaBlock{parameter("length"), operator("*"), parameter("rows")},
			want:   "240",
		},
		{
			name:   "product quantity plus constant",
			blocks: []models.FormulaBlock{productRef(7), operator("+"), constant("5")},
			want:   "15",
		},
		{
			name:   "strict left to right, no precedence",
			blocks: []models.FormulaBlock{constant("2"), operator("+"), constant("3"), operator("*"), constant("4")},
			want:   "20",
		},
		{
			name:   "subtraction and division",
			blocks: []models.FormulaBlock{parameter("length"), operator("-"), constant("10"), operator("/"), constant("2")},
			want:   "25",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := services.EvaluateFormula(tt.blocks, params, products)
			if err != nil {
				t.Fatalf("EvaluateFormula returned error: %v", err)
			}
			if !got.Equal(dec(tt.want)) {
				t.Errorf("EvaluateFormula = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestEvaluateFormulaErrors(t *testing.T) {
	params := map[string]decimal.Decimal{"rows": dec("4")}

	tests := []struct {
		name   string
		blocks []models.FormulaBlock
	}{
		{name: "empty formula", blocks: nil},
		{name: "leading operator", blocks: []models.FormulaBlock{operator("+"), constant("1")}},
		{name: "trailing operator", blocks: []models.FormulaBlock{constant("1"), operator("+")}},
		{name: "consecutive operands", blocks: []models.FormulaBlock{constant("1"), constant("2")}},
		{name: "unknown parameter", blocks: []models.FormulaBlock{parameter("missing")}},
		{name: "unknown product", blocks: []models.FormulaBlock{productRef(99)}},
		{name: "division by zero", blocks: []models.FormulaBlock{constant("1"), operator("/"), constant("0")}},
		{name: "unsupported operator", blocks: []models.FormulaBlock{constant("1"), operator("%"), constant("2")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := services.EvaluateFormula(tt.blocks, params, nil)
			if !errors.Is(err, services.ErrFormula) {
				t.Errorf("expected ErrFormula, got %v", err)
			}
		})
	}
}

func TestValidateFormula(t *testing.T) {
	valid := []models.FormulaBlock{parameter("rows"), operator("*"), constant("2")}
	if err := services.ValidateFormula(valid); err != nil {
		t.Errorf("valid formula rejected: %v", err)
	}

	tests := []struct {
		name   string
		blocks []models.FormulaBlock
	}{
		{name: "empty", blocks: nil},
		{name: "even length", blocks: []models.FormulaBlock{constant("1"), operator("+")}},
		{name: "operator first", blocks: []models.FormulaBlock{operator("*"), constant("1"), constant("2")}},
		{name: "constant without value", blocks: []models.FormulaBlock{{Type: models.BlockConstant}}},
		{name: "parameter without name", blocks: []models.FormulaBlock{{Type: models.BlockParameter}}},
		{name: "bad operator symbol", blocks: []models.FormulaBlock{constant("1"), operator("^"), constant("2")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := services.ValidateFormula(tt.blocks); !errors.Is(err, services.ErrFormula) {
				t.Errorf("expected ErrFormula, got %v", err)
			}
		})
	}
}
