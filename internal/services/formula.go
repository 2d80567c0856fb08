package services

import (
	"fmt"

	"poultry_nexus_backend/internal/models"

	"github.com/shopspring/decimal"
)

// EvaluateFormula evaluates a flat block formula strictly left to right, with
// no operator precedence: 2 + 3 * 4 is 20, not 14. Parameter blocks resolve
// against parameters, product blocks against productQuantities (quantities of
// bundle products computed earlier in the same bundle).
func EvaluateFormula(blocks []models.FormulaBlock, parameters map[string]decimal.Decimal, productQuantities map[int64]decimal.Decimal) (decimal.Decimal, error) {
	if len(blocks) == 0 {
		return decimal.Zero, fmt.Errorf("%w: formula is empty", ErrFormula)
	}

	resolve := func(block models.FormulaBlock) (decimal.Decimal, error) {
		switch block.Type {
		case models.BlockConstant:
			if block.Value == nil {
				return decimal.Zero, fmt.Errorf("%w: constant block has no value", ErrFormula)
			}
			return *block.Value, nil
		case models.BlockParameter:
			value, ok := parameters[block.Name]
			if !ok {
				return decimal.Zero, fmt.Errorf("%w: unknown parameter '%s'", ErrFormula, block.Name)
			}
			return value, nil
		case models.BlockProduct:
			value, ok := productQuantities[block.ProductID]
			if !ok {
				return decimal.Zero, fmt.Errorf("%w: no computed quantity for product %d", ErrFormula, block.ProductID)
			}
			return value, nil
		case models.BlockOperator:
			return decimal.Zero, fmt.Errorf("%w: operator '%s' where an operand was expected", ErrFormula, block.Symbol)
		default:
			return decimal.Zero, fmt.Errorf("%w: unknown block type '%s'", ErrFormula, block.Type)
		}
	}

	total, err := resolve(blocks[0])
	if err != nil {
		return decimal.Zero, err
	}

	i := 1
	for i < len(blocks) {
		operator := blocks[i]
		if operator.Type != models.BlockOperator {
			return decimal.Zero, fmt.Errorf("%w: operand where an operator was expected at position %d", ErrFormula, i)
		}
		if i+1 >= len(blocks) {
			return decimal.Zero, fmt.Errorf("%w: formula ends with operator '%s'", ErrFormula, operator.Symbol)
		}
		operand, err := resolve(blocks[i+1])
		if err != nil {
			return decimal.Zero, err
		}

		switch operator.Symbol {
		case "+":
			total = total.Add(operand)
		case "-":
			total = total.Sub(operand)
		case "*":
			total = total.Mul(operand)
		case "/":
			if operand.IsZero() {
				return decimal.Zero, fmt.Errorf("%w: division by zero", ErrFormula)
			}
			total = total.Div(operand)
		default:
			return decimal.Zero, fmt.Errorf("%w: unsupported operator '%s'", ErrFormula, operator.Symbol)
		}
		i += 2
	}
	return total, nil
}

// ValidateFormula checks a formula's shape without evaluating it: operands and
// operators must alternate, starting and ending on an operand, and every block
// must carry the field its type requires. Used at bundle save time so broken
// formulas are rejected before any evaluation is attempted.
func ValidateFormula(blocks []models.FormulaBlock) error {
	if len(blocks) == 0 {
		return fmt.Errorf("%w: formula is empty", ErrFormula)
	}
	if len(blocks)%2 == 0 {
		return fmt.Errorf("%w: formula must alternate operands and operators", ErrFormula)
	}
	for i, block := range blocks {
		expectOperator := i%2 == 1
		isOperator := block.Type == models.BlockOperator
		if expectOperator != isOperator {
			if expectOperator {
				return fmt.Errorf("%w: operand where an operator was expected at position %d", ErrFormula, i)
			}
			return fmt.Errorf("%w: operator '%s' where an operand was expected at position %d", ErrFormula, block.Symbol, i)
		}
		switch block.Type {
		case models.BlockConstant:
			if block.Value == nil {
				return fmt.Errorf("%w: constant block at position %d has no value", ErrFormula, i)
			}
		case models.BlockParameter:
			if block.Name == "" {
				return fmt.Errorf("%w: parameter block at position %d has no name", ErrFormula, i)
			}
		case models.BlockProduct:
			if block.ProductID == 0 {
				return fmt.Errorf("%w: product block at position %d has no product", ErrFormula, i)
			}
		case models.BlockOperator:
			switch block.Symbol {
			case "+", "-", "*", "/":
			default:
				return fmt.Errorf("%w: unsupported operator '%s' at position %d", ErrFormula, block.Symbol, i)
			}
		default:
			return fmt.Errorf("%w: unknown block type '%s' at position %d", ErrFormula, block.Type, i)
		}
	}
	return nil
}
