package services_test

import (
	"errors"
	"testing"

	"poultry_nexus_backend/internal/services"
)

func TestCreateUnitValidation(t *testing.T) {
	uomService := services.NewUomService(lengthAndCountRepo(), nil, nil)

	tests := []struct {
		name string
		req  services.CreateUomUnitRequest
	}{
		{
			name: "zero conversion factor",
			req: services.CreateUomUnitRequest{
				GroupID: 1, Name: "bad", Symbol: "b",
				ConversionFactor: decPtr("0"),
			},
		},
		{
			name: "negative conversion factor",
			req: services.CreateUomUnitRequest{
				GroupID: 1, Name: "bad", Symbol: "b",
				ConversionFactor: decPtr("-2"),
			},
		},
		{
			name: "base unit with factor other than one",
			req: services.CreateUomUnitRequest{
				GroupID: 1, Name: "bad base", Symbol: "bb", IsBase: true,
				ConversionFactor: decPtr("1000"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uomService.CreateUnit(tt.req)
			if !errors.Is(err, services.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestResolveUnit(t *testing.T) {
	uomService := services.NewUomService(lengthAndCountRepo(), nil, nil)

	unit, err := uomService.ResolveUnit(2)
	if err != nil {
		t.Fatalf("ResolveUnit returned error: %v", err)
	}
	if unit.Symbol != "m" {
		t.Errorf("symbol = %q, want %q", unit.Symbol, "m")
	}

	if _, err := uomService.ResolveUnit(99); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
