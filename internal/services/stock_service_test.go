package services_test

import (
	"errors"
	"math/rand"
	"testing"

	"poultry_nexus_backend/internal/models"
	"poultry_nexus_backend/internal/services"
)

func netQuantityService() services.StockService {
	converter := services.NewQuantityConverter(lengthAndCountRepo())
	return services.NewStockService(nil, nil, nil, nil, nil, converter, nil)
}

func movement(movementType, quantity string, uomID int64) models.StockMovement {
	return models.StockMovement{MovementType: movementType, Quantity: dec(quantity), UomID: uomID}
}

func TestNetQuantity(t *testing.T) {
	stockService := netQuantityService()

	tests := []struct {
		name      string
		movements []models.StockMovement
		want      string
	}{
		{
			name: "inbound only",
			movements: []models.StockMovement{
				movement(models.MovementInbound, "100", 1),
				movement(models.MovementInbound, "50", 1),
			},
			want: "150",
		},
		{
			name: "mixed units normalize to base",
			movements: []models.StockMovement{
				movement(models.MovementInbound, "2", 2),    // 2 m = 2000 mm
				movement(models.MovementOutbound, "500", 1), // 500 mm
			},
			want: "1500",
		},
		{
			name: "transfers cancel in and out",
			movements: []models.StockMovement{
				movement(models.MovementInbound, "10", 2),
				movement(models.MovementTransferOut, "3", 2),
				movement(models.MovementTransferIn, "3", 2),
			},
			want: "10000",
		},
		{
			name: "adjustments carry their sign",
			movements: []models.StockMovement{
				movement(models.MovementInbound, "100", 1),
				movement(models.MovementAdjustment, "-30", 1),
				movement(models.MovementAdjustment, "5", 1),
			},
			want: "75",
		},
		{
			name:      "no movements",
			movements: nil,
			want:      "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := stockService.NetQuantity(tt.movements)
			if err != nil {
				t.Fatalf("NetQuantity returned error: %v", err)
			}
			if !got.Equal(dec(tt.want)) {
				t.Errorf("NetQuantity = %s, want %s", got, tt.want)
			}
		})
	}
}

// The fold must not depend on the order movements are read from the ledger.
func TestNetQuantityOrderIndependent(t *testing.T) {
	stockService := netQuantityService()

	movements := []models.StockMovement{
		movement(models.MovementInbound, "123.456", 1),
		movement(models.MovementInbound, "0.7", 2),
		movement(models.MovementOutbound, "33.3", 1),
		movement(models.MovementTransferOut, "0.05", 2),
		movement(models.MovementTransferIn, "17", 1),
		movement(models.MovementAdjustment, "-2.5", 1),
	}

	want, err := stockService.NetQuantity(movements)
	if err != nil {
		t.Fatalf("NetQuantity returned error: %v", err)
	}

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		shuffled := make([]models.StockMovement, len(movements))
		copy(shuffled, movements)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		got, err := stockService.NetQuantity(shuffled)
		if err != nil {
			t.Fatalf("NetQuantity returned error: %v", err)
		}
		if !got.Equal(want) {
			t.Fatalf("permutation %d changed the result: got %s, want %s", i, got, want)
		}
	}
}

func TestNetQuantityUnknownMovementType(t *testing.T) {
	stockService := netQuantityService()

	_, err := stockService.NetQuantity([]models.StockMovement{
		movement("teleport", "5", 1),
	})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestNetQuantityUnknownUnit(t *testing.T) {
	stockService := netQuantityService()

	_, err := stockService.NetQuantity([]models.StockMovement{
		movement(models.MovementInbound, "5", 99),
	})
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// Transfer legs recorded with mirrored deltas must always sum to zero, keeping
// total stock conserved across warehouses.
func TestTransferLegsConserveStock(t *testing.T) {
	stockService := netQuantityService()

	sourceHistory := []models.StockMovement{
		movement(models.MovementInbound, "10", 2),
		movement(models.MovementTransferOut, "4", 2),
	}
	destHistory := []models.StockMovement{
		movement(models.MovementTransferIn, "4", 2),
	}

	source, err := stockService.NetQuantity(sourceHistory)
	if err != nil {
		t.Fatalf("NetQuantity returned error: %v", err)
	}
	dest, err := stockService.NetQuantity(destHistory)
	if err != nil {
		t.Fatalf("NetQuantity returned error: %v", err)
	}

	if !source.Add(dest).Equal(dec("10000")) {
		t.Errorf("total after transfer = %s, want 10000 (10 m in base units)", source.Add(dest))
	}
	if !source.Equal(dec("6000")) {
		t.Errorf("source after transfer = %s, want 6000", source)
	}
	if !dest.Equal(dec("4000")) {
		t.Errorf("destination after transfer = %s, want 4000", dest)
	}
}
