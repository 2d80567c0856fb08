package services

import (
	"database/sql"
	"errors"
	"testing"

	"poultry_nexus_backend/internal/models"
	"poultry_nexus_backend/internal/repositories"

	"github.com/shopspring/decimal"
)

// noopTx stands in for *sql.Tx in flows whose repositories never touch the
// executor.
type noopTx struct{}

func (noopTx) Exec(string, ...interface{}) (sql.Result, error) { return nil, nil }
func (noopTx) QueryRow(string, ...interface{}) *sql.Row        { return nil }
func (noopTx) Query(string, ...interface{}) (*sql.Rows, error) { return nil, nil }
func (noopTx) Commit() error                                   { return nil }
func (noopTx) Rollback() error                                 { return nil }

// flowUomRepo serves two fixed length units: mm (id 1, base) and m (id 2,
// factor 1000). Embedding keeps the unused interface methods off the page.
type flowUomRepo struct {
	repositories.UomRepository
}

func (flowUomRepo) GetUnitByID(id int64) (*models.UnitOfMeasure, error) {
	switch id {
	case 1:
		return &models.UnitOfMeasure{ID: 1, GroupID: 1, Symbol: "mm", IsBase: true, ConversionFactor: decimal.NewFromInt(1)}, nil
	case 2:
		return &models.UnitOfMeasure{ID: 2, GroupID: 1, Symbol: "m", ConversionFactor: decimal.NewFromInt(1000)}, nil
	}
	return nil, repositories.ErrNotFound
}

func (f flowUomRepo) GetBaseUnit(_ repositories.SQLExecutor, groupID int64) (*models.UnitOfMeasure, error) {
	if groupID == 1 {
		return f.GetUnitByID(1)
	}
	return nil, repositories.ErrNotFound
}

type flowProductRepo struct {
	repositories.ProductRepository
	product *models.Product
}

func (f *flowProductRepo) GetProductByID(id int64) (*models.Product, error) {
	if f.product != nil && f.product.ID == id {
		return f.product, nil
	}
	return nil, repositories.ErrNotFound
}

func (f *flowProductRepo) IsUomAllowed(_ repositories.SQLExecutor, _, uomID int64) (bool, error) {
	return uomID == 1 || uomID == 2, nil
}

type flowWarehouseRepo struct {
	repositories.WarehouseRepository
}

func (flowWarehouseRepo) GetWarehouseByID(id int64) (*models.Warehouse, error) {
	return &models.Warehouse{ID: id, Code: "WH", Name: "Warehouse"}, nil
}

// flowStockRepo is an in-memory ledger recording every delta and movement so
// tests can assert what a failed flow left behind.
type flowStockRepo struct {
	repositories.StockRepository
	items      map[int64]*models.StockItem
	movements  []models.StockMovement
	nextID     int64
	deltaCalls int
}

func newFlowStockRepo() *flowStockRepo {
	return &flowStockRepo{items: map[int64]*models.StockItem{}, nextID: 1}
}

func (f *flowStockRepo) CreateItem(_ repositories.SQLExecutor, item *models.StockItem) (int64, error) {
	item.ID = f.nextID
	f.nextID++
	stored := *item
	f.items[stored.ID] = &stored
	return stored.ID, nil
}

func (f *flowStockRepo) GetItemByID(id int64) (*models.StockItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *item
	return &copied, nil
}

func (f *flowStockRepo) GetItemForUpdate(_ repositories.SQLExecutor, id int64) (*models.StockItem, error) {
	return f.GetItemByID(id)
}

func (f *flowStockRepo) FindItemForUpdate(_ repositories.SQLExecutor, productID, warehouseID int64) (*models.StockItem, error) {
	for _, item := range f.items {
		if item.ProductID == productID && item.WarehouseID == warehouseID {
			copied := *item
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *flowStockRepo) ApplyQuantityDelta(_ repositories.SQLExecutor, itemID int64, delta decimal.Decimal) (decimal.Decimal, error) {
	f.deltaCalls++
	item, ok := f.items[itemID]
	if !ok {
		return decimal.Zero, repositories.ErrNotFound
	}
	item.NormalizedQuantity = item.NormalizedQuantity.Add(delta)
	return item.NormalizedQuantity, nil
}

func (f *flowStockRepo) CreateMovement(_ repositories.SQLExecutor, movement *models.StockMovement) (int64, error) {
	movement.ID = int64(len(f.movements) + 1)
	f.movements = append(f.movements, *movement)
	return movement.ID, nil
}

func (f *flowStockRepo) GetMovementsForPair(productID, warehouseID int64) ([]models.StockMovement, error) {
	var movements []models.StockMovement
	for _, movement := range f.movements {
		if movement.ProductID == productID && movement.WarehouseID == warehouseID {
			movements = append(movements, movement)
		}
	}
	return movements, nil
}

func (f *flowStockRepo) AddItemDimension(repositories.SQLExecutor, *models.StockItemDimension) error {
	return nil
}

// metrePanel is a product whose default unit (m) is not its group's base unit
// (mm), the case where mixing up the two units would corrupt the ledger.
func metrePanel() *models.Product {
	return &models.Product{
		ID:           1,
		SKU:          "CAGE-PANEL",
		Name:         "Cage panel",
		DefaultUomID: 2,
		DefaultUom:   &models.UnitOfMeasure{ID: 2, GroupID: 1, Symbol: "m", ConversionFactor: decimal.NewFromInt(1000)},
	}
}

func flowStockService(stockRepo *flowStockRepo, product *models.Product) *stockService {
	uomRepo := flowUomRepo{}
	s := &stockService{
		stockRepo:     stockRepo,
		productRepo:   &flowProductRepo{product: product},
		warehouseRepo: flowWarehouseRepo{},
		uomRepo:       uomRepo,
		converter:     NewQuantityConverter(uomRepo),
	}
	s.begin = func() (stockTx, error) { return noopTx{}, nil }
	return s
}

// Entry, movement and recomputed level must all agree on one unit: the group
// base, even when the product's default unit is a larger one.
func TestStockEntryMatchesLedgerLevel(t *testing.T) {
	stockRepo := newFlowStockRepo()
	service := flowStockService(stockRepo, metrePanel())

	item, err := service.CreateEntry(CreateStockEntryRequest{
		ProductID:   1,
		WarehouseID: 1,
		Quantity:    decimal.NewFromInt(2),
		UomID:       2,
	}, nil)
	if err != nil {
		t.Fatalf("CreateEntry returned error: %v", err)
	}
	if !item.NormalizedQuantity.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("stored normalized quantity = %s, want 2000 (2 m in mm)", item.NormalizedQuantity)
	}

	if len(stockRepo.movements) != 1 {
		t.Fatalf("recorded %d movements, want 1", len(stockRepo.movements))
	}
	if !stockRepo.movements[0].NormalizedDelta.Equal(item.NormalizedQuantity) {
		t.Errorf("movement delta %s != stored normalized quantity %s",
			stockRepo.movements[0].NormalizedDelta, item.NormalizedQuantity)
	}

	level, err := service.GetStockLevel(1, 1)
	if err != nil {
		t.Fatalf("GetStockLevel returned error: %v", err)
	}
	if !level.Quantity.Equal(item.NormalizedQuantity) {
		t.Errorf("ledger level %s != stored normalized quantity %s", level.Quantity, item.NormalizedQuantity)
	}
	if level.UomID != 1 || level.UomSymbol != "mm" {
		t.Errorf("level unit = %d (%q), want 1 (mm)", level.UomID, level.UomSymbol)
	}
}

func TestIssueInsufficientStockLeavesStateUnchanged(t *testing.T) {
	stockRepo := newFlowStockRepo()
	stockRepo.items[1] = &models.StockItem{
		ID: 1, ProductID: 1, WarehouseID: 1,
		InputQuantity: decimal.NewFromFloat(1.5), InputUomID: 2,
		NormalizedQuantity: decimal.NewFromInt(1500),
	}
	stockRepo.nextID = 2
	service := flowStockService(stockRepo, metrePanel())

	_, err := service.Issue(1, IssueStockRequest{Quantity: decimal.NewFromInt(2), UomID: 2}, nil)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	if stockRepo.deltaCalls != 0 {
		t.Errorf("ApplyQuantityDelta called %d time(s) on a refused issue", stockRepo.deltaCalls)
	}
	if len(stockRepo.movements) != 0 {
		t.Errorf("recorded %d movement(s) on a refused issue", len(stockRepo.movements))
	}
	if !stockRepo.items[1].NormalizedQuantity.Equal(decimal.NewFromInt(1500)) {
		t.Errorf("item quantity changed to %s on a refused issue", stockRepo.items[1].NormalizedQuantity)
	}
}

func TestTransferInsufficientStockLeavesStateUnchanged(t *testing.T) {
	stockRepo := newFlowStockRepo()
	stockRepo.items[1] = &models.StockItem{
		ID: 1, ProductID: 1, WarehouseID: 1,
		InputQuantity: decimal.NewFromInt(1), InputUomID: 2,
		NormalizedQuantity: decimal.NewFromInt(1000),
	}
	stockRepo.nextID = 2
	service := flowStockService(stockRepo, metrePanel())

	_, err := service.Transfer(1, TransferStockRequest{
		ToWarehouseID: 2,
		Quantity:      decimal.NewFromInt(3),
		UomID:         2,
	}, nil)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	if stockRepo.deltaCalls != 0 {
		t.Errorf("ApplyQuantityDelta called %d time(s) on a refused transfer", stockRepo.deltaCalls)
	}
	if len(stockRepo.movements) != 0 {
		t.Errorf("recorded %d movement(s) on a refused transfer", len(stockRepo.movements))
	}
	if len(stockRepo.items) != 1 {
		t.Errorf("destination item created on a refused transfer")
	}
}
