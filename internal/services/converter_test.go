package services_test

import (
	"errors"
	"testing"

	"poultry_nexus_backend/internal/models"
	"poultry_nexus_backend/internal/repositories"
	"poultry_nexus_backend/internal/services"

	"github.com/shopspring/decimal"
)

// fakeUomRepo is an in-memory UomRepository backed by a unit map. Only the
// read paths the converter uses are meaningful; write methods exist to satisfy
// the interface.
type fakeUomRepo struct {
	units map[int64]models.UnitOfMeasure
}

func (f *fakeUomRepo) GetUnitByID(id int64) (*models.UnitOfMeasure, error) {
	unit, ok := f.units[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &unit, nil
}

func (f *fakeUomRepo) GetUnitsInGroup(groupID int64) ([]models.UnitOfMeasure, error) {
	var units []models.UnitOfMeasure
	for _, unit := range f.units {
		if unit.GroupID == groupID {
			units = append(units, unit)
		}
	}
	return units, nil
}

func (f *fakeUomRepo) GetBaseUnit(_ repositories.SQLExecutor, groupID int64) (*models.UnitOfMeasure, error) {
	for _, unit := range f.units {
		if unit.GroupID == groupID && unit.IsBase {
			u := unit
			return &u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUomRepo) CreateGroup(repositories.SQLExecutor, *models.UomGroup) (int64, error) {
	return 0, nil
}
func (f *fakeUomRepo) GetGroupByID(int64) (*models.UomGroup, error) {
	return nil, repositories.ErrNotFound
}
func (f *fakeUomRepo) GetGroups(int, int) ([]models.UomGroup, int, error) { return nil, 0, nil }
func (f *fakeUomRepo) UpdateGroup(repositories.SQLExecutor, *models.UomGroup) error { return nil }
func (f *fakeUomRepo) DeleteGroup(repositories.SQLExecutor, int64) error            { return nil }
func (f *fakeUomRepo) LockGroup(repositories.SQLExecutor, int64) error              { return nil }
func (f *fakeUomRepo) CountUnitsInGroup(repositories.SQLExecutor, int64) (int, error) {
	return 0, nil
}
func (f *fakeUomRepo) CreateUnit(repositories.SQLExecutor, *models.UnitOfMeasure) (int64, error) {
	return 0, nil
}
func (f *fakeUomRepo) UpdateUnit(repositories.SQLExecutor, *models.UnitOfMeasure) error { return nil }
func (f *fakeUomRepo) DeleteUnit(repositories.SQLExecutor, int64) error                 { return nil }
func (f *fakeUomRepo) CountUnitReferences(repositories.SQLExecutor, int64) (int, error) {
	return 0, nil
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// Length group: mm (base, id 1), m (id 2, factor 1000), km (id 3, factor 1e6).
// Count group: piece (base, id 10).
func lengthAndCountRepo() *fakeUomRepo {
	return &fakeUomRepo{units: map[int64]models.UnitOfMeasure{
		1:  {ID: 1, GroupID: 1, Name: "millimetre", Symbol: "mm", IsBase: true, ConversionFactor: dec("1")},
		2:  {ID: 2, GroupID: 1, Name: "metre", Symbol: "m", ConversionFactor: dec("1000")},
		3:  {ID: 3, GroupID: 1, Name: "kilometre", Symbol: "km", ConversionFactor: dec("1000000")},
		10: {ID: 10, GroupID: 2, Name: "piece", Symbol: "pc", IsBase: true, ConversionFactor: dec("1")},
	}}
}

func TestConvert(t *testing.T) {
	converter := services.NewQuantityConverter(lengthAndCountRepo())

	tests := []struct {
		name     string
		value    string
		fromUnit int64
		toUnit   int64
		want     string
	}{
		{name: "metres to millimetres", value: "2.5", fromUnit: 2, toUnit: 1, want: "2500"},
		{name: "millimetres to metres", value: "1250", fromUnit: 1, toUnit: 2, want: "1.25"},
		{name: "metres to kilometres", value: "1500", fromUnit: 2, toUnit: 3, want: "1.5"},
		{name: "zero passes through", value: "0", fromUnit: 2, toUnit: 1, want: "0"},
		{name: "negative keeps its sign", value: "-3", fromUnit: 2, toUnit: 1, want: "-3000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := converter.Convert(dec(tt.value), tt.fromUnit, tt.toUnit)
			if err != nil {
				t.Fatalf("Convert returned error: %v", err)
			}
			if !got.Equal(dec(tt.want)) {
				t.Errorf("Convert(%s) = %s, want %s", tt.value, got, tt.want)
			}
		})
	}
}

func TestConvertIdentityIsExact(t *testing.T) {
	converter := services.NewQuantityConverter(lengthAndCountRepo())

	value := dec("0.1234567890123456789")
	got, err := converter.Convert(value, 2, 2)
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if !got.Equal(value) {
		t.Errorf("identity conversion changed the value: got %s, want %s", got, value)
	}
}

func TestConvertRoundTrip(t *testing.T) {
	converter := services.NewQuantityConverter(lengthAndCountRepo())

	value := dec("7.25")
	there, err := converter.Convert(value, 2, 1)
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	back, err := converter.Convert(there, 1, 2)
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if !back.Equal(value) {
		t.Errorf("round trip changed the value: got %s, want %s", back, value)
	}
}

func TestConvertCrossGroup(t *testing.T) {
	converter := services.NewQuantityConverter(lengthAndCountRepo())

	_, err := converter.Convert(dec("5"), 2, 10)
	if !errors.Is(err, services.ErrIncompatibleUnits) {
		t.Fatalf("expected ErrIncompatibleUnits, got %v", err)
	}
}

func TestConvertUnknownUnit(t *testing.T) {
	converter := services.NewQuantityConverter(lengthAndCountRepo())

	if _, err := converter.Convert(dec("5"), 99, 1); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("unknown source unit: expected ErrNotFound, got %v", err)
	}
	if _, err := converter.Convert(dec("5"), 1, 99); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("unknown target unit: expected ErrNotFound, got %v", err)
	}
}

func TestToBase(t *testing.T) {
	converter := services.NewQuantityConverter(lengthAndCountRepo())

	got, err := converter.ToBase(dec("2"), 3)
	if err != nil {
		t.Fatalf("ToBase returned error: %v", err)
	}
	if !got.Equal(dec("2000000")) {
		t.Errorf("ToBase(2 km) = %s, want 2000000", got)
	}

	same, err := converter.ToBase(dec("42"), 1)
	if err != nil {
		t.Fatalf("ToBase returned error: %v", err)
	}
	if !same.Equal(dec("42")) {
		t.Errorf("ToBase on the base unit = %s, want 42", same)
	}
}

func TestFromBase(t *testing.T) {
	converter := services.NewQuantityConverter(lengthAndCountRepo())

	got, err := converter.FromBase(dec("2500"), 2)
	if err != nil {
		t.Fatalf("FromBase returned error: %v", err)
	}
	if !got.Equal(dec("2.5")) {
		t.Errorf("FromBase(2500 mm to m) = %s, want 2.5", got)
	}

	same, err := converter.FromBase(dec("42"), 1)
	if err != nil {
		t.Fatalf("FromBase returned error: %v", err)
	}
	if !same.Equal(dec("42")) {
		t.Errorf("FromBase on the base unit = %s, want 42", same)
	}

	if _, err := converter.FromBase(dec("1"), 99); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("unknown unit: expected ErrNotFound, got %v", err)
	}
}
