package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"poultry_nexus_backend/internal/handlers"
	"poultry_nexus_backend/internal/models"
	"poultry_nexus_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// fakeConverter converts between two hard-coded units: 1 (base) and 2
// (factor 1000), both in group 1.
type fakeConverter struct{}

func (fakeConverter) factor(unitID int64) (decimal.Decimal, error) {
	switch unitID {
	case 1:
		return decimal.NewFromInt(1), nil
	case 2:
		return decimal.NewFromInt(1000), nil
	case 10:
		return decimal.Decimal{}, fmt.Errorf("%w: unit 10 belongs to another group", services.ErrIncompatibleUnits)
	}
	return decimal.Decimal{}, fmt.Errorf("%w: unit %d", services.ErrNotFound, unitID)
}

func (f fakeConverter) Convert(value decimal.Decimal, fromUnitID, toUnitID int64) (decimal.Decimal, error) {
	fromFactor, err := f.factor(fromUnitID)
	if err != nil {
		return decimal.Decimal{}, err
	}
	toFactor, err := f.factor(toUnitID)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return value.Mul(fromFactor).Div(toFactor), nil
}

func (f fakeConverter) ToBase(value decimal.Decimal, unitID int64) (decimal.Decimal, error) {
	return f.Convert(value, unitID, 1)
}

func (f fakeConverter) FromBase(value decimal.Decimal, unitID int64) (decimal.Decimal, error) {
	return f.Convert(value, 1, unitID)
}

func (fakeConverter) ResolveUnit(unitID int64) (*models.UnitOfMeasure, error) {
	return nil, fmt.Errorf("%w: unit %d", services.ErrNotFound, unitID)
}

func convertRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	uomHandler := handlers.NewUomHandler(nil, fakeConverter{})
	engine.POST("/api/v1/uom-units/convert", uomHandler.ConvertQuantity)
	return engine
}

func TestConvertQuantityEndpoint(t *testing.T) {
	engine := convertRouter()

	body := `{"value": "2.5", "from_uom_id": 2, "to_uom_id": 1}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/uom-units/convert", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", recorder.Code, recorder.Body.String())
	}

	var response struct {
		Result decimal.Decimal `json:"result"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if !response.Result.Equal(decimal.NewFromInt(2500)) {
		t.Errorf("result = %s, want 2500", response.Result)
	}
}

func TestConvertQuantityEndpointErrors(t *testing.T) {
	engine := convertRouter()

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "incompatible units",
			body:       `{"value": "2.5", "from_uom_id": 2, "to_uom_id": 10}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "INCOMPATIBLE_UNITS",
		},
		{
			name:       "unknown unit",
			body:       `{"value": "2.5", "from_uom_id": 2, "to_uom_id": 99}`,
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
		{
			name:       "malformed payload",
			body:       `{"value": "2.5"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/uom-units/convert", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			recorder := httptest.NewRecorder()
			engine.ServeHTTP(recorder, req)

			if recorder.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d; body: %s", recorder.Code, tt.wantStatus, recorder.Body.String())
			}
			var response struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
				t.Fatalf("failed to parse response: %v", err)
			}
			if response.Error.Code != tt.wantCode {
				t.Errorf("error code = %q, want %q", response.Error.Code, tt.wantCode)
			}
		})
	}
}
