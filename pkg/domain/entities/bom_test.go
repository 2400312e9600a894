package entities

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestBOMItem_Validation(t *testing.T) {
	validItem, err := NewBOMItem("PUMP", "ST10", "BOLT_M12", Qty(4))
	if err != nil {
		t.Fatalf("Expected valid BOM item creation to succeed: %v", err)
	}
	if !validItem.QtyPerUnit.Equal(Qty(4)) {
		t.Errorf("Expected quantity per unit 4, got %s", validItem.QtyPerUnit)
	}

	// Fractional quantities are valid for parts measured by length or weight
	cable, err := NewBOMItem("PUMP", "ST20", "CABLE", decimal.RequireFromString("0.75"))
	if err != nil {
		t.Fatalf("Expected fractional quantity to be accepted: %v", err)
	}
	if cable.QtyPerUnit.String() != "0.75" {
		t.Errorf("Expected quantity per unit 0.75, got %s", cable.QtyPerUnit)
	}

	testCases := []struct {
		name        string
		product     ProductCode
		station     StationCode
		part        PartCode
		qtyPerUnit  Quantity
		expectError string
	}{
		{"empty product", "", "ST10", "BOLT", Qty(1), "product code cannot be empty"},
		{"empty station", "PUMP", "", "BOLT", Qty(1), "station code cannot be empty"},
		{"empty part", "PUMP", "ST10", "", Qty(1), "part code cannot be empty"},
		{"zero quantity", "PUMP", "ST10", "BOLT", Qty(0), "quantity per unit must be positive, got 0"},
		{"negative quantity", "PUMP", "ST10", "BOLT", Qty(-2), "quantity per unit must be positive, got -2"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewBOMItem(tc.product, tc.station, tc.part, tc.qtyPerUnit)
			if err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
			if err.Error() != tc.expectError {
				t.Errorf("Expected error '%s', got '%s'", tc.expectError, err.Error())
			}
		})
	}
}

func TestBOMItem_Key(t *testing.T) {
	item := BOMItem{ProductCode: "PUMP", StationCode: "ST10", PartCode: "BOLT"}
	if item.Key() != "PUMP|ST10|BOLT" {
		t.Errorf("Expected key PUMP|ST10|BOLT, got %s", item.Key())
	}
}
