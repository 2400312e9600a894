package entities

import "fmt"

// Part represents a purchasable part with its planning attributes
type Part struct {
	Code          PartCode
	Description   string
	LeadTimeDays  int
	SafetyStock   Quantity
	Supplier      string
	UnitOfMeasure string
}

// NewPart creates a validated Part
func NewPart(
	code PartCode,
	description string,
	leadTimeDays int,
	safetyStock Quantity,
	supplier string,
	uom string,
) (*Part, error) {
	if string(code) == "" {
		return nil, fmt.Errorf("part code cannot be empty")
	}
	if leadTimeDays < 0 {
		return nil, fmt.Errorf("lead time cannot be negative, got %d", leadTimeDays)
	}
	if safetyStock.IsNegative() {
		return nil, fmt.Errorf("safety stock cannot be negative, got %s", safetyStock)
	}
	if uom == "" {
		return nil, fmt.Errorf("unit of measure cannot be empty")
	}

	return &Part{
		Code:          code,
		Description:   description,
		LeadTimeDays:  leadTimeDays,
		SafetyStock:   safetyStock,
		Supplier:      supplier,
		UnitOfMeasure: uom,
	}, nil
}
