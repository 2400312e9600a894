package entities

import "fmt"

// BOMItem represents one (product, station, part) row of a Bill of Materials
type BOMItem struct {
	ProductCode ProductCode
	StationCode StationCode
	PartCode    PartCode
	QtyPerUnit  Quantity
}

// NewBOMItem creates a validated BOMItem
func NewBOMItem(product ProductCode, station StationCode, part PartCode, qtyPerUnit Quantity) (*BOMItem, error) {
	if string(product) == "" {
		return nil, fmt.Errorf("product code cannot be empty")
	}
	if string(station) == "" {
		return nil, fmt.Errorf("station code cannot be empty")
	}
	if string(part) == "" {
		return nil, fmt.Errorf("part code cannot be empty")
	}
	if !qtyPerUnit.IsPositive() {
		return nil, fmt.Errorf("quantity per unit must be positive, got %s", qtyPerUnit)
	}

	return &BOMItem{
		ProductCode: product,
		StationCode: station,
		PartCode:    part,
		QtyPerUnit:  qtyPerUnit,
	}, nil
}

// Key returns the uniqueness key of the row
func (b BOMItem) Key() string {
	return fmt.Sprintf("%s|%s|%s", b.ProductCode, b.StationCode, b.PartCode)
}
