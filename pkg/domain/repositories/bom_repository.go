package repositories

import (
	"context"

	"github.com/vsinha/prodplan/pkg/domain/entities"
)

// BOMRepository provides read access to persisted BOM items
type BOMRepository interface {
	// GetBOMItems returns the raw per-station rows of a product; empty when the product is unknown.
	GetBOMItems(ctx context.Context, product entities.ProductCode) ([]*entities.BOMItem, error)
	LoadBOMItems(ctx context.Context, items []*entities.BOMItem) error
}
