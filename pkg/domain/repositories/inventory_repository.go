package repositories

import (
	"context"

	"github.com/vsinha/prodplan/pkg/domain/entities"
)

// InventoryRepository provides access to on-hand inventory counters
type InventoryRepository interface {
	// GetStock returns zero for parts without an inventory record
	GetStock(ctx context.Context, part entities.PartCode) (entities.Quantity, error)
	// AdjustStock atomically adds delta and returns the new on-hand quantity.
	// It fails with entities.ErrInsufficientStock when the result would be negative.
	AdjustStock(ctx context.Context, part entities.PartCode, delta entities.Quantity) (entities.Quantity, error)
	LoadInventory(ctx context.Context, records []*entities.InventoryRecord) error
}
