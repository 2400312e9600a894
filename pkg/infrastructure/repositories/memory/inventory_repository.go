package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/vsinha/prodplan/pkg/domain/entities"
	"github.com/vsinha/prodplan/pkg/domain/repositories"
)

// InventoryRepository provides in-memory on-hand counters
type InventoryRepository struct {
	mu     sync.RWMutex
	onHand map[entities.PartCode]entities.Quantity
}

// NewInventoryRepository creates a new in-memory inventory repository
func NewInventoryRepository() *InventoryRepository {
	return &InventoryRepository{
		onHand: make(map[entities.PartCode]entities.Quantity),
	}
}

// Verify interface compliance
var _ repositories.InventoryRepository = (*InventoryRepository)(nil)

// LoadInventory loads inventory records, replacing existing counters
func (r *InventoryRepository) LoadInventory(ctx context.Context, records []*entities.InventoryRecord) error {
	for _, record := range records {
		r.SetStock(record.PartCode, record.OnHand)
	}
	return nil
}

// SetStock overwrites the on-hand counter of a part
func (r *InventoryRepository) SetStock(part entities.PartCode, qty entities.Quantity) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.onHand[part] = qty
}

// GetStock returns the on-hand quantity, zero when no record exists
func (r *InventoryRepository) GetStock(ctx context.Context, part entities.PartCode) (entities.Quantity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	qty, exists := r.onHand[part]
	if !exists {
		return entities.ZeroQty, nil
	}
	return qty, nil
}

// AdjustStock adds delta to the counter under the write lock
func (r *InventoryRepository) AdjustStock(ctx context.Context, part entities.PartCode, delta entities.Quantity) (entities.Quantity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current := r.onHand[part]
	next := current.Add(delta)
	if next.IsNegative() {
		return current, fmt.Errorf("%w: %s has %s, adjustment %s", entities.ErrInsufficientStock, part, current, delta)
	}
	r.onHand[part] = next
	return next, nil
}
