package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/vsinha/prodplan/pkg/domain/entities"
	"github.com/vsinha/prodplan/pkg/domain/repositories"
)

// BOMRepository provides in-memory BOM storage indexed by product
type BOMRepository struct {
	mu         sync.RWMutex
	bomItems   []entities.BOMItem
	bomIndexes map[entities.ProductCode][]int
	rowKeys    map[string]int
}

// NewBOMRepository creates a BOM repository sized for the expected row count
func NewBOMRepository(expectedBOMItems int) *BOMRepository {
	return &BOMRepository{
		bomItems:   make([]entities.BOMItem, 0, expectedBOMItems),
		bomIndexes: make(map[entities.ProductCode][]int),
		rowKeys:    make(map[string]int, expectedBOMItems),
	}
}

// Verify interface compliance
var _ repositories.BOMRepository = (*BOMRepository)(nil)

// LoadBOMItems loads BOM items into the repository
func (r *BOMRepository) LoadBOMItems(ctx context.Context, items []*entities.BOMItem) error {
	for _, item := range items {
		r.AddBOMItem(*item)
	}
	return nil
}

// AddBOMItem adds a row, replacing an existing row with the same (product, station, part)
func (r *BOMRepository) AddBOMItem(item entities.BOMItem) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if index, exists := r.rowKeys[item.Key()]; exists {
		r.bomItems[index] = item
		return
	}

	index := len(r.bomItems)
	r.bomItems = append(r.bomItems, item)
	r.bomIndexes[item.ProductCode] = append(r.bomIndexes[item.ProductCode], index)
	r.rowKeys[item.Key()] = index
}

// GetBOMItems returns the rows of a product ordered by station then part
func (r *BOMRepository) GetBOMItems(ctx context.Context, product entities.ProductCode) ([]*entities.BOMItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	indexes, exists := r.bomIndexes[product]
	if !exists {
		return []*entities.BOMItem{}, nil
	}

	items := make([]*entities.BOMItem, 0, len(indexes))
	for _, index := range indexes {
		item := r.bomItems[index]
		items = append(items, &item)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].StationCode != items[j].StationCode {
			return items[i].StationCode < items[j].StationCode
		}
		return items[i].PartCode < items[j].PartCode
	})

	return items, nil
}

// GetAllBOMItems returns all rows in insertion order
func (r *BOMRepository) GetAllBOMItems() []*entities.BOMItem {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]*entities.BOMItem, 0, len(r.bomItems))
	for i := range r.bomItems {
		item := r.bomItems[i]
		items = append(items, &item)
	}
	return items
}
