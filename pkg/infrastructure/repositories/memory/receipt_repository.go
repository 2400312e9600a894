package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/vsinha/prodplan/pkg/domain/entities"
	"github.com/vsinha/prodplan/pkg/domain/repositories"
)

// ReceiptRepository provides in-memory scheduled receipt storage
type ReceiptRepository struct {
	mu       sync.RWMutex
	receipts map[string]entities.ScheduledReceipt
}

// NewReceiptRepository creates a new in-memory receipt repository
func NewReceiptRepository() *ReceiptRepository {
	return &ReceiptRepository{
		receipts: make(map[string]entities.ScheduledReceipt),
	}
}

// Verify interface compliance
var _ repositories.ReceiptRepository = (*ReceiptRepository)(nil)

// LoadReceipts loads receipts, replacing receipts with the same id
func (r *ReceiptRepository) LoadReceipts(ctx context.Context, receipts []*entities.ScheduledReceipt) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, receipt := range receipts {
		r.receipts[receipt.ID] = *receipt
	}
	return nil
}

// ListReceipts returns receipts for a part arriving on or before notAfter, earliest first
func (r *ReceiptRepository) ListReceipts(ctx context.Context, part entities.PartCode, notAfter time.Time) ([]*entities.ScheduledReceipt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*entities.ScheduledReceipt
	for _, receipt := range r.receipts {
		if receipt.PartCode == part && receipt.ArrivesBy(notAfter) {
			rc := receipt
			result = append(result, &rc)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].ExpectedDate.Equal(result[j].ExpectedDate) {
			return result[i].ExpectedDate.Before(result[j].ExpectedDate)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// GetReceipt returns a receipt by id
func (r *ReceiptRepository) GetReceipt(ctx context.Context, id string) (*entities.ScheduledReceipt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	receipt, exists := r.receipts[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", entities.ErrReceiptNotFound, id)
	}
	return &receipt, nil
}

// DeleteReceipt removes a receipt once it has been received
func (r *ReceiptRepository) DeleteReceipt(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.receipts[id]; !exists {
		return fmt.Errorf("%w: %s", entities.ErrReceiptNotFound, id)
	}
	delete(r.receipts, id)
	return nil
}
