package stock

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fixtures "github.com/vsinha/prodplan/pkg/application/services/testing"
	"github.com/vsinha/prodplan/pkg/domain/entities"
	"github.com/vsinha/prodplan/pkg/domain/repositories"
	"github.com/vsinha/prodplan/pkg/infrastructure/events"
)

// failingDeleteReceipts lets reads through but refuses to close receipts
type failingDeleteReceipts struct {
	repositories.ReceiptRepository
}

func (r failingDeleteReceipts) DeleteReceipt(context.Context, string) error {
	return errors.New("connection reset")
}

func newLedger(s *fixtures.Scenario) (*Ledger, *events.InMemoryEventStore) {
	store := events.NewInMemoryEventStore(zerolog.Nop())
	return NewLedger(s.Inventory, s.Receipts, Config{Events: store, Logger: zerolog.Nop()}), store
}

func TestAdjust(t *testing.T) {
	s := fixtures.NewScenario().WithStock("BOLT", 10)
	ledger, store := newLedger(s)
	ctx := context.Background()

	onHand, err := ledger.Adjust(ctx, "BOLT", entities.Qty(5), "cycle count")
	require.NoError(t, err)
	assert.True(t, onHand.Equal(entities.Qty(15)))

	_, err = ledger.Adjust(ctx, "BOLT", entities.Qty(-16), "issue")
	assert.ErrorIs(t, err, entities.ErrInsufficientStock)

	stock, _ := s.Inventory.GetStock(ctx, "BOLT")
	assert.True(t, stock.Equal(entities.Qty(15)), "failed adjustment must not change stock")

	all, _ := store.ReadAllEvents(0)
	require.Len(t, all, 1)
	assert.Equal(t, events.StockAdjustedEvent, all[0].Type())

	_, err = ledger.Adjust(ctx, "", entities.Qty(1), "")
	assert.Error(t, err)
}

func TestAdjust_ConcurrentIssuesNeverGoNegative(t *testing.T) {
	s := fixtures.NewScenario().WithStock("BOLT", 10)
	ledger, _ := newLedger(s)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := ledger.Adjust(ctx, "BOLT", entities.Qty(-1), "issue"); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, succeeded)
	stock, _ := s.Inventory.GetStock(ctx, "BOLT")
	assert.True(t, stock.IsZero())
}

func TestReceive(t *testing.T) {
	s := fixtures.NewScenario().
		WithStock("SEAL", 2).
		WithReceipt("PO-7/1", "SEAL", 30, fixtures.Date(2025, 5, 30))
	ledger, _ := newLedger(s)
	ctx := context.Background()

	onHand, err := ledger.Receive(ctx, "PO-7/1")
	require.NoError(t, err)
	assert.True(t, onHand.Equal(entities.Qty(32)))

	open, _ := s.Receipts.ListReceipts(ctx, "SEAL", fixtures.Date(2030, 1, 1))
	assert.Empty(t, open)

	_, err = ledger.Receive(ctx, "PO-7/1")
	assert.ErrorIs(t, err, entities.ErrReceiptNotFound)
}

func TestReceive_ConcurrentBooksOnce(t *testing.T) {
	s := fixtures.NewScenario().WithReceipt("PO-1", "SEAL", 30, fixtures.Date(2025, 5, 30))
	ledger, _ := newLedger(s)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = ledger.Receive(ctx, "PO-1")
		}()
	}
	wg.Wait()

	stock, _ := s.Inventory.GetStock(ctx, "SEAL")
	assert.True(t, stock.Equal(entities.Qty(30)), "got %s", stock)
}

func TestReceive_RevertsStockWhenReceiptCannotBeClosed(t *testing.T) {
	s := fixtures.NewScenario().
		WithStock("SEAL", 2).
		WithReceipt("PO-7/1", "SEAL", 30, fixtures.Date(2025, 5, 30))
	store := events.NewInMemoryEventStore(zerolog.Nop())
	ledger := NewLedger(s.Inventory, failingDeleteReceipts{s.Receipts}, Config{Events: store, Logger: zerolog.Nop()})
	ctx := context.Background()

	_, err := ledger.Receive(ctx, "PO-7/1")
	assert.ErrorIs(t, err, entities.ErrUnavailableDependency)

	stock, _ := s.Inventory.GetStock(ctx, "SEAL")
	assert.True(t, stock.Equal(entities.Qty(2)), "stock must be unchanged, got %s", stock)

	open, _ := s.Receipts.ListReceipts(ctx, "SEAL", fixtures.Date(2030, 1, 1))
	assert.Len(t, open, 1, "receipt must stay open")

	all, _ := store.ReadAllEvents(0)
	assert.Empty(t, all, "no stock event for a reverted booking")
}
