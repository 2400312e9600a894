package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/vsinha/prodplan/pkg/domain/entities"
)

func TestInventoryRepository_GetStock(t *testing.T) {
	ctx := context.Background()
	repo := NewInventoryRepository()

	err := repo.LoadInventory(ctx, []*entities.InventoryRecord{
		{PartCode: "BOLT", OnHand: entities.Qty(120)},
	})
	if err != nil {
		t.Fatalf("Failed to load inventory: %v", err)
	}

	qty, _ := repo.GetStock(ctx, "BOLT")
	if !qty.Equal(entities.Qty(120)) {
		t.Errorf("Expected 120, got %s", qty)
	}

	qty, err = repo.GetStock(ctx, "UNKNOWN")
	if err != nil {
		t.Fatalf("Expected no error for part without record: %v", err)
	}
	if !qty.IsZero() {
		t.Errorf("Expected zero stock for part without record, got %s", qty)
	}
}

func TestInventoryRepository_AdjustStock(t *testing.T) {
	ctx := context.Background()
	repo := NewInventoryRepository()
	repo.SetStock("BOLT", entities.Qty(10))

	testCases := []struct {
		name        string
		delta       int64
		expected    int64
		expectError bool
	}{
		{"receive", 5, 15, false},
		{"issue", -15, 0, false},
		{"issue beyond on hand", -1, 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			qty, err := repo.AdjustStock(ctx, "BOLT", entities.Qty(tc.delta))
			if tc.expectError {
				if !errors.Is(err, entities.ErrInsufficientStock) {
					t.Fatalf("Expected ErrInsufficientStock, got %v", err)
				}
			} else if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !qty.Equal(entities.Qty(tc.expected)) {
				t.Errorf("Expected %d, got %s", tc.expected, qty)
			}
		})
	}
}

func TestInventoryRepository_ConcurrentAdjust(t *testing.T) {
	ctx := context.Background()
	repo := NewInventoryRepository()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = repo.AdjustStock(ctx, "BOLT", entities.Qty(2))
		}()
	}
	wg.Wait()

	qty, _ := repo.GetStock(ctx, "BOLT")
	if !qty.Equal(entities.Qty(100)) {
		t.Errorf("Expected 100 after concurrent adjustments, got %s", qty)
	}
}
