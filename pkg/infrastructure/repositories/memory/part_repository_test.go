package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/vsinha/prodplan/pkg/domain/entities"
)

func TestPartRepository_GetPart(t *testing.T) {
	ctx := context.Background()
	repo := NewPartRepository(2)

	parts := []*entities.Part{
		{Code: "BOLT", Description: "M12 bolt", LeadTimeDays: 14, SafetyStock: entities.Qty(100), UnitOfMeasure: "EA"},
		{Code: "SEAL", Description: "Shaft seal", LeadTimeDays: 30, SafetyStock: entities.ZeroQty, UnitOfMeasure: "EA"},
	}
	if err := repo.LoadParts(ctx, parts); err != nil {
		t.Fatalf("Failed to load parts: %v", err)
	}

	part, err := repo.GetPart(ctx, "SEAL")
	if err != nil {
		t.Fatalf("Failed to get part: %v", err)
	}
	if part.LeadTimeDays != 30 {
		t.Errorf("Expected lead time 30, got %d", part.LeadTimeDays)
	}

	_, err = repo.GetPart(ctx, "GASKET")
	if !errors.Is(err, entities.ErrPartNotFound) {
		t.Errorf("Expected ErrPartNotFound, got %v", err)
	}
}

func TestPartRepository_AddPartReplaces(t *testing.T) {
	ctx := context.Background()
	repo := NewPartRepository(1)

	repo.AddPart(entities.Part{Code: "BOLT", LeadTimeDays: 14, UnitOfMeasure: "EA"})
	repo.AddPart(entities.Part{Code: "BOLT", LeadTimeDays: 21, UnitOfMeasure: "EA"})

	part, _ := repo.GetPart(ctx, "BOLT")
	if part.LeadTimeDays != 21 {
		t.Errorf("Expected replaced lead time 21, got %d", part.LeadTimeDays)
	}
	if len(repo.parts) != 1 {
		t.Errorf("Expected 1 stored part, got %d", len(repo.parts))
	}
}
