package testing

import (
	"context"
	"time"

	"github.com/vsinha/prodplan/pkg/domain/entities"
	"github.com/vsinha/prodplan/pkg/infrastructure/repositories/memory"
)

// Scenario bundles the in-memory repositories a netting test runs against
type Scenario struct {
	Parts        *memory.PartRepository
	BOM          *memory.BOMRepository
	Plans        *memory.PlanRepository
	Inventory    *memory.InventoryRepository
	Reservations *memory.ReservationRepository
	Receipts     *memory.ReceiptRepository
}

// NewScenario creates an empty scenario
func NewScenario() *Scenario {
	return &Scenario{
		Parts:        memory.NewPartRepository(16),
		BOM:          memory.NewBOMRepository(32),
		Plans:        memory.NewPlanRepository(),
		Inventory:    memory.NewInventoryRepository(),
		Reservations: memory.NewReservationRepository(),
		Receipts:     memory.NewReceiptRepository(),
	}
}

// Date is a shorthand for a UTC calendar day
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// WithPart adds a part master record - panics on validation error
func (s *Scenario) WithPart(code string, leadTimeDays int, safetyStock int64, supplier string) *Scenario {
	part, err := entities.NewPart(
		entities.PartCode(code),
		code+" description",
		leadTimeDays,
		entities.Qty(safetyStock),
		supplier,
		"EA",
	)
	if err != nil {
		panic(err)
	}
	s.Parts.AddPart(*part)
	return s
}

// WithBOMItem adds a BOM row - panics on validation error
func (s *Scenario) WithBOMItem(product, station, part string, qtyPerUnit entities.Quantity) *Scenario {
	item, err := entities.NewBOMItem(
		entities.ProductCode(product),
		entities.StationCode(station),
		entities.PartCode(part),
		qtyPerUnit,
	)
	if err != nil {
		panic(err)
	}
	s.BOM.AddBOMItem(*item)
	return s
}

// WithStock sets the on-hand quantity of a part
func (s *Scenario) WithStock(part string, onHand int64) *Scenario {
	s.Inventory.SetStock(entities.PartCode(part), entities.Qty(onHand))
	return s
}

// WithReceipt adds a scheduled receipt - panics on validation error
func (s *Scenario) WithReceipt(id, part string, qty int64, expected time.Time) *Scenario {
	receipt, err := entities.NewScheduledReceipt(id, entities.PartCode(part), entities.Qty(qty), expected)
	if err != nil {
		panic(err)
	}
	if err := s.Receipts.LoadReceipts(context.Background(), []*entities.ScheduledReceipt{receipt}); err != nil {
		panic(err)
	}
	return s
}

// WithPlan stores a plan in the given status - panics on validation error
func (s *Scenario) WithPlan(id, product string, qty int64, start time.Time, status entities.PlanStatus) *Scenario {
	plan, err := entities.NewProductionPlan(entities.PlanID(id), entities.ProductCode(product), qty, start, "", "", "test")
	if err != nil {
		panic(err)
	}
	plan.Status = status
	if err := s.Plans.SavePlan(context.Background(), plan); err != nil {
		panic(err)
	}
	return s
}

// WithReservation stores a reservation directly, bypassing the manager
func (s *Scenario) WithReservation(planID, part string, qty int64) *Scenario {
	reservation, err := entities.NewReservation(entities.PlanID(planID), entities.PartCode(part), entities.Qty(qty))
	if err != nil {
		panic(err)
	}
	if err := s.Reservations.UpsertReservation(context.Background(), reservation); err != nil {
		panic(err)
	}
	return s
}

// ReservedQty returns the stored reservation of a plan for a part, zero when absent
func (s *Scenario) ReservedQty(planID, part string) entities.Quantity {
	qty, _, err := s.Reservations.GetReservation(context.Background(), entities.PlanID(planID), entities.PartCode(part))
	if err != nil {
		panic(err)
	}
	return qty
}
