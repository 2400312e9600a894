package gormstore

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vsinha/prodplan/pkg/domain/entities"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := Open(Config{
		Driver:       "sqlite",
		DSN:          fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
		LogLevel:     logger.Silent,
		MaxOpenConns: 1,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(Config{Driver: "oracle"})
	assert.Error(t, err)
}

func TestPartRepository(t *testing.T) {
	repos := NewRepositories(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, repos.Parts.LoadParts(ctx, []*entities.Part{
		{Code: "BOLT", Description: "M12", LeadTimeDays: 14, SafetyStock: entities.Qty(100), Supplier: "FASTCO", UnitOfMeasure: "EA"},
		{Code: "CABLE", LeadTimeDays: 5, SafetyStock: decimal.RequireFromString("12.5"), UnitOfMeasure: "M"},
	}))
	// Reloading replaces attributes
	require.NoError(t, repos.Parts.LoadParts(ctx, []*entities.Part{
		{Code: "BOLT", Description: "M12", LeadTimeDays: 21, SafetyStock: entities.Qty(100), Supplier: "FASTCO", UnitOfMeasure: "EA"},
	}))

	bolt, err := repos.Parts.GetPart(ctx, "BOLT")
	require.NoError(t, err)
	assert.Equal(t, 21, bolt.LeadTimeDays)
	assert.Equal(t, "FASTCO", bolt.Supplier)

	cable, err := repos.Parts.GetPart(ctx, "CABLE")
	require.NoError(t, err)
	assert.True(t, cable.SafetyStock.Equal(decimal.RequireFromString("12.5")))

	_, err = repos.Parts.GetPart(ctx, "NOPE")
	assert.ErrorIs(t, err, entities.ErrPartNotFound)

	var count int64
	require.NoError(t, repos.Parts.db.Model(&PartModel{}).Count(&count).Error)
	assert.Equal(t, int64(2), count, "reloading must upsert, not duplicate")
}

func TestBOMRepository(t *testing.T) {
	repos := NewRepositories(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, repos.BOM.LoadBOMItems(ctx, []*entities.BOMItem{
		{ProductCode: "PUMP", StationCode: "ST20", PartCode: "BOLT", QtyPerUnit: entities.Qty(2)},
		{ProductCode: "PUMP", StationCode: "ST10", PartCode: "BOLT", QtyPerUnit: entities.Qty(4)},
		{ProductCode: "PUMP", StationCode: "ST10", PartCode: "CABLE", QtyPerUnit: decimal.RequireFromString("0.75")},
	}))
	require.NoError(t, repos.BOM.LoadBOMItems(ctx, []*entities.BOMItem{
		{ProductCode: "PUMP", StationCode: "ST20", PartCode: "BOLT", QtyPerUnit: entities.Qty(3)},
	}))

	items, err := repos.BOM.GetBOMItems(ctx, "PUMP")
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "PUMP|ST10|BOLT", items[0].Key())
	assert.Equal(t, "PUMP|ST10|CABLE", items[1].Key())
	assert.True(t, items[1].QtyPerUnit.Equal(decimal.RequireFromString("0.75")))
	assert.True(t, items[2].QtyPerUnit.Equal(entities.Qty(3)))

	none, err := repos.BOM.GetBOMItems(ctx, "VALVE")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPlanRepository(t *testing.T) {
	repos := NewRepositories(openTestDB(t))
	ctx := context.Background()

	plan, err := entities.NewProductionPlan("PLAN-1", "PUMP", 10, day(2025, 6, 2), "BLDG-A", "first", "planner")
	require.NoError(t, err)
	require.NoError(t, repos.Plans.SavePlan(ctx, plan))

	plan.Status = entities.PlanInProgress
	require.NoError(t, repos.Plans.SavePlan(ctx, plan))
	require.NoError(t, repos.Plans.LoadPlans(ctx, []*entities.ProductionPlan{
		{ID: "PLAN-2", ProductCode: "PUMP", PlannedQuantity: 1, StartDate: day(2025, 7, 1), Status: entities.PlanCancelled},
	}))

	stored, err := repos.Plans.GetPlan(ctx, "PLAN-1")
	require.NoError(t, err)
	assert.Equal(t, entities.PlanInProgress, stored.Status)
	assert.Equal(t, int64(10), stored.PlannedQuantity)
	assert.True(t, stored.StartDate.Equal(day(2025, 6, 2)))
	assert.Equal(t, "BLDG-A", stored.Location)

	_, err = repos.Plans.GetPlan(ctx, "PLAN-404")
	assert.ErrorIs(t, err, entities.ErrPlanNotFound)

	statuses, err := repos.Plans.GetPlanStatuses(ctx, []entities.PlanID{"PLAN-1", "PLAN-2", "GHOST"})
	require.NoError(t, err)
	assert.Equal(t, map[entities.PlanID]entities.PlanStatus{
		"PLAN-1": entities.PlanInProgress,
		"PLAN-2": entities.PlanCancelled,
	}, statuses)

	empty, err := repos.Plans.GetPlanStatuses(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestPlanRepository_StartDateInForeignZone(t *testing.T) {
	repos := NewRepositories(openTestDB(t))
	ctx := context.Background()
	tokyo := time.FixedZone("JST", 9*60*60)

	plan, err := entities.NewProductionPlan("PLAN-JST", "PUMP", 10, time.Date(2025, 6, 2, 0, 0, 0, 0, tokyo), "", "", "")
	require.NoError(t, err)
	require.NoError(t, repos.Plans.SavePlan(ctx, plan))

	stored, err := repos.Plans.GetPlan(ctx, "PLAN-JST")
	require.NoError(t, err)
	assert.True(t, stored.StartDate.Equal(day(2025, 6, 2)), "got %v", stored.StartDate)
}

func TestInventoryRepository_AdjustStock(t *testing.T) {
	repos := NewRepositories(openTestDB(t))
	ctx := context.Background()

	stock, err := repos.Inventory.GetStock(ctx, "BOLT")
	require.NoError(t, err)
	assert.True(t, stock.IsZero())

	require.NoError(t, repos.Inventory.LoadInventory(ctx, []*entities.InventoryRecord{
		{PartCode: "BOLT", OnHand: entities.Qty(10)},
	}))

	onHand, err := repos.Inventory.AdjustStock(ctx, "BOLT", entities.Qty(5))
	require.NoError(t, err)
	assert.True(t, onHand.Equal(entities.Qty(15)), "got %s", onHand)

	onHand, err = repos.Inventory.AdjustStock(ctx, "BOLT", entities.Qty(-16))
	assert.ErrorIs(t, err, entities.ErrInsufficientStock)
	assert.True(t, onHand.Equal(entities.Qty(15)))

	// Parts without a record are created on first receipt
	onHand, err = repos.Inventory.AdjustStock(ctx, "SEAL", entities.Qty(3))
	require.NoError(t, err)
	assert.True(t, onHand.Equal(entities.Qty(3)))

	_, err = repos.Inventory.AdjustStock(ctx, "GASKET", entities.Qty(-1))
	assert.ErrorIs(t, err, entities.ErrInsufficientStock)
}

func TestInventoryRepository_ConcurrentAdjust(t *testing.T) {
	repos := NewRepositories(openTestDB(t))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repos.Inventory.AdjustStock(ctx, "BOLT", entities.Qty(1))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stock, err := repos.Inventory.GetStock(ctx, "BOLT")
	require.NoError(t, err)
	assert.True(t, stock.Equal(entities.Qty(20)), "got %s", stock)
}

func TestReservationRepository(t *testing.T) {
	repos := NewRepositories(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, repos.Reservations.UpsertReservation(ctx, &entities.Reservation{PlanID: "B", PartCode: "BOLT", Quantity: entities.Qty(10)}))
	require.NoError(t, repos.Reservations.UpsertReservation(ctx, &entities.Reservation{PlanID: "A", PartCode: "BOLT", Quantity: entities.Qty(40)}))
	require.NoError(t, repos.Reservations.UpsertReservation(ctx, &entities.Reservation{PlanID: "A", PartCode: "BOLT", Quantity: entities.Qty(25)}))
	require.NoError(t, repos.Reservations.LoadReservations(ctx, []*entities.Reservation{
		{PlanID: "A", PartCode: "ANCHOR", Quantity: entities.Qty(5)},
	}))

	qty, found, err := repos.Reservations.GetReservation(ctx, "A", "BOLT")
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, qty.Equal(entities.Qty(25)))

	byPart, err := repos.Reservations.ListReservations(ctx, "BOLT")
	require.NoError(t, err)
	require.Len(t, byPart, 2)
	assert.Equal(t, entities.PlanID("A"), byPart[0].PlanID)

	byPlan, err := repos.Reservations.ListPlanReservations(ctx, "A")
	require.NoError(t, err)
	require.Len(t, byPlan, 2)
	assert.Equal(t, entities.PartCode("ANCHOR"), byPlan[0].PartCode)

	deleted, err := repos.Reservations.DeleteReservation(ctx, "A", "BOLT")
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = repos.Reservations.DeleteReservation(ctx, "A", "BOLT")
	require.NoError(t, err)
	assert.False(t, deleted)

	_, found, err = repos.Reservations.GetReservation(ctx, "A", "BOLT")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestReceiptRepository(t *testing.T) {
	repos := NewRepositories(openTestDB(t))
	ctx := context.Background()
	cutoff := day(2025, 6, 2)

	require.NoError(t, repos.Receipts.LoadReceipts(ctx, []*entities.ScheduledReceipt{
		{ID: "PO-2", PartCode: "BOLT", Quantity: entities.Qty(7), ExpectedDate: cutoff},
		{ID: "PO-1", PartCode: "BOLT", Quantity: entities.Qty(30), ExpectedDate: cutoff.AddDate(0, 0, -3)},
		{ID: "PO-3", PartCode: "BOLT", Quantity: entities.Qty(500), ExpectedDate: cutoff.AddDate(0, 0, 1)},
	}))

	receipts, err := repos.Receipts.ListReceipts(ctx, "BOLT", cutoff.Add(15*time.Hour))
	require.NoError(t, err)
	require.Len(t, receipts, 2)
	assert.Equal(t, "PO-1", receipts[0].ID)
	assert.Equal(t, "PO-2", receipts[1].ID)
	assert.True(t, receipts[1].ExpectedDate.Equal(cutoff))

	receipt, err := repos.Receipts.GetReceipt(ctx, "PO-3")
	require.NoError(t, err)
	assert.True(t, receipt.Quantity.Equal(entities.Qty(500)))

	require.NoError(t, repos.Receipts.DeleteReceipt(ctx, "PO-3"))
	assert.ErrorIs(t, repos.Receipts.DeleteReceipt(ctx, "PO-3"), entities.ErrReceiptNotFound)
	_, err = repos.Receipts.GetReceipt(ctx, "PO-3")
	assert.ErrorIs(t, err, entities.ErrReceiptNotFound)
}
