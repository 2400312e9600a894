package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/vsinha/prodplan/pkg/domain/entities"
	"github.com/vsinha/prodplan/pkg/domain/repositories"
)

// Availability is the supply position of one part as seen by one plan
type Availability struct {
	CurrentStock                 entities.Quantity
	TotalReservedByOthers        entities.Quantity
	ScheduledReceiptsUntilCutoff entities.Quantity
	PlanReservedQuantity         entities.Quantity
}

// Available nets commitments out and inbound supply in:
// stock - reservedByOthers + receipts + ownReservation
func (a Availability) Available() entities.Quantity {
	return a.CurrentStock.
		Sub(a.TotalReservedByOthers).
		Add(a.ScheduledReceiptsUntilCutoff).
		Add(a.PlanReservedQuantity)
}

// OverReserved reports whether other plans hold more than physical plus inbound stock
func (a Availability) OverReserved() bool {
	return a.TotalReservedByOthers.GreaterThan(a.CurrentStock.Add(a.ScheduledReceiptsUntilCutoff))
}

// Resolver reads stock, reservations and receipts for a part. It never writes.
type Resolver struct {
	inventory    repositories.InventoryRepository
	reservations repositories.ReservationRepository
	receipts     repositories.ReceiptRepository
	plans        repositories.PlanRepository
	logger       zerolog.Logger
}

// NewResolver creates an availability resolver
func NewResolver(
	inventory repositories.InventoryRepository,
	reservations repositories.ReservationRepository,
	receipts repositories.ReceiptRepository,
	plans repositories.PlanRepository,
	logger zerolog.Logger,
) *Resolver {
	return &Resolver{
		inventory:    inventory,
		reservations: reservations,
		receipts:     receipts,
		plans:        plans,
		logger:       logger.With().Str("component", "availability").Logger(),
	}
}

// Resolve computes the availability of part for excludePlanID with receipts
// counted up to and including the cutoff day. Reservations of excludePlanID
// are reported separately as PlanReservedQuantity; reservations of plans that
// are not active, or whose plan record no longer exists, are ignored.
func (r *Resolver) Resolve(
	ctx context.Context,
	part entities.PartCode,
	excludePlanID entities.PlanID,
	cutoff time.Time,
) (Availability, error) {
	result := Availability{
		CurrentStock:                 entities.ZeroQty,
		TotalReservedByOthers:        entities.ZeroQty,
		ScheduledReceiptsUntilCutoff: entities.ZeroQty,
		PlanReservedQuantity:         entities.ZeroQty,
	}

	stock, err := r.inventory.GetStock(ctx, part)
	if err != nil {
		return result, fmt.Errorf("failed to read stock for %s: %w: %w", part, entities.ErrUnavailableDependency, err)
	}
	result.CurrentStock = stock

	reserved, own, err := r.reservedByOthers(ctx, part, excludePlanID)
	if err != nil {
		return result, err
	}
	result.TotalReservedByOthers = reserved
	result.PlanReservedQuantity = own

	receipts, err := r.receipts.ListReceipts(ctx, part, entities.DateOf(cutoff))
	if err != nil {
		return result, fmt.Errorf("failed to read receipts for %s: %w: %w", part, entities.ErrUnavailableDependency, err)
	}
	for _, receipt := range receipts {
		// Day-granularity cutoff regardless of backend timestamp precision
		if receipt.ArrivesBy(cutoff) {
			result.ScheduledReceiptsUntilCutoff = result.ScheduledReceiptsUntilCutoff.Add(receipt.Quantity)
		}
	}

	r.logger.Trace().
		Str("part", string(part)).
		Str("plan", string(excludePlanID)).
		Str("stock", result.CurrentStock.String()).
		Str("reserved_by_others", result.TotalReservedByOthers.String()).
		Str("receipts", result.ScheduledReceiptsUntilCutoff.String()).
		Msg("resolved availability")

	return result, nil
}

func (r *Resolver) reservedByOthers(
	ctx context.Context,
	part entities.PartCode,
	excludePlanID entities.PlanID,
) (entities.Quantity, entities.Quantity, error) {
	reservations, err := r.reservations.ListReservations(ctx, part)
	if err != nil {
		return entities.ZeroQty, entities.ZeroQty, fmt.Errorf("failed to read reservations for %s: %w: %w", part, entities.ErrUnavailableDependency, err)
	}

	own := entities.ZeroQty
	others := make([]*entities.Reservation, 0, len(reservations))
	planIDs := make([]entities.PlanID, 0, len(reservations))
	for _, reservation := range reservations {
		if reservation.PlanID == excludePlanID {
			own = own.Add(reservation.Quantity)
			continue
		}
		others = append(others, reservation)
		planIDs = append(planIDs, reservation.PlanID)
	}
	if len(others) == 0 {
		return entities.ZeroQty, own, nil
	}

	statuses, err := r.plans.GetPlanStatuses(ctx, planIDs)
	if err != nil {
		return entities.ZeroQty, own, fmt.Errorf("failed to read plan statuses for %s: %w: %w", part, entities.ErrUnavailableDependency, err)
	}

	total := entities.ZeroQty
	for _, reservation := range others {
		status, known := statuses[reservation.PlanID]
		if !known || !status.IsActive() {
			continue
		}
		total = total.Add(reservation.Quantity)
	}
	return total, own, nil
}
