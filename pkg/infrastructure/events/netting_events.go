package events

import (
	"github.com/vsinha/prodplan/pkg/domain/entities"
)

const (
	ReservationCreatedEvent  = "reservation.created"
	ReservationUpdatedEvent  = "reservation.updated"
	ReservationReleasedEvent = "reservation.released"

	StockAdjustedEvent = "stock.adjusted"

	PlanStatusChangedEvent = "plan.status_changed"
)

type ReservationChanged struct {
	PlanID      entities.PlanID   `json:"plan_id"`
	PartCode    entities.PartCode `json:"part_code"`
	OldQuantity entities.Quantity `json:"old_quantity"`
	NewQuantity entities.Quantity `json:"new_quantity"`
}

type StockAdjusted struct {
	PartCode entities.PartCode `json:"part_code"`
	Delta    entities.Quantity `json:"delta"`
	OnHand   entities.Quantity `json:"on_hand"`
	Reason   string            `json:"reason"`
}

type PlanStatusChanged struct {
	PlanID entities.PlanID     `json:"plan_id"`
	From   entities.PlanStatus `json:"from"`
	To     entities.PlanStatus `json:"to"`
}

// NewReservationEvent picks created/updated/released from the old and new quantities
func NewReservationEvent(planID entities.PlanID, part entities.PartCode, oldQty, newQty entities.Quantity) Event {
	eventType := ReservationUpdatedEvent
	switch {
	case oldQty.IsZero():
		eventType = ReservationCreatedEvent
	case newQty.IsZero():
		eventType = ReservationReleasedEvent
	}
	return NewEvent(eventType, string(part), ReservationChanged{
		PlanID:      planID,
		PartCode:    part,
		OldQuantity: oldQty,
		NewQuantity: newQty,
	})
}

func NewStockAdjustedEvent(part entities.PartCode, delta, onHand entities.Quantity, reason string) Event {
	return NewEvent(StockAdjustedEvent, string(part), StockAdjusted{
		PartCode: part,
		Delta:    delta,
		OnHand:   onHand,
		Reason:   reason,
	})
}

func NewPlanStatusChangedEvent(planID entities.PlanID, from, to entities.PlanStatus) Event {
	return NewEvent(PlanStatusChangedEvent, string(planID), PlanStatusChanged{
		PlanID: planID,
		From:   from,
		To:     to,
	})
}
