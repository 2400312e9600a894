package entities

import (
	"fmt"
	"time"
)

// InventoryRecord is the on-hand counter of a part
type InventoryRecord struct {
	PartCode PartCode
	OnHand   Quantity
}

// Reservation is the quantity of a part provisionally committed to an active plan
type Reservation struct {
	PlanID   PlanID
	PartCode PartCode
	Quantity Quantity
}

// NewReservation creates a validated Reservation
func NewReservation(planID PlanID, partCode PartCode, quantity Quantity) (*Reservation, error) {
	if string(planID) == "" {
		return nil, fmt.Errorf("plan id cannot be empty")
	}
	if string(partCode) == "" {
		return nil, fmt.Errorf("part code cannot be empty")
	}
	if !quantity.IsPositive() {
		return nil, fmt.Errorf("reserved quantity must be positive, got %s", quantity)
	}

	return &Reservation{
		PlanID:   planID,
		PartCode: partCode,
		Quantity: quantity,
	}, nil
}

// ScheduledReceipt is an inbound purchase order line not yet received
type ScheduledReceipt struct {
	ID           string
	PartCode     PartCode
	Quantity     Quantity
	ExpectedDate time.Time
}

// NewScheduledReceipt creates a validated ScheduledReceipt
func NewScheduledReceipt(id string, partCode PartCode, quantity Quantity, expectedDate time.Time) (*ScheduledReceipt, error) {
	if id == "" {
		return nil, fmt.Errorf("receipt id cannot be empty")
	}
	if string(partCode) == "" {
		return nil, fmt.Errorf("part code cannot be empty")
	}
	if !quantity.IsPositive() {
		return nil, fmt.Errorf("receipt quantity must be positive, got %s", quantity)
	}
	if expectedDate.IsZero() {
		return nil, fmt.Errorf("expected date cannot be empty")
	}

	return &ScheduledReceipt{
		ID:           id,
		PartCode:     partCode,
		Quantity:     quantity,
		ExpectedDate: DateOf(expectedDate),
	}, nil
}

// ArrivesBy reports whether the receipt is expected on or before cutoff
func (r *ScheduledReceipt) ArrivesBy(cutoff time.Time) bool {
	return !DateOf(r.ExpectedDate).After(DateOf(cutoff))
}
