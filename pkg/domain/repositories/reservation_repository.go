package repositories

import (
	"context"

	"github.com/vsinha/prodplan/pkg/domain/entities"
)

// ReservationRepository stores reservations keyed by (plan, part)
type ReservationRepository interface {
	ListReservations(ctx context.Context, part entities.PartCode) ([]*entities.Reservation, error)
	ListPlanReservations(ctx context.Context, planID entities.PlanID) ([]*entities.Reservation, error)
	// GetReservation reports found=false when the plan holds nothing for the part
	GetReservation(ctx context.Context, planID entities.PlanID, part entities.PartCode) (qty entities.Quantity, found bool, err error)
	// UpsertReservation replaces any prior quantity for the (plan, part) pair
	UpsertReservation(ctx context.Context, reservation *entities.Reservation) error
	// DeleteReservation reports whether a reservation existed
	DeleteReservation(ctx context.Context, planID entities.PlanID, part entities.PartCode) (bool, error)
}
