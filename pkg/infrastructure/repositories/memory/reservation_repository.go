package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/vsinha/prodplan/pkg/domain/entities"
	"github.com/vsinha/prodplan/pkg/domain/repositories"
)

type reservationKey struct {
	planID entities.PlanID
	part   entities.PartCode
}

// ReservationRepository provides in-memory reservation storage
type ReservationRepository struct {
	mu           sync.RWMutex
	reservations map[reservationKey]entities.Quantity
}

// NewReservationRepository creates a new in-memory reservation repository
func NewReservationRepository() *ReservationRepository {
	return &ReservationRepository{
		reservations: make(map[reservationKey]entities.Quantity),
	}
}

// Verify interface compliance
var _ repositories.ReservationRepository = (*ReservationRepository)(nil)

// LoadReservations loads reservations into the repository
func (r *ReservationRepository) LoadReservations(ctx context.Context, reservations []*entities.Reservation) error {
	for _, reservation := range reservations {
		if err := r.UpsertReservation(ctx, reservation); err != nil {
			return err
		}
	}
	return nil
}

// ListReservations returns every reservation held against a part, ordered by plan id
func (r *ReservationRepository) ListReservations(ctx context.Context, part entities.PartCode) ([]*entities.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*entities.Reservation
	for key, qty := range r.reservations {
		if key.part == part {
			result = append(result, &entities.Reservation{PlanID: key.planID, PartCode: key.part, Quantity: qty})
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].PlanID < result[j].PlanID
	})
	return result, nil
}

// ListPlanReservations returns every reservation held by a plan, ordered by part code
func (r *ReservationRepository) ListPlanReservations(ctx context.Context, planID entities.PlanID) ([]*entities.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*entities.Reservation
	for key, qty := range r.reservations {
		if key.planID == planID {
			result = append(result, &entities.Reservation{PlanID: key.planID, PartCode: key.part, Quantity: qty})
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].PartCode < result[j].PartCode
	})
	return result, nil
}

// GetReservation returns the quantity a plan holds for a part
func (r *ReservationRepository) GetReservation(ctx context.Context, planID entities.PlanID, part entities.PartCode) (entities.Quantity, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	qty, found := r.reservations[reservationKey{planID: planID, part: part}]
	if !found {
		return entities.ZeroQty, false, nil
	}
	return qty, true, nil
}

// UpsertReservation replaces the quantity for the (plan, part) pair
func (r *ReservationRepository) UpsertReservation(ctx context.Context, reservation *entities.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.reservations[reservationKey{planID: reservation.PlanID, part: reservation.PartCode}] = reservation.Quantity
	return nil
}

// DeleteReservation removes the (plan, part) pair
func (r *ReservationRepository) DeleteReservation(ctx context.Context, planID entities.PlanID, part entities.PartCode) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := reservationKey{planID: planID, part: part}
	if _, found := r.reservations[key]; !found {
		return false, nil
	}
	delete(r.reservations, key)
	return true, nil
}
