package reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/vsinha/prodplan/pkg/domain/entities"
	"github.com/vsinha/prodplan/pkg/domain/repositories"
	"github.com/vsinha/prodplan/pkg/infrastructure/events"
	"github.com/vsinha/prodplan/pkg/infrastructure/locking"
	"github.com/vsinha/prodplan/pkg/infrastructure/metrics"
)

// Config holds the collaborators of the reservation manager
type Config struct {
	// Locker is shared with every other writer that must be serialized per part
	Locker *locking.PartLocker
	Events events.Publisher
	Logger zerolog.Logger
}

// Manager owns all reservation mutations. Writes for the same part are
// serialized; writes for different parts run independently.
type Manager struct {
	reservations repositories.ReservationRepository
	plans        repositories.PlanRepository
	locker       *locking.PartLocker
	events       events.Publisher
	logger       zerolog.Logger
}

// NewManager creates a reservation manager
func NewManager(
	reservations repositories.ReservationRepository,
	plans repositories.PlanRepository,
	config Config,
) *Manager {
	if config.Locker == nil {
		config.Locker = locking.NewPartLocker(locking.DefaultConfig())
	}
	if config.Events == nil {
		config.Events = events.Discard
	}
	return &Manager{
		reservations: reservations,
		plans:        plans,
		locker:       config.Locker,
		events:       config.Events,
		logger:       config.Logger.With().Str("component", "reservation").Logger(),
	}
}

// Reserve sets the plan's reservation for part to quantity, replacing any
// prior value. A zero quantity releases the reservation.
func (m *Manager) Reserve(ctx context.Context, planID entities.PlanID, part entities.PartCode, quantity entities.Quantity) error {
	if quantity.IsNegative() {
		return fmt.Errorf("reserved quantity cannot be negative, got %s", quantity)
	}
	if quantity.IsZero() {
		_, err := m.Release(ctx, planID, part)
		return err
	}
	if _, err := entities.NewReservation(planID, part, quantity); err != nil {
		return err
	}

	plan, err := m.plans.GetPlan(ctx, planID)
	if err != nil {
		if errors.Is(err, entities.ErrPlanNotFound) {
			return err
		}
		return fmt.Errorf("failed to load plan %s: %w: %w", planID, entities.ErrUnavailableDependency, err)
	}
	if !plan.IsActive() {
		return fmt.Errorf("%w: %s is %s", entities.ErrPlanNotActive, planID, plan.Status)
	}

	return m.locker.WithLock(ctx, part, func() error {
		previous, _, err := m.reservations.GetReservation(ctx, planID, part)
		if err != nil {
			return fmt.Errorf("failed to read reservation %s/%s: %w: %w", planID, part, entities.ErrUnavailableDependency, err)
		}
		if previous.Equal(quantity) {
			return nil
		}

		err = m.reservations.UpsertReservation(ctx, &entities.Reservation{
			PlanID:   planID,
			PartCode: part,
			Quantity: quantity,
		})
		if err != nil {
			return fmt.Errorf("failed to store reservation %s/%s: %w: %w", planID, part, entities.ErrUnavailableDependency, err)
		}

		metrics.RecordReservationMutation("reserve")
		m.publish(events.NewReservationEvent(planID, part, previous, quantity))
		m.logger.Info().
			Str("plan", string(planID)).
			Str("part", string(part)).
			Str("from", previous.String()).
			Str("to", quantity.String()).
			Msg("reservation set")
		return nil
	})
}

// Release removes the plan's reservation for part and reports whether one existed
func (m *Manager) Release(ctx context.Context, planID entities.PlanID, part entities.PartCode) (bool, error) {
	var released bool
	err := m.locker.WithLock(ctx, part, func() error {
		previous, found, err := m.reservations.GetReservation(ctx, planID, part)
		if err != nil {
			return fmt.Errorf("failed to read reservation %s/%s: %w: %w", planID, part, entities.ErrUnavailableDependency, err)
		}
		if !found {
			return nil
		}

		released, err = m.reservations.DeleteReservation(ctx, planID, part)
		if err != nil {
			return fmt.Errorf("failed to delete reservation %s/%s: %w: %w", planID, part, entities.ErrUnavailableDependency, err)
		}
		if released {
			metrics.RecordReservationMutation("release")
			m.publish(events.NewReservationEvent(planID, part, previous, entities.ZeroQty))
			m.logger.Info().Str("plan", string(planID)).Str("part", string(part)).Msg("reservation released")
		}
		return nil
	})
	return released, err
}

// ReleaseAll removes every reservation held by the plan, locking one part at a time
func (m *Manager) ReleaseAll(ctx context.Context, planID entities.PlanID) (int, error) {
	held, err := m.reservations.ListPlanReservations(ctx, planID)
	if err != nil {
		return 0, fmt.Errorf("failed to list reservations of %s: %w: %w", planID, entities.ErrUnavailableDependency, err)
	}

	count := 0
	for _, reservation := range held {
		released, err := m.Release(ctx, planID, reservation.PartCode)
		if err != nil {
			return count, err
		}
		if released {
			count++
		}
	}

	metrics.RecordReservationMutation("release_all")
	m.logger.Info().Str("plan", string(planID)).Int("released", count).Msg("plan reservations released")
	return count, nil
}

// PlanReservations lists the reservations currently held by a plan
func (m *Manager) PlanReservations(ctx context.Context, planID entities.PlanID) ([]*entities.Reservation, error) {
	held, err := m.reservations.ListPlanReservations(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations of %s: %w: %w", planID, entities.ErrUnavailableDependency, err)
	}
	return held, nil
}

func (m *Manager) publish(event events.Event) {
	if err := m.events.AppendEvent(event.StreamID(), event); err != nil {
		m.logger.Error().Err(err).Str("type", event.Type()).Msg("failed to append event")
	}
}
