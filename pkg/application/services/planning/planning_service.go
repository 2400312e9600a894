package planning

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vsinha/prodplan/pkg/application/services/bomindex"
	"github.com/vsinha/prodplan/pkg/domain/entities"
	"github.com/vsinha/prodplan/pkg/domain/repositories"
	"github.com/vsinha/prodplan/pkg/infrastructure/events"
)

// PartResolver resolves a product into raw BOM rows
type PartResolver interface {
	ResolveParts(ctx context.Context, product entities.ProductCode) ([]bomindex.Entry, error)
}

// Reserver is the reservation side of the plan lifecycle
type Reserver interface {
	Reserve(ctx context.Context, planID entities.PlanID, part entities.PartCode, quantity entities.Quantity) error
	Release(ctx context.Context, planID entities.PlanID, part entities.PartCode) (bool, error)
	ReleaseAll(ctx context.Context, planID entities.PlanID) (int, error)
	PlanReservations(ctx context.Context, planID entities.PlanID) ([]*entities.Reservation, error)
}

// CreatePlanRequest carries the planner's input for a new plan
type CreatePlanRequest struct {
	ProductCode     entities.ProductCode
	PlannedQuantity int64
	StartDate       time.Time
	Location        string
	Remarks         string
	CreatedBy       string
}

// Config holds configuration for the planning service
type Config struct {
	Events events.Publisher
	Clock  func() time.Time
	Logger zerolog.Logger
}

// Service drives the production plan lifecycle and the reservations tied to it
type Service struct {
	plans    repositories.PlanRepository
	bomIndex PartResolver
	reserver Reserver
	events   events.Publisher
	clock    func() time.Time
	logger   zerolog.Logger
}

// NewService creates a planning service
func NewService(plans repositories.PlanRepository, bomIndex PartResolver, reserver Reserver, config Config) *Service {
	if config.Events == nil {
		config.Events = events.Discard
	}
	if config.Clock == nil {
		config.Clock = time.Now
	}
	return &Service{
		plans:    plans,
		bomIndex: bomIndex,
		reserver: reserver,
		events:   config.Events,
		clock:    config.Clock,
		logger:   config.Logger.With().Str("component", "planning").Logger(),
	}
}

// CreatePlan validates and stores a new plan in planned status. No stock is reserved.
func (s *Service) CreatePlan(ctx context.Context, req CreatePlanRequest) (*entities.ProductionPlan, error) {
	plan, err := entities.NewProductionPlan(
		entities.PlanID(uuid.NewString()),
		req.ProductCode,
		req.PlannedQuantity,
		req.StartDate,
		req.Location,
		req.Remarks,
		req.CreatedBy,
	)
	if err != nil {
		return nil, err
	}

	if _, err := s.bomIndex.ResolveParts(ctx, plan.ProductCode); err != nil {
		if errors.Is(err, entities.ErrProductNotFound) {
			return nil, fmt.Errorf("%w: %w", entities.ErrEmptyBOM, err)
		}
		return nil, err
	}

	now := s.clock().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now
	if err := s.plans.SavePlan(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to save plan: %w: %w", entities.ErrUnavailableDependency, err)
	}

	s.logger.Info().
		Str("plan", string(plan.ID)).
		Str("product", string(plan.ProductCode)).
		Int64("quantity", plan.PlannedQuantity).
		Msg("plan created")
	return plan, nil
}

// Commit reserves the full required quantity of every BOM part for the plan and
// releases reservations for parts no longer in the BOM.
func (s *Service) Commit(ctx context.Context, planID entities.PlanID) ([]*entities.Reservation, error) {
	plan, err := s.activePlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	return s.reserveRequirements(ctx, plan)
}

// ReservePart sets the plan's reservation for one part of its product's BOM.
// A zero quantity releases the reservation whether or not the part is still
// in the BOM.
func (s *Service) ReservePart(ctx context.Context, planID entities.PlanID, part entities.PartCode, quantity entities.Quantity) error {
	if !quantity.IsPositive() {
		return s.reserver.Reserve(ctx, planID, part, quantity)
	}

	plan, err := s.activePlan(ctx, planID)
	if err != nil {
		return err
	}
	entries, err := s.bomIndex.ResolveParts(ctx, plan.ProductCode)
	if err != nil {
		if errors.Is(err, entities.ErrProductNotFound) {
			return fmt.Errorf("plan %s: %w: %w", planID, entities.ErrEmptyBOM, err)
		}
		return err
	}
	for _, entry := range entries {
		if entry.PartCode == part {
			return s.reserver.Reserve(ctx, planID, part, quantity)
		}
	}
	return fmt.Errorf("%w: %s is not used by %s", entities.ErrPartNotInBOM, part, plan.ProductCode)
}

// ChangeQuantity updates the planned quantity and, when the plan is committed,
// re-reserves against the new quantity.
func (s *Service) ChangeQuantity(ctx context.Context, planID entities.PlanID, quantity int64) (*entities.ProductionPlan, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("planned quantity must be positive, got %d", quantity)
	}
	plan, err := s.activePlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	held, err := s.reserver.PlanReservations(ctx, planID)
	if err != nil {
		return nil, err
	}

	plan.PlannedQuantity = quantity
	plan.UpdatedAt = s.clock().UTC()
	if err := s.plans.SavePlan(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to save plan %s: %w: %w", planID, entities.ErrUnavailableDependency, err)
	}

	if len(held) > 0 {
		if _, err := s.reserveRequirements(ctx, plan); err != nil {
			return nil, err
		}
	}
	return plan, nil
}

// Transition moves the plan through its lifecycle. Leaving the active states
// releases every reservation the plan holds.
func (s *Service) Transition(ctx context.Context, planID entities.PlanID, to entities.PlanStatus) (*entities.ProductionPlan, error) {
	plan, err := s.plans.GetPlan(ctx, planID)
	if err != nil {
		return nil, s.wrapPlanError(planID, err)
	}

	from := plan.Status
	if !from.CanTransitionTo(to) {
		return nil, fmt.Errorf("%w: %s -> %s", entities.ErrInvalidTransition, from, to)
	}

	plan.Status = to
	plan.UpdatedAt = s.clock().UTC()
	if err := s.plans.SavePlan(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to save plan %s: %w: %w", planID, entities.ErrUnavailableDependency, err)
	}

	if !to.IsActive() {
		if _, err := s.reserver.ReleaseAll(ctx, planID); err != nil {
			return nil, err
		}
	}

	event := events.NewPlanStatusChangedEvent(planID, from, to)
	if err := s.events.AppendEvent(event.StreamID(), event); err != nil {
		s.logger.Error().Err(err).Msg("failed to append event")
	}
	s.logger.Info().Str("plan", string(planID)).Str("from", from.String()).Str("to", to.String()).Msg("plan status changed")
	return plan, nil
}

func (s *Service) reserveRequirements(ctx context.Context, plan *entities.ProductionPlan) ([]*entities.Reservation, error) {
	entries, err := s.bomIndex.ResolveParts(ctx, plan.ProductCode)
	if err != nil {
		if errors.Is(err, entities.ErrProductNotFound) {
			return nil, fmt.Errorf("plan %s: %w: %w", plan.ID, entities.ErrEmptyBOM, err)
		}
		return nil, err
	}

	requirements := bomindex.Aggregate(entries, plan.PlannedQuantity)
	wanted := make(map[entities.PartCode]bool, len(requirements))
	reserved := make([]*entities.Reservation, 0, len(requirements))
	for _, req := range requirements {
		wanted[req.PartCode] = true
		if err := s.reserver.Reserve(ctx, plan.ID, req.PartCode, req.RequiredQuantity); err != nil {
			return nil, err
		}
		reserved = append(reserved, &entities.Reservation{
			PlanID:   plan.ID,
			PartCode: req.PartCode,
			Quantity: req.RequiredQuantity,
		})
	}

	held, err := s.reserver.PlanReservations(ctx, plan.ID)
	if err != nil {
		return nil, err
	}
	for _, reservation := range held {
		if !wanted[reservation.PartCode] {
			if _, err := s.reserver.Release(ctx, plan.ID, reservation.PartCode); err != nil {
				return nil, err
			}
		}
	}

	s.logger.Info().Str("plan", string(plan.ID)).Int("parts", len(reserved)).Msg("plan committed")
	return reserved, nil
}

func (s *Service) activePlan(ctx context.Context, planID entities.PlanID) (*entities.ProductionPlan, error) {
	plan, err := s.plans.GetPlan(ctx, planID)
	if err != nil {
		return nil, s.wrapPlanError(planID, err)
	}
	if !plan.IsActive() {
		return nil, fmt.Errorf("%w: %s is %s", entities.ErrPlanNotActive, planID, plan.Status)
	}
	return plan, nil
}

func (s *Service) wrapPlanError(planID entities.PlanID, err error) error {
	if errors.Is(err, entities.ErrPlanNotFound) {
		return err
	}
	return fmt.Errorf("failed to load plan %s: %w: %w", planID, entities.ErrUnavailableDependency, err)
}
