package netting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/vsinha/prodplan/pkg/application/dto"
	"github.com/vsinha/prodplan/pkg/application/services/availability"
	"github.com/vsinha/prodplan/pkg/application/services/bomindex"
	"github.com/vsinha/prodplan/pkg/domain/entities"
	"github.com/vsinha/prodplan/pkg/domain/repositories"
	"github.com/vsinha/prodplan/pkg/infrastructure/metrics"
)

// PartResolver resolves a product into raw BOM rows
type PartResolver interface {
	ResolveParts(ctx context.Context, product entities.ProductCode) ([]bomindex.Entry, error)
}

// AvailabilityResolver resolves the supply position of a part for a plan
type AvailabilityResolver interface {
	Resolve(ctx context.Context, part entities.PartCode, excludePlanID entities.PlanID, cutoff time.Time) (availability.Availability, error)
}

// EngineConfig holds configuration for the netting engine
type EngineConfig struct {
	// Workers bounds concurrent per-part availability lookups
	Workers int
	// Clock supplies "now" for lead-time breach detection
	Clock  func() time.Time
	Logger zerolog.Logger
}

// Service computes requirement reports. Calculation never mutates state.
type Service struct {
	plans    repositories.PlanRepository
	parts    repositories.PartRepository
	bomIndex PartResolver
	resolver AvailabilityResolver
	config   EngineConfig
	logger   zerolog.Logger
}

// NewService creates a netting engine with default configuration
func NewService(
	plans repositories.PlanRepository,
	parts repositories.PartRepository,
	bomIndex PartResolver,
	resolver AvailabilityResolver,
) *Service {
	return NewServiceWithConfig(plans, parts, bomIndex, resolver, EngineConfig{
		Workers: 8,
		Clock:   time.Now,
		Logger:  zerolog.Nop(),
	})
}

// NewServiceWithConfig creates a netting engine with custom configuration
func NewServiceWithConfig(
	plans repositories.PlanRepository,
	parts repositories.PartRepository,
	bomIndex PartResolver,
	resolver AvailabilityResolver,
	config EngineConfig,
) *Service {
	if config.Workers <= 0 {
		config.Workers = 1
	}
	if config.Clock == nil {
		config.Clock = time.Now
	}
	return &Service{
		plans:    plans,
		parts:    parts,
		bomIndex: bomIndex,
		resolver: resolver,
		config:   config,
		logger:   config.Logger.With().Str("component", "netting").Logger(),
	}
}

// Calculate loads a plan and computes its requirement report. Completed and
// cancelled plans no longer take part in netting and are rejected with
// entities.ErrPlanNotActive.
func (s *Service) Calculate(ctx context.Context, planID entities.PlanID) (*dto.RequirementReport, error) {
	plan, err := s.plans.GetPlan(ctx, planID)
	if err != nil {
		if errors.Is(err, entities.ErrPlanNotFound) {
			metrics.RecordCalculation("plan_not_found", 0)
			return nil, err
		}
		metrics.RecordCalculation("error", 0)
		return nil, fmt.Errorf("failed to load plan %s: %w: %w", planID, entities.ErrUnavailableDependency, err)
	}
	if !plan.IsActive() {
		metrics.RecordCalculation("plan_not_active", 0)
		return nil, fmt.Errorf("%w: %s is %s", entities.ErrPlanNotActive, planID, plan.Status)
	}
	return s.CalculateForPlan(ctx, plan)
}

// CalculateForPlan computes the report for a plan that need not be stored yet
func (s *Service) CalculateForPlan(ctx context.Context, plan *entities.ProductionPlan) (*dto.RequirementReport, error) {
	started := time.Now()

	report, err := s.calculate(ctx, plan)
	if err != nil {
		outcome := "error"
		if errors.Is(err, entities.ErrEmptyBOM) {
			outcome = "empty_bom"
		}
		metrics.RecordCalculation(outcome, time.Since(started))
		s.logger.Warn().Err(err).Str("plan", string(plan.ID)).Msg("requirement calculation failed")
		return nil, err
	}

	metrics.RecordCalculation("ok", time.Since(started))
	metrics.RecordShortageLines(report.ShortageSummary.ShortageCount)
	s.logger.Info().
		Str("plan", string(plan.ID)).
		Str("product", string(plan.ProductCode)).
		Int("parts", len(report.Requirements)).
		Int("shortages", report.ShortageSummary.ShortageCount).
		Dur("elapsed", time.Since(started)).
		Msg("requirements calculated")

	return report, nil
}

func (s *Service) calculate(ctx context.Context, plan *entities.ProductionPlan) (*dto.RequirementReport, error) {
	entries, err := s.bomIndex.ResolveParts(ctx, plan.ProductCode)
	if err != nil {
		if errors.Is(err, entities.ErrProductNotFound) {
			return nil, fmt.Errorf("plan %s: %w: %w", plan.ID, entities.ErrEmptyBOM, err)
		}
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("plan %s: %w: %s", plan.ID, entities.ErrEmptyBOM, plan.ProductCode)
	}

	requirements := bomindex.Aggregate(entries, plan.PlannedQuantity)
	lines := make([]dto.RequirementLine, len(requirements))
	today := entities.DateOf(s.config.Clock())

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.config.Workers)
	for i := range requirements {
		index := i
		group.Go(func() error {
			line, err := s.netPart(groupCtx, plan, requirements[index], today)
			if err != nil {
				return err
			}
			lines[index] = line
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	return &dto.RequirementReport{
		PlanID:          plan.ID,
		ProductCode:     plan.ProductCode,
		PlannedQuantity: plan.PlannedQuantity,
		StartDate:       entities.DateOf(plan.StartDate),
		Requirements:    lines,
		ShortageSummary: dto.NewShortageSummary(lines),
	}, nil
}

// netPart builds the requirement line of one part
func (s *Service) netPart(
	ctx context.Context,
	plan *entities.ProductionPlan,
	req bomindex.PartRequirement,
	today time.Time,
) (dto.RequirementLine, error) {
	avail, err := s.resolver.Resolve(ctx, req.PartCode, plan.ID, plan.StartDate)
	if err != nil {
		return dto.RequirementLine{}, err
	}

	available := avail.Available()
	shortage := entities.MaxQty(entities.ZeroQty, req.RequiredQuantity.Sub(available))

	line := dto.RequirementLine{
		PartCode:                    req.PartCode,
		RequiredQuantity:            req.RequiredQuantity,
		CurrentStock:                avail.CurrentStock,
		TotalReservedStock:          avail.TotalReservedByOthers,
		PlanReservedQuantity:        avail.PlanReservedQuantity,
		ScheduledReceiptsUntilStart: avail.ScheduledReceiptsUntilCutoff,
		AvailableStock:              available,
		ShortageQuantity:            shortage,
		IsSufficient:                shortage.IsZero(),
		SafetyStock:                 entities.ZeroQty,
		OverReserved:                avail.OverReserved(),
		UsedInStations:              req.UsedInStations,
	}

	part, err := s.parts.GetPart(ctx, req.PartCode)
	switch {
	case errors.Is(err, entities.ErrPartNotFound):
		s.logger.Warn().Str("plan", string(plan.ID)).Str("part", string(req.PartCode)).Msg("part master missing, lead time unknown")
	case err != nil:
		return dto.RequirementLine{}, fmt.Errorf("failed to load part %s: %w: %w", req.PartCode, entities.ErrUnavailableDependency, err)
	default:
		line.LeadTimeKnown = true
		line.LeadTimeDays = part.LeadTimeDays
		line.SafetyStock = part.SafetyStock
		line.UnitOfMeasure = part.UnitOfMeasure
	}

	line.BelowSafetyStock = available.Sub(req.RequiredQuantity).LessThan(line.SafetyStock)

	if !line.IsSufficient && line.LeadTimeKnown {
		due := entities.SubtractDays(plan.StartDate, part.LeadTimeDays)
		line.ProcurementDueDate = &due
		line.Supplier = part.Supplier
		line.LeadTimeBreached = due.Before(today)
	}

	return line, nil
}
