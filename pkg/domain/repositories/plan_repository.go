package repositories

import (
	"context"

	"github.com/vsinha/prodplan/pkg/domain/entities"
)

// PlanRepository provides access to production plans
type PlanRepository interface {
	// GetPlan returns entities.ErrPlanNotFound for unknown ids
	GetPlan(ctx context.Context, id entities.PlanID) (*entities.ProductionPlan, error)
	// GetPlanStatuses returns the status of every known id; unknown ids are omitted.
	GetPlanStatuses(ctx context.Context, ids []entities.PlanID) (map[entities.PlanID]entities.PlanStatus, error)
	SavePlan(ctx context.Context, plan *entities.ProductionPlan) error
}
