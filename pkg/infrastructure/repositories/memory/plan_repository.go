package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/vsinha/prodplan/pkg/domain/entities"
	"github.com/vsinha/prodplan/pkg/domain/repositories"
)

// PlanRepository provides in-memory production plan storage
type PlanRepository struct {
	mu    sync.RWMutex
	plans map[entities.PlanID]entities.ProductionPlan
}

// NewPlanRepository creates a new in-memory plan repository
func NewPlanRepository() *PlanRepository {
	return &PlanRepository{
		plans: make(map[entities.PlanID]entities.ProductionPlan),
	}
}

// Verify interface compliance
var _ repositories.PlanRepository = (*PlanRepository)(nil)

// LoadPlans loads plans into the repository
func (r *PlanRepository) LoadPlans(ctx context.Context, plans []*entities.ProductionPlan) error {
	for _, plan := range plans {
		if err := r.SavePlan(ctx, plan); err != nil {
			return err
		}
	}
	return nil
}

// SavePlan inserts or replaces a plan
func (r *PlanRepository) SavePlan(ctx context.Context, plan *entities.ProductionPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.plans[plan.ID] = *plan
	return nil
}

// GetPlan returns a copy of the plan
func (r *PlanRepository) GetPlan(ctx context.Context, id entities.PlanID) (*entities.ProductionPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	plan, exists := r.plans[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", entities.ErrPlanNotFound, id)
	}
	return &plan, nil
}

// GetPlanStatuses returns the status of every known plan id
func (r *PlanRepository) GetPlanStatuses(ctx context.Context, ids []entities.PlanID) (map[entities.PlanID]entities.PlanStatus, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	statuses := make(map[entities.PlanID]entities.PlanStatus, len(ids))
	for _, id := range ids {
		if plan, exists := r.plans[id]; exists {
			statuses[id] = plan.Status
		}
	}
	return statuses, nil
}
