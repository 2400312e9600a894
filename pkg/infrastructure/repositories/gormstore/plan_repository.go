package gormstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/vsinha/prodplan/pkg/domain/entities"
	"github.com/vsinha/prodplan/pkg/domain/repositories"
)

// PlanRepository stores production plans in SQL
type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

var _ repositories.PlanRepository = (*PlanRepository)(nil)

func (r *PlanRepository) GetPlan(ctx context.Context, id entities.PlanID) (*entities.ProductionPlan, error) {
	var row PlanModel
	err := r.db.WithContext(ctx).First(&row, "id = ?", string(id)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", entities.ErrPlanNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return row.toEntity(), nil
}

func (r *PlanRepository) GetPlanStatuses(ctx context.Context, ids []entities.PlanID) (map[entities.PlanID]entities.PlanStatus, error) {
	statuses := make(map[entities.PlanID]entities.PlanStatus, len(ids))
	if len(ids) == 0 {
		return statuses, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, string(id))
	}

	var rows []PlanModel
	err := r.db.WithContext(ctx).
		Select("id", "status").
		Where("id IN ?", keys).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		statuses[entities.PlanID(row.ID)] = entities.PlanStatus(row.Status)
	}
	return statuses, nil
}

// SavePlan inserts or fully replaces a plan
func (r *PlanRepository) SavePlan(ctx context.Context, plan *entities.ProductionPlan) error {
	row := planModelFrom(plan)
	return r.db.WithContext(ctx).Save(&row).Error
}

// LoadPlans saves every plan
func (r *PlanRepository) LoadPlans(ctx context.Context, plans []*entities.ProductionPlan) error {
	for _, plan := range plans {
		if err := r.SavePlan(ctx, plan); err != nil {
			return err
		}
	}
	return nil
}
