package gormstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vsinha/prodplan/pkg/domain/entities"
	"github.com/vsinha/prodplan/pkg/domain/repositories"
)

// PartRepository reads the part master from SQL
type PartRepository struct {
	db *gorm.DB
}

func NewPartRepository(db *gorm.DB) *PartRepository {
	return &PartRepository{db: db}
}

var _ repositories.PartRepository = (*PartRepository)(nil)

func (r *PartRepository) GetPart(ctx context.Context, code entities.PartCode) (*entities.Part, error) {
	var row PartModel
	err := r.db.WithContext(ctx).First(&row, "code = ?", string(code)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", entities.ErrPartNotFound, code)
	}
	if err != nil {
		return nil, err
	}
	return row.toEntity(), nil
}

// LoadParts upserts parts by code
func (r *PartRepository) LoadParts(ctx context.Context, parts []*entities.Part) error {
	if len(parts) == 0 {
		return nil
	}
	rows := make([]PartModel, 0, len(parts))
	for _, part := range parts {
		rows = append(rows, PartModel{
			Code:          string(part.Code),
			Description:   part.Description,
			LeadTimeDays:  part.LeadTimeDays,
			SafetyStock:   part.SafetyStock,
			Supplier:      part.Supplier,
			UnitOfMeasure: part.UnitOfMeasure,
		})
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"description", "lead_time_days", "safety_stock", "supplier", "unit_of_measure", "updated_at"}),
	}).Create(&rows).Error
}
