package gormstore

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vsinha/prodplan/pkg/domain/entities"
	"github.com/vsinha/prodplan/pkg/domain/repositories"
)

// BOMRepository reads BOM rows from SQL
type BOMRepository struct {
	db *gorm.DB
}

func NewBOMRepository(db *gorm.DB) *BOMRepository {
	return &BOMRepository{db: db}
}

var _ repositories.BOMRepository = (*BOMRepository)(nil)

func (r *BOMRepository) GetBOMItems(ctx context.Context, product entities.ProductCode) ([]*entities.BOMItem, error) {
	var rows []BOMItemModel
	err := r.db.WithContext(ctx).
		Where("product_code = ?", string(product)).
		Order("station_code, part_code").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]*entities.BOMItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, &entities.BOMItem{
			ProductCode: entities.ProductCode(row.ProductCode),
			StationCode: entities.StationCode(row.StationCode),
			PartCode:    entities.PartCode(row.PartCode),
			QtyPerUnit:  row.QtyPerUnit,
		})
	}
	return items, nil
}

// LoadBOMItems upserts rows on (product, station, part)
func (r *BOMRepository) LoadBOMItems(ctx context.Context, items []*entities.BOMItem) error {
	if len(items) == 0 {
		return nil
	}
	rows := make([]BOMItemModel, 0, len(items))
	for _, item := range items {
		rows = append(rows, BOMItemModel{
			ProductCode: string(item.ProductCode),
			StationCode: string(item.StationCode),
			PartCode:    string(item.PartCode),
			QtyPerUnit:  item.QtyPerUnit,
		})
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_code"}, {Name: "station_code"}, {Name: "part_code"}},
		DoUpdates: clause.AssignmentColumns([]string{"qty_per_unit"}),
	}).Create(&rows).Error
}
