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

// InventoryRepository keeps on-hand counters in SQL
type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

var _ repositories.InventoryRepository = (*InventoryRepository)(nil)

func (r *InventoryRepository) GetStock(ctx context.Context, part entities.PartCode) (entities.Quantity, error) {
	var row InventoryModel
	err := r.db.WithContext(ctx).First(&row, "part_code = ?", string(part)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.ZeroQty, nil
	}
	if err != nil {
		return entities.ZeroQty, err
	}
	return row.OnHand, nil
}

// AdjustStock applies delta with a single conditional UPDATE so concurrent
// writers cannot lose an update or drive the counter negative.
func (r *InventoryRepository) AdjustStock(ctx context.Context, part entities.PartCode, delta entities.Quantity) (entities.Quantity, error) {
	var result entities.Quantity
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seed := InventoryModel{PartCode: string(part), OnHand: entities.ZeroQty}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
			return err
		}

		update := tx.Model(&InventoryModel{}).
			Where("part_code = ? AND on_hand + ? >= 0", string(part), delta).
			Update("on_hand", gorm.Expr("on_hand + ?", delta))
		if update.Error != nil {
			return update.Error
		}

		var row InventoryModel
		if err := tx.First(&row, "part_code = ?", string(part)).Error; err != nil {
			return err
		}
		result = row.OnHand

		if update.RowsAffected == 0 {
			return fmt.Errorf("%w: %s has %s, adjustment %s", entities.ErrInsufficientStock, part, row.OnHand, delta)
		}
		return nil
	})
	return result, err
}

// LoadInventory overwrites counters with the given records
func (r *InventoryRepository) LoadInventory(ctx context.Context, records []*entities.InventoryRecord) error {
	if len(records) == 0 {
		return nil
	}
	rows := make([]InventoryModel, 0, len(records))
	for _, record := range records {
		rows = append(rows, InventoryModel{PartCode: string(record.PartCode), OnHand: record.OnHand})
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "part_code"}},
		DoUpdates: clause.AssignmentColumns([]string{"on_hand", "updated_at"}),
	}).Create(&rows).Error
}
