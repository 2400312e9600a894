package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vsinha/prodplan/pkg/domain/entities"
	"github.com/vsinha/prodplan/pkg/domain/repositories"
)

// ReceiptRepository stores open scheduled receipts in SQL
type ReceiptRepository struct {
	db *gorm.DB
}

func NewReceiptRepository(db *gorm.DB) *ReceiptRepository {
	return &ReceiptRepository{db: db}
}

var _ repositories.ReceiptRepository = (*ReceiptRepository)(nil)

// ListReceipts returns receipts expected on or before the notAfter calendar day
func (r *ReceiptRepository) ListReceipts(ctx context.Context, part entities.PartCode, notAfter time.Time) ([]*entities.ScheduledReceipt, error) {
	dayAfter := entities.DateOf(notAfter).AddDate(0, 0, 1)

	var rows []ReceiptModel
	err := r.db.WithContext(ctx).
		Where("part_code = ? AND expected_date < ?", string(part), dayAfter).
		Order("expected_date, id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	receipts := make([]*entities.ScheduledReceipt, 0, len(rows))
	for _, row := range rows {
		receipts = append(receipts, row.toEntity())
	}
	return receipts, nil
}

func (r *ReceiptRepository) GetReceipt(ctx context.Context, id string) (*entities.ScheduledReceipt, error) {
	var row ReceiptModel
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", entities.ErrReceiptNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return row.toEntity(), nil
}

func (r *ReceiptRepository) DeleteReceipt(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&ReceiptModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", entities.ErrReceiptNotFound, id)
	}
	return nil
}

// LoadReceipts upserts receipts by id
func (r *ReceiptRepository) LoadReceipts(ctx context.Context, receipts []*entities.ScheduledReceipt) error {
	if len(receipts) == 0 {
		return nil
	}
	rows := make([]ReceiptModel, 0, len(receipts))
	for _, receipt := range receipts {
		rows = append(rows, ReceiptModel{
			ID:           receipt.ID,
			PartCode:     string(receipt.PartCode),
			Quantity:     receipt.Quantity,
			ExpectedDate: entities.DateOf(receipt.ExpectedDate),
		})
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"part_code", "quantity", "expected_date"}),
	}).Create(&rows).Error
}
