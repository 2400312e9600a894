package gormstore

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vsinha/prodplan/pkg/domain/entities"
	"github.com/vsinha/prodplan/pkg/domain/repositories"
)

// ReservationRepository stores reservations in SQL keyed by (plan_id, part_code)
type ReservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

var _ repositories.ReservationRepository = (*ReservationRepository)(nil)

func (r *ReservationRepository) ListReservations(ctx context.Context, part entities.PartCode) ([]*entities.Reservation, error) {
	var rows []ReservationModel
	err := r.db.WithContext(ctx).
		Where("part_code = ?", string(part)).
		Order("plan_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toReservations(rows), nil
}

func (r *ReservationRepository) ListPlanReservations(ctx context.Context, planID entities.PlanID) ([]*entities.Reservation, error) {
	var rows []ReservationModel
	err := r.db.WithContext(ctx).
		Where("plan_id = ?", string(planID)).
		Order("part_code").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toReservations(rows), nil
}

func (r *ReservationRepository) GetReservation(ctx context.Context, planID entities.PlanID, part entities.PartCode) (entities.Quantity, bool, error) {
	var row ReservationModel
	err := r.db.WithContext(ctx).
		First(&row, "plan_id = ? AND part_code = ?", string(planID), string(part)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.ZeroQty, false, nil
	}
	if err != nil {
		return entities.ZeroQty, false, err
	}
	return row.Quantity, true, nil
}

// UpsertReservation replaces the quantity in a single INSERT ... ON CONFLICT statement
func (r *ReservationRepository) UpsertReservation(ctx context.Context, reservation *entities.Reservation) error {
	row := ReservationModel{
		PlanID:    string(reservation.PlanID),
		PartCode:  string(reservation.PartCode),
		Quantity:  reservation.Quantity,
		UpdatedAt: time.Now().UTC(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "plan_id"}, {Name: "part_code"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
	}).Create(&row).Error
}

func (r *ReservationRepository) DeleteReservation(ctx context.Context, planID entities.PlanID, part entities.PartCode) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("plan_id = ? AND part_code = ?", string(planID), string(part)).
		Delete(&ReservationModel{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// LoadReservations upserts every reservation
func (r *ReservationRepository) LoadReservations(ctx context.Context, reservations []*entities.Reservation) error {
	for _, reservation := range reservations {
		if err := r.UpsertReservation(ctx, reservation); err != nil {
			return err
		}
	}
	return nil
}

func toReservations(rows []ReservationModel) []*entities.Reservation {
	result := make([]*entities.Reservation, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toEntity())
	}
	return result
}
