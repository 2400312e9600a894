package gormstore

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/prodplan/pkg/domain/entities"
)

// PartModel is the part master row
type PartModel struct {
	Code          string          `gorm:"primaryKey;size:64"`
	Description   string          `gorm:"size:255"`
	LeadTimeDays  int             `gorm:"not null;default:0"`
	SafetyStock   decimal.Decimal `gorm:"type:numeric(18,6);not null"`
	Supplier      string          `gorm:"size:128"`
	UnitOfMeasure string          `gorm:"size:16;not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (PartModel) TableName() string {
	return "parts"
}

func (m PartModel) toEntity() *entities.Part {
	return &entities.Part{
		Code:          entities.PartCode(m.Code),
		Description:   m.Description,
		LeadTimeDays:  m.LeadTimeDays,
		SafetyStock:   m.SafetyStock,
		Supplier:      m.Supplier,
		UnitOfMeasure: m.UnitOfMeasure,
	}
}

// BOMItemModel is one (product, station, part) row
type BOMItemModel struct {
	ID          uint            `gorm:"primaryKey"`
	ProductCode string          `gorm:"size:64;not null;uniqueIndex:idx_bom_row,priority:1"`
	StationCode string          `gorm:"size:64;not null;uniqueIndex:idx_bom_row,priority:2"`
	PartCode    string          `gorm:"size:64;not null;uniqueIndex:idx_bom_row,priority:3"`
	QtyPerUnit  decimal.Decimal `gorm:"type:numeric(18,6);not null"`
}

func (BOMItemModel) TableName() string {
	return "bom_items"
}

// PlanModel is a production plan row
type PlanModel struct {
	ID              string    `gorm:"primaryKey;size:64"`
	ProductCode     string    `gorm:"size:64;not null;index"`
	PlannedQuantity int64     `gorm:"not null"`
	StartDate       time.Time `gorm:"not null"`
	Status          string    `gorm:"size:16;not null;index"`
	Location        string    `gorm:"size:64"`
	Remarks         string    `gorm:"type:text"`
	CreatedBy       string    `gorm:"size:64"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (PlanModel) TableName() string {
	return "production_plans"
}

func (m PlanModel) toEntity() *entities.ProductionPlan {
	return &entities.ProductionPlan{
		ID:              entities.PlanID(m.ID),
		ProductCode:     entities.ProductCode(m.ProductCode),
		PlannedQuantity: m.PlannedQuantity,
		StartDate:       entities.DateOf(m.StartDate.UTC()),
		Status:          entities.PlanStatus(m.Status),
		Location:        m.Location,
		Remarks:         m.Remarks,
		CreatedBy:       m.CreatedBy,
		CreatedAt:       m.CreatedAt.UTC(),
		UpdatedAt:       m.UpdatedAt.UTC(),
	}
}

func planModelFrom(plan *entities.ProductionPlan) PlanModel {
	return PlanModel{
		ID:              string(plan.ID),
		ProductCode:     string(plan.ProductCode),
		PlannedQuantity: plan.PlannedQuantity,
		StartDate:       entities.DateOf(plan.StartDate),
		Status:          string(plan.Status),
		Location:        plan.Location,
		Remarks:         plan.Remarks,
		CreatedBy:       plan.CreatedBy,
		CreatedAt:       plan.CreatedAt,
		UpdatedAt:       plan.UpdatedAt,
	}
}

// InventoryModel is the single on-hand counter of a part
type InventoryModel struct {
	PartCode  string          `gorm:"primaryKey;size:64"`
	OnHand    decimal.Decimal `gorm:"type:numeric(18,6);not null"`
	UpdatedAt time.Time
}

func (InventoryModel) TableName() string {
	return "inventory"
}

// ReservationModel is keyed by (plan, part)
type ReservationModel struct {
	PlanID    string          `gorm:"primaryKey;size:64"`
	PartCode  string          `gorm:"primaryKey;size:64;index"`
	Quantity  decimal.Decimal `gorm:"type:numeric(18,6);not null"`
	UpdatedAt time.Time
}

func (ReservationModel) TableName() string {
	return "reservations"
}

func (m ReservationModel) toEntity() *entities.Reservation {
	return &entities.Reservation{
		PlanID:   entities.PlanID(m.PlanID),
		PartCode: entities.PartCode(m.PartCode),
		Quantity: m.Quantity,
	}
}

// ReceiptModel is an open scheduled receipt
type ReceiptModel struct {
	ID           string          `gorm:"primaryKey;size:64"`
	PartCode     string          `gorm:"size:64;not null;index:idx_receipt_part_date,priority:1"`
	Quantity     decimal.Decimal `gorm:"type:numeric(18,6);not null"`
	ExpectedDate time.Time       `gorm:"not null;index:idx_receipt_part_date,priority:2"`
}

func (ReceiptModel) TableName() string {
	return "scheduled_receipts"
}

func (m ReceiptModel) toEntity() *entities.ScheduledReceipt {
	return &entities.ScheduledReceipt{
		ID:           m.ID,
		PartCode:     entities.PartCode(m.PartCode),
		Quantity:     m.Quantity,
		ExpectedDate: entities.DateOf(m.ExpectedDate.UTC()),
	}
}

// AllModels lists every table for AutoMigrate
func AllModels() []interface{} {
	return []interface{}{
		&PartModel{},
		&BOMItemModel{},
		&PlanModel{},
		&InventoryModel{},
		&ReservationModel{},
		&ReceiptModel{},
	}
}
