package dto

import (
	"time"

	"github.com/vsinha/prodplan/pkg/domain/entities"
)

// RequirementLine is the netting result for one distinct part of a plan
type RequirementLine struct {
	PartCode                    entities.PartCode `json:"part_code"`
	RequiredQuantity            entities.Quantity `json:"required_quantity"`
	CurrentStock                entities.Quantity `json:"current_stock"`
	TotalReservedStock          entities.Quantity `json:"total_reserved_stock"`
	PlanReservedQuantity        entities.Quantity `json:"plan_reserved_quantity"`
	ScheduledReceiptsUntilStart entities.Quantity `json:"scheduled_receipts_until_start"`
	AvailableStock              entities.Quantity `json:"available_stock"`
	ShortageQuantity            entities.Quantity `json:"shortage_quantity"`
	IsSufficient                bool              `json:"is_sufficient"`

	// Set only when ShortageQuantity > 0 and the part master resolves
	ProcurementDueDate *time.Time `json:"procurement_due_date"`
	Supplier           string     `json:"supplier"`
	LeadTimeDays       int        `json:"lead_time_days"`
	LeadTimeKnown      bool       `json:"lead_time_known"`
	LeadTimeBreached   bool       `json:"lead_time_breached"`

	SafetyStock      entities.Quantity `json:"safety_stock"`
	BelowSafetyStock bool              `json:"below_safety_stock"`
	OverReserved     bool              `json:"over_reserved"`
	UnitOfMeasure    string            `json:"unit_of_measure,omitempty"`

	UsedInStations []entities.StationCode `json:"used_in_stations"`
}

// ShortageSummary lists the lines of a report with a positive shortage
type ShortageSummary struct {
	HasShortage   bool              `json:"has_shortage"`
	ShortageCount int               `json:"shortage_count"`
	ShortageLines []RequirementLine `json:"shortage_lines"`
}

// RequirementReport is a point-in-time snapshot of a plan's material position.
// It carries no generation timestamp so repeated calculations over unchanged
// data serialize identically.
type RequirementReport struct {
	PlanID          entities.PlanID      `json:"plan_id"`
	ProductCode     entities.ProductCode `json:"product_code"`
	PlannedQuantity int64                `json:"planned_quantity"`
	StartDate       time.Time            `json:"start_date"`
	Requirements    []RequirementLine    `json:"requirements"`
	ShortageSummary ShortageSummary      `json:"shortage_summary"`
}

// NewShortageSummary derives the summary from the report lines
func NewShortageSummary(lines []RequirementLine) ShortageSummary {
	summary := ShortageSummary{ShortageLines: []RequirementLine{}}
	for _, line := range lines {
		if line.ShortageQuantity.IsPositive() {
			summary.ShortageLines = append(summary.ShortageLines, line)
		}
	}
	summary.ShortageCount = len(summary.ShortageLines)
	summary.HasShortage = summary.ShortageCount > 0
	return summary
}

// Line returns the requirement line for a part
func (r *RequirementReport) Line(part entities.PartCode) (RequirementLine, bool) {
	for _, line := range r.Requirements {
		if line.PartCode == part {
			return line, true
		}
	}
	return RequirementLine{}, false
}
