package entities

import (
	"fmt"
	"strings"
	"time"
)

// PlanStatus represents the lifecycle state of a production plan
type PlanStatus string

const (
	PlanPlanned    PlanStatus = "planned"
	PlanInProgress PlanStatus = "in-progress"
	PlanCompleted  PlanStatus = "completed"
	PlanCancelled  PlanStatus = "cancelled"
)

// planTransitions lists the statuses reachable from each status
var planTransitions = map[PlanStatus][]PlanStatus{
	PlanPlanned:    {PlanInProgress, PlanCancelled},
	PlanInProgress: {PlanCompleted},
}

// ParsePlanStatus parses a status name, accepting "in_progress" as an alias
func ParsePlanStatus(s string) (PlanStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "planned":
		return PlanPlanned, nil
	case "in-progress", "in_progress", "inprogress":
		return PlanInProgress, nil
	case "completed":
		return PlanCompleted, nil
	case "cancelled", "canceled":
		return PlanCancelled, nil
	default:
		return "", fmt.Errorf("invalid plan status: %s (expected: planned, in-progress, completed, or cancelled)", s)
	}
}

// String method for PlanStatus
func (s PlanStatus) String() string {
	return string(s)
}

// IsActive reports whether plans in this status hold reservations and take part in netting
func (s PlanStatus) IsActive() bool {
	return s == PlanPlanned || s == PlanInProgress
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next
func (s PlanStatus) CanTransitionTo(next PlanStatus) bool {
	for _, allowed := range planTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ProductionPlan represents a planner's intent to build a quantity of a product
type ProductionPlan struct {
	ID              PlanID
	ProductCode     ProductCode
	PlannedQuantity int64
	StartDate       time.Time
	Status          PlanStatus
	Location        string
	Remarks         string
	CreatedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewProductionPlan creates a validated ProductionPlan in planned status
func NewProductionPlan(
	id PlanID,
	product ProductCode,
	plannedQuantity int64,
	startDate time.Time,
	location, remarks, createdBy string,
) (*ProductionPlan, error) {
	if string(id) == "" {
		return nil, fmt.Errorf("plan id cannot be empty")
	}
	if string(product) == "" {
		return nil, fmt.Errorf("product code cannot be empty")
	}
	if plannedQuantity <= 0 {
		return nil, fmt.Errorf("planned quantity must be positive, got %d", plannedQuantity)
	}
	if startDate.IsZero() {
		return nil, fmt.Errorf("start date cannot be empty")
	}

	return &ProductionPlan{
		ID:              id,
		ProductCode:     product,
		PlannedQuantity: plannedQuantity,
		StartDate:       DateOf(startDate),
		Status:          PlanPlanned,
		Location:        location,
		Remarks:         remarks,
		CreatedBy:       createdBy,
	}, nil
}

// IsActive reports whether the plan participates in reservation and netting
func (p *ProductionPlan) IsActive() bool {
	return p.Status.IsActive()
}
