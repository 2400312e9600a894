package entities

import "errors"

var (
	// ErrPlanNotFound is returned when a plan id does not resolve
	ErrPlanNotFound = errors.New("plan not found")
	// ErrProductNotFound is returned when a product has no BOM items
	ErrProductNotFound = errors.New("product not found")
	// ErrEmptyBOM is returned when a plan references a product with no parts
	ErrEmptyBOM = errors.New("product has an empty bill of materials")
	// ErrPartNotFound is returned by the part master for unknown part codes
	ErrPartNotFound = errors.New("part not found")
	// ErrPartNotInBOM is returned when reserving a part the plan's product does not use
	ErrPartNotInBOM = errors.New("part is not in the bill of materials")
	// ErrUnavailableDependency wraps storage/read failures of a collaborator
	ErrUnavailableDependency = errors.New("dependency unavailable")
	// ErrInvalidTransition is returned for plan status changes outside the lifecycle
	ErrInvalidTransition = errors.New("invalid plan status transition")
	// ErrPlanNotActive is returned when reserving for a completed or cancelled plan
	ErrPlanNotActive = errors.New("plan is not active")
	// ErrLockTimeout is returned when a per-part lock cannot be acquired
	ErrLockTimeout = errors.New("timed out acquiring part lock")
	// ErrInsufficientStock is returned when an adjustment would drive stock negative
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrReceiptNotFound is returned for unknown scheduled receipt ids
	ErrReceiptNotFound = errors.New("scheduled receipt not found")
)
