package services

import (
	"fmt"
	"sort"

	"github.com/vsinha/prodplan/pkg/domain/entities"
)

// BOMValidator checks a BOM table and its part master for integrity problems
type BOMValidator struct{}

// NewBOMValidator creates a new BOM validator
func NewBOMValidator() *BOMValidator {
	return &BOMValidator{}
}

// ValidationResult contains the results of BOM validation
type ValidationResult struct {
	DuplicateItems    []entities.BOMItem
	InvalidQuantities []entities.BOMItem
	UnknownParts      []entities.PartCode
	DuplicateParts    []entities.PartCode
	Errors            []string
	Warnings          []string
}

// IsValid reports whether validation found no errors. Warnings do not count.
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// ValidateBOM validates BOM items against the part master.
// Duplicate rows and non-positive quantities are errors. Parts without a master
// record are warnings: netting still computes their shortage but cannot schedule
// procurement.
func (v *BOMValidator) ValidateBOM(items []*entities.BOMItem, parts []*entities.Part) *ValidationResult {
	result := &ValidationResult{
		DuplicateItems:    make([]entities.BOMItem, 0),
		InvalidQuantities: make([]entities.BOMItem, 0),
		UnknownParts:      make([]entities.PartCode, 0),
		Errors:            make([]string, 0),
		Warnings:          make([]string, 0),
	}

	result.DuplicateItems = v.detectDuplicateItems(items)
	if len(result.DuplicateItems) > 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("Found %d duplicate BOM items", len(result.DuplicateItems)))
	}

	for _, item := range items {
		if !item.QtyPerUnit.IsPositive() {
			result.InvalidQuantities = append(result.InvalidQuantities, *item)
			result.Errors = append(result.Errors, fmt.Sprintf("BOM item %s has non-positive quantity per unit %s", item.Key(), item.QtyPerUnit))
		}
	}

	known := make(map[entities.PartCode]bool, len(parts))
	for _, part := range parts {
		known[part.Code] = true
	}
	unknown := make(map[entities.PartCode]bool)
	for _, item := range items {
		if !known[item.PartCode] {
			unknown[item.PartCode] = true
		}
	}
	for code := range unknown {
		result.UnknownParts = append(result.UnknownParts, code)
	}
	sort.Slice(result.UnknownParts, func(i, j int) bool { return result.UnknownParts[i] < result.UnknownParts[j] })
	for _, code := range result.UnknownParts {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Part %s is used in the BOM but has no part master record", code))
	}

	result.DuplicateParts = v.detectDuplicateParts(parts)
	if len(result.DuplicateParts) > 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("Duplicate part codes found: %v", result.DuplicateParts))
	}

	return result
}

// detectDuplicateItems finds BOM items sharing product, station and part
func (v *BOMValidator) detectDuplicateItems(items []*entities.BOMItem) []entities.BOMItem {
	seen := make(map[string]*entities.BOMItem)
	duplicates := make([]entities.BOMItem, 0)

	for _, item := range items {
		key := item.Key()
		if existing, exists := seen[key]; exists {
			duplicates = append(duplicates, *item)
			duplicates = append(duplicates, *existing)
		} else {
			seen[key] = item
		}
	}

	return duplicates
}

func (v *BOMValidator) detectDuplicateParts(parts []*entities.Part) []entities.PartCode {
	seen := make(map[entities.PartCode]bool)
	duplicates := make([]entities.PartCode, 0)

	for _, part := range parts {
		if seen[part.Code] {
			duplicates = append(duplicates, part.Code)
		} else {
			seen[part.Code] = true
		}
	}

	return duplicates
}
