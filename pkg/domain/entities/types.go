package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// PartCode represents a unique part identifier in the part master
type PartCode string

// ProductCode identifies a finished product whose BOM is exploded
type ProductCode string

// StationCode identifies the production station a BOM row is consumed at
type StationCode string

// PlanID identifies a production plan
type PlanID string

// Quantity is an exact part quantity. Parts measured by length or weight
// carry fractional quantities, so float arithmetic is never used.
type Quantity = decimal.Decimal

// ZeroQty is the zero quantity
var ZeroQty = decimal.Zero

// Qty builds a whole-unit quantity
func Qty(n int64) Quantity {
	return decimal.NewFromInt(n)
}

// MaxQty returns the larger of two quantities
func MaxQty(a, b Quantity) Quantity {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// DateOf returns the calendar day of t, as seen in t's own location, at UTC
// midnight. Plan start dates and receipt arrival dates are compared at
// calendar-day granularity and must not shift when stored or compared across
// zones.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SubtractDays performs calendar-day subtraction with no business-day adjustment
func SubtractDays(t time.Time, days int) time.Time {
	return DateOf(t).AddDate(0, 0, -days)
}
