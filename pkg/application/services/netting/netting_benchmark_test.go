package netting

import (
	"context"
	"fmt"
	"testing"

	fixtures "github.com/vsinha/prodplan/pkg/application/services/testing"
	"github.com/vsinha/prodplan/pkg/domain/entities"
)

// setupWideBOM builds a product with parts spread over stations, stock on every
// part and competing reservations from other active plans
func setupWideBOM(parts, stations, competingPlans int) *fixtures.Scenario {
	s := fixtures.NewScenario().WithPlan("BENCH", "WIDE", 25, start, entities.PlanPlanned)
	for i := 0; i < parts; i++ {
		code := fmt.Sprintf("PART_%04d", i)
		s.WithPart(code, 7+i%30, 0, "SUPPLIER").WithStock(code, int64(50+i%100))
		for st := 0; st < stations; st++ {
			if (i+st)%2 == 0 {
				s.WithBOMItem("WIDE", fmt.Sprintf("ST%02d", st), code, entities.Qty(int64(1+st)))
			}
		}
		if i%3 == 0 {
			s.WithReceipt(fmt.Sprintf("PO-%04d", i), code, 20, start.AddDate(0, 0, -2))
		}
	}
	for p := 0; p < competingPlans; p++ {
		planID := fmt.Sprintf("OTHER_%03d", p)
		s.WithPlan(planID, "WIDE", 1, start, entities.PlanInProgress)
		for i := p; i < parts; i += competingPlans {
			s.WithReservation(planID, fmt.Sprintf("PART_%04d", i), 5)
		}
	}
	return s
}

func BenchmarkCalculate_WideBOM(b *testing.B) {
	for _, size := range []int{50, 500} {
		b.Run(fmt.Sprintf("parts=%d", size), func(b *testing.B) {
			ctx := context.Background()
			engine := newEngine(setupWideBOM(size, 4, 10))

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := engine.Calculate(ctx, "BENCH"); err != nil {
					b.Fatalf("Calculate failed: %v", err)
				}
			}
		})
	}
}

func TestCalculate_WideBOMCoversEveryPart(t *testing.T) {
	engine := newEngine(setupWideBOM(120, 4, 7))

	report, err := engine.Calculate(context.Background(), "BENCH")
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	if len(report.Requirements) != 120 {
		t.Fatalf("Expected 120 requirement lines, got %d", len(report.Requirements))
	}
	for i := 1; i < len(report.Requirements); i++ {
		if report.Requirements[i-1].PartCode >= report.Requirements[i].PartCode {
			t.Fatalf("Requirements not sorted at %d", i)
		}
	}
	for _, line := range report.Requirements {
		if line.ShortageQuantity.IsNegative() {
			t.Errorf("Negative shortage for %s", line.PartCode)
		}
		if !line.TotalReservedStock.Equal(entities.Qty(5)) {
			t.Errorf("Expected 5 reserved by others for %s, got %s", line.PartCode, line.TotalReservedStock)
		}
	}
}
