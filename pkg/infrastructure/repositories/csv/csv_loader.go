package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/prodplan/pkg/domain/entities"
)

const dateLayout = "2006-01-02"

// Scenario is the full data set of one scenario directory
type Scenario struct {
	Parts        []*entities.Part
	BOMItems     []*entities.BOMItem
	Inventory    []*entities.InventoryRecord
	Receipts     []*entities.ScheduledReceipt
	Plans        []*entities.ProductionPlan
	Reservations []*entities.Reservation
}

// Loader handles loading netting data from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadScenario loads parts.csv, bom.csv, stock.csv, plans.csv and, when present,
// receipts.csv and reservations.csv from dir.
func (l *Loader) LoadScenario(dir string) (*Scenario, error) {
	var err error
	scenario := &Scenario{}

	if scenario.Parts, err = l.LoadParts(filepath.Join(dir, "parts.csv")); err != nil {
		return nil, err
	}
	if scenario.BOMItems, err = l.LoadBOM(filepath.Join(dir, "bom.csv")); err != nil {
		return nil, err
	}
	if scenario.Inventory, err = l.LoadStock(filepath.Join(dir, "stock.csv")); err != nil {
		return nil, err
	}
	if scenario.Plans, err = l.LoadPlans(filepath.Join(dir, "plans.csv")); err != nil {
		return nil, err
	}
	if scenario.Receipts, err = l.LoadReceipts(filepath.Join(dir, "receipts.csv")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	if scenario.Reservations, err = l.LoadReservations(filepath.Join(dir, "reservations.csv")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	return scenario, nil
}

// LoadParts loads the part master from a CSV file
func (l *Loader) LoadParts(filename string) ([]*entities.Part, error) {
	expectedHeader := []string{"code", "description", "lead_time_days", "safety_stock", "supplier", "unit_of_measure"}
	rows, err := readRecords(filename, "parts", expectedHeader)
	if err != nil {
		return nil, err
	}

	parts := make([]*entities.Part, 0, len(rows))
	for i, record := range rows {
		leadTimeDays, err := strconv.Atoi(strings.TrimSpace(record[2]))
		if err != nil {
			return nil, fmt.Errorf("parts CSV row %d: invalid lead_time_days: %s", i+2, record[2])
		}
		safetyStock, err := parseQuantity(record[3], "safety_stock")
		if err != nil {
			return nil, fmt.Errorf("parts CSV row %d: %w", i+2, err)
		}

		part, err := entities.NewPart(
			entities.PartCode(strings.TrimSpace(record[0])),
			record[1],
			leadTimeDays,
			safetyStock,
			strings.TrimSpace(record[4]),
			strings.TrimSpace(record[5]),
		)
		if err != nil {
			return nil, fmt.Errorf("parts CSV row %d: %w", i+2, err)
		}
		parts = append(parts, part)
	}

	return parts, nil
}

// LoadBOM loads BOM items from a CSV file
func (l *Loader) LoadBOM(filename string) ([]*entities.BOMItem, error) {
	expectedHeader := []string{"product_code", "station_code", "part_code", "qty_per_unit"}
	rows, err := readRecords(filename, "BOM", expectedHeader)
	if err != nil {
		return nil, err
	}

	items := make([]*entities.BOMItem, 0, len(rows))
	for i, record := range rows {
		qtyPerUnit, err := parseQuantity(record[3], "qty_per_unit")
		if err != nil {
			return nil, fmt.Errorf("BOM CSV row %d: %w", i+2, err)
		}

		item, err := entities.NewBOMItem(
			entities.ProductCode(strings.TrimSpace(record[0])),
			entities.StationCode(strings.TrimSpace(record[1])),
			entities.PartCode(strings.TrimSpace(record[2])),
			qtyPerUnit,
		)
		if err != nil {
			return nil, fmt.Errorf("BOM CSV row %d: %w", i+2, err)
		}
		items = append(items, item)
	}

	return items, nil
}

// LoadStock loads on-hand quantities from a CSV file
func (l *Loader) LoadStock(filename string) ([]*entities.InventoryRecord, error) {
	expectedHeader := []string{"part_code", "on_hand"}
	rows, err := readRecords(filename, "stock", expectedHeader)
	if err != nil {
		return nil, err
	}

	records := make([]*entities.InventoryRecord, 0, len(rows))
	for i, record := range rows {
		partCode := strings.TrimSpace(record[0])
		if partCode == "" {
			return nil, fmt.Errorf("stock CSV row %d: part code cannot be empty", i+2)
		}
		onHand, err := parseQuantity(record[1], "on_hand")
		if err != nil {
			return nil, fmt.Errorf("stock CSV row %d: %w", i+2, err)
		}
		if onHand.IsNegative() {
			return nil, fmt.Errorf("stock CSV row %d: on_hand cannot be negative, got %s", i+2, onHand)
		}
		records = append(records, &entities.InventoryRecord{PartCode: entities.PartCode(partCode), OnHand: onHand})
	}

	return records, nil
}

// LoadReceipts loads open scheduled receipts from a CSV file
func (l *Loader) LoadReceipts(filename string) ([]*entities.ScheduledReceipt, error) {
	expectedHeader := []string{"id", "part_code", "quantity", "expected_date"}
	rows, err := readRecords(filename, "receipts", expectedHeader)
	if err != nil {
		return nil, err
	}

	receipts := make([]*entities.ScheduledReceipt, 0, len(rows))
	for i, record := range rows {
		quantity, err := parseQuantity(record[2], "quantity")
		if err != nil {
			return nil, fmt.Errorf("receipts CSV row %d: %w", i+2, err)
		}
		expected, err := time.Parse(dateLayout, strings.TrimSpace(record[3]))
		if err != nil {
			return nil, fmt.Errorf("receipts CSV row %d: invalid expected_date format: %s (expected YYYY-MM-DD)", i+2, record[3])
		}

		receipt, err := entities.NewScheduledReceipt(
			strings.TrimSpace(record[0]),
			entities.PartCode(strings.TrimSpace(record[1])),
			quantity,
			expected,
		)
		if err != nil {
			return nil, fmt.Errorf("receipts CSV row %d: %w", i+2, err)
		}
		receipts = append(receipts, receipt)
	}

	return receipts, nil
}

// LoadPlans loads production plans from a CSV file
func (l *Loader) LoadPlans(filename string) ([]*entities.ProductionPlan, error) {
	expectedHeader := []string{"id", "product_code", "planned_quantity", "start_date", "status", "location", "remarks"}
	rows, err := readRecords(filename, "plans", expectedHeader)
	if err != nil {
		return nil, err
	}

	plans := make([]*entities.ProductionPlan, 0, len(rows))
	for i, record := range rows {
		quantity, err := strconv.ParseInt(strings.TrimSpace(record[2]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("plans CSV row %d: invalid planned_quantity: %s", i+2, record[2])
		}
		startDate, err := time.Parse(dateLayout, strings.TrimSpace(record[3]))
		if err != nil {
			return nil, fmt.Errorf("plans CSV row %d: invalid start_date format: %s (expected YYYY-MM-DD)", i+2, record[3])
		}
		status, err := entities.ParsePlanStatus(record[4])
		if err != nil {
			return nil, fmt.Errorf("plans CSV row %d: %w", i+2, err)
		}

		plan, err := entities.NewProductionPlan(
			entities.PlanID(strings.TrimSpace(record[0])),
			entities.ProductCode(strings.TrimSpace(record[1])),
			quantity,
			startDate,
			record[5],
			record[6],
			"csv",
		)
		if err != nil {
			return nil, fmt.Errorf("plans CSV row %d: %w", i+2, err)
		}
		plan.Status = status
		plans = append(plans, plan)
	}

	return plans, nil
}

// LoadReservations loads existing reservations from a CSV file
func (l *Loader) LoadReservations(filename string) ([]*entities.Reservation, error) {
	expectedHeader := []string{"plan_id", "part_code", "quantity"}
	rows, err := readRecords(filename, "reservations", expectedHeader)
	if err != nil {
		return nil, err
	}

	reservations := make([]*entities.Reservation, 0, len(rows))
	for i, record := range rows {
		quantity, err := parseQuantity(record[2], "quantity")
		if err != nil {
			return nil, fmt.Errorf("reservations CSV row %d: %w", i+2, err)
		}
		reservation, err := entities.NewReservation(
			entities.PlanID(strings.TrimSpace(record[0])),
			entities.PartCode(strings.TrimSpace(record[1])),
			quantity,
		)
		if err != nil {
			return nil, fmt.Errorf("reservations CSV row %d: %w", i+2, err)
		}
		reservations = append(reservations, reservation)
	}

	return reservations, nil
}

// readRecords returns the data rows of a CSV file after validating its header.
// A header-only file yields no rows.
func readRecords(filename, kind string, expectedHeader []string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %s: %w", kind, filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comment = '#'
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", kind, err)
	}

	if len(records) < 1 {
		return nil, fmt.Errorf("%s CSV must have a header row", kind)
	}

	header := records[0]
	if !validateHeader(header, expectedHeader) {
		return nil, fmt.Errorf("%s CSV header mismatch. Expected: %v, Got: %v", kind, expectedHeader, header)
	}

	rows := records[1:]
	for i, record := range rows {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("%s CSV row %d: expected %d columns, got %d", kind, i+2, len(expectedHeader), len(record))
		}
	}
	return rows, nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}

	return true
}

func parseQuantity(s, field string) (entities.Quantity, error) {
	qty, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return entities.ZeroQty, fmt.Errorf("invalid %s: %s", field, s)
	}
	return qty, nil
}
