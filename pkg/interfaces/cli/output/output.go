package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vsinha/prodplan/pkg/application/dto"
)

const dateLayout = "2006-01-02"

// Config holds configuration for output generation
type Config struct {
	Format          string
	OutputDir       string
	Verbose         bool
	CalculationTime time.Duration
}

// Generate writes the reports in the configured format. Text and JSON go to w
// unless OutputDir is set; CSV always needs OutputDir.
func Generate(reports []*dto.RequirementReport, config Config, w io.Writer) error {
	switch config.Format {
	case "text":
		return generateTextOutput(reports, config, w)
	case "json":
		return generateJSONOutput(reports, config, w)
	case "csv":
		return generateCSVOutput(reports, config, w)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// generateTextOutput creates human-readable text output
func generateTextOutput(reports []*dto.RequirementReport, config Config, w io.Writer) error {
	for _, report := range reports {
		fmt.Fprintf(w, "📊 Requirement Report: %s\n", report.PlanID)
		fmt.Fprintf(w, "======================\n\n")
		fmt.Fprintf(w, "Product: %s\n", report.ProductCode)
		fmt.Fprintf(w, "Planned Quantity: %d\n", report.PlannedQuantity)
		fmt.Fprintf(w, "Start Date: %s\n", report.StartDate.Format(dateLayout))
		fmt.Fprintf(w, "Parts: %d\n", len(report.Requirements))
		fmt.Fprintf(w, "Shortages: %d\n", report.ShortageSummary.ShortageCount)
		if config.Verbose {
			fmt.Fprintf(w, "Calculation Time: %v\n", config.CalculationTime)
		}
		fmt.Fprintln(w)

		if len(report.Requirements) > 0 {
			fmt.Fprintf(w, "📋 Requirements:\n")
			fmt.Fprintf(w, "%-15s %-10s %-10s %-10s %-10s %-10s %-10s %-20s\n",
				"Part Code", "Required", "Stock", "Reserved", "Receipts", "Available", "Shortage", "Stations")
			fmt.Fprintf(w, "%-15s %-10s %-10s %-10s %-10s %-10s %-10s %-20s\n",
				"---------------", "----------", "----------", "----------", "----------", "----------", "----------", "--------------------")

			for _, line := range report.Requirements {
				stations := make([]string, len(line.UsedInStations))
				for i, station := range line.UsedInStations {
					stations[i] = string(station)
				}
				fmt.Fprintf(w, "%-15s %-10s %-10s %-10s %-10s %-10s %-10s %-20s\n",
					line.PartCode,
					line.RequiredQuantity,
					line.CurrentStock,
					line.TotalReservedStock,
					line.ScheduledReceiptsUntilStart,
					line.AvailableStock,
					line.ShortageQuantity,
					strings.Join(stations, ","))
			}
			fmt.Fprintln(w)
		}

		if report.ShortageSummary.HasShortage {
			fmt.Fprintf(w, "⚠️  Shortages:\n")
			fmt.Fprintf(w, "%-15s %-10s %-12s %-15s %-10s\n",
				"Part Code", "Short Qty", "Order By", "Supplier", "Lead Time")
			fmt.Fprintf(w, "%-15s %-10s %-12s %-15s %-10s\n",
				"---------------", "----------", "------------", "---------------", "----------")

			for _, line := range report.ShortageSummary.ShortageLines {
				dueDate := "unknown"
				if line.ProcurementDueDate != nil {
					dueDate = line.ProcurementDueDate.Format(dateLayout)
					if line.LeadTimeBreached {
						dueDate += " !"
					}
				}
				leadTime := "unknown"
				if line.LeadTimeKnown {
					leadTime = strconv.Itoa(line.LeadTimeDays) + "d"
				}
				fmt.Fprintf(w, "%-15s %-10s %-12s %-15s %-10s\n",
					line.PartCode,
					line.ShortageQuantity,
					dueDate,
					line.Supplier,
					leadTime)
			}
			fmt.Fprintln(w)
		} else {
			fmt.Fprintf(w, "✅ All parts sufficient\n\n")
		}
	}

	return nil
}

// generateJSONOutput creates JSON output
func generateJSONOutput(reports []*dto.RequirementReport, config Config, w io.Writer) error {
	var payload interface{} = reports
	if len(reports) == 1 {
		payload = reports[0]
	}

	jsonData, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if config.OutputDir == "" {
		fmt.Fprintln(w, string(jsonData))
		return nil
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, "requirements.json")
	if err := os.WriteFile(filename, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(w, "💾 JSON results saved to: %s\n", filename)
	}
	return nil
}

// generateCSVOutput creates one requirements CSV across all reports
func generateCSVOutput(reports []*dto.RequirementReport, config Config, w io.Writer) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for CSV format")
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, "requirements.csv")
	if err := writeRequirementsCSV(reports, filename); err != nil {
		return fmt.Errorf("failed to write requirements CSV: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(w, "💾 CSV results saved to: %s\n", filename)
	}
	return nil
}

func writeRequirementsCSV(reports []*dto.RequirementReport, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	header := []string{
		"plan_id", "part_code", "required_quantity", "current_stock", "total_reserved_stock",
		"plan_reserved_quantity", "scheduled_receipts_until_start", "available_stock",
		"shortage_quantity", "is_sufficient", "procurement_due_date", "supplier",
		"lead_time_days", "used_in_stations",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, report := range reports {
		for _, line := range report.Requirements {
			dueDate := ""
			if line.ProcurementDueDate != nil {
				dueDate = line.ProcurementDueDate.Format(dateLayout)
			}
			leadTime := ""
			if line.LeadTimeKnown {
				leadTime = strconv.Itoa(line.LeadTimeDays)
			}
			stations := make([]string, len(line.UsedInStations))
			for i, station := range line.UsedInStations {
				stations[i] = string(station)
			}

			record := []string{
				string(report.PlanID),
				string(line.PartCode),
				line.RequiredQuantity.String(),
				line.CurrentStock.String(),
				line.TotalReservedStock.String(),
				line.PlanReservedQuantity.String(),
				line.ScheduledReceiptsUntilStart.String(),
				line.AvailableStock.String(),
				line.ShortageQuantity.String(),
				strconv.FormatBool(line.IsSufficient),
				dueDate,
				line.Supplier,
				leadTime,
				strings.Join(stations, ";"),
			}
			if err := writer.Write(record); err != nil {
				return err
			}
		}
	}

	writer.Flush()
	return writer.Error()
}
