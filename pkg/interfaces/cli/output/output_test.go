package output

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/prodplan/pkg/application/dto"
	"github.com/vsinha/prodplan/pkg/domain/entities"
)

func sampleReport() *dto.RequirementReport {
	due := time.Date(2025, 5, 28, 0, 0, 0, 0, time.UTC)
	lines := []dto.RequirementLine{
		{
			PartCode:           "BOLT",
			RequiredQuantity:   entities.Qty(40),
			CurrentStock:       entities.Qty(30),
			AvailableStock:     entities.Qty(30),
			ShortageQuantity:   entities.Qty(10),
			ProcurementDueDate: &due,
			Supplier:           "ACME",
			LeadTimeDays:       5,
			LeadTimeKnown:      true,
			UsedInStations:     []entities.StationCode{"ST10"},
		},
		{
			PartCode:         "NUT",
			RequiredQuantity: entities.Qty(20),
			CurrentStock:     entities.Qty(100),
			AvailableStock:   entities.Qty(100),
			ShortageQuantity: entities.ZeroQty,
			IsSufficient:     true,
			UsedInStations:   []entities.StationCode{"ST20"},
		},
	}
	return &dto.RequirementReport{
		PlanID:          "P1",
		ProductCode:     "PUMP",
		PlannedQuantity: 10,
		StartDate:       time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		Requirements:    lines,
		ShortageSummary: dto.NewShortageSummary(lines),
	}
}

func TestGenerate_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Generate([]*dto.RequirementReport{sampleReport()}, Config{Format: "text"}, &buf))

	text := buf.String()
	assert.Contains(t, text, "Requirement Report: P1")
	assert.Contains(t, text, "Shortages: 1")
	assert.Contains(t, text, "2025-05-28")
	assert.Contains(t, text, "5d")
}

func TestGenerate_JSONSingleReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Generate([]*dto.RequirementReport{sampleReport()}, Config{Format: "json"}, &buf))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "P1", decoded["plan_id"])
}

func TestGenerate_Errors(t *testing.T) {
	reports := []*dto.RequirementReport{sampleReport()}

	err := Generate(reports, Config{Format: "xml"}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Equal(t, "unsupported output format: xml", err.Error())

	err = Generate(reports, Config{Format: "csv"}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Equal(t, "output directory required for CSV format", err.Error())
}
