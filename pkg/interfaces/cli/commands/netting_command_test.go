package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/prodplan/pkg/config"
)

func writeScenario(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"parts.csv": "code,description,lead_time_days,safety_stock,supplier,unit_of_measure\n" +
			"BOLT,Bolt,5,0,ACME,EA\n" +
			"NUT,Nut,2,0,ACME,EA\n",
		"bom.csv": "product_code,station_code,part_code,qty_per_unit\n" +
			"PUMP,ST10,BOLT,4\n" +
			"PUMP,ST20,NUT,2\n",
		"stock.csv": "part_code,on_hand\n" +
			"BOLT,30\n" +
			"NUT,100\n",
		"plans.csv": "id,product_code,planned_quantity,start_date,status,location,remarks\n" +
			"P1,PUMP,10,2025-06-02,planned,,\n" +
			"P0,PUMP,10,2025-05-02,completed,,\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func memoryConfig(scenario string) Config {
	return Config{
		ScenarioDir: scenario,
		Format:      "json",
		Database:    config.DatabaseConfig{Driver: config.DriverMemory},
		Netting:     config.NettingConfig{Workers: 2},
	}
}

func TestNettingCommand_JSONReport(t *testing.T) {
	var out bytes.Buffer
	cmd := NewNettingCommand(memoryConfig(writeScenario(t)), zerolog.Nop(), &out)

	require.NoError(t, cmd.Execute(context.Background()))

	var report struct {
		PlanID          string `json:"plan_id"`
		ShortageSummary struct {
			HasShortage   bool `json:"has_shortage"`
			ShortageCount int  `json:"shortage_count"`
		} `json:"shortage_summary"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, "P1", report.PlanID)
	assert.True(t, report.ShortageSummary.HasShortage)
	assert.Equal(t, 1, report.ShortageSummary.ShortageCount)
}

func TestNettingCommand_TextAndCommit(t *testing.T) {
	var out bytes.Buffer
	cfg := memoryConfig(writeScenario(t))
	cfg.Format = "text"
	cfg.PlanID = "P1"
	cfg.Commit = true

	require.NoError(t, NewNettingCommand(cfg, zerolog.Nop(), &out).Execute(context.Background()))

	// The committed reservation is stock set aside for P1 and counts toward its availability
	assert.Contains(t, out.String(), "Requirement Report: P1")
	assert.Contains(t, out.String(), "Shortages: 0")
	assert.Contains(t, out.String(), "All parts sufficient")
}

func TestNettingCommand_CSVOutput(t *testing.T) {
	cfg := memoryConfig(writeScenario(t))
	cfg.Format = "csv"
	cfg.OutputDir = t.TempDir()

	require.NoError(t, NewNettingCommand(cfg, zerolog.Nop(), &bytes.Buffer{}).Execute(context.Background()))

	data, err := os.ReadFile(filepath.Join(cfg.OutputDir, "requirements.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "P1,BOLT,40,30,0,0,0,30,10,false,2025-05-28,ACME,5,ST10")
}

func TestNettingCommand_InvalidInputs(t *testing.T) {
	cfg := memoryConfig("")
	err := NewNettingCommand(cfg, zerolog.Nop(), &bytes.Buffer{}).Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must specify -scenario")

	cfg = memoryConfig(writeScenario(t))
	cfg.PlanID = "MISSING"
	err = NewNettingCommand(cfg, zerolog.Nop(), &bytes.Buffer{}).Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "plan not found")
}
