package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/vsinha/prodplan/pkg/application/dto"
	"github.com/vsinha/prodplan/pkg/config"
	"github.com/vsinha/prodplan/pkg/domain/entities"
	"github.com/vsinha/prodplan/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/prodplan/pkg/interfaces/bootstrap"
	"github.com/vsinha/prodplan/pkg/interfaces/cli/output"
)

// Config holds configuration for the netting command
type Config struct {
	ScenarioDir string
	PlanID      string
	Commit      bool
	OutputDir   string
	Format      string
	Verbose     bool
	Help        bool

	// Database selects storage; a scenario is seeded into it when ScenarioDir is set
	Database config.DatabaseConfig
	Netting  config.NettingConfig
}

// NettingCommand computes requirement reports for production plans
type NettingCommand struct {
	config Config
	logger zerolog.Logger
	out    io.Writer
}

// NewNettingCommand creates a new netting command with the given configuration
func NewNettingCommand(config Config, logger zerolog.Logger, out io.Writer) *NettingCommand {
	if out == nil {
		out = os.Stdout
	}
	return &NettingCommand{
		config: config,
		logger: logger,
		out:    out,
	}
}

// Execute runs the netting command
func (c *NettingCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	if err := c.validateInputs(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	repos, err := bootstrap.OpenRepositories(c.config.Database)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}

	app := bootstrap.NewApp(repos, c.config.Netting, c.logger)
	defer app.Close()

	var scenario *csv.Scenario
	if c.config.ScenarioDir != "" {
		scenario, err = c.loadScenario(ctx, repos)
		if err != nil {
			return err
		}
	}

	planIDs, err := c.selectPlans(scenario)
	if err != nil {
		return err
	}

	reports := make([]*dto.RequirementReport, 0, len(planIDs))
	startTime := time.Now()
	for _, planID := range planIDs {
		if c.config.Commit {
			reserved, err := app.Planning.Commit(ctx, planID)
			if err != nil {
				return fmt.Errorf("error committing plan %s: %w", planID, err)
			}
			c.logger.Info().Str("plan_id", string(planID)).Int("parts", len(reserved)).Msg("plan committed")
		}

		report, err := app.Netting.Calculate(ctx, planID)
		if err != nil {
			return fmt.Errorf("error calculating requirements for plan %s: %w", planID, err)
		}
		reports = append(reports, report)
	}
	calculationTime := time.Since(startTime)

	if c.config.Verbose {
		fmt.Fprintf(c.out, "✅ Netting completed for %d plan(s) in %v\n\n", len(reports), calculationTime)
	}

	outputConfig := output.Config{
		Format:          c.config.Format,
		OutputDir:       c.config.OutputDir,
		Verbose:         c.config.Verbose,
		CalculationTime: calculationTime,
	}
	if err := output.Generate(reports, outputConfig, c.out); err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}

	return nil
}

// validateInputs validates the command configuration
func (c *NettingCommand) validateInputs() error {
	if c.config.ScenarioDir == "" && c.config.Database.Driver == config.DriverMemory {
		return fmt.Errorf("must specify -scenario when using in-memory storage")
	}
	if c.config.ScenarioDir == "" && c.config.PlanID == "" {
		return fmt.Errorf("must specify -plan when reading from a database")
	}
	return nil
}

func (c *NettingCommand) loadScenario(ctx context.Context, repos *bootstrap.Repositories) (*csv.Scenario, error) {
	if c.config.Verbose {
		fmt.Fprintf(c.out, "📂 Loading scenario from %s...\n", c.config.ScenarioDir)
	}

	scenario, err := csv.NewLoader().LoadScenario(c.config.ScenarioDir)
	if err != nil {
		return nil, fmt.Errorf("error loading scenario: %w", err)
	}
	if err := bootstrap.ValidateScenario(scenario, c.logger); err != nil {
		return nil, err
	}
	if err := bootstrap.Seed(ctx, repos, scenario); err != nil {
		return nil, fmt.Errorf("failed to seed storage: %w", err)
	}

	if c.config.Verbose {
		fmt.Fprintf(c.out, "✅ Data loaded successfully:\n")
		fmt.Fprintf(c.out, "  Parts: %d\n", len(scenario.Parts))
		fmt.Fprintf(c.out, "  BOM Items: %d\n", len(scenario.BOMItems))
		fmt.Fprintf(c.out, "  Stock Records: %d\n", len(scenario.Inventory))
		fmt.Fprintf(c.out, "  Scheduled Receipts: %d\n", len(scenario.Receipts))
		fmt.Fprintf(c.out, "  Plans: %d\n", len(scenario.Plans))
		fmt.Fprintf(c.out, "  Reservations: %d\n", len(scenario.Reservations))
		fmt.Fprintln(c.out)
	}
	return scenario, nil
}

// selectPlans returns the requested plan, or every active scenario plan
func (c *NettingCommand) selectPlans(scenario *csv.Scenario) ([]entities.PlanID, error) {
	if c.config.PlanID != "" {
		return []entities.PlanID{entities.PlanID(c.config.PlanID)}, nil
	}

	planIDs := make([]entities.PlanID, 0, len(scenario.Plans))
	for _, plan := range scenario.Plans {
		if plan.Status.IsActive() {
			planIDs = append(planIDs, plan.ID)
		}
	}
	if len(planIDs) == 0 {
		return nil, fmt.Errorf("scenario %s has no active plans", c.config.ScenarioDir)
	}
	return planIDs, nil
}

// showHelp displays the help message
func (c *NettingCommand) showHelp() {
	fmt.Fprintf(c.out, `Netting CLI - Material requirement and shortage netting for production plans

USAGE:
    netting -scenario <directory> [-plan <id>]   # Net plans of a scenario directory
    netting -db postgres -plan <id>              # Net a plan stored in a database

OPTIONS:
    -scenario <dir>     Path to scenario directory containing CSV files
    -plan <id>          Plan to net (default: every active plan of the scenario)
    -commit             Reserve the plan's requirements before netting
    -db <driver>        Storage driver: memory, sqlite, postgres (default from DB_DRIVER)
    -output <dir>       Output directory for results (optional)
    -format <fmt>       Output format: text, json, csv (default: text)
    -verbose            Enable verbose output
    -help               Show this help message

SCENARIO DIRECTORY STRUCTURE:
    scenario_name/
    ├── parts.csv         # Part master
    ├── bom.csv           # Product -> station -> part rows
    ├── stock.csv         # On-hand quantities
    ├── plans.csv         # Production plans
    ├── receipts.csv      # Scheduled receipts (optional)
    └── reservations.csv  # Existing reservations (optional)

CSV FILE FORMATS:

parts.csv:
    code,description,lead_time_days,safety_stock,supplier,unit_of_measure
    BOLT_M12,M12 bolt,14,100,ACME,EA

bom.csv:
    product_code,station_code,part_code,qty_per_unit
    PUMP,ST10,BOLT_M12,4

stock.csv:
    part_code,on_hand
    BOLT_M12,120

plans.csv:
    id,product_code,planned_quantity,start_date,status,location,remarks
    PLAN-1,PUMP,10,2025-06-02,planned,BLDG-A,

receipts.csv:
    id,part_code,quantity,expected_date
    PO-1,BOLT_M12,30,2025-05-30

reservations.csv:
    plan_id,part_code,quantity
    PLAN-0,BOLT_M12,40

EXAMPLES:
    netting -scenario scenarios/pump -verbose
    netting -scenario scenarios/pump -plan PLAN-1 -format json
    netting -scenario scenarios/pump -format csv -output results/
    DATABASE_URL=postgres://... netting -db postgres -plan PLAN-1 -commit
`)
}
