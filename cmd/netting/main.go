package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/vsinha/prodplan/pkg/config"
	"github.com/vsinha/prodplan/pkg/interfaces/cli/commands"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Command line flags
	var (
		scenarioDir = flag.String(
			"scenario",
			"",
			"Path to scenario directory containing CSV files",
		)
		planID    = flag.String("plan", "", "Plan to net (default: every active plan of the scenario)")
		commit    = flag.Bool("commit", false, "Reserve the plan's requirements before netting")
		driver    = flag.String("db", cfg.Database.Driver, "Storage driver: memory, sqlite, postgres")
		outputDir = flag.String("output", "", "Output directory for results (optional)")
		format    = flag.String("format", "text", "Output format: text, json, csv")
		workers   = flag.Int("workers", cfg.Netting.Workers, "Concurrent availability lookups per calculation")
		verbose   = flag.Bool("verbose", false, "Enable verbose output")
		help      = flag.Bool("help", false, "Show help message")
	)

	flag.Parse()

	cfg.Database.Driver = *driver
	cfg.Netting.Workers = *workers
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logCfg := cfg.Log
	if *verbose {
		logCfg.Level = "debug"
	}
	logger := config.NewLogger(logCfg, os.Stderr)

	// Create command configuration
	cmdConfig := commands.Config{
		ScenarioDir: *scenarioDir,
		PlanID:      *planID,
		Commit:      *commit,
		OutputDir:   *outputDir,
		Format:      *format,
		Verbose:     *verbose,
		Help:        *help,
		Database:    cfg.Database,
		Netting:     cfg.Netting,
	}

	// Create and execute command
	cmd := commands.NewNettingCommand(cmdConfig, logger, os.Stdout)
	ctx := context.Background()

	if err := cmd.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
