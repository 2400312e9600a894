// Package bootstrap wires repositories and services for the binaries.
package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vsinha/prodplan/pkg/application/services/availability"
	"github.com/vsinha/prodplan/pkg/application/services/bomindex"
	"github.com/vsinha/prodplan/pkg/application/services/netting"
	"github.com/vsinha/prodplan/pkg/application/services/planning"
	"github.com/vsinha/prodplan/pkg/application/services/reservation"
	"github.com/vsinha/prodplan/pkg/application/services/stock"
	"github.com/vsinha/prodplan/pkg/config"
	"github.com/vsinha/prodplan/pkg/domain/repositories"
	"github.com/vsinha/prodplan/pkg/domain/services"
	"github.com/vsinha/prodplan/pkg/infrastructure/events"
	"github.com/vsinha/prodplan/pkg/infrastructure/locking"
	"github.com/vsinha/prodplan/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/prodplan/pkg/infrastructure/repositories/gormstore"
	"github.com/vsinha/prodplan/pkg/infrastructure/repositories/memory"
)

// Repositories is the storage backend seen through the domain interfaces
type Repositories struct {
	Parts        repositories.PartRepository
	BOM          repositories.BOMRepository
	Plans        repositories.PlanRepository
	Inventory    repositories.InventoryRepository
	Reservations repositories.ReservationRepository
	Receipts     repositories.ReceiptRepository

	close func() error
}

// Close releases the backend; a no-op for memory storage
func (r *Repositories) Close() error {
	if r.close == nil {
		return nil
	}
	return r.close()
}

// NewMemoryRepositories creates empty in-memory repositories
func NewMemoryRepositories() *Repositories {
	return &Repositories{
		Parts:        memory.NewPartRepository(64),
		BOM:          memory.NewBOMRepository(256),
		Plans:        memory.NewPlanRepository(),
		Inventory:    memory.NewInventoryRepository(),
		Reservations: memory.NewReservationRepository(),
		Receipts:     memory.NewReceiptRepository(),
	}
}

// OpenRepositories opens the backend selected by cfg
func OpenRepositories(cfg config.DatabaseConfig) (*Repositories, error) {
	if cfg.Driver == config.DriverMemory {
		return NewMemoryRepositories(), nil
	}

	db, err := gormstore.Open(gormstore.Config{
		Driver:       cfg.Driver,
		DSN:          cfg.DSN(),
		MaxOpenConns: cfg.MaxConns,
	})
	if err != nil {
		return nil, err
	}

	stores := gormstore.NewRepositories(db)
	return &Repositories{
		Parts:        stores.Parts,
		BOM:          stores.BOM,
		Plans:        stores.Plans,
		Inventory:    stores.Inventory,
		Reservations: stores.Reservations,
		Receipts:     stores.Receipts,
		close:        func() error { return gormstore.Close(db) },
	}, nil
}

// ValidateScenario runs BOM validation over a loaded scenario. Errors fail the
// load; warnings are logged.
func ValidateScenario(scenario *csv.Scenario, logger zerolog.Logger) error {
	result := services.NewBOMValidator().ValidateBOM(scenario.BOMItems, scenario.Parts)
	for _, warning := range result.Warnings {
		logger.Warn().Msg(warning)
	}
	if !result.IsValid() {
		return fmt.Errorf("BOM validation failed: %s", strings.Join(result.Errors, "; "))
	}
	return nil
}

// Seed writes a scenario into repos
func Seed(ctx context.Context, repos *Repositories, scenario *csv.Scenario) error {
	if err := repos.Parts.LoadParts(ctx, scenario.Parts); err != nil {
		return fmt.Errorf("failed to load parts: %w", err)
	}
	if err := repos.BOM.LoadBOMItems(ctx, scenario.BOMItems); err != nil {
		return fmt.Errorf("failed to load BOM items: %w", err)
	}
	if err := repos.Inventory.LoadInventory(ctx, scenario.Inventory); err != nil {
		return fmt.Errorf("failed to load inventory: %w", err)
	}
	if err := repos.Receipts.LoadReceipts(ctx, scenario.Receipts); err != nil {
		return fmt.Errorf("failed to load receipts: %w", err)
	}
	for _, plan := range scenario.Plans {
		if err := repos.Plans.SavePlan(ctx, plan); err != nil {
			return fmt.Errorf("failed to save plan %s: %w", plan.ID, err)
		}
	}
	for _, r := range scenario.Reservations {
		if err := repos.Reservations.UpsertReservation(ctx, r); err != nil {
			return fmt.Errorf("failed to load reservation %s/%s: %w", r.PlanID, r.PartCode, err)
		}
	}
	return nil
}

// App holds every service of the netting engine over one storage backend
type App struct {
	Repos        *Repositories
	Events       *events.InMemoryEventStore
	BOMIndex     *bomindex.Service
	Resolver     *availability.Resolver
	Netting      *netting.Service
	Reservations *reservation.Manager
	Planning     *planning.Service
	Stock        *stock.Ledger
	Logger       zerolog.Logger
}

// NewApp wires services over repos. Reservation and stock writers share one part locker.
func NewApp(repos *Repositories, cfg config.NettingConfig, logger zerolog.Logger) *App {
	eventStore := events.NewInMemoryEventStore(logger)

	lockCfg := locking.DefaultConfig()
	if cfg.LockMaxRetry > 0 {
		lockCfg.MaxRetry = cfg.LockMaxRetry
	}
	locker := locking.NewPartLocker(lockCfg)

	bomIndex := bomindex.NewServiceWithConfig(repos.BOM, bomindex.Config{
		CacheTTL: cfg.BOMCacheTTL,
		Logger:   logger,
	})
	resolver := availability.NewResolver(repos.Inventory, repos.Reservations, repos.Receipts, repos.Plans, logger)
	engine := netting.NewServiceWithConfig(repos.Plans, repos.Parts, bomIndex, resolver, netting.EngineConfig{
		Workers: cfg.Workers,
		Logger:  logger,
	})
	manager := reservation.NewManager(repos.Reservations, repos.Plans, reservation.Config{
		Locker: locker,
		Events: eventStore,
		Logger: logger,
	})
	planner := planning.NewService(repos.Plans, bomIndex, manager, planning.Config{
		Events: eventStore,
		Logger: logger,
	})
	ledger := stock.NewLedger(repos.Inventory, repos.Receipts, stock.Config{
		Locker: locker,
		Events: eventStore,
		Logger: logger,
	})

	return &App{
		Repos:        repos,
		Events:       eventStore,
		BOMIndex:     bomIndex,
		Resolver:     resolver,
		Netting:      engine,
		Reservations: manager,
		Planning:     planner,
		Stock:        ledger,
		Logger:       logger,
	}
}

// Close releases the storage backend
func (a *App) Close() error {
	return a.Repos.Close()
}
