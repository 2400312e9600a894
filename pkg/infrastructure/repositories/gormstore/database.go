package gormstore

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config selects and tunes the SQL backend
type Config struct {
	// Driver is "postgres" or "sqlite"
	Driver string
	// DSN is a postgres connection string or a sqlite file path
	DSN      string
	LogLevel logger.LogLevel
	// MaxOpenConns of 0 keeps the driver default
	MaxOpenConns int
}

// Open connects to the configured database and migrates the schema
func Open(cfg Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s (expected: postgres or sqlite)", cfg.Driver)
	}

	logLevel := cfg.LogLevel
	if logLevel == 0 {
		logLevel = logger.Warn
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err == nil {
		if cfg.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	if err := db.AutoMigrate(AllModels()...); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return db, nil
}

// Close releases the underlying connection pool
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Repositories bundles every repository backed by one database
type Repositories struct {
	Parts        *PartRepository
	BOM          *BOMRepository
	Plans        *PlanRepository
	Inventory    *InventoryRepository
	Reservations *ReservationRepository
	Receipts     *ReceiptRepository
}

// NewRepositories builds all repositories on db
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Parts:        NewPartRepository(db),
		BOM:          NewBOMRepository(db),
		Plans:        NewPlanRepository(db),
		Inventory:    NewInventoryRepository(db),
		Reservations: NewReservationRepository(db),
		Receipts:     NewReceiptRepository(db),
	}
}
