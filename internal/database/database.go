// Package database owns the gorm connection to the relational store.
package database

import (
	"context"
	"fmt"

	"drinks/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config selects the store.
type Config struct {
	Driver string
	DSN    string
	Debug  bool
}

// Open connects to the configured store.
func Open(cfg Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverSQLite:
		dialector = sqlite.Open(cfg.DSN)
	case DriverPostgres:
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logLevel)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Driver == DriverSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql.DB: %w", err)
		}
		// sqlite allows a single writer; one connection also keeps a shared in-memory database alive.
		sqlDB.SetMaxOpenConns(1)
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}
	return db, nil
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Drink{}, &models.Ingredient{}, &models.User{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// SeedDrinks returns the drinks inserted into an empty catalog.
func SeedDrinks() []models.Drink {
	return []models.Drink{
		{ID: 1, Name: "Cola", Brand: "Coke", Price: decimal.RequireFromString("3.50")},
		{ID: 2, Name: "Green Tea", Brand: "ItoEn", Price: decimal.RequireFromString("4.00")},
	}
}

// Seed inserts SeedDrinks when the drinks table is empty.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Drink{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count drinks: %w", err)
	}
	if count > 0 {
		return nil
	}

	seed := SeedDrinks()
	if err := db.Create(&seed).Error; err != nil {
		return fmt.Errorf("failed to seed drinks: %w", err)
	}

	// Postgres sequences do not advance for explicit IDs.
	if db.Dialector.Name() == DriverPostgres {
		if err := db.Exec("SELECT setval(pg_get_serial_sequence('drinks', 'id'), (SELECT MAX(id) FROM drinks))").Error; err != nil {
			return fmt.Errorf("failed to reset drinks sequence: %w", err)
		}
	}
	return nil
}

// Ping checks the connection.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
