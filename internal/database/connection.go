// internal/database/connection.go
package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pankaj-deepnapsoftech/Supreme-Rubber-Backend/internal/config"
	"github.com/pankaj-deepnapsoftech/Supreme-Rubber-Backend/internal/models"
)

var DB *gorm.DB

func Initialize(cfg config.DatabaseConfig, environment string) (*gorm.DB, error) {
	var gormConfig *gorm.Config
	if environment == "production" {
		gormConfig = &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Silent),
			TranslateError: true,
		}
	} else {
		gormConfig = &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Info),
			TranslateError: true,
		}
	}

	// Connect to database
	var err error
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Database connection established successfully")
	return DB, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting underlying sql.DB: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	} else {
		log.Println("Database connection closed successfully")
	}
}

func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	// Enable UUID extension
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error; err != nil {
		return fmt.Errorf("failed to create UUID extension: %w", err)
	}

	// Run auto-migrations
	err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Supplier{},
		&models.PurchaseOrder{},
		&models.PurchaseOrderItem{},
		&models.GateEntry{},
		&models.GateEntryItem{},
		&models.QualityCheck{},
		&models.BOM{},
		&models.BOMRawMaterial{},
		&models.BOMFinishedGood{},
		&models.Production{},
		&models.ProductionFinishedGood{},
		&models.ProductionRawMaterial{},
		&models.ProductionProcess{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Create indexes
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// Product indexes
		"CREATE INDEX IF NOT EXISTS idx_products_name_lower ON products(LOWER(name))",
		"CREATE INDEX IF NOT EXISTS idx_products_category ON products(category)",

		// Production indexes
		"CREATE INDEX IF NOT EXISTS idx_productions_status ON productions(status)",
		"CREATE INDEX IF NOT EXISTS idx_productions_ready_for_qc ON productions(ready_for_qc)",
		"CREATE INDEX IF NOT EXISTS idx_productions_created_at ON productions(created_at DESC)",

		// BOM indexes
		"CREATE INDEX IF NOT EXISTS idx_boms_compound_name ON boms(compound_name)",
		"CREATE INDEX IF NOT EXISTS idx_boms_created_at ON boms(created_at DESC)",

		// Quality check indexes
		"CREATE INDEX IF NOT EXISTS idx_quality_checks_entry_item ON quality_checks(gate_entry_id, item_id)",
		"CREATE INDEX IF NOT EXISTS idx_quality_checks_created_at ON quality_checks(created_at DESC)",

		// Gate entry indexes
		"CREATE INDEX IF NOT EXISTS idx_gate_entries_status ON gate_entries(status)",
		"CREATE INDEX IF NOT EXISTS idx_gate_entries_po_number ON gate_entries(po_number)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			log.Printf("Warning: Failed to create index: %s, Error: %v", index, err)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}
