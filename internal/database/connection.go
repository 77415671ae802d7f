// internal/database/connection.go
package database

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lacra/agritrace-backend/internal/config"
	"github.com/lacra/agritrace-backend/internal/models"
)

// GormConfig is shared by the server and the test database so error
// translation behaves the same on both.
func GormConfig(logLevel string) *gorm.Config {
	level := logger.Info
	switch logLevel {
	case "silent":
		level = logger.Silent
	case "error":
		level = logger.Error
	case "warn":
		level = logger.Warn
	}
	return &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	}
}

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), GormConfig(cfg.LogLevel))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.Info("Database connection established successfully")
	return db, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Error("Error getting underlying sql.DB")
		return
	}

	if err := sqlDB.Close(); err != nil {
		logrus.WithError(err).Error("Error closing database connection")
	} else {
		logrus.Info("Database connection closed successfully")
	}
}

func RunMigrations(db *gorm.DB) error {
	logrus.Info("Running database migrations...")

	err := db.AutoMigrate(
		&models.Farmer{},
		&models.FarmPlot{},
		&models.Commodity{},
		&models.Inspection{},
		&models.BatchSequence{},
		&models.TraceRecord{},
		&models.AuditLog{},
		&models.QRScan{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	logrus.Info("Database migrations completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// Commodity indexes
		"CREATE INDEX IF NOT EXISTS idx_commodities_county_type ON commodities(county, type)",
		"CREATE INDEX IF NOT EXISTS idx_commodities_status_created ON commodities(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_commodities_harvest_date ON commodities(harvest_date DESC)",

		// Inspection indexes
		"CREATE INDEX IF NOT EXISTS idx_inspections_commodity_date ON inspections(commodity_id, inspection_date DESC)",
		"CREATE INDEX IF NOT EXISTS idx_qr_scans_batch_created ON qr_scans(batch_number, created_at DESC)",

		// Reference data indexes
		"CREATE INDEX IF NOT EXISTS idx_farmers_county_status ON farmers(county, status)",
		"CREATE INDEX IF NOT EXISTS idx_farm_plots_farmer_status ON farm_plots(farmer_id, status)",

		// Audit indexes
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_actor_action ON audit_logs(actor, action)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_resource ON audit_logs(resource_type, resource_id)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_created ON audit_logs(created_at DESC)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			// Continue with other indexes instead of failing completely
			logrus.WithError(err).WithField("index", index).Warn("Failed to create index")
		}
	}

	return nil
}

// Transaction helper
func WithTransaction(db *gorm.DB, fn func(*gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

// IsDuplicateKey reports a unique constraint violation. Drivers without
// error translation are matched on their message.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}
