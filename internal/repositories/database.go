package repositories

import (
	"fmt"

	"productapi/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Supported values for the storage driver setting.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// OpenDatabase opens a GORM handle for driver without contacting the server,
// so an unreachable database does not prevent startup.
func OpenDatabase(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		DisableAutomaticPing: true,
		Logger:               logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	return db, nil
}

// Migrate creates or updates the products table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Product{}); err != nil {
		return fmt.Errorf("failed to auto-migrate products: %w", err)
	}
	return nil
}
