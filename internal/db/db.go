// Package db provides database connection and migration functionality.
package db

import (
	"fmt"
	stdlog "log"
	"os"

	"wager-validator-store/internal/config"
	"wager-validator-store/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open opens a database connection using the provided configuration.
// The default engine is embedded SQLite; postgres is accepted for
// deployments that already run one.
func Open(cfg config.Config) (*gorm.DB, error) {
	// Configure GORM logger (Silent to avoid cluttering output; only errors will be logged)
	newLogger := logger.New(
		stdlog.New(os.Stdout, "", stdlog.LstdFlags),
		logger.Config{
			SlowThreshold:             0,
			LogLevel:                  logger.Silent,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	switch cfg.DBDialect {
	case config.DialectSqlite:
		return gorm.Open(sqlite.Open(sqliteDSN(cfg.DBDsn)), &gorm.Config{Logger: newLogger})
	case config.DialectPostgres:
		return gorm.Open(postgres.Open(cfg.DBDsn), &gorm.Config{Logger: newLogger})
	default:
		return nil, fmt.Errorf("unsupported DB dialect: %s", cfg.DBDialect)
	}
}

// sqliteDSN appends the driver parameters the store relies on: a busy
// timeout so engine-level writer serialization surfaces as waiting rather
// than SQLITE_BUSY, and WAL mode for concurrent readers.
func sqliteDSN(path string) string {
	return path + "?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on"
}

// AutoMigrate runs database migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&models.Snapshot{},
		&models.MinerState{},
		&models.BetEvent{},
		&models.WalletMapping{},
	)
}
