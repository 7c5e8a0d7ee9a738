package lib

import (
	"fmt"
	"log/slog"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectDB opens the configured SQL database and registers the write audit plugin
func ConnectDB(cfg Config, log *slog.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		dialector = postgres.Open(cfg.DatabaseURL)
	default:
		dialector = sqlite.Open(SQLiteDSN(cfg.DBPath))
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Use(&WriteAudit{Logger: log}); err != nil {
		return nil, fmt.Errorf("failed to register write audit: %w", err)
	}

	log.Info("connected to database", "driver", cfg.DBDriver)
	return db, nil
}

// SQLiteDSN enables foreign keys and makes every transaction take the write lock
// up front, so concurrent writers wait on busy_timeout instead of failing
func SQLiteDSN(path string) string {
	return path + "?_foreign_keys=on&_busy_timeout=5000&_txlock=immediate"
}
