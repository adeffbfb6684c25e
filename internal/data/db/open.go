package db

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/productform-backend/internal/platform/logger"
)

// Open connects to the configured driver and applies migrations when enabled.
func Open(cfg Config, log *logger.Logger) (*gorm.DB, error) {
	var (
		theDB *gorm.DB
		err   error
	)
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "postgres", "postgresql":
		var pg *PostgresService
		pg, err = NewPostgresService(cfg, log)
		if err == nil {
			theDB = pg.DB()
		}
	case "sqlite":
		theDB, err = OpenSQLite(cfg.SQLitePath, NewGormLogger(log.With("service", "SQLite"), cfg.SlowThreshold))
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := AutoMigrateAll(theDB); err != nil {
			return nil, err
		}
	}
	return theDB, nil
}
