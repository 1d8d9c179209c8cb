package db

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the SQLite database described by cfg, applies the
// configured pragmas and pool limits, and optionally runs migrations.
func Open(cfg Config) (*gorm.DB, error) {
	dsn, err := ResolveSQLiteDSN(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("resolve sqlite dsn: %w", err)
	}

	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dsn, err)
	}

	if cfg.SQLite.BusyTimeoutMs > 0 {
		if err := gdb.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.SQLite.BusyTimeoutMs)).Error; err != nil {
			return nil, err
		}
	}
	if cfg.SQLite.WAL {
		if err := gdb.Exec("PRAGMA journal_mode = WAL").Error; err != nil {
			return nil, err
		}
	}
	if cfg.SQLite.ForeignKeys {
		if err := gdb.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, err
		}
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	if cfg.Pool.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.Pool.MaxOpenConns)
	}
	if cfg.Pool.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.Pool.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(cfg.Pool.ConnMaxLifetime)

	if cfg.AutoMigrate {
		if err := AutoMigrate(gdb); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	return gdb, nil
}
