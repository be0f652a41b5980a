package database

import (
	"fmt"
	"net/url"

	"anoa.com/learnify/internal/config"
	sqlite "gitlab.com/CoiaPrant/gorm-sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the configured store. Errors raised by the driver are translated
// into gorm sentinels (gorm.ErrDuplicatedKey, ...) so services can match on them.
func Connect(cfg config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	dialector, err := Open(cfg)
	if err != nil {
		return nil, err
	}

	gormLogger := logger.Default.LogMode(logger.Warn)
	if debug {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	return db, nil
}

// Open builds the gorm dialector for cfg.Driver.
func Open(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "postgres":
		return postgres.Open(postgresDSN(cfg)), nil
	case "sqlite":
		return sqlite.Open(sqliteDSN(cfg.SQLitePath)), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func postgresDSN(cfg config.DatabaseConfig) string {
	if cfg.URL != "" {
		return cfg.URL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port,
	)
}

func sqliteDSN(file string) string {
	configs := make(url.Values)
	configs.Add("_pragma", "busy_timeout(5000)")
	configs.Add("_pragma", "foreign_keys(1)")
	if file != ":memory:" {
		configs.Add("_pragma", "journal_mode(WAL)")
	}
	return file + "?" + configs.Encode()
}
