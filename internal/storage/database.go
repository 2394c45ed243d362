package storage

import (
	"fmt"
	"log"
	"log/slog"
	"strings"
	"time"

	domainErrors "github.com/thomas-vilte/matechangelog/internal/errors"
	"github.com/thomas-vilte/matechangelog/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const DefaultPath = "changelog.db"

// Config holds DB configuration
type Config struct {
	Path     string
	LogLevel logger.LogLevel
}

// ParseLogLevel maps "silent", "error", "warn" and "info" onto gorm levels.
func ParseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info", "debug":
		return logger.Info
	default:
		return logger.Warn
	}
}

// Open opens the SQLite database and runs migrations.
func Open(cfg Config) (*gorm.DB, error) {
	if cfg.Path == "" {
		cfg.Path = DefaultPath
	}
	if cfg.LogLevel == 0 {
		cfg.LogLevel = logger.Warn
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=ON", cfg.Path)

	gormLogger := logger.New(
		log.New(loggerWriter{log: slog.Default().With("component", "gorm")}, "", 0),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  cfg.LogLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, domainErrors.ErrDatabaseOpen.WithError(err).WithContext("path", cfg.Path)
	}

	// SQLite allows one writer; a single connection avoids "database is locked".
	sqlDB, err := db.DB()
	if err != nil {
		return nil, domainErrors.ErrDatabaseOpen.WithError(err).WithContext("path", cfg.Path)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := migrate(db); err != nil {
		return nil, domainErrors.ErrDatabaseOpen.WithError(err).WithContext("path", cfg.Path)
	}

	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Changelog{},
		&models.Change{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// loggerWriter satisfies io.Writer for the GORM logger and forwards each line to slog.
type loggerWriter struct {
	log *slog.Logger
}

func (w loggerWriter) Write(p []byte) (int, error) {
	w.log.Info(strings.TrimSpace(string(p)))
	return len(p), nil
}
