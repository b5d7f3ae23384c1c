package db

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/diewo77/go-directory/internal/config"
	"github.com/diewo77/go-directory/internal/models"
	migrate "github.com/golang-migrate/migrate/v4"
	// The following blank imports register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/gorm"
)

// Migrate creates or updates the schema with gorm AutoMigrate.
func Migrate(db *gorm.DB) error {
	for _, m := range models.All() {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	for _, table := range []string{"users", "categories", "businesses", "site_settings"} {
		if !db.Migrator().HasTable(table) {
			return errors.New("missing table after migration: " + table)
		}
	}
	return nil
}

// MigrateSchema brings the schema up to date at startup. useSQL selects the
// golang-migrate files in dir, which only exist for postgres; every other
// case falls back to AutoMigrate.
func MigrateSchema(conn *gorm.DB, cfg config.DatabaseConfig, useSQL bool, dir string) error {
	if useSQL && isPostgres(cfg.Driver) {
		return RunSQLMigrations(cfg.URL(), dir)
	}
	if useSQL {
		slog.Info("sql migrations target postgres, using AutoMigrate", "driver", cfg.Driver)
	}
	return Migrate(conn)
}

func isPostgres(driver string) bool {
	return driver == "" || driver == "postgres" || driver == "postgresql"
}

// RunSQLMigrations applies ./migrations (or dir) with golang-migrate.
// dbURL must be a postgres:// URL.
func RunSQLMigrations(dbURL, dir string) error {
	if dir == "" {
		dir = "migrations"
	}
	m, err := migrate.New("file://"+dir, dbURL)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	v, dirty, _ := m.Version()
	slog.Info("sql migrations applied", "version", v, "dirty", dirty)
	return nil
}
