package database

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"

	migrate "github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/shreyat81/mini-drive-backend/internal/config"
)

// RunMigrations applies any pending SQL migrations before the pool is
// opened. An up-to-date schema is not an error.
func RunMigrations(cfg *config.DatabaseConfig) error {
	sourceURL, err := migrationsSource(cfg)
	if err != nil {
		return err
	}

	m, err := migrate.New(sourceURL, cfg.GetURL())
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return nil
		}
		return fmt.Errorf("run migrate: %w", err)
	}

	log.Println("Database migrations applied")
	return nil
}

// migrationsSource builds the file:// source URL from the configured
// migrations directory, defaulting to ./migrations.
func migrationsSource(cfg *config.DatabaseConfig) (string, error) {
	path := cfg.MigrationsPath
	if path == "" {
		path = "migrations"
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve migrations path: %w", err)
	}
	return "file://" + filepath.ToSlash(absPath), nil
}
