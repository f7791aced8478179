package database

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/piresc/payon/internal/pkg/models"
)

// DefaultMigrationsSource is used when DB_MIGRATIONS_SOURCE is empty
const DefaultMigrationsSource = "file://migrations"

// RunMigrations applies every pending up migration found at config.MigrationsSource
func RunMigrations(config models.DatabaseConfig) error {
	source := config.MigrationsSource
	if source == "" {
		source = DefaultMigrationsSource
	}

	m, err := migrate.New(source, DSN(config))
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}
