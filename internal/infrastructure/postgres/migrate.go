package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/fastygo/tracker/internal/config"
)

// RunMigrations creates the documents table when migrations are enabled.
func RunMigrations(cfg *config.Config, logger *zap.Logger) error {
	if cfg == nil || !cfg.Migrations.Enabled {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	sqlDB, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		return err
	}

	sourceURL := fmt.Sprintf("file://%s", filepath.ToSlash(cfg.Migrations.Path))
	m, err := migrate.NewWithDatabaseInstance(sourceURL, cfg.Database.Name, driver)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return err
	}
	logger.Info("database migrations applied", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}
