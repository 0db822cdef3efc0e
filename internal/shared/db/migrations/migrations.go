package migrations

import (
	"github.com/agribid/auction-engine/internal/shared/config"
	"github.com/agribid/auction-engine/internal/shared/logger"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// RunMigrations applies all pending SQL migrations against the configured
// Postgres database.
func RunMigrations(cfg config.DatabaseConfig) error {
	log.Info("RunMigrations", zap.String("database", cfg.Name))
	m, err := migrate.New(
		"file://internal/shared/db/migrations/sql",
		cfg.DSN(),
	)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
