package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// SchemaTableCount is the number of tables the schema defines: the students
// fact table plus the four dimension tables. The schema_migrations bookkeeping
// table is excluded from verification.
const SchemaTableCount = 5

// RunMigrations executes pending database migrations from the specified directory.
// It is idempotent and safe to call multiple times - only pending migrations will be executed.
func RunMigrations(db *sql.DB, migrationsPath string, logger *zap.Logger) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			logger.Warn("Failed to close migration source", zap.Error(srcErr))
		}
		if dbErr != nil {
			logger.Warn("Failed to close migration database", zap.Error(dbErr))
		}
	}()

	err = m.Up()
	if err == migrate.ErrNoChange {
		logger.Info("No migrations to apply (database up-to-date)")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	newVersion, _, _ := m.Version()
	logger.Info("Applied migrations successfully", zap.Uint("version", newVersion))
	return nil
}

// VerifySchema checks that the public schema holds exactly the tables the
// migrations define. A mismatch indicates a broken or foreign schema and is
// fatal: the caller must refuse to start rather than serve against it.
func VerifySchema(ctx context.Context, db *DB, logger *zap.Logger) error {
	var count int
	err := db.QueryRow(ctx, `
		SELECT count(*) FROM pg_catalog.pg_tables
		WHERE schemaname = 'public' AND tablename <> 'schema_migrations'`,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to count schema tables: %w", err)
	}

	if count != SchemaTableCount {
		return fmt.Errorf("schema verification failed: found %d tables, expected %d", count, SchemaTableCount)
	}

	logger.Info("Schema verified", zap.Int("tables", count))
	return nil
}
