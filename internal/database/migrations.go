package database

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

//go:embed migrations/001_init_schema.sql
var migrationSQL string

// RunMigrations creates the user_records table on an empty database
func RunMigrations(ctx context.Context, db *pgxpool.Pool, log logrus.FieldLogger) error {
	log.Info("Running database migrations...")

	var exists bool
	err := db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_name = 'user_records'
		)
	`).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check if migrations needed: %w", err)
	}

	if exists {
		log.Info("[OK] Database already migrated, skipping")
		return nil
	}

	if _, err := db.Exec(ctx, migrationSQL); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("[OK] Database migrations completed")
	return nil
}

// Schema returns the embedded schema SQL
func Schema() string {
	return migrationSQL
}
