package wb

import (
	"database/sql"
	"fmt"
	"log"
)

type CreateWBSchema struct{}

func (m *CreateWBSchema) UpMigration(db *sql.DB) error {
	query := `
	CREATE SCHEMA IF NOT EXISTS wildberries;`
	_, err := db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create schema wildberries: %w", err)
	}
	return nil
}

// CreateWBProductsTable holds the search listings. One row per wb.ru
// product id; monetary and rating columns are fixed-point so repeated
// upserts never drift.
type CreateWBProductsTable struct{}

func (m *CreateWBProductsTable) UpMigration(db *sql.DB) error {
	if ok, err := checkAndSkipMigration(db, "wildberries.products"); err != nil {
		return err
	} else if ok {
		return nil
	}
	query := `
	CREATE TABLE IF NOT EXISTS wildberries.products (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		price DECIMAL(10, 2) NOT NULL,
		discount_price DECIMAL(10, 2) NOT NULL,
		rating DECIMAL(2, 1) NOT NULL,
		feedback_count INTEGER NOT NULL,
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
	);`
	if err := executeAndMarkMigration(db, query, "wildberries.products"); err != nil {
		return err
	}
	log.Println("Migration 'wildberries.products' completed successfully.")
	return nil
}

func checkAndSkipMigration(db *sql.DB, migrationName string) (bool, error) {
	var migrationExists bool
	err := db.QueryRow("SELECT EXISTS (SELECT 1 FROM migrations.migrations WHERE name = $1)", migrationName).Scan(&migrationExists)
	if err != nil {
		return migrationExists, fmt.Errorf("failed to check migration status: %w", err)
	}
	if migrationExists {
		log.Printf("Migration '%s' already completed. Skipping.\n", migrationName)
		return migrationExists, nil
	}
	return migrationExists, nil
}

func executeAndMarkMigration(db *sql.DB, query string, migrationName string) error {
	_, err := db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to execute migration '%s': %w", migrationName, err)
	}
	_, err = db.Exec("INSERT INTO migrations.migrations (name, time) VALUES ($1, current_timestamp)", migrationName)
	if err != nil {
		return fmt.Errorf("failed to mark migration '%s' as complete: %w", migrationName, err)
	}
	return nil
}
