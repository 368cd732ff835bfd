package migration

import "database/sql"

// MigrationInterface is implemented by every schema migration. UpMigration
// must be safe to run repeatedly.
type MigrationInterface interface {
	UpMigration(*sql.DB) error
}
