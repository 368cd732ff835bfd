package dbconnect

import "database/sql"

// DbConnector hands out the shared *sql.DB pool.
type DbConnector interface {
	Connect() (*sql.DB, error)
}

// Database is a connector that can also be health checked.
type Database interface {
	Connect() (*sql.DB, error)
	Ping() error
}
