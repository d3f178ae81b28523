package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"day-planner-service/internal/adapters/source"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createRequestsQuery := `
	CREATE TABLE IF NOT EXISTS delivery_requests (
		row INTEGER PRIMARY KEY,
		recipient TEXT NOT NULL,
		postcode TEXT NOT NULL,
		deadline TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT ''
	);
	`

	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
        postcode TEXT PRIMARY KEY,
        lon REAL NOT NULL,
        lat REAL NOT NULL
    );
	`

	createTravelCacheQuery := `
	CREATE TABLE IF NOT EXISTS travel_cache (
        origin TEXT NOT NULL,
        destination TEXT NOT NULL,
        minutes REAL NOT NULL,
        PRIMARY KEY (origin, destination)
    );
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_travel_cache_destination_origin
    ON travel_cache(destination, origin);
	`

	statements := []string{
		createRequestsQuery,
		createGeocodeCacheQuery,
		createTravelCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// InitCacheSchemaPostgres creates the shared cache tables on Postgres. The
// request table stays local to each instance; only caches are shared.
func InitCacheSchemaPostgres(db *sql.DB) error {
	if db == nil {
		return errors.New("init cache schema: DB is nil")
	}

	statements := []string{
		`CREATE TABLE IF NOT EXISTS geocode_cache (
			postcode TEXT PRIMARY KEY,
			lon DOUBLE PRECISION NOT NULL,
			lat DOUBLE PRECISION NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS travel_cache (
			origin TEXT NOT NULL,
			destination TEXT NOT NULL,
			minutes DOUBLE PRECISION NOT NULL,
			PRIMARY KEY (origin, destination)
		);`,
	}

	for i, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("init cache schema: exec statement #%d: %w", i+1, err)
		}
	}

	return nil
}

// Populate the database with delivery requests from a CSV file.
func SeedFromCSV(db *sql.DB, csvPath string) error {
	requests, err := source.ReadCSV(csvPath)
	if err != nil {
		return fmt.Errorf("seed requests: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed requests: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT OR REPLACE INTO delivery_requests (
		row,
		recipient,
		postcode,
		deadline,
		notes
	)
	VALUES (?, ?, ?, ?, ?);
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed requests: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range requests {
		if _, err := stmt.Exec(r.Row, r.Recipient, r.Postcode, r.Deadline.Format(time.DateOnly), r.Notes); err != nil {
			return fmt.Errorf("seed requests: insert row=%d: %w", r.Row, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed requests: commit tx: %w", err)
	}

	return nil
}
