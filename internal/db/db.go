// internal/db/db.go
package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// Open connects to Postgres and verifies the connection with a ping.
func Open(databaseURL string) (*sql.DB, error) {
	conn, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	return conn, nil
}

// Migrate ensures the messages schema exists. Safe to run on every start.
func Migrate(conn *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS messages (
			id                  BIGSERIAL PRIMARY KEY,
			direction           TEXT NOT NULL,
			from_number         TEXT NOT NULL,
			to_number           TEXT NOT NULL,
			body                TEXT NOT NULL,
			timestamp           TEXT NOT NULL,
			status              TEXT NOT NULL DEFAULT 'unknown',
			error_message       TEXT DEFAULT NULL,
			cost                TEXT DEFAULT NULL,
			provider_message_id TEXT DEFAULT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_provider_message_id
			ON messages (provider_message_id)`,
	}

	for _, stmt := range stmts {
		if _, err := conn.Exec(stmt); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}
	return nil
}
