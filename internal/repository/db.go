package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

const schema = `
	CREATE TABLE IF NOT EXISTS generation_events (
		id           CHAR(36)     NOT NULL PRIMARY KEY,
		preset       VARCHAR(64)  NOT NULL,
		length       INT          NOT NULL,
		charset_size INT          NOT NULL,
		attempts     INT          NOT NULL,
		outcome      VARCHAR(16)  NOT NULL,
		client_hash  CHAR(64)     NOT NULL,
		created_at   TIMESTAMP(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
		INDEX idx_generation_events_created (created_at)
	)`

// NewDB creates a new MySQL database connection pool with the given DSN.
func NewDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		slog.Warn("database ping failed — continuing without DB", "error", err)
	}

	return db, nil
}

// EnsureSchema creates the tables used by the service if they are missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}
