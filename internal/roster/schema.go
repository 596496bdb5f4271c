package roster

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaVersion is bumped when the workers table shape changes.
const schemaVersion = 1

// InitSchema creates the roster tables if they do not exist.
func InitSchema(ctx context.Context, db *sql.DB) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS schema_info (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS workers (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL UNIQUE,
	age        INTEGER NOT NULL DEFAULT 0,
	gender     TEXT NOT NULL DEFAULT '',
	weight_kg  REAL NOT NULL DEFAULT 0,
	height_cm  REAL NOT NULL DEFAULT 0,
	risk_tier  TEXT NOT NULL DEFAULT 'moderate',
	vitals     TEXT NOT NULL,
	risk       TEXT,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_workers_name ON workers(name);
`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("creating roster schema: %w", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_info`).Scan(&count); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	if count == 0 {
		if _, err := db.ExecContext(ctx, `INSERT INTO schema_info (version) VALUES (?)`, schemaVersion); err != nil {
			return fmt.Errorf("recording schema version: %w", err)
		}
	}
	return nil
}
