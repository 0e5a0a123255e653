// Package sqlite provides SQLite-backed implementations of the checkpoint,
// memory, and report stores.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS checkpoints (
	id TEXT PRIMARY KEY,
	thread_id TEXT NOT NULL,
	parent_id TEXT,
	seq INTEGER NOT NULL,
	state BLOB NOT NULL,
	pending TEXT,
	next_steps TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	UNIQUE (thread_id, seq)
);
CREATE INDEX IF NOT EXISTS idx_checkpoints_thread ON checkpoints (thread_id, seq);

CREATE TABLE IF NOT EXISTS memories (
	namespace TEXT NOT NULL,
	key TEXT NOT NULL,
	text TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	PRIMARY KEY (namespace, key)
);
CREATE INDEX IF NOT EXISTS idx_memories_namespace ON memories (namespace);

CREATE TABLE IF NOT EXISTS reports (
	id TEXT PRIMARY KEY,
	body TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
`

// Open opens (or creates) the agent database in dataDir and bootstraps the
// schema. Pass ":memory:" for an in-memory database (used by tests).
func Open(ctx context.Context, dataDir string) (*sql.DB, error) {
	var dsn string
	if dataDir == ":memory:" {
		dsn = ":memory:"
	} else {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		dsn = filepath.Join(dataDir, "agent.db")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// Single connection avoids "database is locked" errors.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting journal mode: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	return db, nil
}
