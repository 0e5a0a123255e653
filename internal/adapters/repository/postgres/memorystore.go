package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AdnanSaeed-85/job-automation-agent/internal/core/memory"
)

// MemoryStore implements memory.Store on PostgreSQL. A sequence column
// preserves insertion order within a namespace.
type MemoryStore struct {
	pool *pgxpool.Pool
}

// NewMemoryStore creates a PostgreSQL user memory store.
func NewMemoryStore(pool *pgxpool.Pool) *MemoryStore {
	return &MemoryStore{pool: pool}
}

// CreateTables bootstraps the memory schema.
func (s *MemoryStore) CreateTables(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS memories (
			seq BIGSERIAL,
			namespace TEXT NOT NULL,
			key TEXT NOT NULL,
			text TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (namespace, key)
		);
		CREATE INDEX IF NOT EXISTS idx_memories_namespace ON memories (namespace, seq);
	`)
	if err != nil {
		return fmt.Errorf("creating memory tables: %w", err)
	}
	return nil
}

// Put appends an item under the namespace. Keys are write-once.
func (s *MemoryStore) Put(ctx context.Context, ns memory.Namespace, key, text string) error {
	if err := ns.Validate(); err != nil {
		return err
	}
	if key == "" {
		return memory.ErrInvalidKey
	}
	if strings.TrimSpace(text) == "" {
		return memory.ErrEmptyText
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO memories (namespace, key, text, created_at)
		VALUES ($1, $2, $3, $4)
	`, ns.String(), key, text, time.Now())
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return fmt.Errorf("%w: %s", memory.ErrDuplicateKey, key)
		}
		return fmt.Errorf("saving memory item: %w", err)
	}
	return nil
}

// Search returns all items in the namespace in insertion order.
func (s *MemoryStore) Search(ctx context.Context, ns memory.Namespace) ([]memory.Item, error) {
	if err := ns.Validate(); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT key, text, created_at
		FROM memories
		WHERE namespace = $1
		ORDER BY seq ASC
	`, ns.String())
	if err != nil {
		return nil, fmt.Errorf("searching memories: %w", err)
	}
	defer rows.Close()

	var out []memory.Item
	for rows.Next() {
		var item memory.Item
		if err := rows.Scan(&item.Key, &item.Text, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning memory row: %w", err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading memory rows: %w", err)
	}
	return out, nil
}
