package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/AdnanSaeed-85/job-automation-agent/internal/core/memory"
)

// MemoryStore implements memory.Store on SQLite. Insertion order is
// preserved by rowid within a namespace.
type MemoryStore struct {
	db *sql.DB
}

// NewMemoryStore creates a SQLite user memory store.
func NewMemoryStore(db *sql.DB) *MemoryStore {
	return &MemoryStore{db: db}
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

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO memories (namespace, key, text, created_at)
		VALUES (?, ?, ?, ?)
	`, ns.String(), key, text, time.Now().UnixNano())
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
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

	rows, err := s.db.QueryContext(ctx, `
		SELECT key, text, created_at
		FROM memories
		WHERE namespace = ?
		ORDER BY rowid ASC
	`, ns.String())
	if err != nil {
		return nil, fmt.Errorf("searching memories: %w", err)
	}
	defer rows.Close()

	var out []memory.Item
	for rows.Next() {
		var (
			item      memory.Item
			createdAt int64
		)
		if err := rows.Scan(&item.Key, &item.Text, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning memory row: %w", err)
		}
		item.CreatedAt = time.Unix(0, createdAt)
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading memory rows: %w", err)
	}
	return out, nil
}
