// Package postgres provides PostgreSQL-backed implementations of the
// checkpoint, memory, and report stores using pgx.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AdnanSaeed-85/job-automation-agent/internal/core/checkpoint"
	"github.com/AdnanSaeed-85/job-automation-agent/internal/core/workflow"
	"github.com/AdnanSaeed-85/job-automation-agent/pkg/serialization"
)

// CheckpointStore implements checkpoint.Store on PostgreSQL.
type CheckpointStore struct {
	pool       *pgxpool.Pool
	serializer *serialization.Serializer
}

// NewCheckpointStore creates a PostgreSQL checkpoint store.
func NewCheckpointStore(pool *pgxpool.Pool, serializer *serialization.Serializer) *CheckpointStore {
	if serializer == nil {
		serializer = serialization.Default()
	}
	return &CheckpointStore{pool: pool, serializer: serializer}
}

// CreateTables bootstraps the checkpoint schema.
func (s *CheckpointStore) CreateTables(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS checkpoints (
			id TEXT PRIMARY KEY,
			thread_id TEXT NOT NULL,
			parent_id TEXT,
			seq BIGINT NOT NULL,
			state BYTEA NOT NULL,
			pending JSONB,
			next_steps JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			UNIQUE (thread_id, seq)
		);
		CREATE INDEX IF NOT EXISTS idx_checkpoints_thread ON checkpoints (thread_id, seq);
	`)
	if err != nil {
		return fmt.Errorf("creating checkpoint tables: %w", err)
	}
	return nil
}

// Save appends a checkpoint. Plain INSERT: existing rows are never updated.
func (s *CheckpointStore) Save(ctx context.Context, cp *checkpoint.Checkpoint) error {
	if cp == nil {
		return checkpoint.ErrInvalidCheckpointID
	}
	if err := cp.Validate(); err != nil {
		return fmt.Errorf("checkpoint validation failed: %w", err)
	}

	state, err := s.serializer.Marshal(cp.State)
	if err != nil {
		return fmt.Errorf("serializing checkpoint state: %w", err)
	}
	var pending []byte
	if cp.Pending != nil {
		pending, err = json.Marshal(cp.Pending)
		if err != nil {
			return fmt.Errorf("serializing pending interrupt: %w", err)
		}
	}
	nextSteps, err := json.Marshal(cp.NextSteps)
	if err != nil {
		return fmt.Errorf("serializing next steps: %w", err)
	}

	var parent *string
	if cp.ParentID != "" {
		parent = &cp.ParentID
	}
	created := cp.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO checkpoints (id, thread_id, parent_id, seq, state, pending, next_steps, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, cp.ID, cp.ThreadID, parent, cp.Seq, state, pending, nextSteps, created)
	if err != nil {
		return fmt.Errorf("saving checkpoint: %w", err)
	}
	return nil
}

// LoadLatest returns the checkpoint with the highest Seq for the thread.
func (s *CheckpointStore) LoadLatest(ctx context.Context, threadID string) (*checkpoint.Checkpoint, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, thread_id, parent_id, seq, state, pending, next_steps, created_at
		FROM checkpoints
		WHERE thread_id = $1
		ORDER BY seq DESC
		LIMIT 1
	`, threadID)

	cp, err := s.scan(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: thread %s", checkpoint.ErrNotFound, threadID)
	}
	return cp, err
}

// History returns the thread's chain ordered root first.
func (s *CheckpointStore) History(ctx context.Context, threadID string) ([]*checkpoint.Checkpoint, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, thread_id, parent_id, seq, state, pending, next_steps, created_at
		FROM checkpoints
		WHERE thread_id = $1
		ORDER BY seq ASC
	`, threadID)
	if err != nil {
		return nil, fmt.Errorf("listing checkpoints: %w", err)
	}
	defer rows.Close()

	var out []*checkpoint.Checkpoint
	for rows.Next() {
		cp, err := s.scan(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, cp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading checkpoint rows: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: thread %s", checkpoint.ErrNotFound, threadID)
	}
	return out, nil
}

func (s *CheckpointStore) scan(scan func(...any) error) (*checkpoint.Checkpoint, error) {
	var (
		cp        checkpoint.Checkpoint
		parent    *string
		state     []byte
		pending   []byte
		nextSteps []byte
	)
	if err := scan(&cp.ID, &cp.ThreadID, &parent, &cp.Seq, &state, &pending, &nextSteps, &cp.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning checkpoint row: %w", err)
	}
	if parent != nil {
		cp.ParentID = *parent
	}

	cp.State = workflow.NewState()
	if err := s.serializer.Unmarshal(state, cp.State); err != nil {
		return nil, fmt.Errorf("deserializing checkpoint state: %w", err)
	}
	if len(pending) > 0 {
		cp.Pending = &workflow.Interrupt{}
		if err := json.Unmarshal(pending, cp.Pending); err != nil {
			return nil, fmt.Errorf("deserializing pending interrupt: %w", err)
		}
	}
	if err := json.Unmarshal(nextSteps, &cp.NextSteps); err != nil {
		return nil, fmt.Errorf("deserializing next steps: %w", err)
	}
	return &cp, nil
}
