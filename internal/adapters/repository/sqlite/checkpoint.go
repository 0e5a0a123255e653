package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/AdnanSaeed-85/job-automation-agent/internal/core/checkpoint"
	"github.com/AdnanSaeed-85/job-automation-agent/internal/core/workflow"
	"github.com/AdnanSaeed-85/job-automation-agent/pkg/serialization"
)

// CheckpointStore implements checkpoint.Store on SQLite. State blobs are
// serialized with the shared serializer; the pending interrupt and next
// steps are stored as JSON for inspectability.
type CheckpointStore struct {
	db         *sql.DB
	serializer *serialization.Serializer
}

// NewCheckpointStore creates a SQLite checkpoint store.
func NewCheckpointStore(db *sql.DB, serializer *serialization.Serializer) *CheckpointStore {
	if serializer == nil {
		serializer = serialization.Default()
	}
	return &CheckpointStore{db: db, serializer: serializer}
}

// Save appends a checkpoint. The INSERT never replaces: append-only.
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
	var pending sql.NullString
	if cp.Pending != nil {
		raw, err := json.Marshal(cp.Pending)
		if err != nil {
			return fmt.Errorf("serializing pending interrupt: %w", err)
		}
		pending = sql.NullString{String: string(raw), Valid: true}
	}
	nextSteps, err := json.Marshal(cp.NextSteps)
	if err != nil {
		return fmt.Errorf("serializing next steps: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO checkpoints (id, thread_id, parent_id, seq, state, pending, next_steps, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, cp.ID, cp.ThreadID, nullable(cp.ParentID), cp.Seq, state, pending, string(nextSteps), cp.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("saving checkpoint: %w", err)
	}
	return nil
}

// LoadLatest returns the checkpoint with the highest Seq for the thread.
func (s *CheckpointStore) LoadLatest(ctx context.Context, threadID string) (*checkpoint.Checkpoint, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, thread_id, parent_id, seq, state, pending, next_steps, created_at
		FROM checkpoints
		WHERE thread_id = ?
		ORDER BY seq DESC
		LIMIT 1
	`, threadID)

	cp, err := s.scan(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: thread %s", checkpoint.ErrNotFound, threadID)
	}
	return cp, err
}

// History returns the thread's chain ordered root first.
func (s *CheckpointStore) History(ctx context.Context, threadID string) ([]*checkpoint.Checkpoint, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, thread_id, parent_id, seq, state, pending, next_steps, created_at
		FROM checkpoints
		WHERE thread_id = ?
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
		parent    sql.NullString
		state     []byte
		pending   sql.NullString
		nextSteps string
		createdAt int64
	)
	if err := scan(&cp.ID, &cp.ThreadID, &parent, &cp.Seq, &state, &pending, &nextSteps, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning checkpoint row: %w", err)
	}
	cp.ParentID = parent.String
	cp.CreatedAt = time.Unix(0, createdAt)

	cp.State = workflow.NewState()
	if err := s.serializer.Unmarshal(state, cp.State); err != nil {
		return nil, fmt.Errorf("deserializing checkpoint state: %w", err)
	}
	if pending.Valid {
		cp.Pending = &workflow.Interrupt{}
		if err := json.Unmarshal([]byte(pending.String), cp.Pending); err != nil {
			return nil, fmt.Errorf("deserializing pending interrupt: %w", err)
		}
	}
	if err := json.Unmarshal([]byte(nextSteps), &cp.NextSteps); err != nil {
		return nil, fmt.Errorf("deserializing next steps: %w", err)
	}
	return &cp, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
