// Package inmemory provides in-memory implementations of the checkpoint,
// memory, and report stores. Used by tests and as the default wiring when
// no durable backend is configured.
package inmemory

import (
	"context"
	"fmt"
	"sync"

	"github.com/AdnanSaeed-85/job-automation-agent/internal/core/checkpoint"
)

// CheckpointStore implements checkpoint.Store with a per-thread append-only
// slice guarded by a mutex.
type CheckpointStore struct {
	mu      sync.RWMutex
	threads map[string][]*checkpoint.Checkpoint
	ids     map[string]struct{}
}

// NewCheckpointStore creates an empty in-memory checkpoint store.
func NewCheckpointStore() *CheckpointStore {
	return &CheckpointStore{
		threads: make(map[string][]*checkpoint.Checkpoint),
		ids:     make(map[string]struct{}),
	}
}

// Save appends a checkpoint. Existing rows are never mutated.
func (s *CheckpointStore) Save(_ context.Context, cp *checkpoint.Checkpoint) error {
	if err := cp.Validate(); err != nil {
		return fmt.Errorf("checkpoint validation failed: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.ids[cp.ID]; exists {
		return fmt.Errorf("%w: %s", checkpoint.ErrDuplicateID, cp.ID)
	}
	stored := *cp
	stored.State = cp.State.Clone()
	s.threads[cp.ThreadID] = append(s.threads[cp.ThreadID], &stored)
	s.ids[cp.ID] = struct{}{}
	return nil
}

// LoadLatest returns the checkpoint with the highest Seq for the thread.
func (s *CheckpointStore) LoadLatest(_ context.Context, threadID string) (*checkpoint.Checkpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chain := s.threads[threadID]
	if len(chain) == 0 {
		return nil, fmt.Errorf("%w: thread %s", checkpoint.ErrNotFound, threadID)
	}
	latest := chain[0]
	for _, cp := range chain[1:] {
		if cp.Seq > latest.Seq {
			latest = cp
		}
	}
	return copyCheckpoint(latest), nil
}

// History returns the thread's chain ordered root first.
func (s *CheckpointStore) History(_ context.Context, threadID string) ([]*checkpoint.Checkpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chain := s.threads[threadID]
	if len(chain) == 0 {
		return nil, fmt.Errorf("%w: thread %s", checkpoint.ErrNotFound, threadID)
	}
	out := make([]*checkpoint.Checkpoint, len(chain))
	for i, cp := range chain {
		out[i] = copyCheckpoint(cp)
	}
	// Appends happen in Seq order under the single-writer rule, but sort
	// defensively by Seq to keep the root-first contract explicit.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].Seq > out[j].Seq; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out, nil
}

func copyCheckpoint(cp *checkpoint.Checkpoint) *checkpoint.Checkpoint {
	out := *cp
	out.State = cp.State.Clone()
	if cp.Pending != nil {
		pending := *cp.Pending
		out.Pending = &pending
	}
	out.NextSteps = append([]string(nil), cp.NextSteps...)
	return &out
}
