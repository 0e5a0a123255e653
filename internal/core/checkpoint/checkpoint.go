// Package checkpoint provides the durable workflow snapshot entities and the
// store contract they are persisted through.
package checkpoint

import (
	"time"

	"github.com/AdnanSaeed-85/job-automation-agent/internal/core/workflow"
)

// Checkpoint is an immutable snapshot of a thread's workflow state taken at
// a step boundary. Checkpoints form a singly linked, append-only chain per
// thread via ParentID; the current checkpoint is the one with no child,
// identified by the highest Seq.
type Checkpoint struct {
	ID       string `json:"id"`
	ThreadID string `json:"thread_id"`
	// ParentID is empty only for the root checkpoint of a thread.
	ParentID string `json:"parent_id,omitempty"`
	// Seq is a per-thread logical clock assigned by the writer. LoadLatest
	// resolves ties by Seq, never by wall time.
	Seq       int64               `json:"seq"`
	State     *workflow.State     `json:"state"`
	Pending   *workflow.Interrupt `json:"pending,omitempty"`
	NextSteps []string            `json:"next_steps"`
	CreatedAt time.Time           `json:"created_at"`
}

// Validate ensures checkpoint integrity before persistence.
func (c *Checkpoint) Validate() error {
	if c.ID == "" {
		return ErrInvalidCheckpointID
	}
	if c.ThreadID == "" {
		return ErrInvalidThreadID
	}
	if c.State == nil {
		return ErrNilState
	}
	if c.Seq < 0 {
		return ErrInvalidSeq
	}
	if c.Seq > 0 && c.ParentID == "" {
		return ErrMissingParent
	}
	return nil
}

// IsRoot reports whether this is the first checkpoint of its thread.
func (c *Checkpoint) IsRoot() bool {
	return c.ParentID == ""
}
