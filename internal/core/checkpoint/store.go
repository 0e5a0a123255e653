package checkpoint

import "context"

// Store is the persistence contract for checkpoint chains.
//
// Save is append-only: it never mutates an existing row. Concurrent Save
// calls for the same thread are serialized by the executor, not the store;
// a Store only needs correct single-writer append semantics per thread.
type Store interface {
	// Save persists a new checkpoint.
	Save(ctx context.Context, cp *Checkpoint) error

	// LoadLatest returns the thread's checkpoint with no descendant (the
	// one with the highest Seq), or ErrNotFound.
	LoadLatest(ctx context.Context, threadID string) (*Checkpoint, error)

	// History returns the thread's full chain, root first.
	History(ctx context.Context, threadID string) ([]*Checkpoint, error)
}
