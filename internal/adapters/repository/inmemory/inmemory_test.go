package inmemory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdnanSaeed-85/job-automation-agent/internal/core/checkpoint"
	"github.com/AdnanSaeed-85/job-automation-agent/internal/core/memory"
	"github.com/AdnanSaeed-85/job-automation-agent/internal/core/report"
	"github.com/AdnanSaeed-85/job-automation-agent/internal/core/workflow"
)

func chainCheckpoint(id, thread, parent string, seq int64) *checkpoint.Checkpoint {
	return &checkpoint.Checkpoint{
		ID:       id,
		ThreadID: thread,
		ParentID: parent,
		Seq:      seq,
		State:    workflow.NewState(),
	}
}

func TestCheckpointChain(t *testing.T) {
	ctx := context.Background()
	store := NewCheckpointStore()

	require.NoError(t, store.Save(ctx, chainCheckpoint("cp-0", "t1", "", 0)))
	require.NoError(t, store.Save(ctx, chainCheckpoint("cp-1", "t1", "cp-0", 1)))
	require.NoError(t, store.Save(ctx, chainCheckpoint("cp-2", "t1", "cp-1", 2)))

	latest, err := store.LoadLatest(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "cp-2", latest.ID)

	history, err := store.History(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, history, 3)

	// Root first, each non-root checkpoint's parent appears earlier.
	assert.True(t, history[0].IsRoot())
	seen := map[string]bool{history[0].ID: true}
	for _, cp := range history[1:] {
		assert.True(t, seen[cp.ParentID], "parent %s of %s not seen earlier", cp.ParentID, cp.ID)
		seen[cp.ID] = true
	}
}

func TestCheckpointSaveIsAppendOnly(t *testing.T) {
	ctx := context.Background()
	store := NewCheckpointStore()

	require.NoError(t, store.Save(ctx, chainCheckpoint("cp-0", "t1", "", 0)))
	err := store.Save(ctx, chainCheckpoint("cp-0", "t1", "", 0))
	assert.ErrorIs(t, err, checkpoint.ErrDuplicateID)
}

func TestCheckpointLoadLatestNotFound(t *testing.T) {
	_, err := NewCheckpointStore().LoadLatest(context.Background(), "missing")
	assert.ErrorIs(t, err, checkpoint.ErrNotFound)
}

func TestCheckpointStoredStateIsIsolated(t *testing.T) {
	ctx := context.Background()
	store := NewCheckpointStore()

	cp := chainCheckpoint("cp-0", "t1", "", 0)
	cp.State = workflow.Apply(workflow.NewState(), &workflow.Update{
		Messages: []workflow.Message{workflow.UserMessage("hello")},
	})
	require.NoError(t, store.Save(ctx, cp))

	loaded, err := store.LoadLatest(ctx, "t1")
	require.NoError(t, err)
	loaded.State.Messages[0].Content = "mutated"

	again, err := store.LoadLatest(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "hello", again.State.Messages[0].Content)
}

func TestMemoryStoreInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	ns := memory.Details("alice")

	require.NoError(t, store.Put(ctx, ns, "k1", "Name is Alice"))
	require.NoError(t, store.Put(ctx, ns, "k2", "Lives in Cairo"))
	require.NoError(t, store.Put(ctx, ns, "k3", "Works with Go"))

	items, err := store.Search(ctx, ns)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Name is Alice", items[0].Text)
	assert.Equal(t, "Lives in Cairo", items[1].Text)
	assert.Equal(t, "Works with Go", items[2].Text)

	// Namespaces are isolated.
	other, err := store.Search(ctx, memory.Details("bob"))
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestMemoryStoreRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	ns := memory.Details("alice")

	assert.ErrorIs(t, store.Put(ctx, ns, "", "text"), memory.ErrInvalidKey)
	assert.ErrorIs(t, store.Put(ctx, ns, "k", "   "), memory.ErrEmptyText)
	assert.ErrorIs(t, store.Put(ctx, memory.Namespace{}, "k", "text"), memory.ErrInvalidUserID)

	require.NoError(t, store.Put(ctx, ns, "k", "text"))
	assert.ErrorIs(t, store.Put(ctx, ns, "k", "other"), memory.ErrDuplicateKey)
}

func TestReportStoreReadsLatest(t *testing.T) {
	ctx := context.Background()
	store := NewReportStore()

	_, err := store.ReadReport(ctx)
	assert.ErrorIs(t, err, report.ErrNoReport)

	require.NoError(t, store.WriteReport(ctx, &report.Report{
		ID: "r1", JobTitle: "AI Engineer", Location: "Dubai",
	}))
	require.NoError(t, store.WriteReport(ctx, &report.Report{
		ID: "r2", JobTitle: "Data Engineer", Location: "Berlin",
		Entries: []report.Entry{{Rank: 1, URL: "https://example.com/viewjob?jk=1", Score: 90, Analysis: "SCORE: 90%"}},
	}))

	text, err := store.ReadReport(ctx)
	require.NoError(t, err)
	assert.Contains(t, text, "Data Engineer")
	assert.Contains(t, text, "SCORE: 90%")
	assert.Equal(t, 2, store.Count())
}
