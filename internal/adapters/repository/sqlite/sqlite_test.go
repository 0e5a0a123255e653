package sqlite

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdnanSaeed-85/job-automation-agent/internal/core/checkpoint"
	"github.com/AdnanSaeed-85/job-automation-agent/internal/core/memory"
	"github.com/AdnanSaeed-85/job-automation-agent/internal/core/report"
	"github.com/AdnanSaeed-85/job-automation-agent/internal/core/workflow"
	"github.com/AdnanSaeed-85/job-automation-agent/pkg/serialization"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCheckpointStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewCheckpointStore(openTestDB(t), serialization.Default())

	state := workflow.Apply(workflow.NewState(), &workflow.Update{
		Messages: []workflow.Message{workflow.UserMessage("hello")},
	})

	root := &checkpoint.Checkpoint{
		ID:        "cp-0",
		ThreadID:  "t1",
		Seq:       0,
		State:     state,
		NextSteps: []string{"remember"},
	}
	require.NoError(t, store.Save(ctx, root))

	suspended := &checkpoint.Checkpoint{
		ID:        "cp-1",
		ThreadID:  "t1",
		ParentID:  "cp-0",
		Seq:       1,
		State:     state,
		Pending:   &workflow.Interrupt{Prompt: "Approve charge of $4.50 for 3 jobs?", RaisedBy: "tools"},
		NextSteps: []string{"tools"},
	}
	require.NoError(t, store.Save(ctx, suspended))

	latest, err := store.LoadLatest(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "cp-1", latest.ID)
	assert.Equal(t, "cp-0", latest.ParentID)
	require.NotNil(t, latest.Pending)
	assert.Equal(t, "tools", latest.Pending.RaisedBy)
	assert.Equal(t, []string{"tools"}, latest.NextSteps)
	require.Len(t, latest.State.Messages, 1)
	assert.Equal(t, "hello", latest.State.Messages[0].Content)

	history, err := store.History(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "cp-0", history[0].ID)
	assert.Nil(t, history[0].Pending)
}

func TestCheckpointStoreAppendOnly(t *testing.T) {
	ctx := context.Background()
	store := NewCheckpointStore(openTestDB(t), nil)

	cp := &checkpoint.Checkpoint{ID: "cp-0", ThreadID: "t1", Seq: 0, State: workflow.NewState()}
	require.NoError(t, store.Save(ctx, cp))
	assert.Error(t, store.Save(ctx, cp), "duplicate primary key must not overwrite")

	// Same thread, same seq with a new ID also violates append semantics.
	dup := &checkpoint.Checkpoint{ID: "cp-x", ThreadID: "t1", Seq: 0, State: workflow.NewState()}
	assert.Error(t, store.Save(ctx, dup))
}

func TestCheckpointStoreNotFound(t *testing.T) {
	store := NewCheckpointStore(openTestDB(t), nil)

	_, err := store.LoadLatest(context.Background(), "missing")
	assert.ErrorIs(t, err, checkpoint.ErrNotFound)

	_, err = store.History(context.Background(), "missing")
	assert.ErrorIs(t, err, checkpoint.ErrNotFound)
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(openTestDB(t))
	ns := memory.Details("alice")

	require.NoError(t, store.Put(ctx, ns, "k1", "Name is Alice"))
	require.NoError(t, store.Put(ctx, ns, "k2", "Lives in Cairo"))
	assert.ErrorIs(t, store.Put(ctx, ns, "k1", "again"), memory.ErrDuplicateKey)

	items, err := store.Search(ctx, ns)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Name is Alice", items[0].Text)
	assert.Equal(t, "Lives in Cairo", items[1].Text)

	empty, err := store.Search(ctx, memory.Details("bob"))
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestReportStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewReportStore(openTestDB(t))

	_, err := store.ReadReport(ctx)
	assert.ErrorIs(t, err, report.ErrNoReport)

	require.NoError(t, store.WriteReport(ctx, &report.Report{
		ID:       "r1",
		JobTitle: "AI Engineer",
		Location: "Dubai",
		Entries:  []report.Entry{{Rank: 1, URL: "https://ae.indeed.com/viewjob?jk=abc", Score: 90, Analysis: "strong match"}},
		Matches:  1,
	}))

	text, err := store.ReadReport(ctx)
	require.NoError(t, err)
	assert.Contains(t, text, "AI Engineer")
	assert.Contains(t, text, "viewjob?jk=abc")
}
