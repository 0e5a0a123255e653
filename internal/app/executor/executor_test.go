package executor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdnanSaeed-85/job-automation-agent/internal/adapters/repository/inmemory"
	"github.com/AdnanSaeed-85/job-automation-agent/internal/core/checkpoint"
	"github.com/AdnanSaeed-85/job-automation-agent/internal/core/workflow"
	"github.com/AdnanSaeed-85/job-automation-agent/internal/infrastructure/logging"
)

// echoGraph is a single step that replies to the last user message.
func echoGraph(t *testing.T) *workflow.Definition {
	t.Helper()
	def, err := workflow.NewBuilder("echo").
		AddStep("echo", func(_ context.Context, s *workflow.State, _ workflow.StepContext) (*workflow.Update, error) {
			last, _ := s.LastUserMessage()
			return &workflow.Update{
				Messages: []workflow.Message{workflow.AssistantMessage("echo: " + last.Content)},
			}, nil
		}).
		AddEdge("echo", workflow.End).
		Build()
	require.NoError(t, err)
	return def
}

// gateGraph suspends until it sees a resume decision, then records it.
func gateGraph(t *testing.T) *workflow.Definition {
	t.Helper()
	def, err := workflow.NewBuilder("gate").
		AddStep("gate", func(_ context.Context, _ *workflow.State, sc workflow.StepContext) (*workflow.Update, error) {
			if sc.Resume == nil {
				return nil, workflow.Suspend("Approve?")
			}
			return &workflow.Update{
				Messages: []workflow.Message{workflow.AssistantMessage("decision: " + *sc.Resume)},
			}, nil
		}).
		AddEdge("gate", workflow.End).
		Build()
	require.NoError(t, err)
	return def
}

func TestInvokeAppendsCheckpointChain(t *testing.T) {
	store := inmemory.NewCheckpointStore()
	exec := New(echoGraph(t), store, logging.Nop())
	ctx := context.Background()

	res, err := exec.Invoke(ctx, "t1", "u1", workflow.UserMessage("hello"))
	require.NoError(t, err)
	assert.False(t, res.Suspended)
	require.Len(t, res.State.Messages, 2)
	assert.Equal(t, "echo: hello", res.State.Messages[1].Content)

	res, err = exec.Invoke(ctx, "t1", "u1", workflow.UserMessage("again"))
	require.NoError(t, err)
	require.Len(t, res.State.Messages, 4)
	assert.Equal(t, "echo: again", res.State.Messages[3].Content)

	history, err := exec.History(ctx, "t1")
	require.NoError(t, err)
	// Two turns, each with an input boundary and a post-step checkpoint.
	require.Len(t, history, 4)
	assert.True(t, history[0].IsRoot())
	for i, cp := range history {
		assert.Equal(t, int64(i), cp.Seq)
		if i > 0 {
			assert.Equal(t, history[i-1].ID, cp.ParentID)
		}
	}
}

func TestThreadsAreIsolated(t *testing.T) {
	store := inmemory.NewCheckpointStore()
	exec := New(echoGraph(t), store, logging.Nop())
	ctx := context.Background()

	_, err := exec.Invoke(ctx, "a", "u1", workflow.UserMessage("for a"))
	require.NoError(t, err)
	res, err := exec.Invoke(ctx, "b", "u1", workflow.UserMessage("for b"))
	require.NoError(t, err)

	require.Len(t, res.State.Messages, 2)
	assert.Equal(t, "for b", res.State.Messages[0].Content)
}

func TestSuspendAndResume(t *testing.T) {
	store := inmemory.NewCheckpointStore()
	exec := New(gateGraph(t), store, logging.Nop())
	ctx := context.Background()

	res, err := exec.Invoke(ctx, "t1", "u1", workflow.UserMessage("do it"))
	require.NoError(t, err)
	assert.True(t, res.Suspended)
	assert.Equal(t, "Approve?", res.Prompt)

	latest, err := store.LoadLatest(ctx, "t1")
	require.NoError(t, err)
	require.NotNil(t, latest.Pending)
	assert.Equal(t, "gate", latest.Pending.RaisedBy)
	assert.Equal(t, []string{"gate"}, latest.NextSteps)

	res, err = exec.Resume(ctx, "t1", "u1", "yes")
	require.NoError(t, err)
	assert.False(t, res.Suspended)
	require.Len(t, res.State.Messages, 2)
	assert.Equal(t, "decision: yes", res.State.Messages[1].Content)

	latest, err = store.LoadLatest(ctx, "t1")
	require.NoError(t, err)
	assert.Nil(t, latest.Pending)
}

func TestInvokeWhilePendingFails(t *testing.T) {
	store := inmemory.NewCheckpointStore()
	exec := New(gateGraph(t), store, logging.Nop())
	ctx := context.Background()

	_, err := exec.Invoke(ctx, "t1", "u1", workflow.UserMessage("do it"))
	require.NoError(t, err)

	_, err = exec.Invoke(ctx, "t1", "u1", workflow.UserMessage("another"))
	assert.ErrorIs(t, err, workflow.ErrInterruptPending)

	// The failed invoke must not have touched the chain.
	latest, err := store.LoadLatest(ctx, "t1")
	require.NoError(t, err)
	require.NotNil(t, latest.Pending)
}

func TestResumeWithoutPendingFails(t *testing.T) {
	store := inmemory.NewCheckpointStore()
	exec := New(echoGraph(t), store, logging.Nop())
	ctx := context.Background()

	_, err := exec.Resume(ctx, "missing", "u1", "yes")
	assert.ErrorIs(t, err, workflow.ErrNoPendingInterrupt)

	_, err = exec.Invoke(ctx, "t1", "u1", workflow.UserMessage("hello"))
	require.NoError(t, err)
	_, err = exec.Resume(ctx, "t1", "u1", "yes")
	assert.ErrorIs(t, err, workflow.ErrNoPendingInterrupt)
}

func TestRepeatedInterruptFails(t *testing.T) {
	def, err := workflow.NewBuilder("gate").
		AddStep("gate", func(_ context.Context, _ *workflow.State, _ workflow.StepContext) (*workflow.Update, error) {
			return nil, workflow.Suspend("Approve?")
		}).
		AddEdge("gate", workflow.End).
		Build()
	require.NoError(t, err)

	store := inmemory.NewCheckpointStore()
	exec := New(def, store, logging.Nop())
	ctx := context.Background()

	_, err = exec.Invoke(ctx, "t1", "u1", workflow.UserMessage("do it"))
	require.NoError(t, err)
	_, err = exec.Resume(ctx, "t1", "u1", "yes")
	assert.ErrorIs(t, err, workflow.ErrRepeatedInterrupt)
}

func TestStepErrorYieldsApology(t *testing.T) {
	def, err := workflow.NewBuilder("boom").
		AddStep("boom", func(_ context.Context, _ *workflow.State, _ workflow.StepContext) (*workflow.Update, error) {
			return nil, errors.New("model unavailable")
		}).
		AddEdge("boom", workflow.End).
		Build()
	require.NoError(t, err)

	store := inmemory.NewCheckpointStore()
	exec := New(def, store, logging.Nop())
	ctx := context.Background()

	res, err := exec.Invoke(ctx, "t1", "u1", workflow.UserMessage("hello"))
	require.NoError(t, err)
	assert.False(t, res.Suspended)
	require.Len(t, res.State.Messages, 2)
	assert.Equal(t, workflow.RoleAssistant, res.State.Messages[1].Role)
	assert.Equal(t, apologyText, res.State.Messages[1].Content)

	// The thread stays usable after the failure.
	_, err = exec.Invoke(ctx, "t1", "u1", workflow.UserMessage("retry"))
	require.NoError(t, err)
}

func TestStorageErrorPropagates(t *testing.T) {
	store := &failingStore{}
	exec := New(echoGraph(t), store, logging.Nop())

	_, err := exec.Invoke(context.Background(), "t1", "u1", workflow.UserMessage("hello"))
	assert.ErrorIs(t, err, errDiskFull)
}

func TestResumeIsDeterministic(t *testing.T) {
	store := inmemory.NewCheckpointStore()
	exec := New(gateGraph(t), store, logging.Nop())
	ctx := context.Background()

	for _, thread := range []string{"a", "b"} {
		_, err := exec.Invoke(ctx, thread, "u1", workflow.UserMessage("do it"))
		require.NoError(t, err)
	}

	resA, err := exec.Resume(ctx, "a", "u1", "yes")
	require.NoError(t, err)
	resB, err := exec.Resume(ctx, "b", "u1", "yes")
	require.NoError(t, err)

	assert.Equal(t, resA.State.Messages, resB.State.Messages)
}

var errDiskFull = errors.New("disk full")

type failingStore struct{}

func (f *failingStore) Save(context.Context, *checkpoint.Checkpoint) error {
	return errDiskFull
}

func (f *failingStore) LoadLatest(context.Context, string) (*checkpoint.Checkpoint, error) {
	return nil, checkpoint.ErrNotFound
}

func (f *failingStore) History(context.Context, string) ([]*checkpoint.Checkpoint, error) {
	return nil, checkpoint.ErrNotFound
}
