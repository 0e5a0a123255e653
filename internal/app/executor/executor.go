// Package executor runs workflow definitions with step-boundary
// checkpointing, interrupt suspension, and exact resume.
package executor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/AdnanSaeed-85/job-automation-agent/internal/core/checkpoint"
	"github.com/AdnanSaeed-85/job-automation-agent/internal/core/workflow"
	"github.com/AdnanSaeed-85/job-automation-agent/internal/infrastructure/metrics"
)

// apologyText is appended as the assistant's reply when a step fails in a
// way the conversation can survive.
const apologyText = "Sorry, I encountered an error. Please try again."

// Result is the outcome of an Invoke or Resume call.
type Result struct {
	// State is the conversation state at the end of the turn.
	State *workflow.State
	// Suspended reports whether the turn stopped at an interrupt.
	Suspended bool
	// Prompt is the question to surface to the human when Suspended.
	Prompt string
	// CheckpointID identifies the checkpoint written at the end of the turn.
	CheckpointID string
}

// Executor drives a workflow definition over a checkpoint store. Turns on
// the same thread are serialized; distinct threads run concurrently.
type Executor struct {
	def   *workflow.Definition
	store checkpoint.Store
	log   zerolog.Logger

	mu      sync.Mutex
	threads map[string]*sync.Mutex
}

// New creates an executor for the given definition and store.
func New(def *workflow.Definition, store checkpoint.Store, log zerolog.Logger) *Executor {
	return &Executor{
		def:     def,
		store:   store,
		log:     log,
		threads: make(map[string]*sync.Mutex),
	}
}

func (e *Executor) threadLock(threadID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	lock, ok := e.threads[threadID]
	if !ok {
		lock = &sync.Mutex{}
		e.threads[threadID] = lock
	}
	return lock
}

// Invoke runs one conversational turn on the thread. A new thread starts
// from empty state; an existing thread continues from its latest
// checkpoint. Returns ErrInterruptPending if the thread is suspended.
func (e *Executor) Invoke(ctx context.Context, threadID, userID string, input workflow.Message) (*Result, error) {
	if threadID == "" {
		return nil, checkpoint.ErrInvalidThreadID
	}
	lock := e.threadLock(threadID)
	lock.Lock()
	defer lock.Unlock()

	state := workflow.NewState()
	var parent *checkpoint.Checkpoint

	latest, err := e.store.LoadLatest(ctx, threadID)
	switch {
	case errors.Is(err, checkpoint.ErrNotFound):
		// Fresh thread.
	case err != nil:
		return nil, fmt.Errorf("loading thread %s: %w", threadID, err)
	default:
		if latest.Pending != nil {
			return nil, fmt.Errorf("%w: thread %s", workflow.ErrInterruptPending, threadID)
		}
		state = latest.State
		parent = latest
	}

	metrics.IncTurns()
	state = workflow.Apply(state, &workflow.Update{Messages: []workflow.Message{input}})

	entry := e.def.Entry()
	cp, err := e.save(ctx, threadID, parent, state, nil, []string{entry})
	if err != nil {
		return nil, err
	}

	sc := workflow.StepContext{ThreadID: threadID, UserID: userID}
	return e.run(ctx, threadID, cp, state, entry, sc, false)
}

// Resume continues a suspended thread with the human's decision. The
// interrupted step re-executes from the top with the decision available.
// Returns ErrNoPendingInterrupt if the thread is not suspended.
func (e *Executor) Resume(ctx context.Context, threadID, userID, decision string) (*Result, error) {
	if threadID == "" {
		return nil, checkpoint.ErrInvalidThreadID
	}
	lock := e.threadLock(threadID)
	lock.Lock()
	defer lock.Unlock()

	latest, err := e.store.LoadLatest(ctx, threadID)
	if errors.Is(err, checkpoint.ErrNotFound) {
		return nil, fmt.Errorf("%w: thread %s", workflow.ErrNoPendingInterrupt, threadID)
	}
	if err != nil {
		return nil, fmt.Errorf("loading thread %s: %w", threadID, err)
	}
	if latest.Pending == nil {
		return nil, fmt.Errorf("%w: thread %s", workflow.ErrNoPendingInterrupt, threadID)
	}

	metrics.IncInterruptsResumed()
	sc := workflow.StepContext{ThreadID: threadID, UserID: userID, Resume: &decision}
	return e.run(ctx, threadID, latest, latest.State, latest.Pending.RaisedBy, sc, true)
}

// History returns the thread's checkpoint chain ordered root first.
func (e *Executor) History(ctx context.Context, threadID string) ([]*checkpoint.Checkpoint, error) {
	return e.store.History(ctx, threadID)
}

// run executes steps from current until End, an interrupt, or an error.
// resumed marks the first step as a re-execution of an interrupted step;
// a second suspension from it is a protocol violation.
func (e *Executor) run(ctx context.Context, threadID string, parent *checkpoint.Checkpoint, state *workflow.State, current string, sc workflow.StepContext, resumed bool) (*Result, error) {
	for current != workflow.End {
		fn, ok := e.def.Step(current)
		if !ok {
			return nil, fmt.Errorf("%w: %s", workflow.ErrUnknownStep, current)
		}

		update, stepErr := fn(ctx, state, sc)

		var susp *workflow.Suspension
		if errors.As(stepErr, &susp) {
			if resumed {
				return nil, fmt.Errorf("%w: step %s", workflow.ErrRepeatedInterrupt, current)
			}
			metrics.IncInterruptsRaised()
			pending := &workflow.Interrupt{Prompt: susp.Prompt, RaisedBy: current}
			cp, err := e.save(ctx, threadID, parent, state, pending, []string{current})
			if err != nil {
				return nil, err
			}
			e.log.Info().Str("thread", threadID).Str("step", current).Msg("turn suspended on interrupt")
			return &Result{State: state, Suspended: true, Prompt: susp.Prompt, CheckpointID: cp.ID}, nil
		}

		if stepErr != nil {
			metrics.IncStepFailures()
			e.log.Error().Err(stepErr).Str("thread", threadID).Str("step", current).Msg("step failed")
			state = workflow.Apply(state, &workflow.Update{
				Messages: []workflow.Message{workflow.AssistantMessage(apologyText)},
			})
			cp, err := e.save(ctx, threadID, parent, state, nil, []string{workflow.End})
			if err != nil {
				return nil, err
			}
			return &Result{State: state, CheckpointID: cp.ID}, nil
		}

		state = workflow.Apply(state, update)
		next, err := e.def.NextAfter(current, state)
		if err != nil {
			return nil, err
		}

		cp, err := e.save(ctx, threadID, parent, state, nil, []string{next})
		if err != nil {
			return nil, err
		}
		parent = cp
		current = next

		// Only the first step of a resumed turn sees the decision.
		sc.Resume = nil
		resumed = false
	}

	return &Result{State: state, CheckpointID: parent.ID}, nil
}

func (e *Executor) save(ctx context.Context, threadID string, parent *checkpoint.Checkpoint, state *workflow.State, pending *workflow.Interrupt, nextSteps []string) (*checkpoint.Checkpoint, error) {
	cp := &checkpoint.Checkpoint{
		ID:        uuid.NewString(),
		ThreadID:  threadID,
		State:     state,
		Pending:   pending,
		NextSteps: nextSteps,
		CreatedAt: time.Now(),
	}
	if parent != nil {
		cp.ParentID = parent.ID
		cp.Seq = parent.Seq + 1
	}
	if err := e.store.Save(ctx, cp); err != nil {
		return nil, fmt.Errorf("saving checkpoint for thread %s: %w", threadID, err)
	}
	metrics.IncCheckpointsSaved()
	return cp, nil
}
