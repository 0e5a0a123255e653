// Package agent assembles the conversational workflow: memory extraction,
// memory-infused chat, and the tool step carrying the paid job search
// behind its approval interrupt.
package agent

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/AdnanSaeed-85/job-automation-agent/internal/core/memory"
	"github.com/AdnanSaeed-85/job-automation-agent/internal/core/report"
	"github.com/AdnanSaeed-85/job-automation-agent/internal/core/workflow"
	"github.com/AdnanSaeed-85/job-automation-agent/internal/headhunter"
)

// Step names in the conversation graph.
const (
	StepRemember = "remember"
	StepChat     = "chat"
	StepTools    = "tools"
)

// ModelClient is the language model surface the agent needs.
type ModelClient interface {
	// Complete generates the next assistant message, possibly carrying
	// tool calls.
	Complete(ctx context.Context, msgs []workflow.Message) (workflow.Message, error)
	// CompleteStructured generates a JSON reply and unmarshals it into out.
	CompleteStructured(ctx context.Context, msgs []workflow.Message, out any) error
}

// Searcher runs the paid job search pipeline.
type Searcher interface {
	Run(ctx context.Context, q headhunter.Query) *headhunter.Result
}

// Agent wires the model, the user memory store, the search pipeline, and
// the report reader into a workflow definition.
type Agent struct {
	model    ModelClient
	memories memory.Store
	searcher Searcher
	reports  report.Reader
	log      zerolog.Logger
}

// New creates an agent.
func New(model ModelClient, memories memory.Store, searcher Searcher, reports report.Reader, log zerolog.Logger) *Agent {
	return &Agent{
		model:    model,
		memories: memories,
		searcher: searcher,
		reports:  reports,
		log:      log,
	}
}

// Definition builds the conversation graph:
//
//	remember -> chat -> (tools -> chat)* -> end
//
// chat loops through tools for as long as the model keeps requesting them.
func (a *Agent) Definition() (*workflow.Definition, error) {
	return workflow.NewBuilder(StepRemember).
		AddStep(StepRemember, a.rememberStep).
		AddStep(StepChat, a.chatStep).
		AddStep(StepTools, a.toolsStep).
		AddEdge(StepRemember, StepChat).
		AddConditionalEdge(StepChat, routeAfterChat).
		AddEdge(StepTools, StepChat).
		Build()
}

func routeAfterChat(s *workflow.State) string {
	if last, ok := s.LastMessage(); ok && last.HasToolCalls() {
		return StepTools
	}
	return workflow.End
}

// chatStep generates the assistant reply with stored user details folded
// into the system prompt.
func (a *Agent) chatStep(ctx context.Context, s *workflow.State, sc workflow.StepContext) (*workflow.Update, error) {
	details := a.userDetails(ctx, sc.UserID)

	msgs := make([]workflow.Message, 0, len(s.Messages)+1)
	msgs = append(msgs, workflow.Message{Role: workflow.RoleSystem, Content: systemPrompt(details)})
	msgs = append(msgs, s.Messages...)

	reply, err := a.model.Complete(ctx, msgs)
	if err != nil {
		return nil, err
	}
	return &workflow.Update{Messages: []workflow.Message{reply}}, nil
}

// userDetails renders the stored memories as one line per fact. Store
// errors degrade to an empty list; chat must not fail over memory reads.
func (a *Agent) userDetails(ctx context.Context, userID string) string {
	if userID == "" {
		return ""
	}
	items, err := a.memories.Search(ctx, memory.Details(userID))
	if err != nil {
		a.log.Warn().Err(err).Str("user", userID).Msg("memory lookup failed")
		return ""
	}
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, it.Text)
	}
	return strings.Join(lines, "\n")
}
