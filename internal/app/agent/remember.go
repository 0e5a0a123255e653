package agent

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/AdnanSaeed-85/job-automation-agent/internal/core/memory"
	"github.com/AdnanSaeed-85/job-automation-agent/internal/core/workflow"
)

// extractedFact is one candidate memory proposed by the model.
type extractedFact struct {
	Text  string `json:"text"`
	IsNew bool   `json:"is_new"`
}

// memoryDecision is the model's verdict on the latest user message.
type memoryDecision struct {
	ShouldAdd bool            `json:"should_add"`
	Memories  []extractedFact `json:"memories"`
}

// rememberStep extracts long-term facts from the latest user message and
// stores the genuinely new ones. It is best effort: extraction or storage
// failures are logged and the turn continues, so a flaky model can never
// block a conversation.
func (a *Agent) rememberStep(ctx context.Context, s *workflow.State, sc workflow.StepContext) (*workflow.Update, error) {
	last, ok := s.LastUserMessage()
	if !ok || sc.UserID == "" {
		return nil, nil
	}

	existing := a.userDetails(ctx, sc.UserID)

	var decision memoryDecision
	err := a.model.CompleteStructured(ctx, []workflow.Message{
		{Role: workflow.RoleSystem, Content: memoryPrompt(existing)},
		{Role: workflow.RoleUser, Content: last.Content},
	}, &decision)
	if err != nil {
		a.log.Warn().Err(err).Str("user", sc.UserID).Msg("memory extraction failed")
		return nil, nil
	}
	if !decision.ShouldAdd {
		return nil, nil
	}

	ns := memory.Details(sc.UserID)
	for _, fact := range decision.Memories {
		text := strings.TrimSpace(fact.Text)
		if !fact.IsNew || text == "" {
			continue
		}
		if err := a.memories.Put(ctx, ns, uuid.NewString(), text); err != nil {
			a.log.Warn().Err(err).Str("user", sc.UserID).Msg("memory write failed")
			continue
		}
		a.log.Debug().Str("user", sc.UserID).Str("fact", text).Msg("memory stored")
	}
	return nil, nil
}
