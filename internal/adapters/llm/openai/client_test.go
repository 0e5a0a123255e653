package openai

import (
	"testing"

	goopenai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdnanSaeed-85/job-automation-agent/internal/core/workflow"
)

func TestToAPIMessages(t *testing.T) {
	msgs := []workflow.Message{
		{Role: workflow.RoleSystem, Content: "be helpful"},
		workflow.UserMessage("find me jobs"),
		{
			Role: workflow.RoleAssistant,
			ToolCalls: []workflow.ToolCall{{
				ID:   "c1",
				Name: "search_jobs",
				Args: map[string]any{"job_title": "Engineer", "job_limit": 3},
			}},
		},
		workflow.ToolMessage("c1", "Done! 2 matches."),
	}

	api := toAPIMessages(msgs)
	require.Len(t, api, 4)
	assert.Equal(t, "system", api[0].Role)
	assert.Equal(t, "user", api[1].Role)

	require.Len(t, api[2].ToolCalls, 1)
	assert.Equal(t, "c1", api[2].ToolCalls[0].ID)
	assert.Equal(t, "search_jobs", api[2].ToolCalls[0].Function.Name)
	assert.Contains(t, api[2].ToolCalls[0].Function.Arguments, `"job_title":"Engineer"`)

	assert.Equal(t, "tool", api[3].Role)
	assert.Equal(t, "c1", api[3].ToolCallID)
}

func TestFromAPIMessage(t *testing.T) {
	msg, err := fromAPIMessage(goopenai.ChatCompletionMessage{
		Role: "assistant",
		ToolCalls: []goopenai.ToolCall{{
			ID:   "c2",
			Type: goopenai.ToolTypeFunction,
			Function: goopenai.FunctionCall{
				Name:      "search_jobs",
				Arguments: `{"job_title":"SRE","job_limit":5}`,
			},
		}},
	})
	require.NoError(t, err)
	require.Len(t, msg.ToolCalls, 1)
	assert.Equal(t, "SRE", msg.ToolCalls[0].Args["job_title"])
	assert.Equal(t, float64(5), msg.ToolCalls[0].Args["job_limit"])

	_, err = fromAPIMessage(goopenai.ChatCompletionMessage{
		Role: "assistant",
		ToolCalls: []goopenai.ToolCall{{
			Function: goopenai.FunctionCall{Name: "search_jobs", Arguments: "not json"},
		}},
	})
	assert.Error(t, err)
}
