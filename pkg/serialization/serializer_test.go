package serialization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdnanSaeed-85/job-automation-agent/internal/core/workflow"
)

func TestSerializerRoundTrip(t *testing.T) {
	state := workflow.Apply(workflow.NewState(), &workflow.Update{
		Messages: []workflow.Message{
			workflow.UserMessage("find AI engineer jobs in Dubai"),
			{Role: workflow.RoleAssistant, ToolCalls: []workflow.ToolCall{{
				ID:   "call-1",
				Name: "search_jobs",
				Args: map[string]any{"job_title": "AI Engineer", "job_limit": 3},
			}}},
		},
		Scratch: map[string]string{"last_search_status": "pending"},
	})

	for _, s := range []*Serializer{
		Default(),
		New(JSONCodec{}, false),
		New(MsgPackCodec{}, false),
		New(JSONCodec{}, true),
	} {
		data, err := s.Marshal(state)
		require.NoError(t, err)

		var out workflow.State
		require.NoError(t, s.Unmarshal(data, &out))

		require.Len(t, out.Messages, 2)
		assert.Equal(t, "find AI engineer jobs in Dubai", out.Messages[0].Content)
		assert.Equal(t, "search_jobs", out.Messages[1].ToolCalls[0].Name)
		assert.Equal(t, "pending", out.Scratch["last_search_status"])
	}
}

func TestCompressedOutputDiffers(t *testing.T) {
	plain := New(MsgPackCodec{}, false)
	compressed := New(MsgPackCodec{}, true)

	v := map[string]string{"k": "vvvvvvvvvvvvvvvvvvvvvvvvvvvvvvvv"}

	a, err := plain.Marshal(v)
	require.NoError(t, err)
	b, err := compressed.Marshal(v)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}
