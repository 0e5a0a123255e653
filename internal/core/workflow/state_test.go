package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyAppendsMessagesInOrder(t *testing.T) {
	s := NewState()

	s = Apply(s, &Update{Messages: []Message{UserMessage("hello")}})
	s = Apply(s, &Update{Messages: []Message{
		AssistantMessage("hi"),
		ToolMessage("call-1", "result"),
	}})

	require.Len(t, s.Messages, 3)
	assert.Equal(t, RoleUser, s.Messages[0].Role)
	assert.Equal(t, RoleAssistant, s.Messages[1].Role)
	assert.Equal(t, RoleTool, s.Messages[2].Role)
	assert.Equal(t, "call-1", s.Messages[2].ToolCallID)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	orig := Apply(NewState(), &Update{Messages: []Message{UserMessage("one")}})

	_ = Apply(orig, &Update{
		Messages: []Message{AssistantMessage("two")},
		Scratch:  map[string]string{"k": "v"},
	})

	assert.Len(t, orig.Messages, 1)
	assert.Nil(t, orig.Scratch)
}

func TestApplyMergesScratch(t *testing.T) {
	s := Apply(NewState(), &Update{Scratch: map[string]string{"a": "1", "b": "2"}})
	s = Apply(s, &Update{Scratch: map[string]string{"b": "3"}})

	assert.Equal(t, "1", s.Scratch["a"])
	assert.Equal(t, "3", s.Scratch["b"])
}

func TestApplyNilUpdate(t *testing.T) {
	s := Apply(NewState(), &Update{Messages: []Message{UserMessage("x")}})
	out := Apply(s, nil)
	assert.Equal(t, s.Messages, out.Messages)
}

func TestLastUserMessage(t *testing.T) {
	s := Apply(NewState(), &Update{Messages: []Message{
		UserMessage("first"),
		AssistantMessage("reply"),
	}})

	last, ok := s.LastUserMessage()
	require.True(t, ok)
	assert.Equal(t, "first", last.Content)

	_, ok = NewState().LastUserMessage()
	assert.False(t, ok)
}
