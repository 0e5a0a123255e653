package workflow

// State is the mutable workflow state threaded through step execution.
// Steps never modify a State in place; they return an Update which the
// executor merges with Apply.
type State struct {
	Messages []Message         `json:"messages"`
	Scratch  map[string]string `json:"scratch,omitempty"`
}

// NewState returns an empty state.
func NewState() *State {
	return &State{}
}

// Clone returns a deep enough copy for single-writer execution: the message
// slice and scratch map are copied, message values are immutable.
func (s *State) Clone() *State {
	if s == nil {
		return NewState()
	}
	out := &State{
		Messages: make([]Message, len(s.Messages)),
	}
	copy(out.Messages, s.Messages)
	if s.Scratch != nil {
		out.Scratch = make(map[string]string, len(s.Scratch))
		for k, v := range s.Scratch {
			out.Scratch[k] = v
		}
	}
	return out
}

// LastMessage returns the most recent message, if any.
func (s *State) LastMessage() (Message, bool) {
	if s == nil || len(s.Messages) == 0 {
		return Message{}, false
	}
	return s.Messages[len(s.Messages)-1], true
}

// LastUserMessage returns the most recent user message, if any.
func (s *State) LastUserMessage() (Message, bool) {
	if s == nil {
		return Message{}, false
	}
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleUser {
			return s.Messages[i], true
		}
	}
	return Message{}, false
}

// Update is the partial state change returned by a step. Messages are
// appended in order; scratch keys are merged, last write wins.
type Update struct {
	Messages []Message
	Scratch  map[string]string
}

// Apply merges an update into a state and returns the resulting state.
// The input state is not modified. Message appends are order preserving,
// which keeps the operation associative under single-writer execution.
func Apply(s *State, u *Update) *State {
	out := s.Clone()
	if u == nil {
		return out
	}
	out.Messages = append(out.Messages, u.Messages...)
	if len(u.Scratch) > 0 {
		if out.Scratch == nil {
			out.Scratch = make(map[string]string, len(u.Scratch))
		}
		for k, v := range u.Scratch {
			out.Scratch[k] = v
		}
	}
	return out
}
