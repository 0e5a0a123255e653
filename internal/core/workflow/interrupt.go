package workflow

import "fmt"

// Interrupt is the pending human-in-the-loop request persisted with a
// checkpoint while a thread is suspended. It exists only between a
// suspension and the matching resume.
type Interrupt struct {
	Prompt   string `json:"prompt"`
	RaisedBy string `json:"raised_by"`
}

// Suspension is returned (as an error) by a step that needs external input
// before it can make progress. The executor persists a checkpoint carrying
// the prompt and hands control back to the caller without advancing.
type Suspension struct {
	Prompt string
}

// Error implements the error interface so steps can surface a Suspension
// through their ordinary error return.
func (s *Suspension) Error() string {
	return fmt.Sprintf("execution suspended: %s", s.Prompt)
}

// Suspend raises a suspension with a human-readable approval prompt.
func Suspend(prompt string) error {
	return &Suspension{Prompt: prompt}
}
