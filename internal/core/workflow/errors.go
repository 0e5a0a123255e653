// Package workflow defines domain-specific errors
package workflow

import "errors"

var (
	// Graph definition errors
	ErrNoEntryPoint   = errors.New("graph has no entry point")
	ErrUnknownStep    = errors.New("unknown step")
	ErrDuplicateStep  = errors.New("duplicate step name")
	ErrDanglingEdge   = errors.New("edge references undefined step")
	ErrNoTransition   = errors.New("no transition defined for step")
	ErrReservedName   = errors.New("step name is reserved")
	ErrNilStep        = errors.New("step function cannot be nil")

	// Protocol errors: integration mistakes that must fail loudly.
	ErrInterruptPending   = errors.New("thread has a pending interrupt awaiting a resume decision")
	ErrNoPendingInterrupt = errors.New("thread has no pending interrupt to resume")
	ErrRepeatedInterrupt  = errors.New("step raised a second interrupt from a resumed execution")
)
