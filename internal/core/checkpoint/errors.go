// Package checkpoint defines domain-specific errors
package checkpoint

import "errors"

var (
	// Validation errors
	ErrInvalidCheckpointID = errors.New("invalid checkpoint ID")
	ErrInvalidThreadID     = errors.New("invalid thread ID")
	ErrNilState            = errors.New("checkpoint state cannot be nil")
	ErrInvalidSeq          = errors.New("checkpoint sequence cannot be negative")
	ErrMissingParent       = errors.New("non-root checkpoint requires a parent")

	// Persistence errors
	ErrNotFound    = errors.New("checkpoint not found")
	ErrDuplicateID = errors.New("checkpoint ID already exists")
)
