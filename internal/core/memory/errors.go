// Package memory defines domain-specific errors
package memory

import "errors"

var (
	ErrInvalidUserID   = errors.New("invalid user ID")
	ErrInvalidCategory = errors.New("invalid memory category")
	ErrInvalidKey      = errors.New("invalid memory key")
	ErrEmptyText       = errors.New("memory text cannot be empty")
	ErrDuplicateKey    = errors.New("memory key already exists in namespace")
)
