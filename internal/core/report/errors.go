// Package report defines domain-specific errors
package report

import "errors"

var (
	ErrNoReport      = errors.New("no report found")
	ErrInvalidReport = errors.New("invalid report")
)
