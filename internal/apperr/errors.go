// Package apperr holds the sentinel errors shared by the library and its transports.
package apperr

import "errors"

var (
	// ErrNotFound is returned when an operation references an unknown reel id.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is returned for user input rejected before any work is done.
	ErrInvalidInput = errors.New("invalid input")
)
