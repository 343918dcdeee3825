package services

import "errors"

// Service error taxonomy. Handlers map these to HTTP statuses; anything not
// wrapping one of them is an internal failure and is reported opaquely.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
	ErrVotingClosed = errors.New("voting closed")
)
