package engine

import "errors"

var (
	// ErrExhausted means every question in the bank has already been answered.
	ErrExhausted = errors.New("no unanswered question remains")
	// ErrUnknownBand is returned for a difficulty outside very_easy|easy|medium|hard.
	ErrUnknownBand = errors.New("unknown difficulty band")
	// ErrInvalidParams wraps every parameter validation failure.
	ErrInvalidParams = errors.New("invalid engine parameters")
	// ErrKeyMismatch means the stored state belongs to a different (user, skill).
	ErrKeyMismatch = errors.New("mastery state key does not match observation")
)
