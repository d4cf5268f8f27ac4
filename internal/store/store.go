// Package store holds mastery state behind an atomic read-modify-write
// contract.
package store

import (
	"context"
	"errors"

	"adaptive_edu_backend/internal/engine"
)

// ErrConflict is returned when an optimistic update lost every retry.
var ErrConflict = errors.New("mastery update conflict")

// UpdateFunc computes the next state from the committed one. current is nil
// when the key has never been written. Returning an error aborts the update
// and leaves the stored state untouched.
type UpdateFunc func(current *engine.MasteryState) (engine.MasteryState, error)

// MasteryStore persists one MasteryState per (user, skill). Update must apply
// at most one fn per key at a time.
type MasteryStore interface {
	Get(ctx context.Context, userID, skillID string) (*engine.MasteryState, error)
	// List returns the stored states of userID for skillIDs. A nil skillIDs
	// lists every skill the user has a state for. Missing keys are omitted.
	List(ctx context.Context, userID string, skillIDs []string) (map[string]engine.MasteryState, error)
	Update(ctx context.Context, userID, skillID string, fn UpdateFunc) (engine.MasteryState, error)
}
