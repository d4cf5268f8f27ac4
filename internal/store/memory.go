package store

import (
	"context"
	"sync"

	"adaptive_edu_backend/internal/engine"
)

type memKey struct {
	user  string
	skill string
}

// MemoryStore keeps states in process memory. Updates are serialized per key.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[memKey]engine.MasteryState
	locks  *KeyLocker
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		states: make(map[memKey]engine.MasteryState),
		locks:  NewKeyLocker(),
	}
}

func (s *MemoryStore) Get(_ context.Context, userID, skillID string) (*engine.MasteryState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.states[memKey{userID, skillID}]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

func (s *MemoryStore) List(_ context.Context, userID string, skillIDs []string) (map[string]engine.MasteryState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]engine.MasteryState)
	if skillIDs == nil {
		for k, st := range s.states {
			if k.user == userID {
				out[k.skill] = st
			}
		}
		return out, nil
	}
	for _, skill := range skillIDs {
		if st, ok := s.states[memKey{userID, skill}]; ok {
			out[skill] = st
		}
	}
	return out, nil
}

func (s *MemoryStore) Update(ctx context.Context, userID, skillID string, fn UpdateFunc) (engine.MasteryState, error) {
	unlock := s.locks.Lock(userID + "\x00" + skillID)
	defer unlock()

	if err := ctx.Err(); err != nil {
		return engine.MasteryState{}, err
	}

	current, _ := s.Get(ctx, userID, skillID)
	next, err := fn(current)
	if err != nil {
		return engine.MasteryState{}, err
	}

	s.mu.Lock()
	s.states[memKey{userID, skillID}] = next
	s.mu.Unlock()
	return next, nil
}
