package engine

import (
	"fmt"
	"time"
)

// Observation is one graded answer.
type Observation struct {
	UserID  string
	SkillID string
	Band    Band
	Correct bool
	At      time.Time
}

// Outcome is the result of applying one observation.
type Outcome struct {
	State    MasteryState
	Previous float64
	// Degenerate is set when the evidence step had a zero denominator and the
	// prior probability was carried through unchanged.
	Degenerate bool
}

// Change returns the signed mastery delta of the update.
func (o Outcome) Change() float64 {
	return o.State.Probability - o.Previous
}

// Model applies the Bayesian knowledge tracing update.
type Model struct {
	params Params
}

// NewModel builds a model. Params are expected to be validated.
func NewModel(p Params) *Model {
	return &Model{params: p.clone()}
}

// Prior is the mastery assumed for a skill the learner has never attempted.
func (m *Model) Prior() float64 {
	return m.params.Prior
}

// Update folds obs into current and returns a new state. A nil current starts
// from the prior and counts as the first attempt. current is never modified.
func (m *Model) Update(current *MasteryState, obs Observation) (Outcome, error) {
	if !obs.Band.Valid() {
		return Outcome{}, fmt.Errorf("%w: %q", ErrUnknownBand, obs.Band)
	}
	sg, ok := m.params.Bands[obs.Band]
	if !ok {
		return Outcome{}, fmt.Errorf("%w: no parameters for %q", ErrUnknownBand, obs.Band)
	}

	state := MasteryState{
		UserID:      obs.UserID,
		SkillID:     obs.SkillID,
		Probability: m.params.Prior,
	}
	if current != nil {
		if current.UserID != obs.UserID || current.SkillID != obs.SkillID {
			return Outcome{}, fmt.Errorf("%w: state (%s, %s), observation (%s, %s)",
				ErrKeyMismatch, current.UserID, current.SkillID, obs.UserID, obs.SkillID)
		}
		state = *current
		state.Probability = clamp01(current.Probability, m.params.Prior)
	}

	prev := state.Probability
	evidence, degenerate := posterior(prev, sg, obs.Correct)
	learned := evidence + (1-evidence)*m.params.Transit

	state.Probability = clamp01(learned, prev)
	state.Attempts++
	state.LastUpdated = obs.At

	return Outcome{State: state, Previous: prev, Degenerate: degenerate}, nil
}

// posterior is P(mastered | response). When the denominator vanishes the
// input is returned unchanged with degenerate=true.
func posterior(p float64, sg SlipGuess, correct bool) (float64, bool) {
	var num, den float64
	if correct {
		num = p * (1 - sg.Slip)
		den = num + (1-p)*sg.Guess
	} else {
		num = p * sg.Slip
		den = num + (1-p)*(1-sg.Guess)
	}
	if den == 0 {
		return p, true
	}
	return num / den, false
}
