package engine

import (
	"fmt"
	"time"
)

// SlipGuess holds the per-band observation noise of the knowledge model.
type SlipGuess struct {
	// Slip is the probability a learner who has mastered the skill answers wrong.
	Slip float64 `json:"slip"`
	// Guess is the probability a learner who has not mastered it answers right.
	Guess float64 `json:"guess"`
}

// TierThresholds split mastery into basic / intermediate / advanced.
type TierThresholds struct {
	Weakness float64 `json:"weakness"` // below: weakness
	Strength float64 `json:"strength"` // at or above: strength
}

// Classify returns the tier label for mastery m.
func (t TierThresholds) Classify(m float64) Tier {
	switch {
	case m < t.Weakness:
		return TierBasic
	case m < t.Strength:
		return TierIntermediate
	default:
		return TierAdvanced
	}
}

// DifficultyThresholds map a mastery value to the band a learner should see next.
type DifficultyThresholds struct {
	VeryEasy float64 `json:"very_easy"` // below: very_easy
	Easy     float64 `json:"easy"`      // below: easy
	Medium   float64 `json:"medium"`    // below: medium, otherwise hard
}

// Band returns the desired band for mastery m.
func (d DifficultyThresholds) Band(m float64) Band {
	switch {
	case m < d.VeryEasy:
		return BandVeryEasy
	case m < d.Easy:
		return BandEasy
	case m < d.Medium:
		return BandMedium
	default:
		return BandHard
	}
}

// ModuleDurations drive the learning path time estimates.
type ModuleDurations struct {
	Remedial time.Duration `json:"remedial"` // baseline, scaled up by distance below the weakness threshold
	Practice time.Duration `json:"practice"`
	Advanced time.Duration `json:"advanced"`
	Rounding time.Duration `json:"rounding"`
}

// Params is the full, fixed configuration of the engine.
type Params struct {
	Prior      float64              `json:"prior"`
	Transit    float64              `json:"transit"`
	Bands      map[Band]SlipGuess   `json:"bands"`
	Tiers      TierThresholds       `json:"tiers"`
	Difficulty DifficultyThresholds `json:"difficulty"`
	Durations  ModuleDurations      `json:"durations"`
}

// DefaultParams returns the stock parameter set. Harder bands guess less and
// slip more.
func DefaultParams() Params {
	return Params{
		Prior:   0.4,
		Transit: 0.1,
		Bands: map[Band]SlipGuess{
			BandVeryEasy: {Slip: 0.05, Guess: 0.35},
			BandEasy:     {Slip: 0.08, Guess: 0.25},
			BandMedium:   {Slip: 0.10, Guess: 0.20},
			BandHard:     {Slip: 0.15, Guess: 0.10},
		},
		Tiers:      TierThresholds{Weakness: 0.5, Strength: 0.75},
		Difficulty: DifficultyThresholds{VeryEasy: 0.3, Easy: 0.5, Medium: 0.75},
		Durations: ModuleDurations{
			Remedial: 2 * time.Hour,
			Practice: 90 * time.Minute,
			Advanced: time.Hour,
			Rounding: 15 * time.Minute,
		},
	}
}

// Validate checks every parameter. Slip+Guess must stay below 1 for each band,
// otherwise a correct answer could lower mastery.
func (p Params) Validate() error {
	if err := unit("prior", p.Prior); err != nil {
		return err
	}
	if err := unit("transit", p.Transit); err != nil {
		return err
	}
	for _, b := range Bands {
		sg, ok := p.Bands[b]
		if !ok {
			return fmt.Errorf("%w: missing slip/guess for band %s", ErrInvalidParams, b)
		}
		if err := unit(string(b)+".slip", sg.Slip); err != nil {
			return err
		}
		if err := unit(string(b)+".guess", sg.Guess); err != nil {
			return err
		}
		if sg.Slip+sg.Guess >= 1 {
			return fmt.Errorf("%w: band %s slip+guess must be below 1 (got %.3f)", ErrInvalidParams, b, sg.Slip+sg.Guess)
		}
	}
	for b := range p.Bands {
		if !b.Valid() {
			return fmt.Errorf("%w: %v: %q", ErrInvalidParams, ErrUnknownBand, b)
		}
	}

	t := p.Tiers
	if err := unit("tiers.weakness", t.Weakness); err != nil {
		return err
	}
	if err := unit("tiers.strength", t.Strength); err != nil {
		return err
	}
	if t.Weakness > t.Strength {
		return fmt.Errorf("%w: tiers.weakness %.3f above tiers.strength %.3f", ErrInvalidParams, t.Weakness, t.Strength)
	}

	d := p.Difficulty
	for name, v := range map[string]float64{"difficulty.very_easy": d.VeryEasy, "difficulty.easy": d.Easy, "difficulty.medium": d.Medium} {
		if err := unit(name, v); err != nil {
			return err
		}
	}
	if d.VeryEasy > d.Easy || d.Easy > d.Medium {
		return fmt.Errorf("%w: difficulty thresholds must be ascending", ErrInvalidParams)
	}

	du := p.Durations
	if du.Remedial <= 0 || du.Practice <= 0 || du.Advanced <= 0 {
		return fmt.Errorf("%w: module durations must be positive", ErrInvalidParams)
	}
	if du.Rounding < 0 {
		return fmt.Errorf("%w: duration rounding must not be negative", ErrInvalidParams)
	}
	return nil
}

// clone deep-copies the band table so engines never share mutable state.
func (p Params) clone() Params {
	out := p
	out.Bands = make(map[Band]SlipGuess, len(p.Bands))
	for b, sg := range p.Bands {
		out.Bands[b] = sg
	}
	return out
}

func unit(name string, v float64) error {
	if v != v || v < 0 || v > 1 {
		return fmt.Errorf("%w: %s must be within [0,1] (got %v)", ErrInvalidParams, name, v)
	}
	return nil
}
