// Package engine implements adaptive knowledge tracing: a Bayesian mastery
// update, a deterministic next-question selector and a learning path generator.
//
// Everything in this package is a synchronous, pure computation over its
// inputs. Persistence, locking and logging belong to the caller.
package engine

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Band is a discrete question difficulty tier.
type Band string

const (
	BandVeryEasy Band = "very_easy"
	BandEasy     Band = "easy"
	BandMedium   Band = "medium"
	BandHard     Band = "hard"
)

// Bands lists every band in ordinal order, easiest first.
var Bands = []Band{BandVeryEasy, BandEasy, BandMedium, BandHard}

// Ordinal returns the band position (very_easy=0 … hard=3), or -1 when the
// band is unknown.
func (b Band) Ordinal() int {
	switch b {
	case BandVeryEasy:
		return 0
	case BandEasy:
		return 1
	case BandMedium:
		return 2
	case BandHard:
		return 3
	}
	return -1
}

// Valid reports whether b is one of the four known bands.
func (b Band) Valid() bool {
	return b.Ordinal() >= 0
}

// ParseBand normalizes s and returns the matching band.
func ParseBand(s string) (Band, error) {
	b := Band(strings.ToLower(strings.TrimSpace(s)))
	if !b.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownBand, s)
	}
	return b, nil
}

// Skill is a unit of knowledge inside a subject.
type Skill struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SubjectID string `json:"subject_id"`
}

// Question is an immutable question bank entry.
type Question struct {
	ID            string   `json:"id"`
	SkillID       string   `json:"skill"`
	Band          Band     `json:"difficulty"`
	Prompt        string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"-"`
}

// MasteryState is the current mastery estimate of one learner for one skill.
type MasteryState struct {
	UserID      string    `json:"user_id"`
	SkillID     string    `json:"skill_id"`
	Probability float64   `json:"probability"`
	Attempts    int       `json:"attempts"`
	LastUpdated time.Time `json:"last_updated"`
}

// clamp01 bounds v to [0,1]. NaN maps to fallback.
func clamp01(v, fallback float64) float64 {
	if math.IsNaN(v) {
		return fallback
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
