package engine

import (
	"fmt"
	"sort"
)

// unknownBandDistance ranks questions carrying an invalid band behind every
// valid one.
const unknownBandDistance = 1 << 8

// Selection is the outcome of a successful Select.
type Selection struct {
	Question    Question
	SkillID     string
	Mastery     float64
	DesiredBand Band
	// Candidates is the number of unanswered questions across the bank.
	Candidates int
	// Reason is advisory text for logs and clients. Never parse it.
	Reason string
}

// Selector picks the next question for a learner.
type Selector struct {
	prior      float64
	difficulty DifficultyThresholds
}

// NewSelector builds a selector from validated params.
func NewSelector(p Params) *Selector {
	return &Selector{prior: p.Prior, difficulty: p.Difficulty}
}

type skillPool struct {
	id        string
	mastery   float64
	questions []Question
}

// Select returns the next question. Skills missing from masteries are treated
// as sitting at the prior. It returns ErrExhausted when every bank question is
// in answered.
func (s *Selector) Select(masteries map[string]MasteryState, bank []Question, answered map[string]struct{}) (Selection, error) {
	pools := make(map[string]*skillPool)
	candidates := 0
	for _, q := range bank {
		if _, done := answered[q.ID]; done {
			continue
		}
		candidates++
		pool, ok := pools[q.SkillID]
		if !ok {
			m := s.prior
			if st, found := masteries[q.SkillID]; found {
				m = clamp01(st.Probability, s.prior)
			}
			pool = &skillPool{id: q.SkillID, mastery: m}
			pools[q.SkillID] = pool
		}
		pool.questions = append(pool.questions, q)
	}
	if candidates == 0 {
		return Selection{}, ErrExhausted
	}

	var target *skillPool
	for _, pool := range pools {
		if target == nil || lessPool(pool, target) {
			target = pool
		}
	}

	desired := s.difficulty.Band(target.mastery)
	q := closestQuestion(target.questions, desired)

	return Selection{
		Question:    q,
		SkillID:     target.id,
		Mastery:     target.mastery,
		DesiredBand: desired,
		Candidates:  candidates,
		Reason:      reason(target.id, target.mastery, desired, q.Band),
	}, nil
}

// lessPool orders skills by mastery asc, remaining questions desc, id asc.
func lessPool(a, b *skillPool) bool {
	if a.mastery != b.mastery {
		return a.mastery < b.mastery
	}
	if len(a.questions) != len(b.questions) {
		return len(a.questions) > len(b.questions)
	}
	return a.id < b.id
}

func bandDistance(b, desired Band) int {
	o := b.Ordinal()
	if o < 0 {
		return unknownBandDistance
	}
	d := o - desired.Ordinal()
	if d < 0 {
		d = -d
	}
	return d
}

func closestQuestion(qs []Question, desired Band) Question {
	sorted := make([]Question, len(qs))
	copy(sorted, qs)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, dj := bandDistance(sorted[i].Band, desired), bandDistance(sorted[j].Band, desired)
		if di != dj {
			return di < dj
		}
		oi, oj := sorted[i].Band.Ordinal(), sorted[j].Band.Ordinal()
		if oi != oj {
			return oi < oj
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted[0]
}

func reason(skill string, mastery float64, desired, chosen Band) string {
	if chosen == desired {
		return fmt.Sprintf("Targeting skill %s (mastery %.2f) with a %s question", skill, mastery, chosen)
	}
	return fmt.Sprintf("Targeting skill %s (mastery %.2f); no %s question left, using %s", skill, mastery, desired, chosen)
}
