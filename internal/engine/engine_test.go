package engine

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flatParams(slip, guess float64) Params {
	p := DefaultParams()
	for _, b := range Bands {
		p.Bands[b] = SlipGuess{Slip: slip, Guess: guess}
	}
	return p
}

func TestUpdateWorkedExample(t *testing.T) {
	m := NewModel(flatParams(0.1, 0.2))
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	out, err := m.Update(nil, Observation{UserID: "u1", SkillID: "loops", Band: BandMedium, Correct: true, At: at})
	require.NoError(t, err)
	assert.InDelta(t, 0.775, out.State.Probability, 1e-9)
	assert.InDelta(t, 0.4, out.Previous, 1e-9)
	assert.Equal(t, 1, out.State.Attempts)
	assert.Equal(t, at, out.State.LastUpdated)
	assert.False(t, out.Degenerate)
	assert.InDelta(t, 0.375, out.Change(), 1e-9)
}

func TestUpdateDoesNotMutateInput(t *testing.T) {
	m := NewModel(DefaultParams())
	cur := &MasteryState{UserID: "u", SkillID: "s", Probability: 0.6, Attempts: 3}

	out, err := m.Update(cur, Observation{UserID: "u", SkillID: "s", Band: BandHard, Correct: false})
	require.NoError(t, err)
	assert.Equal(t, 0.6, cur.Probability)
	assert.Equal(t, 3, cur.Attempts)
	assert.Equal(t, 4, out.State.Attempts)
	assert.Less(t, out.State.Probability, 0.6)
}

func TestUpdateRejectsBadInput(t *testing.T) {
	m := NewModel(DefaultParams())

	_, err := m.Update(nil, Observation{UserID: "u", SkillID: "s", Band: "impossible"})
	assert.True(t, errors.Is(err, ErrUnknownBand))

	_, err = m.Update(&MasteryState{UserID: "u", SkillID: "other"}, Observation{UserID: "u", SkillID: "s", Band: BandEasy})
	assert.True(t, errors.Is(err, ErrKeyMismatch))
}

func TestUpdateDegenerateDenominator(t *testing.T) {
	p := flatParams(0, 0)
	p.Transit = 0
	m := NewModel(p)

	// p=0 with guess=0: nothing can explain a correct answer.
	out, err := m.Update(&MasteryState{UserID: "u", SkillID: "s", Probability: 0}, Observation{UserID: "u", SkillID: "s", Band: BandEasy, Correct: true})
	require.NoError(t, err)
	assert.True(t, out.Degenerate)
	assert.Equal(t, 0.0, out.State.Probability)
	assert.Equal(t, 1, out.State.Attempts)
}

func TestUpdateClampsStoredValue(t *testing.T) {
	m := NewModel(DefaultParams())
	for _, stored := range []float64{-0.5, 1.7, math.NaN()} {
		out, err := m.Update(&MasteryState{UserID: "u", SkillID: "s", Probability: stored}, Observation{UserID: "u", SkillID: "s", Band: BandMedium, Correct: true})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, out.State.Probability, 0.0)
		assert.LessOrEqual(t, out.State.Probability, 1.0)
	}
}

func TestUpdateProperties(t *testing.T) {
	params := DefaultParams()
	m := NewModel(params)

	for i := 0; i <= 100; i++ {
		p := float64(i) / 100
		for _, b := range Bands {
			cur := &MasteryState{UserID: "u", SkillID: "s", Probability: p}

			right, err := m.Update(cur, Observation{UserID: "u", SkillID: "s", Band: b, Correct: true})
			require.NoError(t, err)
			wrong, err := m.Update(cur, Observation{UserID: "u", SkillID: "s", Band: b, Correct: false})
			require.NoError(t, err)

			for _, v := range []float64{right.State.Probability, wrong.State.Probability} {
				assert.GreaterOrEqual(t, v, 0.0)
				assert.LessOrEqual(t, v, 1.0)
			}
			assert.GreaterOrEqual(t, right.State.Probability+1e-12, p, "correct lowered mastery at p=%v band=%s", p, b)
			assert.LessOrEqual(t, wrong.State.Probability, p+params.Transit+1e-12, "incorrect overshot at p=%v band=%s", p, b)
		}
	}
}

func TestSelectWorkedExample(t *testing.T) {
	s := NewSelector(DefaultParams())
	masteries := map[string]MasteryState{
		"basic_syntax": {UserID: "u", SkillID: "basic_syntax", Probability: 0.2},
		"loops":        {UserID: "u", SkillID: "loops", Probability: 0.6},
	}
	bank := []Question{
		{ID: "q_hard", SkillID: "basic_syntax", Band: BandHard},
		{ID: "q_ve", SkillID: "basic_syntax", Band: BandVeryEasy},
		{ID: "q_loop", SkillID: "loops", Band: BandMedium},
	}

	sel, err := s.Select(masteries, bank, nil)
	require.NoError(t, err)
	assert.Equal(t, "basic_syntax", sel.SkillID)
	assert.Equal(t, BandVeryEasy, sel.DesiredBand)
	assert.Equal(t, "q_ve", sel.Question.ID)
	assert.Equal(t, 3, sel.Candidates)
	assert.Contains(t, sel.Reason, "basic_syntax")
}

func TestSelectTieBreaks(t *testing.T) {
	s := NewSelector(DefaultParams())

	tests := []struct {
		name      string
		masteries map[string]MasteryState
		bank      []Question
		answered  map[string]struct{}
		wantID    string
		wantSkill string
	}{
		{
			name: "equal mastery prefers skill with more remaining",
			masteries: map[string]MasteryState{
				"a": {Probability: 0.4}, "b": {Probability: 0.4},
			},
			bank: []Question{
				{ID: "a1", SkillID: "a", Band: BandEasy},
				{ID: "b1", SkillID: "b", Band: BandEasy},
				{ID: "b2", SkillID: "b", Band: BandEasy},
			},
			wantID: "b1", wantSkill: "b",
		},
		{
			name:      "full tie picks smallest skill id",
			masteries: map[string]MasteryState{},
			bank: []Question{
				{ID: "z1", SkillID: "zeta", Band: BandEasy},
				{ID: "a1", SkillID: "alpha", Band: BandEasy},
			},
			wantID: "a1", wantSkill: "alpha",
		},
		{
			name:      "missing skill uses the prior",
			masteries: map[string]MasteryState{"known": {Probability: 0.45}},
			bank: []Question{
				{ID: "k1", SkillID: "known", Band: BandEasy},
				{ID: "n1", SkillID: "new", Band: BandEasy},
			},
			wantID: "n1", wantSkill: "new",
		},
		{
			name:      "equidistant bands prefer the easier one",
			masteries: map[string]MasteryState{"s": {Probability: 0.6}},
			bank: []Question{
				{ID: "h", SkillID: "s", Band: BandHard},
				{ID: "e", SkillID: "s", Band: BandEasy},
			},
			wantID: "e", wantSkill: "s",
		},
		{
			name:      "same band picks lowest id",
			masteries: map[string]MasteryState{"s": {Probability: 0.9}},
			bank: []Question{
				{ID: "q3", SkillID: "s", Band: BandHard},
				{ID: "q1", SkillID: "s", Band: BandHard},
				{ID: "q2", SkillID: "s", Band: BandHard},
			},
			wantID: "q1", wantSkill: "s",
		},
		{
			name:      "unknown band ranks last",
			masteries: map[string]MasteryState{"s": {Probability: 0.1}},
			bank: []Question{
				{ID: "a", SkillID: "s", Band: "weird"},
				{ID: "b", SkillID: "s", Band: BandHard},
			},
			wantID: "b", wantSkill: "s",
		},
		{
			name:      "answered questions are skipped",
			masteries: map[string]MasteryState{"s": {Probability: 0.1}},
			bank: []Question{
				{ID: "a", SkillID: "s", Band: BandVeryEasy},
				{ID: "b", SkillID: "s", Band: BandEasy},
			},
			answered: map[string]struct{}{"a": {}},
			wantID:   "b", wantSkill: "s",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := s.Select(tt.masteries, tt.bank, tt.answered)
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, sel.Question.ID)
			assert.Equal(t, tt.wantSkill, sel.SkillID)

			again, err := s.Select(tt.masteries, tt.bank, tt.answered)
			require.NoError(t, err)
			assert.Equal(t, sel, again)
		})
	}
}

func TestSelectExhausted(t *testing.T) {
	s := NewSelector(DefaultParams())
	bank := []Question{{ID: "a", SkillID: "s", Band: BandEasy}}

	_, err := s.Select(nil, bank, map[string]struct{}{"a": {}})
	assert.ErrorIs(t, err, ErrExhausted)

	_, err = s.Select(nil, nil, nil)
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestGenerateWorkedExample(t *testing.T) {
	g := NewPathGenerator(DefaultParams())
	perf := map[Band]BandPerformance{
		BandEasy: {Correct: 2, Total: 3},
		BandHard: {Correct: 0, Total: 0},
	}

	path := g.Generate("python", map[string]float64{"basic_syntax": 0.85, "oop": 0.4}, perf)

	assert.Equal(t, []string{"basic_syntax"}, path.Strengths)
	assert.Equal(t, []string{"oop"}, path.Weaknesses)
	assert.Empty(t, path.NeedsPractice)
	assert.InDelta(t, 0.625, path.OverallMastery, 1e-9)

	require.Len(t, path.Modules, 2)
	oop, bs := path.Modules[0], path.Modules[1]
	assert.Equal(t, "python_remedial_oop", oop.ID)
	assert.Equal(t, ModuleRemedial, oop.Type)
	assert.Equal(t, TierBasic, oop.MasteryLevel)
	assert.Equal(t, PriorityHigh, oop.Priority)
	assert.Equal(t, 150*time.Minute, oop.Duration)

	assert.Equal(t, "python_advanced_basic_syntax", bs.ID)
	assert.Equal(t, ModuleAdvanced, bs.Type)
	assert.Equal(t, PriorityLow, bs.Priority)
	assert.Equal(t, time.Hour, bs.Duration)

	assert.Equal(t, "3 hours 30 minutes", path.EstimatedCompletionTime)
	assert.Equal(t, "This personalized learning path is designed based on your assessment results. "+
		"You showed strong understanding in basic_syntax and need more practice in oop. Overall mastery: 62.5%.", path.Rationale)

	assert.InDelta(t, 66.7, path.PerformanceByDifficulty[BandEasy].Percentage, 1e-9)
	assert.Equal(t, 0.0, path.PerformanceByDifficulty[BandHard].Percentage)
}

func TestGenerateEmpty(t *testing.T) {
	g := NewPathGenerator(DefaultParams())
	path := g.Generate("math", nil, nil)

	assert.Empty(t, path.Modules)
	assert.Equal(t, 0.0, path.OverallMastery)
	assert.Equal(t, "0 minutes", path.EstimatedCompletionTime)
	assert.Contains(t, path.Rationale, "some areas")
	assert.Contains(t, path.Rationale, "a few topics")
}

func TestGenerateOrderingAndTiers(t *testing.T) {
	g := NewPathGenerator(DefaultParams())
	path := g.Generate("s", map[string]float64{
		"d": 0.9, "c": 0.6, "b": 0.1, "a": 0.5, "e": 0.75, "f": 0.49,
	}, nil)

	var got []string
	for _, m := range path.Modules {
		got = append(got, m.Skill+":"+string(m.Priority))
	}
	assert.Equal(t, []string{"b:high", "f:high", "a:medium", "c:medium", "d:low", "e:low"}, got)
	assert.Equal(t, []string{"a", "c"}, path.NeedsPractice)
	assert.Equal(t, []string{"d", "e"}, path.Strengths)
	assert.Equal(t, []string{"b", "f"}, path.Weaknesses)
}

func TestGenerateDeterministic(t *testing.T) {
	g := NewPathGenerator(DefaultParams())
	in := map[string]float64{"x": 0.3, "y": 0.55, "z": 0.8, "w": 0.3}
	perf := map[Band]BandPerformance{BandMedium: {Correct: 1, Total: 2}}

	a, err := json.Marshal(g.Generate("subj", in, perf))
	require.NoError(t, err)
	b, err := json.Marshal(g.Generate("subj", in, perf))
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestRemedialDurationScaling(t *testing.T) {
	g := NewPathGenerator(DefaultParams())
	tests := []struct {
		mastery float64
		want    time.Duration
	}{
		{0.49, 2 * time.Hour},
		{0.4, 150 * time.Minute},
		{0.25, 3 * time.Hour},
		{0, 4 * time.Hour},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, g.remedialDuration(tt.mastery), "mastery %v", tt.mastery)
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "1 hour", FormatDuration(time.Hour))
	assert.Equal(t, "45 minutes", FormatDuration(45*time.Minute))
	assert.Equal(t, "2 hours 1 minute", FormatDuration(121*time.Minute))
	assert.Equal(t, "0 minutes", FormatDuration(0))
}

func TestParamsValidate(t *testing.T) {
	require.NoError(t, DefaultParams().Validate())

	tests := []struct {
		name   string
		mutate func(p *Params)
	}{
		{"prior out of range", func(p *Params) { p.Prior = 1.2 }},
		{"transit NaN", func(p *Params) { p.Transit = math.NaN() }},
		{"missing band", func(p *Params) { delete(p.Bands, BandHard) }},
		{"slip plus guess", func(p *Params) { p.Bands[BandEasy] = SlipGuess{Slip: 0.5, Guess: 0.5} }},
		{"extra band", func(p *Params) { p.Bands["expert"] = SlipGuess{} }},
		{"tiers inverted", func(p *Params) { p.Tiers = TierThresholds{Weakness: 0.8, Strength: 0.6} }},
		{"difficulty unordered", func(p *Params) { p.Difficulty.Easy = 0.9 }},
		{"zero duration", func(p *Params) { p.Durations.Practice = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			assert.ErrorIs(t, p.Validate(), ErrInvalidParams)

			_, err := New(p)
			assert.ErrorIs(t, err, ErrInvalidParams)
		})
	}
}

func TestParseBand(t *testing.T) {
	b, err := ParseBand("  Very_Easy ")
	require.NoError(t, err)
	assert.Equal(t, BandVeryEasy, b)

	_, err = ParseBand("expert")
	assert.ErrorIs(t, err, ErrUnknownBand)
}
