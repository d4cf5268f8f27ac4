package service

import (
	"context"
	"time"

	"adaptive_edu_backend/internal/engine"
	"adaptive_edu_backend/internal/model"
	"adaptive_edu_backend/internal/store"
	"adaptive_edu_backend/pkg/events"
	"adaptive_edu_backend/pkg/logger"
	"adaptive_edu_backend/pkg/monitoring"

	"go.uber.org/zap"
)

const (
	SourceAssessment = "assessment"
	SourcePractice   = "practice"
)

// MasteryUpdater 通过 MasteryStore 原子地应用一次作答，并记录指标和事件
type MasteryUpdater struct {
	Engines *EngineProvider
	Store   store.MasteryStore
	Events  events.Publisher
}

func NewMasteryUpdater(engines *EngineProvider, st store.MasteryStore, pub events.Publisher) *MasteryUpdater {
	if pub == nil {
		pub = events.Nop{}
	}
	return &MasteryUpdater{Engines: engines, Store: st, Events: pub}
}

// Apply folds one graded answer to q into the learner's mastery of q's skill.
func (u *MasteryUpdater) Apply(ctx context.Context, userID, source string, q *model.Question, correct bool, at time.Time) (engine.Outcome, error) {
	band, err := engine.ParseBand(q.Difficulty)
	if err != nil {
		return engine.Outcome{}, err
	}
	eng := u.Engines.Engine()
	obs := engine.Observation{
		UserID:  userID,
		SkillID: q.SkillID,
		Band:    band,
		Correct: correct,
		At:      at,
	}

	var outcome engine.Outcome
	_, err = u.Store.Update(ctx, userID, q.SkillID, func(current *engine.MasteryState) (engine.MasteryState, error) {
		o, err := eng.Update(current, obs)
		if err != nil {
			return engine.MasteryState{}, err
		}
		outcome = o
		return o.State, nil
	})
	if err != nil {
		logger.Log.Error("Failed to update mastery",
			zap.String("userId", userID),
			zap.String("skill", q.SkillID),
			zap.Error(err))
		return engine.Outcome{}, err
	}

	monitoring.ObserveMasteryUpdate(string(band), correct, outcome.Change(), outcome.Degenerate)
	if outcome.Degenerate {
		logger.Log.Warn("Degenerate mastery update, probability carried through",
			zap.String("userId", userID),
			zap.String("skill", q.SkillID),
			zap.String("band", string(band)),
			zap.Float64("probability", outcome.Previous))
	}

	evt := events.MasteryUpdated{
		UserID:     userID,
		SkillID:    q.SkillID,
		Subject:    q.SubjectID,
		Source:     source,
		Previous:   outcome.Previous,
		Current:    outcome.State.Probability,
		Correct:    correct,
		Attempts:   outcome.State.Attempts,
		OccurredAt: at,
	}
	if err := u.Events.Publish(ctx, events.SubjectMasteryUpdated, evt); err != nil {
		logger.Log.Warn("Failed to publish mastery event", zap.String("userId", userID), zap.Error(err))
	}
	return outcome, nil
}

// Snapshot 返回学习者在给定技能上的掌握度，未作答的技能取先验值
func (u *MasteryUpdater) Snapshot(ctx context.Context, userID string, skillIDs []string) (map[string]engine.MasteryState, error) {
	stored, err := u.Store.List(ctx, userID, skillIDs)
	if err != nil {
		return nil, err
	}
	prior := u.Engines.Engine().Prior()
	out := make(map[string]engine.MasteryState, len(skillIDs))
	for _, id := range skillIDs {
		if st, ok := stored[id]; ok {
			out[id] = st
			continue
		}
		out[id] = engine.MasteryState{UserID: userID, SkillID: id, Probability: prior}
	}
	return out, nil
}
