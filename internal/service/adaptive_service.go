package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"adaptive_edu_backend/internal/engine"
	"adaptive_edu_backend/internal/model"
	"adaptive_edu_backend/internal/repository"
	"adaptive_edu_backend/internal/util"
	"adaptive_edu_backend/pkg/logger"
	"adaptive_edu_backend/pkg/monitoring"
	"adaptive_edu_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// SubmitPracticeRequest 自适应练习提交答案
// swagger:model SubmitPracticeRequest
type SubmitPracticeRequest struct {
	UserID           string `json:"user_id" binding:"required"`
	QuestionID       string `json:"question_id" binding:"required"`
	Answer           string `json:"answer"`
	TimeTakenSeconds int    `json:"time_taken_seconds"`
}

// AdaptiveService 测评之外的自适应练习
type AdaptiveService struct {
	Bank     *QuestionBankService
	Users    *repository.UserRepository
	Practice *repository.PracticeRepository
	Mastery  *MasteryUpdater
}

func NewAdaptiveService(bank *QuestionBankService, users *repository.UserRepository, practice *repository.PracticeRepository, mastery *MasteryUpdater) *AdaptiveService {
	return &AdaptiveService{Bank: bank, Users: users, Practice: practice, Mastery: mastery}
}

// NextQuestion 根据当前掌握度为学习者选择下一道练习题
func (s *AdaptiveService) NextQuestion(ctx context.Context, userID, subjectID string) (res *model.NextQuestionResult, err error) {
	ctx, span := tracing.StartSpan(ctx, "AdaptiveService.NextQuestion",
		attribute.String("user.id", userID), attribute.String("subject", subjectID))
	defer func() { tracing.End(span, err) }()

	if _, err = s.Users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	bank, err := s.Bank.Bank(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	answered, err := s.Practice.AnsweredQuestionIDs(ctx, userID, subjectID)
	if err != nil {
		return nil, err
	}
	masteries, err := s.Mastery.Snapshot(ctx, userID, SkillIDs(bank))
	if err != nil {
		return nil, err
	}

	sel, err := s.Mastery.Engines.Engine().Select(masteries, ToEngine(bank), answered)
	if err != nil {
		if errors.Is(err, engine.ErrExhausted) {
			monitoring.QuestionSelections.WithLabelValues("exhausted").Inc()
		}
		return nil, err
	}
	monitoring.QuestionSelections.WithLabelValues("selected").Inc()

	q, err := s.Bank.Question(ctx, subjectID, sel.Question.ID)
	if err != nil {
		return nil, err
	}
	return &model.NextQuestionResult{
		Question:        q.View(),
		SelectionReason: sel.Reason,
		QuestionID:      q.ID,
		Skill:           q.SkillID,
		Difficulty:      q.Difficulty,
		Mastery:         util.Round(sel.Mastery, 3),
	}, nil
}

// SubmitAnswer 批改练习题并更新掌握度
func (s *AdaptiveService) SubmitAnswer(ctx context.Context, req SubmitPracticeRequest) (res *model.SubmitAnswerResult, err error) {
	ctx, span := tracing.StartSpan(ctx, "AdaptiveService.SubmitAnswer",
		attribute.String("user.id", req.UserID), attribute.String("question.id", req.QuestionID))
	defer func() { tracing.End(span, err) }()

	if req.TimeTakenSeconds < 0 {
		return nil, fmt.Errorf("%w: time_taken_seconds must not be negative", util.ErrInvalidInput)
	}
	if _, err = s.Users.FindByID(ctx, req.UserID); err != nil {
		return nil, err
	}
	q, err := s.Bank.FindQuestion(ctx, req.QuestionID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	correct := util.AnswersMatch(req.Answer, q.CorrectAnswer)
	outcome, err := s.Mastery.Apply(ctx, req.UserID, SourcePractice, q, correct, now)
	if err != nil {
		return nil, err
	}

	if err = s.Practice.Create(ctx, &model.PracticeAnswer{
		UserID:           req.UserID,
		SubjectID:        q.SubjectID,
		QuestionID:       q.ID,
		SkillID:          q.SkillID,
		Difficulty:       q.Difficulty,
		Answer:           req.Answer,
		IsCorrect:        correct,
		PreviousMastery:  outcome.Previous,
		NewMastery:       outcome.State.Probability,
		TimeTakenSeconds: req.TimeTakenSeconds,
	}); err != nil {
		return nil, err
	}
	if err := s.Users.TouchLastActive(ctx, req.UserID, now); err != nil {
		logger.Log.Warn("Failed to update last active", zap.String("userId", req.UserID), zap.Error(err))
	}

	tier := s.Mastery.Engines.Engine().Tier(outcome.State.Probability)
	return &model.SubmitAnswerResult{
		UserID:          req.UserID,
		QuestionID:      q.ID,
		IsCorrect:       correct,
		Skill:           q.SkillID,
		Subject:         q.SubjectID,
		PreviousMastery: util.Round(outcome.Previous, 3),
		NewMastery:      util.Round(outcome.State.Probability, 3),
		MasteryChange:   util.Round(outcome.Change(), 3),
		Feedback:        Feedback(correct, q.CorrectAnswer, q.SkillID, outcome.Change() > 0, tier),
	}, nil
}

// Feedback 由作答正误、掌握度是否提升和新的掌握层级生成提示
func Feedback(correct bool, correctAnswer, skill string, improved bool, tier engine.Tier) string {
	var b strings.Builder
	if correct {
		b.WriteString("Correct! ")
	} else {
		fmt.Fprintf(&b, "Incorrect. The correct answer was: %s. ", correctAnswer)
	}

	label := strings.ReplaceAll(skill, "_", " ")
	if improved {
		fmt.Fprintf(&b, "Your mastery of %s went up. ", label)
	}
	switch tier {
	case engine.TierAdvanced:
		fmt.Fprintf(&b, "You've achieved high mastery in %s. Consider exploring advanced topics.", label)
	case engine.TierIntermediate:
		fmt.Fprintf(&b, "You're making good progress in %s. Keep practicing to reinforce your knowledge.", label)
	default:
		fmt.Fprintf(&b, "You should focus more on %s. Consider reviewing the fundamentals.", label)
	}
	return b.String()
}

// GetMasteries 学习者在科目各技能上的掌握度
func (s *AdaptiveService) GetMasteries(ctx context.Context, userID, subjectID string) ([]model.MasteryView, error) {
	if _, err := s.Users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	sub, err := s.Bank.Repo.FindSubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(sub.Skills))
	for _, sk := range sub.Skills {
		ids = append(ids, sk.ID)
	}
	snapshot, err := s.Mastery.Snapshot(ctx, userID, ids)
	if err != nil {
		return nil, err
	}

	eng := s.Mastery.Engines.Engine()
	out := make([]model.MasteryView, 0, len(sub.Skills))
	for _, sk := range sub.Skills {
		st := snapshot[sk.ID]
		v := model.MasteryView{
			Skill:       sk.ID,
			Name:        sk.Name,
			Probability: util.Round(st.Probability, 3),
			Attempts:    st.Attempts,
			Tier:        string(eng.Tier(st.Probability)),
		}
		if !st.LastUpdated.IsZero() {
			t := st.LastUpdated
			v.LastUpdated = &t
		}
		out = append(out, v)
	}
	return out, nil
}
