package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"adaptive_edu_backend/internal/config"
	"adaptive_edu_backend/internal/engine"
	"adaptive_edu_backend/internal/model"
	"adaptive_edu_backend/internal/repository"
	"adaptive_edu_backend/internal/store"
	"adaptive_edu_backend/internal/util"
	"adaptive_edu_backend/pkg/events"
	"adaptive_edu_backend/pkg/logger"
	"adaptive_edu_backend/pkg/monitoring"
	"adaptive_edu_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// StartAssessmentRequest 开始测评
// swagger:model StartAssessmentRequest
type StartAssessmentRequest struct {
	UserID        string `json:"user_id" binding:"required"`
	Subject       string `json:"subject" binding:"required"`
	QuestionCount int    `json:"question_count"`
}

// AnswerAssessmentRequest 测评作答
// swagger:model AnswerAssessmentRequest
type AnswerAssessmentRequest struct {
	AssessmentID string `json:"assessment_id" binding:"required"`
	QuestionID   string `json:"question_id" binding:"required"`
	Answer       string `json:"answer"`
}

// AssessmentService 自适应测评：开始、作答、结果
type AssessmentService struct {
	Bank     *QuestionBankService
	Users    *repository.UserRepository
	Repo     *repository.AssessmentRepository
	Paths    *repository.LearningPathRepository
	Mastery  *MasteryUpdater
	Reports  *StorageService
	Config   config.AssessmentConfig
	Archive  bool
	sessions *store.KeyLocker
}

func NewAssessmentService(
	bank *QuestionBankService,
	users *repository.UserRepository,
	repo *repository.AssessmentRepository,
	paths *repository.LearningPathRepository,
	mastery *MasteryUpdater,
	reports *StorageService,
	cfg config.AssessmentConfig,
	archive bool,
) *AssessmentService {
	return &AssessmentService{
		Bank:     bank,
		Users:    users,
		Repo:     repo,
		Paths:    paths,
		Mastery:  mastery,
		Reports:  reports,
		Config:   cfg,
		Archive:  archive && reports != nil,
		sessions: store.NewKeyLocker(),
	}
}

// questionCount 未指定时取默认值，并限制在 [1, min(max, 题库大小)]
func (s *AssessmentService) questionCount(requested, bankSize int) int {
	n := requested
	if n <= 0 {
		n = s.Config.DefaultQuestions
	}
	if s.Config.MaxQuestions > 0 && n > s.Config.MaxQuestions {
		n = s.Config.MaxQuestions
	}
	if n > bankSize {
		n = bankSize
	}
	if n < 1 {
		n = 1
	}
	return n
}

func (s *AssessmentService) selectNext(ctx context.Context, userID string, bank []model.Question, answered map[string]struct{}) (*model.Question, engine.Selection, error) {
	masteries, err := s.Mastery.Snapshot(ctx, userID, SkillIDs(bank))
	if err != nil {
		return nil, engine.Selection{}, err
	}
	sel, err := s.Mastery.Engines.Engine().Select(masteries, ToEngine(bank), answered)
	if err != nil {
		if errors.Is(err, engine.ErrExhausted) {
			monitoring.QuestionSelections.WithLabelValues("exhausted").Inc()
		}
		return nil, engine.Selection{}, err
	}
	monitoring.QuestionSelections.WithLabelValues("selected").Inc()
	for i := range bank {
		if bank[i].ID == sel.Question.ID {
			return &bank[i], sel, nil
		}
	}
	return nil, engine.Selection{}, fmt.Errorf("selected question %s not in bank", sel.Question.ID)
}

// StartAssessment 创建测评会话并选出第一题
func (s *AssessmentService) StartAssessment(ctx context.Context, userID, subjectID string, count int) (res *model.StartAssessmentResult, err error) {
	ctx, span := tracing.StartSpan(ctx, "AssessmentService.StartAssessment",
		attribute.String("user.id", userID), attribute.String("subject", subjectID))
	defer func() { tracing.End(span, err) }()

	if _, err = s.Users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	bank, err := s.Bank.Bank(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	if len(bank) == 0 {
		return nil, fmt.Errorf("subject %s has no questions: %w", subjectID, engine.ErrExhausted)
	}

	q, sel, err := s.selectNext(ctx, userID, bank, nil)
	if err != nil {
		return nil, err
	}

	session := &model.AssessmentSession{
		UserID:            userID,
		SubjectID:         subjectID,
		Status:            model.AssessmentInProgress,
		TotalQuestions:    s.questionCount(count, len(bank)),
		PendingQuestionID: q.ID,
	}
	if err = s.Repo.Create(ctx, session); err != nil {
		return nil, err
	}

	logger.Log.Info("Assessment started",
		zap.String("assessmentId", session.ID),
		zap.String("userId", userID),
		zap.String("subject", subjectID),
		zap.Int("totalQuestions", session.TotalQuestions))

	return &model.StartAssessmentResult{
		AssessmentID:         session.ID,
		Subject:              subjectID,
		TotalQuestions:       session.TotalQuestions,
		CurrentQuestionIndex: 0,
		Question:             q.View(),
		SelectionReason:      sel.Reason,
	}, nil
}

// SubmitAnswer 批改测评中的当前题目，更新掌握度并选出下一题或结束测评
func (s *AssessmentService) SubmitAnswer(ctx context.Context, assessmentID, questionID, answer string) (res *model.AnswerResult, err error) {
	ctx, span := tracing.StartSpan(ctx, "AssessmentService.SubmitAnswer",
		attribute.String("assessment.id", assessmentID), attribute.String("question.id", questionID))
	defer func() { tracing.End(span, err) }()

	unlock := s.sessions.Lock(assessmentID)
	defer unlock()

	session, err := s.Repo.FindByID(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	if session.IsComplete() {
		return nil, util.ErrAssessmentComplete
	}
	if questionID != session.PendingQuestionID {
		return nil, fmt.Errorf("%w: expected %s", util.ErrInvalidQuestionStep, session.PendingQuestionID)
	}

	bank, err := s.Bank.Bank(ctx, session.SubjectID)
	if err != nil {
		return nil, err
	}
	q, err := s.Bank.Question(ctx, session.SubjectID, questionID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	correct := util.AnswersMatch(answer, q.CorrectAnswer)
	outcome, err := s.Mastery.Apply(ctx, session.UserID, SourceAssessment, q, correct, now)
	if err != nil {
		return nil, err
	}

	session.AnsweredCount++
	if correct {
		session.CorrectCount++
	}
	record := &model.AssessmentAnswer{
		Sequence:        session.AnsweredCount,
		QuestionID:      q.ID,
		SkillID:         q.SkillID,
		Difficulty:      q.Difficulty,
		Answer:          answer,
		IsCorrect:       correct,
		PreviousMastery: outcome.Previous,
		NewMastery:      outcome.State.Probability,
		AnsweredAt:      now,
	}
	answered := session.AnsweredIDs()
	answered[q.ID] = struct{}{}

	var next *model.Question
	if session.AnsweredCount < session.TotalQuestions {
		next, _, err = s.selectNext(ctx, session.UserID, bank, answered)
		if err != nil && !errors.Is(err, engine.ErrExhausted) {
			return nil, err
		}
	}

	if next != nil {
		session.PendingQuestionID = next.ID
	} else {
		if err = s.complete(ctx, session, bank, now); err != nil {
			return nil, err
		}
	}

	if err = s.Repo.RecordAnswer(ctx, session, record); err != nil {
		return nil, err
	}
	if session.IsComplete() {
		s.announceCompletion(ctx, session)
	}
	if err := s.Users.TouchLastActive(ctx, session.UserID, now); err != nil {
		logger.Log.Warn("Failed to update last active", zap.String("userId", session.UserID), zap.Error(err))
	}

	res = &model.AnswerResult{
		IsCorrect:            correct,
		CorrectAnswer:        q.CorrectAnswer,
		Explanation:          q.Explanation,
		Skill:                q.SkillID,
		PreviousMastery:      util.Round(outcome.Previous, 3),
		NewMastery:           util.Round(outcome.State.Probability, 3),
		IsComplete:           session.IsComplete(),
		CurrentQuestionIndex: session.AnsweredCount,
		TotalQuestions:       session.TotalQuestions,
	}
	if next != nil {
		res.NextQuestion = next.View()
	}
	return res, nil
}

// complete 标记测评完成并保存最终掌握度快照
func (s *AssessmentService) complete(ctx context.Context, session *model.AssessmentSession, bank []model.Question, at time.Time) error {
	snapshot, err := s.Mastery.Snapshot(ctx, session.UserID, SkillIDs(bank))
	if err != nil {
		return err
	}
	final := make(map[string]float64, len(snapshot))
	for id, st := range snapshot {
		final[id] = st.Probability
	}
	session.Status = model.AssessmentComplete
	session.PendingQuestionID = ""
	session.FinalMasteries = final
	session.CompletedAt = &at
	return nil
}

func (s *AssessmentService) announceCompletion(ctx context.Context, session *model.AssessmentSession) {
	monitoring.AssessmentsCompleted.WithLabelValues(session.SubjectID).Inc()
	logger.Log.Info("Assessment completed",
		zap.String("assessmentId", session.ID),
		zap.String("userId", session.UserID),
		zap.Int("correct", session.CorrectCount),
		zap.Int("answered", session.AnsweredCount))

	evt := events.AssessmentCompleted{
		AssessmentID:   session.ID,
		UserID:         session.UserID,
		Subject:        session.SubjectID,
		Correct:        session.CorrectCount,
		Total:          session.AnsweredCount,
		SkillMasteries: session.FinalMasteries,
		OccurredAt:     *session.CompletedAt,
	}
	if err := s.Mastery.Events.Publish(ctx, events.SubjectAssessmentCompleted, evt); err != nil {
		logger.Log.Warn("Failed to publish assessment event", zap.String("assessmentId", session.ID), zap.Error(err))
	}
}

// performanceByBand 按难度统计作答情况
func performanceByBand(answers []model.AssessmentAnswer) map[engine.Band]engine.BandPerformance {
	perf := make(map[engine.Band]engine.BandPerformance)
	for _, a := range answers {
		b := engine.Band(a.Difficulty)
		p := perf[b]
		p.Total++
		if a.IsCorrect {
			p.Correct++
		}
		perf[b] = p
	}
	return perf
}

// GetResults 返回已完成测评的得分、掌握度和学习路径
func (s *AssessmentService) GetResults(ctx context.Context, assessmentID string) (res *model.AssessmentResults, err error) {
	ctx, span := tracing.StartSpan(ctx, "AssessmentService.GetResults", attribute.String("assessment.id", assessmentID))
	defer func() { tracing.End(span, err) }()

	session, err := s.Repo.FindByID(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	if !session.IsComplete() {
		return nil, util.ErrAssessmentIncomplete
	}

	record, err := s.Paths.FindByAssessment(ctx, session.ID)
	if errors.Is(err, util.ErrLearningPathNotFound) {
		path := s.Mastery.Engines.Engine().Generate(session.SubjectID, session.FinalMasteries, performanceByBand(session.Answers))
		record, err = s.Paths.SaveOnce(ctx, &model.LearningPathRecord{
			UserID:         session.UserID,
			SubjectID:      session.SubjectID,
			AssessmentID:   session.ID,
			OverallMastery: path.OverallMastery,
			Path:           path,
		})
	}
	if err != nil {
		return nil, err
	}

	masteries := make(map[string]float64, len(session.FinalMasteries))
	for k, v := range session.FinalMasteries {
		masteries[k] = util.Round(v, 3)
	}

	res = &model.AssessmentResults{
		AssessmentID: session.ID,
		UserID:       session.UserID,
		Subject:      session.SubjectID,
		Score: model.Score{
			Correct:    session.CorrectCount,
			Total:      session.AnsweredCount,
			Percentage: util.Percentage(session.CorrectCount, session.AnsweredCount),
		},
		SkillMasteries: masteries,
		LearningPath:   record.Path,
		PathID:         record.ID,
		ReportURL:      session.ReportURL,
		CompletedAt:    session.CompletedAt,
	}

	if s.Archive && session.ReportURL == "" {
		url, err := s.Reports.ArchiveReport(ctx, res)
		if err != nil {
			logger.Log.Warn("Failed to archive assessment report", zap.String("assessmentId", session.ID), zap.Error(err))
		} else if err := s.Repo.SetReportURL(ctx, session.ID, url); err != nil {
			logger.Log.Warn("Failed to save report url", zap.String("assessmentId", session.ID), zap.Error(err))
		} else {
			res.ReportURL = url
		}
	}
	return res, nil
}

// GetAssessment 测评进度
func (s *AssessmentService) GetAssessment(ctx context.Context, assessmentID string) (*model.AssessmentStatus, error) {
	session, err := s.Repo.FindByID(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	status := &model.AssessmentStatus{
		AssessmentID:         session.ID,
		UserID:               session.UserID,
		Subject:              session.SubjectID,
		Status:               session.Status,
		TotalQuestions:       session.TotalQuestions,
		CurrentQuestionIndex: session.AnsweredCount,
		CorrectCount:         session.CorrectCount,
		Answers:              session.Answers,
		StartedAt:            session.CreatedAt,
		CompletedAt:          session.CompletedAt,
	}
	if status.Answers == nil {
		status.Answers = []model.AssessmentAnswer{}
	}
	if session.PendingQuestionID != "" {
		q, err := s.Bank.Question(ctx, session.SubjectID, session.PendingQuestionID)
		if err != nil {
			return nil, err
		}
		status.PendingQuestion = q.View()
	}
	return status, nil
}
