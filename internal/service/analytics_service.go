package service

import (
	"context"
	"time"

	"adaptive_edu_backend/internal/model"
	"adaptive_edu_backend/internal/repository"
	"adaptive_edu_backend/internal/store"
	"adaptive_edu_backend/internal/util"
)

// AnalyticsService 平台、科目和学习者统计
type AnalyticsService struct {
	Users       *repository.UserRepository
	Questions   *repository.QuestionRepository
	Assessments *repository.AssessmentRepository
	Paths       *repository.LearningPathRepository
	Masteries   store.MasteryStore
}

func NewAnalyticsService(
	users *repository.UserRepository,
	questions *repository.QuestionRepository,
	assessments *repository.AssessmentRepository,
	paths *repository.LearningPathRepository,
	masteries store.MasteryStore,
) *AnalyticsService {
	return &AnalyticsService{
		Users:       users,
		Questions:   questions,
		Assessments: assessments,
		Paths:       paths,
		Masteries:   masteries,
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func rate(part, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return util.Round(float64(part)/float64(total)*100, 2)
}

// averageScore 已完成测评的平均得分（百分比）
func averageScore(sessions []model.AssessmentSession) float64 {
	var sum float64
	n := 0
	for _, s := range sessions {
		if !s.IsComplete() || s.AnsweredCount == 0 {
			continue
		}
		sum += float64(s.CorrectCount) / float64(s.AnsweredCount) * 100
		n++
	}
	if n == 0 {
		return 0
	}
	return util.Round(sum/float64(n), 2)
}

func (s *AnalyticsService) GetOverview(ctx context.Context) (*model.AnalyticsOverview, error) {
	now := time.Now().UTC()
	today := startOfDay(now)
	out := &model.AnalyticsOverview{GeneratedAt: now}

	var err error
	if out.Users.TotalUsers, err = s.Users.Count(ctx); err != nil {
		return nil, err
	}
	if out.Users.NewUsersToday, err = s.Users.CountCreatedSince(ctx, today); err != nil {
		return nil, err
	}
	if out.Users.ActiveLastWeek, err = s.Users.CountActiveSince(ctx, now.AddDate(0, 0, -7)); err != nil {
		return nil, err
	}

	completed, err := s.Assessments.List(ctx, repository.AssessmentFilter{Status: model.AssessmentComplete})
	if err != nil {
		return nil, err
	}
	am := &out.Assessments
	if am.TotalAssessments, err = s.Assessments.Count(ctx, repository.AssessmentFilter{}); err != nil {
		return nil, err
	}
	if am.AssessmentsToday, err = s.Assessments.CountSince(ctx, today); err != nil {
		return nil, err
	}
	if am.BySubject, err = s.Assessments.CountBySubject(ctx); err != nil {
		return nil, err
	}
	am.CompletedAssessments = int64(len(completed))
	am.CompletionRate = rate(am.CompletedAssessments, am.TotalAssessments)
	am.AverageScore = averageScore(completed)

	progress, err := s.Paths.ListProgress(ctx, "")
	if err != nil {
		return nil, err
	}
	lm := &out.Learning
	for _, p := range progress {
		lm.ModulesStarted++
		if p.Completed {
			lm.ModulesCompleted++
		}
		lm.TotalTimeSpentMinutes += int64(p.TimeSpentMinutes)
	}
	lm.CompletionRate = rate(lm.ModulesCompleted, lm.ModulesStarted)
	if lm.ModulesStarted > 0 {
		lm.AvgTimePerModuleMinutes = util.Round(float64(lm.TotalTimeSpentMinutes)/float64(lm.ModulesStarted), 2)
	}
	return out, nil
}

// GetSubjectAnalytics 科目下各技能的作答和掌握度统计
func (s *AnalyticsService) GetSubjectAnalytics(ctx context.Context, subjectID string) (*model.SubjectAnalytics, error) {
	sub, err := s.Questions.FindSubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	sessions, err := s.Assessments.List(ctx, repository.AssessmentFilter{SubjectID: subjectID})
	if err != nil {
		return nil, err
	}
	dist, err := s.Questions.DifficultyDistribution(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	out := &model.SubjectAnalytics{
		Subject:     subjectID,
		Skills:      make(map[string]model.SkillMetrics, len(sub.Skills)),
		Questions:   model.QuestionMetrics{ByDifficulty: dist},
		GeneratedAt: time.Now().UTC(),
	}
	for _, n := range dist {
		out.Questions.TotalQuestions += n
	}
	for _, sk := range sub.Skills {
		out.Skills[sk.ID] = model.SkillMetrics{}
	}

	masterySum := map[string]float64{}
	masteryN := map[string]int{}
	var completed []model.AssessmentSession
	for _, sess := range sessions {
		for _, a := range sess.Answers {
			m := out.Skills[a.SkillID]
			m.AnswerCount++
			if a.IsCorrect {
				m.CorrectCount++
			} else {
				m.IncorrectCount++
			}
			out.Skills[a.SkillID] = m
		}
		if sess.IsComplete() {
			completed = append(completed, sess)
			for skill, v := range sess.FinalMasteries {
				masterySum[skill] += v
				masteryN[skill]++
			}
		}
	}
	for id, m := range out.Skills {
		m.CorrectPercentage = util.Percentage(m.CorrectCount, m.AnswerCount)
		if n := masteryN[id]; n > 0 {
			m.MasteryAverage = util.Round(masterySum[id]/float64(n), 3)
		}
		out.Skills[id] = m
	}

	out.Assessments = model.AssessmentMetrics{
		TotalAssessments:     int64(len(sessions)),
		CompletedAssessments: int64(len(completed)),
		CompletionRate:       rate(int64(len(completed)), int64(len(sessions))),
		AverageScore:         averageScore(completed),
	}
	return out, nil
}

// GetUserAnalytics 学习者的测评、学习进度和当前掌握度
func (s *AnalyticsService) GetUserAnalytics(ctx context.Context, userID string) (*model.UserAnalytics, error) {
	if _, err := s.Users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	sessions, err := s.Assessments.List(ctx, repository.AssessmentFilter{UserID: userID})
	if err != nil {
		return nil, err
	}
	recs, err := s.Paths.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	progress, err := s.Paths.ListProgress(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := &model.UserAnalytics{
		UserID:         userID,
		SkillMasteries: map[string]map[string]float64{},
		GeneratedAt:    time.Now().UTC(),
	}

	am := &out.Assessments
	am.BySubject = map[string]model.SubjectScore{}
	bySubject := map[string][]model.AssessmentSession{}
	for _, sess := range sessions {
		am.Total++
		if sess.IsComplete() {
			am.Completed++
		}
		bySubject[sess.SubjectID] = append(bySubject[sess.SubjectID], sess)
	}
	for subject, list := range bySubject {
		score := model.SubjectScore{Total: len(list), AverageScore: averageScore(list)}
		for _, sess := range list {
			if sess.IsComplete() {
				score.Completed++
			}
		}
		am.BySubject[subject] = score
	}

	lm := &out.Learning
	lm.PathsCount = len(recs)
	lm.BySubject = map[string]model.SubjectLearning{}
	pathSubject := map[string]string{}
	for _, rec := range recs {
		sl := lm.BySubject[rec.SubjectID]
		sl.ModulesTotal += len(rec.Path.Modules)
		lm.BySubject[rec.SubjectID] = sl
		pathSubject[rec.ID] = rec.SubjectID
	}
	for _, p := range progress {
		lm.ModulesStarted++
		lm.TotalTimeSpentMinutes += p.TimeSpentMinutes
		if p.Completed {
			lm.ModulesCompleted++
		}
		subject, ok := pathSubject[p.PathID]
		if !ok {
			continue
		}
		sl := lm.BySubject[subject]
		sl.ModulesStarted++
		sl.TimeSpentMinutes += p.TimeSpentMinutes
		if p.Completed {
			sl.ModulesCompleted++
		}
		lm.BySubject[subject] = sl
	}
	for subject, sl := range lm.BySubject {
		if sl.ModulesTotal > 0 {
			sl.CompletionPercentage = util.Round(float64(sl.ModulesCompleted)/float64(sl.ModulesTotal)*100, 2)
		}
		lm.BySubject[subject] = sl
	}

	states, err := s.Masteries.List(ctx, userID, nil)
	if err != nil {
		return nil, err
	}
	if len(states) > 0 {
		subjects, err := s.Questions.ListSubjects(ctx)
		if err != nil {
			return nil, err
		}
		skillSubject := map[string]string{}
		for _, sub := range subjects {
			for _, sk := range sub.Skills {
				skillSubject[sk.ID] = sub.ID
			}
		}
		for skill, st := range states {
			subject, ok := skillSubject[skill]
			if !ok {
				continue
			}
			if out.SkillMasteries[subject] == nil {
				out.SkillMasteries[subject] = map[string]float64{}
			}
			out.SkillMasteries[subject][skill] = util.Round(st.Probability, 3)
		}
	}
	return out, nil
}
