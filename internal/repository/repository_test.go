package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"adaptive_edu_backend/internal/engine"
	"adaptive_edu_backend/internal/model"
	"adaptive_edu_backend/internal/util"
	"adaptive_edu_backend/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenTest()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func seedBank(t *testing.T, db *gorm.DB) {
	t.Helper()
	repo := NewQuestionRepository(db)
	err := repo.ImportBank(context.Background(),
		[]model.Subject{{ID: "python", Name: "Python"}},
		[]model.Skill{
			{ID: "basic_syntax", SubjectID: "python", Name: "Basic Syntax"},
			{ID: "oop", SubjectID: "python", Name: "Object Oriented Programming"},
		},
		[]model.Question{
			{ID: "q2", SubjectID: "python", SkillID: "oop", Difficulty: "hard", Text: "t", CorrectAnswer: "a"},
			{ID: "q1", SubjectID: "python", SkillID: "basic_syntax", Difficulty: "very_easy", Text: "t", Options: []string{"a", "b"}, CorrectAnswer: "a"},
			{ID: "q3", SubjectID: "python", SkillID: "oop", Difficulty: "hard", Text: "t", CorrectAnswer: "a"},
		})
	require.NoError(t, err)
}

func TestQuestionRepository(t *testing.T) {
	db := openDB(t)
	seedBank(t, db)
	repo := NewQuestionRepository(db)
	ctx := context.Background()

	qs, err := repo.ListQuestions(ctx, "python")
	require.NoError(t, err)
	require.Len(t, qs, 3)
	assert.Equal(t, "q1", qs[0].ID)
	assert.Equal(t, []string{"a", "b"}, qs[0].Options)

	sub, err := repo.FindSubject(ctx, "python")
	require.NoError(t, err)
	assert.Len(t, sub.Skills, 2)

	_, err = repo.FindSubject(ctx, "rust")
	assert.ErrorIs(t, err, util.ErrSubjectNotFound)
	_, err = repo.FindQuestion(ctx, "nope")
	assert.ErrorIs(t, err, util.ErrQuestionNotFound)

	dist, err := repo.DifficultyDistribution(ctx, "python")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"very_easy": 1, "easy": 0, "medium": 0, "hard": 2}, dist)

	// 重复导入覆盖已有题目
	err = repo.ImportBank(ctx, nil, nil, []model.Question{
		{ID: "q1", SubjectID: "python", SkillID: "basic_syntax", Difficulty: "easy", Text: "new", CorrectAnswer: "b"},
	})
	require.NoError(t, err)
	q, err := repo.FindQuestion(ctx, "q1")
	require.NoError(t, err)
	assert.Equal(t, "easy", q.Difficulty)
	assert.Equal(t, "new", q.Text)
}

func TestUserRepository(t *testing.T) {
	db := openDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &model.User{ID: "u1", Username: "alice", Name: "Alice"}))
	require.NoError(t, repo.Upsert(ctx, &model.User{ID: "u1", Username: "alice", Name: "Alice L."}))

	u, err := repo.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Alice L.", u.Name)
	assert.Nil(t, u.LastActive)

	_, err = repo.FindByID(ctx, "u2")
	assert.ErrorIs(t, err, util.ErrUserNotFound)

	now := time.Now().UTC()
	require.NoError(t, repo.TouchLastActive(ctx, "u1", now))
	active, err := repo.CountActiveSince(ctx, now.Add(-time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), active)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestMasteryRepositoryUpdate(t *testing.T) {
	db := openDB(t)
	repo := NewMasteryRepository(db)
	ctx := context.Background()

	st, err := repo.Get(ctx, "u1", "oop")
	require.NoError(t, err)
	assert.Nil(t, st)

	const n = 20
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := repo.Update(ctx, "u1", "oop", func(cur *engine.MasteryState) (engine.MasteryState, error) {
				next := engine.MasteryState{UserID: "u1", SkillID: "oop"}
				if cur != nil {
					next = *cur
				}
				next.Attempts++
				next.Probability = float64(next.Attempts) / 100
				next.LastUpdated = time.Now().UTC()
				return next, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	st, err = repo.Get(ctx, "u1", "oop")
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.Equal(t, n, st.Attempts)
	assert.InDelta(t, 0.2, st.Probability, 1e-9)

	all, err := repo.List(ctx, "u1", nil)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	none, err := repo.List(ctx, "u1", []string{})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestAssessmentRepository(t *testing.T) {
	db := openDB(t)
	repo := NewAssessmentRepository(db)
	ctx := context.Background()

	s := &model.AssessmentSession{UserID: "u1", SubjectID: "python", Status: model.AssessmentInProgress, TotalQuestions: 2, PendingQuestionID: "q1"}
	require.NoError(t, repo.Create(ctx, s))
	require.NotEmpty(t, s.ID)

	s.AnsweredCount = 1
	s.CorrectCount = 1
	s.PendingQuestionID = "q2"
	require.NoError(t, repo.RecordAnswer(ctx, s, &model.AssessmentAnswer{Sequence: 1, QuestionID: "q1", SkillID: "basic_syntax", IsCorrect: true, AnsweredAt: time.Now()}))

	now := time.Now().UTC()
	s.AnsweredCount = 2
	s.Status = model.AssessmentComplete
	s.PendingQuestionID = ""
	s.FinalMasteries = map[string]float64{"basic_syntax": 0.8}
	s.CompletedAt = &now
	require.NoError(t, repo.RecordAnswer(ctx, s, &model.AssessmentAnswer{Sequence: 2, QuestionID: "q2", SkillID: "oop", AnsweredAt: time.Now()}))

	got, err := repo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, got.IsComplete())
	assert.Empty(t, got.PendingQuestionID)
	assert.Equal(t, 0.8, got.FinalMasteries["basic_syntax"])
	require.Len(t, got.Answers, 2)
	assert.Equal(t, "q1", got.Answers[0].QuestionID)
	assert.Equal(t, "q2", got.Answers[1].QuestionID)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, util.ErrAssessmentNotFound)

	done, err := repo.Count(ctx, AssessmentFilter{Status: model.AssessmentComplete, SubjectID: "python"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), done)

	bySubject, err := repo.CountBySubject(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"python": 1}, bySubject)

	require.NoError(t, repo.SetReportURL(ctx, s.ID, "/uploads/r.json"))
	got, err = repo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/r.json", got.ReportURL)
}

func TestLearningPathRepositorySaveOnce(t *testing.T) {
	db := openDB(t)
	repo := NewLearningPathRepository(db)
	ctx := context.Background()

	first, err := repo.SaveOnce(ctx, &model.LearningPathRecord{
		UserID: "u1", SubjectID: "python", AssessmentID: "a1", OverallMastery: 0.5,
		Path: engine.LearningPath{Subject: "python", Modules: []engine.Module{{ID: "python_practice_oop", Skill: "oop"}}},
	})
	require.NoError(t, err)

	second, err := repo.SaveOnce(ctx, &model.LearningPathRecord{
		UserID: "u1", SubjectID: "python", AssessmentID: "a1", OverallMastery: 0.9,
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 0.5, second.OverallMastery)

	_, ok := second.HasModule("python_practice_oop")
	assert.True(t, ok)

	latest, err := repo.Latest(ctx, "u1", "python")
	require.NoError(t, err)
	assert.Equal(t, first.ID, latest.ID)

	_, err = repo.Latest(ctx, "u1", "math")
	assert.ErrorIs(t, err, util.ErrLearningPathNotFound)

	p, err := repo.FindProgress(ctx, "u1", "python_practice_oop")
	require.NoError(t, err)
	assert.Nil(t, p)

	require.NoError(t, repo.SaveProgress(ctx, &model.ModuleProgress{UserID: "u1", ModuleID: "python_practice_oop", PathID: first.ID, ProgressPercentage: 40}))
	ps, err := repo.ListProgress(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, ps, 1)
	assert.Equal(t, 40.0, ps[0].ProgressPercentage)
}

func TestPracticeRepositoryAnsweredIDs(t *testing.T) {
	db := openDB(t)
	repo := NewPracticeRepository(db)
	ctx := context.Background()

	for _, qid := range []string{"q1", "q2", "q1"} {
		require.NoError(t, repo.Create(ctx, &model.PracticeAnswer{UserID: "u1", SubjectID: "python", QuestionID: qid, SkillID: "oop"}))
	}
	require.NoError(t, repo.Create(ctx, &model.PracticeAnswer{UserID: "u1", SubjectID: "math", QuestionID: "m1", SkillID: "algebra"}))

	ids, err := repo.AnsweredQuestionIDs(ctx, "u1", "python")
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"q1": {}, "q2": {}}, ids)
}
