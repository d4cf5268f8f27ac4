package service

import (
	"context"
	"strings"
	"testing"

	"adaptive_edu_backend/internal/config"
	"adaptive_edu_backend/internal/engine"
	"adaptive_edu_backend/internal/repository"
	"adaptive_edu_backend/internal/store"
	"adaptive_edu_backend/pkg/database"
	"adaptive_edu_backend/pkg/events"

	"github.com/stretchr/testify/require"
)

const fixtureBank = `
subjects:
  - id: python
    name: Python
    description: Python programming
    skills:
      - id: basic_syntax
        name: Basic Syntax
        questions:
          - id: py_bs_1
            difficulty: very_easy
            text: Which keyword defines a function?
            options: [def, func, function, lambda]
            correct_answer: def
          - id: py_bs_2
            difficulty: easy
            text: Which function writes to stdout?
            options: [print, echo, write, say]
            correct_answer: print
          - id: py_bs_3
            difficulty: medium
            text: What does len("abc") return?
            options: ["2", "3", "4", "error"]
            correct_answer: "3"
      - id: oop
        name: Object Oriented Programming
        questions:
          - id: py_oop_1
            difficulty: easy
            text: Which method initializes an instance?
            options: [__init__, __new__, __call__, __str__]
            correct_answer: __init__
          - id: py_oop_2
            difficulty: hard
            text: What does super() return?
            options: [a proxy object, the parent class, the instance, None]
            correct_answer: a proxy object
learners:
  - id: u1
    username: alice
    name: Alice
  - id: u2
    username: bob
    name: Bob
`

type fixture struct {
	ctx        context.Context
	users      *repository.UserRepository
	paths      *repository.LearningPathRepository
	bank       *QuestionBankService
	store      *store.MemoryStore
	events     *events.Recorder
	engines    *EngineProvider
	mastery    *MasteryUpdater
	assessment *AssessmentService
	adaptive   *AdaptiveService
	learning   *LearningPathService
	analytics  *AnalyticsService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.OpenTest()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	f := &fixture{ctx: context.Background()}
	f.users = repository.NewUserRepository(db)
	f.paths = repository.NewLearningPathRepository(db)
	questions := repository.NewQuestionRepository(db)
	assessments := repository.NewAssessmentRepository(db)

	f.bank = NewQuestionBankService(questions, f.users)
	_, err = f.bank.ImportYAML(f.ctx, strings.NewReader(fixtureBank))
	require.NoError(t, err)

	f.engines, err = NewEngineProvider(engine.DefaultParams())
	require.NoError(t, err)
	f.store = store.NewMemoryStore()
	f.events = &events.Recorder{}
	f.mastery = NewMasteryUpdater(f.engines, f.store, f.events)

	reports := NewStorageService(&config.StorageConfig{Type: "local", LocalPath: t.TempDir(), ReportPrefix: "reports"})
	f.assessment = NewAssessmentService(f.bank, f.users, assessments, f.paths, f.mastery, reports,
		config.AssessmentConfig{DefaultQuestions: 10, MaxQuestions: 50}, true)
	f.adaptive = NewAdaptiveService(f.bank, f.users, repository.NewPracticeRepository(db), f.mastery)
	f.learning = NewLearningPathService(f.paths, f.users, f.bank)
	f.analytics = NewAnalyticsService(f.users, questions, assessments, f.paths, f.store)
	return f
}

// runAssessment 按给定答案完成一次测评，返回测评 id
func (f *fixture) runAssessment(t *testing.T, userID string, count int, answers map[string]string) string {
	t.Helper()
	start, err := f.assessment.StartAssessment(f.ctx, userID, "python", count)
	require.NoError(t, err)

	q := start.Question
	for q != nil {
		res, err := f.assessment.SubmitAnswer(f.ctx, start.AssessmentID, q.ID, answers[q.ID])
		require.NoError(t, err)
		q = res.NextQuestion
	}
	return start.AssessmentID
}
