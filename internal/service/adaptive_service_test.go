package service

import (
	"testing"

	"adaptive_edu_backend/internal/engine"
	"adaptive_edu_backend/internal/util"
	"adaptive_edu_backend/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdaptivePractice(t *testing.T) {
	f := newFixture(t)

	next, err := f.adaptive.NextQuestion(f.ctx, "u2", "python")
	require.NoError(t, err)
	assert.Equal(t, "py_bs_2", next.QuestionID)
	assert.Equal(t, "basic_syntax", next.Skill)
	assert.Equal(t, "easy", next.Difficulty)
	assert.Equal(t, 0.4, next.Mastery)
	assert.NotEmpty(t, next.SelectionReason)

	res, err := f.adaptive.SubmitAnswer(f.ctx, SubmitPracticeRequest{UserID: "u2", QuestionID: "py_bs_2", Answer: "print", TimeTakenSeconds: 12})
	require.NoError(t, err)
	assert.True(t, res.IsCorrect)
	assert.Equal(t, "python", res.Subject)
	assert.Equal(t, 0.4, res.PreviousMastery)
	assert.Equal(t, 0.739, res.NewMastery)
	assert.Equal(t, 0.339, res.MasteryChange)
	assert.Equal(t, "Correct! Your mastery of basic syntax went up. You're making good progress in basic syntax. Keep practicing to reinforce your knowledge.", res.Feedback)

	msgs := f.events.Messages(events.SubjectMasteryUpdated)
	require.Len(t, msgs, 1)
	assert.Equal(t, SourcePractice, msgs[0].Payload.(events.MasteryUpdated).Source)

	// 已练习过的题不再出现，oop 掌握度最低
	next, err = f.adaptive.NextQuestion(f.ctx, "u2", "python")
	require.NoError(t, err)
	assert.Equal(t, "py_oop_1", next.QuestionID)

	for _, id := range []string{"py_bs_1", "py_bs_3", "py_oop_1", "py_oop_2"} {
		_, err := f.adaptive.SubmitAnswer(f.ctx, SubmitPracticeRequest{UserID: "u2", QuestionID: id, Answer: "x"})
		require.NoError(t, err)
	}
	_, err = f.adaptive.NextQuestion(f.ctx, "u2", "python")
	assert.ErrorIs(t, err, engine.ErrExhausted)

	user, err := f.users.FindByID(f.ctx, "u2")
	require.NoError(t, err)
	assert.NotNil(t, user.LastActive)
}

func TestAdaptiveSubmitValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.adaptive.SubmitAnswer(f.ctx, SubmitPracticeRequest{UserID: "ghost", QuestionID: "py_bs_1"})
	assert.ErrorIs(t, err, util.ErrUserNotFound)

	_, err = f.adaptive.SubmitAnswer(f.ctx, SubmitPracticeRequest{UserID: "u1", QuestionID: "nope"})
	assert.ErrorIs(t, err, util.ErrQuestionNotFound)

	_, err = f.adaptive.SubmitAnswer(f.ctx, SubmitPracticeRequest{UserID: "u1", QuestionID: "py_bs_1", TimeTakenSeconds: -1})
	assert.ErrorIs(t, err, util.ErrInvalidInput)

	_, err = f.adaptive.NextQuestion(f.ctx, "u1", "rust")
	assert.ErrorIs(t, err, util.ErrSubjectNotFound)
}

func TestGetMasteries(t *testing.T) {
	f := newFixture(t)

	_, err := f.adaptive.SubmitAnswer(f.ctx, SubmitPracticeRequest{UserID: "u1", QuestionID: "py_oop_1", Answer: "__init__"})
	require.NoError(t, err)

	views, err := f.adaptive.GetMasteries(f.ctx, "u1", "python")
	require.NoError(t, err)
	require.Len(t, views, 2)

	assert.Equal(t, "basic_syntax", views[0].Skill)
	assert.Equal(t, 0.4, views[0].Probability)
	assert.Equal(t, 0, views[0].Attempts)
	assert.Equal(t, "basic", views[0].Tier)
	assert.Nil(t, views[0].LastUpdated)

	assert.Equal(t, "oop", views[1].Skill)
	assert.Equal(t, 1, views[1].Attempts)
	assert.Equal(t, "intermediate", views[1].Tier)
	assert.NotNil(t, views[1].LastUpdated)
}

func TestFeedback(t *testing.T) {
	tests := []struct {
		name     string
		correct  bool
		improved bool
		tier     engine.Tier
		want     string
	}{
		{"correct advanced", true, true, engine.TierAdvanced,
			"Correct! Your mastery of loops went up. You've achieved high mastery in loops. Consider exploring advanced topics."},
		{"incorrect basic", false, false, engine.TierBasic,
			"Incorrect. The correct answer was: 42. You should focus more on loops. Consider reviewing the fundamentals."},
		{"incorrect but improved", false, true, engine.TierIntermediate,
			"Incorrect. The correct answer was: 42. Your mastery of loops went up. You're making good progress in loops. Keep practicing to reinforce your knowledge."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Feedback(tt.correct, "42", "loops", tt.improved, tt.tier))
		})
	}
}
