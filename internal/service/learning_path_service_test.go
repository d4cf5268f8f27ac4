package service

import (
	"testing"

	"adaptive_edu_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeWithPath(t *testing.T, f *fixture, userID string) string {
	t.Helper()
	id := f.runAssessment(t, userID, 3, map[string]string{"py_bs_2": "print"})
	_, err := f.assessment.GetResults(f.ctx, id)
	require.NoError(t, err)
	return id
}

func TestLearningPathProgress(t *testing.T) {
	f := newFixture(t)

	_, err := f.learning.GetLearningPath(f.ctx, "u1", "python")
	assert.ErrorIs(t, err, util.ErrLearningPathNotFound)

	assessmentID := completeWithPath(t, f, "u1")

	view, err := f.learning.GetLearningPath(f.ctx, "u1", "python")
	require.NoError(t, err)
	assert.Equal(t, assessmentID, view.AssessmentID)
	require.Len(t, view.LearningPath.Modules, 2)
	assert.Zero(t, view.OverallProgress)
	assert.False(t, view.Completed)

	remedial := view.LearningPath.Modules[0].ID
	practice := view.LearningPath.Modules[1].ID

	_, err = f.learning.UpdateProgress(f.ctx, ProgressUpdateRequest{UserID: "u1", ModuleID: "python_advanced_nothing", ProgressPercentage: 10})
	assert.ErrorIs(t, err, util.ErrModuleNotFound)

	_, err = f.learning.UpdateProgress(f.ctx, ProgressUpdateRequest{UserID: "u1", ModuleID: remedial, ProgressPercentage: 120})
	assert.ErrorIs(t, err, util.ErrInvalidInput)

	p, err := f.learning.UpdateProgress(f.ctx, ProgressUpdateRequest{UserID: "u1", ModuleID: remedial, ProgressPercentage: 50, TimeSpentMinutes: 30})
	require.NoError(t, err)
	assert.Equal(t, view.PathID, p.PathID)

	p, err = f.learning.UpdateProgress(f.ctx, ProgressUpdateRequest{UserID: "u1", ModuleID: remedial, ProgressPercentage: 100, Completed: true, TimeSpentMinutes: 45})
	require.NoError(t, err)
	assert.Equal(t, 75, p.TimeSpentMinutes)
	assert.True(t, p.Completed)

	view, err = f.learning.GetLearningPath(f.ctx, "u1", "python")
	require.NoError(t, err)
	assert.Equal(t, 50.0, view.OverallProgress)
	assert.False(t, view.Completed)

	_, err = f.learning.UpdateProgress(f.ctx, ProgressUpdateRequest{UserID: "u1", ModuleID: practice, ProgressPercentage: 100, Completed: true})
	require.NoError(t, err)
	view, err = f.learning.GetLearningPath(f.ctx, "u1", "python")
	require.NoError(t, err)
	assert.Equal(t, 100.0, view.OverallProgress)
	assert.True(t, view.Completed)

	summary, err := f.learning.GetProgressSummary(f.ctx, "u1")
	require.NoError(t, err)
	require.Len(t, summary.Subjects, 1)
	sp := summary.Subjects[0]
	assert.Equal(t, "python", sp.Subject)
	assert.Equal(t, 2, sp.ModulesTotal)
	assert.Equal(t, 2, sp.ModulesCompleted)
	assert.Equal(t, 100.0, sp.OverallProgress)
	assert.Equal(t, 75, sp.TimeSpentMinutes)
}

func TestModuleContent(t *testing.T) {
	f := newFixture(t)
	completeWithPath(t, f, "u1")

	content, err := f.learning.GetModuleContent(f.ctx, "u1", "python_remedial_oop")
	require.NoError(t, err)
	assert.Equal(t, "remedial", content.Type)
	assert.Equal(t, "3 hours 30 minutes", content.EstimatedCompletionTime)
	require.Len(t, content.Sections, 3)
	assert.Equal(t, "python_remedial_oop_section_1", content.Sections[0].SectionID)

	quiz := content.Sections[2]
	assert.Equal(t, "quiz", quiz.ContentType)
	require.Len(t, quiz.Questions, 2)
	// 补救模块从简单题开始
	assert.Equal(t, "py_oop_1", quiz.Questions[0].ID)
	assert.Equal(t, "py_oop_2", quiz.Questions[1].ID)

	_, err = f.learning.GetModuleContent(f.ctx, "u2", "python_remedial_oop")
	assert.ErrorIs(t, err, util.ErrModuleNotFound)
}
