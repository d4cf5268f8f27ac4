package model

import (
	"time"

	"adaptive_edu_backend/internal/engine"
)

// LearningPathRecord 测评完成后生成的学习路径快照，每个测评只保存一次
type LearningPathRecord struct {
	UUIDBase
	UserID         string              `gorm:"index;type:varchar(64);not null" json:"user_id"`
	SubjectID      string              `gorm:"index;type:varchar(64);not null" json:"subject"`
	AssessmentID   string              `gorm:"uniqueIndex;type:varchar(36);not null" json:"assessment_id"`
	OverallMastery float64             `json:"overall_mastery"`
	Path           engine.LearningPath `gorm:"serializer:json;type:text" json:"learning_path"`
}

func (LearningPathRecord) TableName() string {
	return "learning_paths"
}

// HasModule reports whether moduleID is part of the stored path.
func (r *LearningPathRecord) HasModule(moduleID string) (engine.Module, bool) {
	for _, m := range r.Path.Modules {
		if m.ID == moduleID {
			return m, true
		}
	}
	return engine.Module{}, false
}

// ModuleProgress 学习模块进度，(user_id, module_id) 唯一
type ModuleProgress struct {
	ID                 uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID             string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_user_module" json:"user_id"`
	ModuleID           string    `gorm:"type:varchar(191);not null;uniqueIndex:idx_user_module" json:"module_id"`
	PathID             string    `gorm:"index;type:varchar(36)" json:"path_id"`
	SubjectID          string    `gorm:"index;type:varchar(64)" json:"subject"`
	ProgressPercentage float64   `json:"progress_percentage"`
	Completed          bool      `json:"completed"`
	TimeSpentMinutes   int       `json:"time_spent_minutes"`
	LastUpdated        time.Time `json:"last_updated"`
	CreatedAt          time.Time `json:"-"`
}

func (ModuleProgress) TableName() string {
	return "module_progress"
}

// PracticeAnswer 自适应练习作答记录
type PracticeAnswer struct {
	ID               uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID           string    `gorm:"index:idx_practice_user_subject;type:varchar(64);not null" json:"user_id"`
	SubjectID        string    `gorm:"index:idx_practice_user_subject;type:varchar(64);not null" json:"subject"`
	QuestionID       string    `gorm:"type:varchar(64);not null" json:"question_id"`
	SkillID          string    `gorm:"type:varchar(64);not null" json:"skill"`
	Difficulty       string    `gorm:"size:20" json:"difficulty"`
	Answer           string    `gorm:"type:text" json:"answer"`
	IsCorrect        bool      `json:"is_correct"`
	PreviousMastery  float64   `json:"previous_mastery"`
	NewMastery       float64   `json:"new_mastery"`
	TimeTakenSeconds int       `json:"time_taken"`
	CreatedAt        time.Time `json:"created_at"`
}

func (PracticeAnswer) TableName() string {
	return "practice_answers"
}
