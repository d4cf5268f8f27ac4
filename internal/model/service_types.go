package model

import (
	"time"

	"adaptive_edu_backend/internal/engine"
)

// StartAssessmentResult 开始测评的响应
type StartAssessmentResult struct {
	AssessmentID         string        `json:"assessment_id"`
	Subject              string        `json:"subject"`
	TotalQuestions       int           `json:"total_questions"`
	CurrentQuestionIndex int           `json:"current_question_index"`
	Question             *QuestionView `json:"question"`
	SelectionReason      string        `json:"selection_reason"`
}

// AnswerResult 测评中提交答案的响应
type AnswerResult struct {
	IsCorrect            bool          `json:"is_correct"`
	CorrectAnswer        string        `json:"correct_answer"`
	Explanation          string        `json:"explanation,omitempty"`
	Skill                string        `json:"skill"`
	PreviousMastery      float64       `json:"previous_mastery"`
	NewMastery           float64       `json:"new_mastery"`
	IsComplete           bool          `json:"is_complete"`
	CurrentQuestionIndex int           `json:"current_question_index"`
	TotalQuestions       int           `json:"total_questions"`
	NextQuestion         *QuestionView `json:"next_question,omitempty"`
}

type Score struct {
	Correct    int     `json:"correct"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// AssessmentResults 测评结果，包含学习路径
type AssessmentResults struct {
	AssessmentID   string              `json:"assessment_id"`
	UserID         string              `json:"user_id"`
	Subject        string              `json:"subject"`
	Score          Score               `json:"score"`
	SkillMasteries map[string]float64  `json:"skill_masteries"`
	LearningPath   engine.LearningPath `json:"learning_path"`
	PathID         string              `json:"learning_path_id"`
	ReportURL      string              `json:"report_url,omitempty"`
	CompletedAt    *time.Time          `json:"completed_at,omitempty"`
}

// AssessmentStatus 测评进度视图
type AssessmentStatus struct {
	AssessmentID         string             `json:"assessment_id"`
	UserID               string             `json:"user_id"`
	Subject              string             `json:"subject"`
	Status               string             `json:"status"`
	TotalQuestions       int                `json:"total_questions"`
	CurrentQuestionIndex int                `json:"current_question_index"`
	CorrectCount         int                `json:"correct_count"`
	PendingQuestion      *QuestionView      `json:"pending_question,omitempty"`
	Answers              []AssessmentAnswer `json:"answers"`
	StartedAt            time.Time          `json:"started_at"`
	CompletedAt          *time.Time         `json:"completed_at,omitempty"`
}

// NextQuestionResult 自适应练习下一题
type NextQuestionResult struct {
	Question        *QuestionView `json:"question"`
	SelectionReason string        `json:"selection_reason"`
	QuestionID      string        `json:"question_id"`
	Skill           string        `json:"skill"`
	Difficulty      string        `json:"difficulty"`
	Mastery         float64       `json:"mastery"`
}

// SubmitAnswerResult 自适应练习提交答案
type SubmitAnswerResult struct {
	UserID          string  `json:"user_id"`
	QuestionID      string  `json:"question_id"`
	IsCorrect       bool    `json:"is_correct"`
	Skill           string  `json:"skill"`
	Subject         string  `json:"subject"`
	PreviousMastery float64 `json:"previous_mastery"`
	NewMastery      float64 `json:"new_mastery"`
	MasteryChange   float64 `json:"mastery_change"`
	Feedback        string  `json:"feedback"`
}

type MasteryView struct {
	Skill       string     `json:"skill"`
	Name        string     `json:"name"`
	Probability float64    `json:"probability"`
	Attempts    int        `json:"attempts"`
	Tier        string     `json:"tier"`
	LastUpdated *time.Time `json:"last_updated,omitempty"`
}

// LearningPathView 学习路径及模块进度
type LearningPathView struct {
	PathID          string                    `json:"learning_path_id"`
	AssessmentID    string                    `json:"assessment_id"`
	Subject         string                    `json:"subject"`
	CreatedAt       time.Time                 `json:"created_at"`
	LearningPath    engine.LearningPath       `json:"learning_path"`
	ModuleProgress  map[string]ModuleProgress `json:"module_progress"`
	OverallProgress float64                   `json:"overall_progress"`
	Completed       bool                      `json:"completed"`
}

type ContentSection struct {
	SectionID   string         `json:"section_id"`
	Title       string         `json:"title"`
	ContentType string         `json:"content_type"`
	Content     string         `json:"content,omitempty"`
	Questions   []QuestionView `json:"questions,omitempty"`
}

// ModuleContent 模块学习内容（根据模块和题库生成）
type ModuleContent struct {
	ModuleID                string           `json:"module_id"`
	Title                   string           `json:"title"`
	Type                    string           `json:"type"`
	Skill                   string           `json:"skill"`
	Sections                []ContentSection `json:"sections"`
	EstimatedCompletionTime string           `json:"estimated_completion_time"`
}

type SubjectProgress struct {
	Subject          string  `json:"subject"`
	Paths            int     `json:"paths"`
	ModulesTotal     int     `json:"modules_total"`
	ModulesCompleted int     `json:"modules_completed"`
	OverallProgress  float64 `json:"overall_progress"`
	TimeSpentMinutes int     `json:"time_spent_minutes"`
}

type UserProgressSummary struct {
	UserID      string            `json:"user_id"`
	GeneratedAt time.Time         `json:"generated_at"`
	Subjects    []SubjectProgress `json:"subjects"`
}

type SubjectSummary struct {
	ID                  string         `json:"id"`
	Name                string         `json:"name"`
	Description         string         `json:"description"`
	QuestionCount       int            `json:"question_count"`
	Skills              []Skill        `json:"skills"`
	DifficultyBreakdown map[string]int `json:"difficulty_distribution"`
}
