package model

import "time"

type UserMetrics struct {
	TotalUsers     int64 `json:"total_users"`
	NewUsersToday  int64 `json:"new_users_today"`
	ActiveLastWeek int64 `json:"active_last_week"`
}

type AssessmentMetrics struct {
	TotalAssessments     int64            `json:"total_assessments"`
	CompletedAssessments int64            `json:"completed_assessments"`
	CompletionRate       float64          `json:"completion_rate"`
	AssessmentsToday     int64            `json:"assessments_today,omitempty"`
	AverageScore         float64          `json:"average_score"`
	BySubject            map[string]int64 `json:"by_subject,omitempty"`
}

type LearningMetrics struct {
	ModulesStarted          int64   `json:"total_modules_started"`
	ModulesCompleted        int64   `json:"modules_completed"`
	CompletionRate          float64 `json:"completion_rate"`
	TotalTimeSpentMinutes   int64   `json:"total_time_spent_minutes"`
	AvgTimePerModuleMinutes float64 `json:"avg_time_per_module_minutes"`
}

// AnalyticsOverview 平台总览
type AnalyticsOverview struct {
	Users       UserMetrics       `json:"user_metrics"`
	Assessments AssessmentMetrics `json:"assessment_metrics"`
	Learning    LearningMetrics   `json:"learning_metrics"`
	GeneratedAt time.Time         `json:"generated_at"`
}

type SkillMetrics struct {
	AnswerCount       int     `json:"assessment_count"`
	CorrectCount      int     `json:"correct_count"`
	IncorrectCount    int     `json:"incorrect_count"`
	CorrectPercentage float64 `json:"correct_percentage"`
	MasteryAverage    float64 `json:"mastery_average"`
}

type QuestionMetrics struct {
	TotalQuestions int            `json:"total_questions"`
	ByDifficulty   map[string]int `json:"by_difficulty"`
}

// SubjectAnalytics 单科统计
type SubjectAnalytics struct {
	Subject     string                  `json:"subject"`
	Assessments AssessmentMetrics       `json:"assessment_metrics"`
	Questions   QuestionMetrics         `json:"question_metrics"`
	Skills      map[string]SkillMetrics `json:"skill_metrics"`
	GeneratedAt time.Time               `json:"generated_at"`
}

type SubjectScore struct {
	Total        int     `json:"total"`
	Completed    int     `json:"completed"`
	AverageScore float64 `json:"average_score"`
}

type UserAssessmentMetrics struct {
	Total     int                     `json:"total"`
	Completed int                     `json:"completed"`
	BySubject map[string]SubjectScore `json:"by_subject"`
}

type SubjectLearning struct {
	ModulesTotal         int     `json:"modules_total"`
	ModulesStarted       int     `json:"modules_started"`
	ModulesCompleted     int     `json:"modules_completed"`
	TimeSpentMinutes     int     `json:"time_spent_minutes"`
	CompletionPercentage float64 `json:"completion_percentage"`
}

type UserLearningMetrics struct {
	PathsCount            int                        `json:"paths_count"`
	ModulesStarted        int                        `json:"modules_started"`
	ModulesCompleted      int                        `json:"modules_completed"`
	TotalTimeSpentMinutes int                        `json:"total_time_spent_minutes"`
	BySubject             map[string]SubjectLearning `json:"by_subject"`
}

// UserAnalytics 学习者统计
type UserAnalytics struct {
	UserID         string                        `json:"user_id"`
	Assessments    UserAssessmentMetrics         `json:"assessment_metrics"`
	Learning       UserLearningMetrics           `json:"learning_metrics"`
	SkillMasteries map[string]map[string]float64 `json:"skill_masteries"`
	GeneratedAt    time.Time                     `json:"generated_at"`
}
