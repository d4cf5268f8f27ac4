package model

import "time"

const (
	AssessmentInProgress = "in_progress"
	AssessmentComplete   = "complete"
)

// swagger:model AssessmentSession
type AssessmentSession struct {
	UUIDBase
	UserID            string             `gorm:"index;type:varchar(64);not null" json:"user_id"`
	SubjectID         string             `gorm:"index;type:varchar(64);not null" json:"subject"`
	Status            string             `gorm:"size:20;not null;default:'in_progress'" json:"status"`
	TotalQuestions    int                `gorm:"not null" json:"total_questions"`
	AnsweredCount     int                `gorm:"default:0" json:"current_question_index"`
	CorrectCount      int                `gorm:"default:0" json:"correct_count"`
	PendingQuestionID string             `gorm:"type:varchar(64)" json:"pending_question_id,omitempty"`
	FinalMasteries    map[string]float64 `gorm:"serializer:json;type:text" json:"final_masteries,omitempty"`
	ReportURL         string             `gorm:"size:512" json:"report_url,omitempty"`
	CompletedAt       *time.Time         `json:"completed_at,omitempty"`
	Answers           []AssessmentAnswer `gorm:"foreignKey:SessionID" json:"answers,omitempty"`
}

func (AssessmentSession) TableName() string {
	return "assessment_sessions"
}

func (s *AssessmentSession) IsComplete() bool {
	return s.Status == AssessmentComplete
}

// AnsweredIDs 返回本次测评中已作答的题目集合
func (s *AssessmentSession) AnsweredIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(s.Answers))
	for _, a := range s.Answers {
		ids[a.QuestionID] = struct{}{}
	}
	return ids
}

// swagger:model AssessmentAnswer
type AssessmentAnswer struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	SessionID       string    `gorm:"index;type:varchar(36);not null" json:"-"`
	Sequence        int       `gorm:"not null" json:"sequence"`
	QuestionID      string    `gorm:"type:varchar(64);not null" json:"question_id"`
	SkillID         string    `gorm:"type:varchar(64);not null" json:"skill"`
	Difficulty      string    `gorm:"size:20" json:"difficulty"`
	Answer          string    `gorm:"type:text" json:"answer"`
	IsCorrect       bool      `json:"is_correct"`
	PreviousMastery float64   `json:"previous_mastery"`
	NewMastery      float64   `json:"new_mastery"`
	AnsweredAt      time.Time `json:"answered_at"`
}

func (AssessmentAnswer) TableName() string {
	return "assessment_answers"
}
