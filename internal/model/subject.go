package model

import (
	"time"

	"adaptive_edu_backend/internal/engine"
)

// swagger:model Subject
type Subject struct {
	ID          string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Skills      []Skill   `gorm:"foreignKey:SubjectID" json:"skills,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Subject) TableName() string {
	return "subjects"
}

// swagger:model Skill
type Skill struct {
	ID          string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	SubjectID   string    `gorm:"index;type:varchar(64);not null" json:"subject_id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Skill) TableName() string {
	return "skills"
}

func (s Skill) ToEngine() engine.Skill {
	return engine.Skill{ID: s.ID, Name: s.Name, SubjectID: s.SubjectID}
}

// swagger:model Question
type Question struct {
	ID            string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	SubjectID     string    `gorm:"index;type:varchar(64);not null" json:"subject"`
	SkillID       string    `gorm:"index;type:varchar(64);not null" json:"skill"`
	Difficulty    string    `gorm:"size:20;not null" json:"difficulty"`
	Text          string    `gorm:"type:text;not null" json:"text"`
	Options       []string  `gorm:"serializer:json;type:text" json:"options"`
	CorrectAnswer string    `gorm:"type:text;not null" json:"-"`
	Explanation   string    `gorm:"type:text" json:"explanation,omitempty"`
	CreatedAt     time.Time `json:"-"`
	UpdatedAt     time.Time `json:"-"`
}

func (Question) TableName() string {
	return "questions"
}

func (q Question) ToEngine() engine.Question {
	return engine.Question{
		ID:            q.ID,
		SkillID:       q.SkillID,
		Band:          engine.Band(q.Difficulty),
		Prompt:        q.Text,
		Options:       q.Options,
		CorrectAnswer: q.CorrectAnswer,
	}
}

// QuestionView 返回给客户端的题目，不包含答案
type QuestionView struct {
	ID         string   `json:"id"`
	Text       string   `json:"text"`
	Options    []string `json:"options"`
	Skill      string   `json:"skill"`
	Difficulty string   `json:"difficulty"`
}

func (q Question) View() *QuestionView {
	return &QuestionView{
		ID:         q.ID,
		Text:       q.Text,
		Options:    q.Options,
		Skill:      q.SkillID,
		Difficulty: q.Difficulty,
	}
}
