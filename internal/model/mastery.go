package model

import (
	"time"

	"adaptive_edu_backend/internal/engine"
)

// SkillMastery 持久化的掌握度，(user_id, skill_id) 唯一
type SkillMastery struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID      string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_user_skill" json:"user_id"`
	SkillID     string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_user_skill" json:"skill_id"`
	Probability float64   `gorm:"not null" json:"probability"`
	Attempts    int       `gorm:"default:0" json:"attempts"`
	LastUpdated time.Time `json:"last_updated"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

func (SkillMastery) TableName() string {
	return "skill_masteries"
}

func (m SkillMastery) ToState() engine.MasteryState {
	return engine.MasteryState{
		UserID:      m.UserID,
		SkillID:     m.SkillID,
		Probability: m.Probability,
		Attempts:    m.Attempts,
		LastUpdated: m.LastUpdated,
	}
}

func (m *SkillMastery) Apply(s engine.MasteryState) {
	m.UserID = s.UserID
	m.SkillID = s.SkillID
	m.Probability = s.Probability
	m.Attempts = s.Attempts
	m.LastUpdated = s.LastUpdated
}
