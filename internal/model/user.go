package model

import "time"

// swagger:model User
type User struct {
	ID         string     `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Username   string     `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Name       string     `gorm:"size:100" json:"name"`
	Email      string     `gorm:"size:100" json:"email"`
	LastActive *time.Time `json:"last_active,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
