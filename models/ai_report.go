package models

import "time"

// AIReport is one stored answer from the advice feature.
type AIReport struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"userId"`
	Question  string    `gorm:"type:text" json:"question"`
	Answer    string    `gorm:"type:text" json:"answer"`
	Source    string    `gorm:"size:16" json:"source"` // "openai" | "fallback"
	CreatedAt time.Time `json:"createdAt"`
}
