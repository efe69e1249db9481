package models

import "time"

const (
	AlertGoalCompleted    = "goal_completed"
	AlertPremiumActivated = "premium_activated"
	AlertInfo             = "info"
)

type Alert struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"index"`
	Type      string    `gorm:"size:24"`
	Message   string    `gorm:"type:text"`
	CreatedAt time.Time
}
