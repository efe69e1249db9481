package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	HabitSteps    = "steps"
	HabitWater    = "water"
	HabitSleep    = "sleep"
	HabitMood     = "mood"
	HabitFood     = "food"
	HabitExercise = "exercise"
)

// ValidHabitType reports whether t is one of the tracked habit kinds.
func ValidHabitType(t string) bool {
	switch t {
	case HabitSteps, HabitWater, HabitSleep, HabitMood, HabitFood, HabitExercise:
		return true
	}
	return false
}

// HabitRecord is one logged observation of a health metric for one user on
// one calendar day. Date is truncated to local midnight. For every type
// except "food" the (user_id, date, type) triple identifies at most one live
// row; food entries append, one row per logged meal.
type HabitRecord struct {
	gorm.Model
	UserID     uint      `gorm:"index;not null"`
	Type       string    `gorm:"size:16;index;not null"`
	Value      float64   // numeric habit types
	TextValue  string    `gorm:"size:32"` // mood
	Date       time.Time `gorm:"index;not null"`
	RecordedAt time.Time
}
