package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	PermissionPending = "pending"
	PermissionGranted = "granted"
	PermissionDenied  = "denied"
)

// StepSession holds the per-user motion-tracking state. One live row per
// user. PermissionState survives restarts; once denied, only the manual
// entry path remains until the user explicitly resets it. AccumulatedSteps
// belongs to Date and resets when the date context changes.
type StepSession struct {
	gorm.Model
	UserID           uint   `gorm:"uniqueIndex;not null"`
	PermissionState  string `gorm:"size:16;default:pending"`
	TrackingActive   bool
	AccumulatedSteps int
	Date             time.Time
}
