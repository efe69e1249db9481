package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	gorm.Model
	Email          string `gorm:"uniqueIndex;not null"`
	Password       string `gorm:"not null"`
	Name           string
	Role           string `gorm:"size:16;default:user"`
	ProfilePicture string
	IsPremium      bool
	PremiumSince   *time.Time
	Coins          int `gorm:"default:0"` // only ever credited, never debited
	ResetToken     string
	ResetTokenExp  time.Time
}

// HasPremiumAccess reports whether premium features are unlocked.
// Admins bypass the paywall via the role flag, not a hardcoded identity.
func (u *User) HasPremiumAccess() bool {
	return u.IsPremium || u.Role == RoleAdmin
}

// Sanitized returns the user as a JSON-safe map without credentials.
func (u *User) Sanitized() map[string]interface{} {
	return map[string]interface{}{
		"id":         u.ID,
		"email":      u.Email,
		"name":       u.Name,
		"role":       u.Role,
		"isPremium":  u.IsPremium,
		"picture":    u.ProfilePicture,
		"coins":      u.Coins,
		"created_at": u.CreatedAt,
	}
}
