package models

import "time"

const (
	PlanMonthly = "monthly"
	PlanSingle  = "single"

	SubscriptionPending   = "pending"
	SubscriptionActive    = "active"
	SubscriptionCancelled = "cancelled"
)

type Subscription struct {
	ID            string `gorm:"primaryKey;size:36"`
	UserID        uint   `gorm:"index;not null"`
	Plan          string `gorm:"size:16"`
	Amount        int    // plan price in BRL
	PaymentMethod string `gorm:"size:16"` // "pix" | "card" | "boleto"
	Status        string `gorm:"size:16;default:pending"`
	ConfirmedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
