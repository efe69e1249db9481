package models

import "time"

// CoinTransaction is an audit row for every coin credit. There is no debit
// path anywhere in the system, so Amount is always positive.
type CoinTransaction struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"index;not null"`
	Amount    int    `gorm:"not null"`
	Reason    string `gorm:"size:64"`
	CreatedAt time.Time
}
