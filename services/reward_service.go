package services

import (
	"errors"
	"time"

	"github.com/soumaisfe-svg/vida-fit-control-1/models"
	"github.com/soumaisfe-svg/vida-fit-control-1/utils"

	"gorm.io/gorm"
)

const (
	// HabitTrackReward is credited on every successful habit track, with no
	// dedup against repeated tracks of the same type/day. Intentional.
	HabitTrackReward = 5

	// PremiumWelcomeBonus is credited once, on the pending→active
	// subscription transition.
	PremiumWelcomeBonus = 100
)

// Credit adds amount to the user's coin balance and writes an audit row.
// It runs against the given handle so callers can place it inside a
// transaction alongside the mutation that earned the coins.
func Credit(db *gorm.DB, userID uint, amount int, reason string) (int, error) {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, utils.UserNotFoundError()
		}
		return 0, err
	}

	user.Coins += amount
	if err := db.Save(&user).Error; err != nil {
		return 0, err
	}

	txn := models.CoinTransaction{
		UserID:    userID,
		Amount:    amount,
		Reason:    reason,
		CreatedAt: time.Now(),
	}
	if err := db.Create(&txn).Error; err != nil {
		return 0, err
	}

	return user.Coins, nil
}
