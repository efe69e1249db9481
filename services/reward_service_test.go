package services

import (
	"testing"

	"github.com/soumaisfe-svg/vida-fit-control-1/models"
	"github.com/soumaisfe-svg/vida-fit-control-1/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredit(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "credit@test.com")

	balance, err := Credit(db, user.ID, 5, "habit_track:water")
	require.NoError(t, err)
	assert.Equal(t, 5, balance)

	balance, err = Credit(db, user.ID, 100, "premium_welcome_bonus")
	require.NoError(t, err)
	assert.Equal(t, 105, balance)

	var txns []models.CoinTransaction
	require.NoError(t, db.Where("user_id = ?", user.ID).Order("id ASC").Find(&txns).Error)
	require.Len(t, txns, 2)
	assert.Equal(t, "habit_track:water", txns[0].Reason)
	assert.Equal(t, 100, txns[1].Amount)
}

func TestCreditUnknownUser(t *testing.T) {
	db := setupTestDB(t)

	_, err := Credit(db, 42, 5, "habit_track:water")
	var nf *utils.NotFoundError
	require.ErrorAs(t, err, &nf)
}
