package services

import (
	"strings"
	"testing"

	"github.com/soumaisfe-svg/vida-fit-control-1/models"
	"github.com/soumaisfe-svg/vida-fit-control-1/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSubscriptionPix(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "pix@test.com")

	sub, payment, err := CreateSubscription(user.ID, models.PlanMonthly, "pix")
	require.NoError(t, err)

	assert.Equal(t, models.SubscriptionPending, sub.Status)
	assert.Equal(t, 5, sub.Amount)
	require.NotNil(t, payment.QRCode)
	assert.True(t, strings.HasPrefix(*payment.QRCode, "00020126580014br.gov.bcb.pix0136"))
	assert.True(t, strings.HasSuffix(*payment.QRCode, sub.ID))
	assert.Nil(t, payment.CheckoutURL)
}

func TestCreateSubscriptionCard(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "card@test.com")

	sub, payment, err := CreateSubscription(user.ID, models.PlanSingle, "card")
	require.NoError(t, err)

	assert.Equal(t, 10, sub.Amount)
	assert.Nil(t, payment.QRCode)
	require.NotNil(t, payment.CheckoutURL)
	assert.Contains(t, *payment.CheckoutURL, sub.ID)
}

func TestCreateSubscriptionValidation(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "subval@test.com")

	var ve *utils.ValidationError
	_, _, err := CreateSubscription(user.ID, "yearly", "pix")
	require.ErrorAs(t, err, &ve)
	_, _, err = CreateSubscription(user.ID, models.PlanMonthly, "")
	require.ErrorAs(t, err, &ve)

	var nf *utils.NotFoundError
	_, _, err = CreateSubscription(999, models.PlanMonthly, "pix")
	require.ErrorAs(t, err, &nf)
}

func TestConfirmSubscriptionActivatesPremium(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "confirm@test.com")

	sub, _, err := CreateSubscription(user.ID, models.PlanMonthly, "pix")
	require.NoError(t, err)

	ok, err := ConfirmSubscription(sub.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	var fresh models.User
	require.NoError(t, db.First(&fresh, user.ID).Error)
	assert.True(t, fresh.IsPremium)
	require.NotNil(t, fresh.PremiumSince)
	assert.Equal(t, PremiumWelcomeBonus, fresh.Coins)

	var stored models.Subscription
	require.NoError(t, db.First(&stored, "id = ?", sub.ID).Error)
	assert.Equal(t, models.SubscriptionActive, stored.Status)
	assert.NotNil(t, stored.ConfirmedAt)
}

func TestConfirmSubscriptionIdempotent(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "idem@test.com")

	sub, _, err := CreateSubscription(user.ID, models.PlanMonthly, "pix")
	require.NoError(t, err)

	_, err = ConfirmSubscription(sub.ID)
	require.NoError(t, err)
	ok, err := ConfirmSubscription(sub.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	// the welcome bonus rides the pending→active transition only
	var fresh models.User
	require.NoError(t, db.First(&fresh, user.ID).Error)
	assert.Equal(t, PremiumWelcomeBonus, fresh.Coins)
}

func TestConfirmSubscriptionUnknown(t *testing.T) {
	db := setupTestDB(t)
	createTestUser(t, db, "noref@test.com")

	_, err := ConfirmSubscription("does-not-exist")
	var nf *utils.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestSubscriptionStatus(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "status@test.com")

	premium, coins, err := SubscriptionStatus(user.ID)
	require.NoError(t, err)
	assert.False(t, premium)
	assert.Zero(t, coins)

	sub, _, err := CreateSubscription(user.ID, models.PlanSingle, "pix")
	require.NoError(t, err)
	_, err = ConfirmSubscription(sub.ID)
	require.NoError(t, err)

	premium, coins, err = SubscriptionStatus(user.ID)
	require.NoError(t, err)
	assert.True(t, premium)
	assert.Equal(t, PremiumWelcomeBonus, coins)
}

func TestHandlePagSeguroEvents(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "gateway@test.com")

	require.NoError(t, HandlePagSeguroEvent("subscription_charged", user.Email, "ext-1"))
	var fresh models.User
	require.NoError(t, db.First(&fresh, user.ID).Error)
	assert.True(t, fresh.IsPremium)
	assert.Equal(t, PremiumWelcomeBonus, fresh.Coins)

	// re-charge of an already premium account does not re-pay the bonus
	require.NoError(t, HandlePagSeguroEvent("subscription_charged", user.Email, "ext-1"))
	require.NoError(t, db.First(&fresh, user.ID).Error)
	assert.Equal(t, PremiumWelcomeBonus, fresh.Coins)

	require.NoError(t, HandlePagSeguroEvent("subscription_canceled", user.Email, "ext-1"))
	require.NoError(t, db.First(&fresh, user.ID).Error)
	assert.False(t, fresh.IsPremium)

	require.NoError(t, HandlePagSeguroEvent("charge_failed", user.Email, "ext-1"))
	require.NoError(t, HandlePagSeguroEvent("something_else", user.Email, "ext-1"))

	err := HandlePagSeguroEvent("subscription_charged", "ghost@test.com", "ext-2")
	var nf *utils.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestHandleMercadoPagoPayment(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "mp@test.com")

	sub, _, err := CreateSubscription(user.ID, models.PlanMonthly, "card")
	require.NoError(t, err)

	// non-approved statuses are ignored
	require.NoError(t, HandleMercadoPagoPayment(sub.ID, "pending"))
	var fresh models.User
	require.NoError(t, db.First(&fresh, user.ID).Error)
	assert.False(t, fresh.IsPremium)

	require.NoError(t, HandleMercadoPagoPayment(sub.ID, "approved"))
	require.NoError(t, db.First(&fresh, user.ID).Error)
	assert.True(t, fresh.IsPremium)

	// unknown references are acknowledged without error
	require.NoError(t, HandleMercadoPagoPayment("missing-ref", "approved"))
}
