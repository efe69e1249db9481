package services

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/soumaisfe-svg/vida-fit-control-1/config"
	"github.com/soumaisfe-svg/vida-fit-control-1/models"
	"github.com/soumaisfe-svg/vida-fit-control-1/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var planAmounts = map[string]int{
	models.PlanMonthly: 5,
	models.PlanSingle:  10,
}

// PaymentData is the simulated gateway response returned at checkout: a pix
// QR payload or a hosted checkout URL, depending on the payment method.
type PaymentData struct {
	SubscriptionID string  `json:"subscriptionId"`
	QRCode         *string `json:"qrCode"`
	CheckoutURL    *string `json:"checkoutUrl"`
}

// CreateSubscription opens a pending subscription and hands back the payment
// instructions. Nothing is charged here; activation happens on confirmation
// or via a gateway webhook.
func CreateSubscription(userID uint, plan, paymentMethod string) (*models.Subscription, *PaymentData, error) {
	amount, ok := planAmounts[plan]
	if !ok {
		return nil, nil, utils.NewValidationError("plan must be monthly or single")
	}
	if paymentMethod == "" {
		return nil, nil, utils.NewValidationError("paymentMethod is required")
	}
	if _, err := FindUserByID(userID); err != nil {
		return nil, nil, err
	}

	sub := models.Subscription{
		ID:            uuid.NewString(),
		UserID:        userID,
		Plan:          plan,
		Amount:        amount,
		PaymentMethod: paymentMethod,
		Status:        models.SubscriptionPending,
	}
	if err := config.DB.Create(&sub).Error; err != nil {
		return nil, nil, err
	}

	data := &PaymentData{SubscriptionID: sub.ID}
	if paymentMethod == "pix" {
		qr := "00020126580014br.gov.bcb.pix0136" + sub.ID
		data.QRCode = &qr
	} else {
		base := os.Getenv("CHECKOUT_BASE_URL")
		if base == "" {
			base = "https://mercadopago.com/checkout"
		}
		url := fmt.Sprintf("%s/%s", base, sub.ID)
		data.CheckoutURL = &url
	}

	return &sub, data, nil
}

// ConfirmSubscription activates a pending subscription: the owning user
// turns premium and receives the one-time welcome bonus. Repeat
// confirmations for an already-active subscription are no-ops; the bonus is
// tied to the pending→active transition, so it cannot be re-claimed.
func ConfirmSubscription(subscriptionID string) (bool, error) {
	var sub models.Subscription
	err := config.DB.First(&sub, "id = ?", subscriptionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, &utils.NotFoundError{Resource: "subscription"}
	}
	if err != nil {
		return false, err
	}

	if sub.Status == models.SubscriptionActive {
		return true, nil
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		sub.Status = models.SubscriptionActive
		sub.ConfirmedAt = &now
		if err := tx.Save(&sub).Error; err != nil {
			return err
		}
		return activatePremium(tx, sub.UserID)
	})
	if err != nil {
		return false, err
	}

	EmitAlert(sub.UserID, models.AlertPremiumActivated, "Welcome to VivaFit Premium!")
	return true, nil
}

// SubscriptionStatus mirrors the paywall check the client polls.
func SubscriptionStatus(userID uint) (bool, int, error) {
	user, err := FindUserByID(userID)
	if err != nil {
		return false, 0, err
	}
	return user.IsPremium, user.Coins, nil
}

func activatePremium(tx *gorm.DB, userID uint) error {
	var user models.User
	if err := tx.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.UserNotFoundError()
		}
		return err
	}
	if user.IsPremium {
		return nil
	}

	now := time.Now()
	user.IsPremium = true
	user.PremiumSince = &now
	if err := tx.Save(&user).Error; err != nil {
		return err
	}

	_, err := Credit(tx, user.ID, PremiumWelcomeBonus, "premium_welcome_bonus")
	return err
}

// HandlePagSeguroEvent processes a validated PagSeguro webhook notification.
// Events mutate server-owned premium state keyed by the customer email.
func HandlePagSeguroEvent(event, customerEmail, subscriptionID string) error {
	utils.Log.Info().
		Str("event", event).
		Str("subscription", subscriptionID).
		Msg("pagseguro webhook")

	switch event {
	case "subscription_charged":
		var user models.User
		if err := config.DB.Where("email = ?", customerEmail).First(&user).Error; err != nil {
			return utils.UserNotFoundError()
		}
		return config.DB.Transaction(func(tx *gorm.DB) error {
			return activatePremium(tx, user.ID)
		})

	case "subscription_canceled":
		var user models.User
		if err := config.DB.Where("email = ?", customerEmail).First(&user).Error; err != nil {
			return utils.UserNotFoundError()
		}
		user.IsPremium = false
		return config.DB.Save(&user).Error

	case "charge_failed", "subscription_created":
		// acknowledged, no state change
		return nil

	default:
		utils.Log.Warn().Str("event", event).Msg("unhandled pagseguro event")
		return nil
	}
}

// HandleMercadoPagoPayment activates the subscription referenced by an
// approved payment notification.
func HandleMercadoPagoPayment(externalReference, status string) error {
	if status != "approved" {
		return nil
	}

	var sub models.Subscription
	err := config.DB.First(&sub, "id = ?", externalReference).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Log.Warn().Str("reference", externalReference).Msg("mercadopago reference unknown")
		return nil
	}
	if err != nil {
		return err
	}

	_, err = ConfirmSubscription(sub.ID)
	return err
}
