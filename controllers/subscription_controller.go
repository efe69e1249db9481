package controllers

import (
	"net/http"

	"github.com/soumaisfe-svg/vida-fit-control-1/services"

	"github.com/gin-gonic/gin"
)

type CreateSubscriptionInput struct {
	UserID        uint   `json:"userId"`
	Plan          string `json:"plan" binding:"required"`
	PaymentMethod string `json:"paymentMethod" binding:"required"`
}

func CreateSubscription(c *gin.Context) {
	var input CreateSubscriptionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if input.UserID == 0 {
		if id, ok := userIDFromCtx(c); ok {
			input.UserID = id
		}
	}

	_, payment, err := services.CreateSubscription(input.UserID, input.Plan, input.PaymentMethod)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"subscriptionId": payment.SubscriptionID,
		"qrCode":         payment.QRCode,
		"checkoutUrl":    payment.CheckoutURL,
	})
}

type ConfirmSubscriptionInput struct {
	SubscriptionID string `json:"subscriptionId" binding:"required"`
}

func ConfirmSubscription(c *gin.Context) {
	var input ConfirmSubscriptionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	premium, err := services.ConfirmSubscription(input.SubscriptionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "isPremium": premium})
}

func SubscriptionStatus(c *gin.Context) {
	userID, err := parseUserID(c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}

	premium, coins, err := services.SubscriptionStatus(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"isPremium": premium, "coins": coins})
}
