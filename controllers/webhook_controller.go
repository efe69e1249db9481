package controllers

import (
	"net/http"
	"os"

	"github.com/soumaisfe-svg/vida-fit-control-1/services"
	"github.com/soumaisfe-svg/vida-fit-control-1/utils"

	"github.com/gin-gonic/gin"
)

type pagSeguroNotification struct {
	Event    string `json:"event"`
	Customer struct {
		Email string `json:"email"`
	} `json:"customer"`
	Subscription struct {
		ID string `json:"id"`
	} `json:"subscription"`
}

// PagSeguroWebhook validates the shared-secret header and applies the
// notification. The token lives in the environment, never in code.
func PagSeguroWebhook(c *gin.Context) {
	expected := os.Getenv("PAGSEGURO_WEBHOOK_TOKEN")
	if expected == "" {
		utils.Log.Error().Msg("PAGSEGURO_WEBHOOK_TOKEN not configured")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "webhook not configured"})
		return
	}

	received := c.GetHeader("x-auth-token")
	if received == "" {
		received = c.Query("token")
	}
	if received != expected {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	var n pagSeguroNotification
	if err := c.ShouldBindJSON(&n); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	if err := services.HandlePagSeguroEvent(n.Event, n.Customer.Email, n.Subscription.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type mercadoPagoNotification struct {
	Type string `json:"type"`
	Data struct {
		ExternalReference string `json:"external_reference"`
		Status            string `json:"status"`
	} `json:"data"`
}

// MercadoPagoWebhook activates subscriptions on approved payments. Always
// acknowledges so the gateway stops retrying.
func MercadoPagoWebhook(c *gin.Context) {
	var n mercadoPagoNotification
	if err := c.ShouldBindJSON(&n); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	if n.Type == "payment" {
		if err := services.HandleMercadoPagoPayment(n.Data.ExternalReference, n.Data.Status); err != nil {
			utils.Log.Error().Err(err).Msg("mercadopago webhook")
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
