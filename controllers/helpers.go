package controllers

import (
	"errors"
	"strconv"
	"time"

	"github.com/soumaisfe-svg/vida-fit-control-1/utils"

	"github.com/gin-gonic/gin"
)

// respondError logs the raw error and answers with the sanitized taxonomy
// mapping. Premium-gated failures additionally carry requiresPayment so the
// client can route to checkout.
func respondError(c *gin.Context, err error) {
	status := utils.HTTPStatus(err)
	utils.Log.Error().Err(err).Int("status", status).Str("path", c.Request.URL.Path).Msg("request failed")

	var pe *utils.PremiumRequiredError
	if errors.As(err, &pe) {
		c.JSON(status, gin.H{"success": false, "error": utils.ClientMessage(err), "requiresPayment": true})
		return
	}
	c.JSON(status, gin.H{"success": false, "error": utils.ClientMessage(err)})
}

func userIDFromCtx(c *gin.Context) (uint, bool) {
	v, ok := c.Get("userID")
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

func parseUserID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, utils.NewValidationError("invalid userId")
	}
	return uint(id), nil
}

func parseDate(raw string) (time.Time, error) {
	d, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return time.Time{}, utils.NewValidationError("invalid date format, use YYYY-MM-DD")
	}
	return d, nil
}
