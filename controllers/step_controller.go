package controllers

import (
	"net/http"
	"time"

	"github.com/soumaisfe-svg/vida-fit-control-1/config"
	"github.com/soumaisfe-svg/vida-fit-control-1/services"
	"github.com/soumaisfe-svg/vida-fit-control-1/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var stepUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// GetStepSession returns the caller's step session for a date context
// (today by default).
func GetStepSession(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		d, err := parseDate(raw)
		if err != nil {
			respondError(c, err)
			return
		}
		date = d
	}

	sess, err := services.NewStepService(config.DB).Session(userID, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": sess})
}

// RequestStepPermission applies the client's permission prompt outcome.
// POST {"granted": bool}; a failed prompt reports granted=false and the
// state degrades to denied.
func RequestStepPermission(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var input struct {
		Granted bool `json:"granted"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	sess, err := services.NewStepService(config.DB).RequestPermission(userID, input.Granted)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": sess})
}

// ResetStepPermission clears a persisted denial, the only way out of the
// otherwise-terminal denied state.
func ResetStepPermission(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	sess, err := services.NewStepService(config.DB).ResetPermission(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": sess})
}

type ManualEstimateInput struct {
	Date            string `json:"date"`
	DurationMinutes int    `json:"durationMinutes"`
	Intensity       string `json:"intensity"`
}

// ManualStepEstimate handles the manual-entry fallback for denied sessions.
func ManualStepEstimate(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var input ManualEstimateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	date := time.Now()
	if input.Date != "" {
		d, err := parseDate(input.Date)
		if err != nil {
			respondError(c, err)
			return
		}
		date = d
	}

	res, added, err := services.NewStepService(config.DB).
		RecordManualEstimate(userID, date, input.DurationMinutes, input.Intensity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"stepsAdded": added,
		"total":      int(res.Record.Value),
		"coins":      res.Coins,
	})
}

// StreamSteps upgrades to a websocket and feeds the motion-sample stream
// into the tracker while the connection lives. Closing the socket (or the
// request context) cancels the loop; nothing buffered is processed after
// that.
func StreamSteps(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		d, err := parseDate(raw)
		if err != nil {
			respondError(c, err)
			return
		}
		date = d
	}

	tracker, err := services.NewStepService(config.DB).
		StartTracking(c.Request.Context(), userID, date)
	if err != nil {
		respondError(c, err)
		return
	}

	conn, err := stepUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		tracker.Stop()
		return
	}
	defer func() {
		tracker.Stop()
		_ = conn.Close()
	}()

	for {
		var sample services.MotionSample
		if err := conn.ReadJSON(&sample); err != nil {
			return
		}
		if sample.At.IsZero() {
			sample.At = time.Now()
		}
		tracker.Offer(sample)

		if err := conn.WriteJSON(gin.H{"steps": tracker.Steps()}); err != nil {
			utils.Log.Debug().Err(err).Uint("user", userID).Msg("step stream write")
			return
		}
	}
}
