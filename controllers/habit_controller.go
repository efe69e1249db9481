package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/soumaisfe-svg/vida-fit-control-1/config"
	"github.com/soumaisfe-svg/vida-fit-control-1/services"

	"github.com/gin-gonic/gin"
)

type TrackHabitInput struct {
	UserID uint        `json:"userId"`
	Type   string      `json:"type"`
	Value  interface{} `json:"value"`
	Date   string      `json:"date"`
}

// TrackHabit handles POST /api/habits/track.
func TrackHabit(c *gin.Context) {
	var input TrackHabitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid body"})
		return
	}

	if input.UserID == 0 || input.Type == "" || input.Value == nil || input.Date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "userId, type, value and date are required"})
		return
	}

	date, err := parseDate(input.Date)
	if err != nil {
		respondError(c, err)
		return
	}

	res, err := services.TrackHabit(input.UserID, input.Type, input.Value, date)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"habit":   res.Record,
		"coins":   res.Coins,
	})
}

// GetHabits handles GET /api/habits?userId=&date=&startDate=&endDate=.
func GetHabits(c *gin.Context) {
	rawUser := c.Query("userId")
	if rawUser == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "userId is required"})
		return
	}
	userID, err := parseUserID(rawUser)
	if err != nil {
		respondError(c, err)
		return
	}

	var from, to *time.Time
	if raw := c.Query("date"); raw != "" {
		d, err := parseDate(raw)
		if err != nil {
			respondError(c, err)
			return
		}
		from, to = &d, &d
	} else if rawStart, rawEnd := c.Query("startDate"), c.Query("endDate"); rawStart != "" && rawEnd != "" {
		s, err := parseDate(rawStart)
		if err != nil {
			respondError(c, err)
			return
		}
		e, err := parseDate(rawEnd)
		if err != nil {
			respondError(c, err)
			return
		}
		from, to = &s, &e
	}

	habits, err := services.QueryHabits(userID, from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "habits": habits})
}

// GetHabitSummary handles GET /api/habits/summary/:userId for the current
// date.
func GetHabitSummary(c *gin.Context) {
	userID, err := parseUserID(c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}

	summary, err := services.NewSummaryService(config.DB).Daily(userID, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// GetWeeklyReport handles GET /api/reports/weekly/:userId.
func GetWeeklyReport(c *gin.Context) {
	userID, err := parseUserID(c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}
	if _, err := services.FindUserByID(userID); err != nil {
		respondError(c, err)
		return
	}

	weekStart := services.StartOfWeek(time.Now())
	if raw := c.Query("week_start"); raw != "" {
		d, err := parseDate(raw)
		if err != nil {
			respondError(c, err)
			return
		}
		weekStart = services.StartOfWeek(d)
	}

	svc := services.NewSummaryService(config.DB)
	rollup, err := svc.Weekly(userID, weekStart)
	if err != nil {
		respondError(c, err)
		return
	}

	prev, err := svc.Weekly(userID, weekStart.AddDate(0, 0, -7))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"report": gin.H{
			"userId":      userID,
			"week":        rollup.WeekStart,
			"rollup":      rollup,
			"comparison":  compareWeeks(rollup, prev),
			"suggestions": svc.Insights(rollup),
			"generatedAt": time.Now().Format(time.RFC3339),
		},
	})
}

func compareWeeks(cur, prev *services.WeeklyRollup) string {
	if prev.TotalSteps == 0 {
		return "first tracked week"
	}
	delta := (cur.TotalSteps - prev.TotalSteps) / prev.TotalSteps * 100
	if delta >= 0 {
		return fmt.Sprintf("+%.0f%% steps vs previous week", delta)
	}
	return fmt.Sprintf("%.0f%% steps vs previous week", delta)
}
