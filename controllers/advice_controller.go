package controllers

import (
	"net/http"

	"github.com/soumaisfe-svg/vida-fit-control-1/config"
	"github.com/soumaisfe-svg/vida-fit-control-1/services"

	"github.com/gin-gonic/gin"
)

// ResearchAdvice handles POST /api/ai/research for the authenticated user.
func ResearchAdvice(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var input struct {
		Question string `json:"question" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "question is required"})
		return
	}

	report, err := services.NewAdviceService(config.DB).
		Research(c.Request.Context(), userID, input.Question)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "report": report})
}

// AdviceHistory handles GET /api/ai/history/:userId, newest first.
func AdviceHistory(c *gin.Context) {
	userID, err := parseUserID(c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}

	reports, err := services.NewAdviceService(config.DB).History(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}
