package controllers

import (
	"net/http"

	"github.com/soumaisfe-svg/vida-fit-control-1/services"

	"github.com/gin-gonic/gin"
)

// AnalyzeFood handles POST /api/food/analyze {"image_base64": "data:…"}.
// The client tracks the result as a "food" habit afterwards.
func AnalyzeFood(c *gin.Context) {
	var input struct {
		ImageBase64 string `json:"image_base64" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "image_base64 is required"})
		return
	}

	analysis, err := services.NewVisionService().AnalyzePhoto(c.Request.Context(), input.ImageBase64)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "analysis": analysis})
}
