package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quoteforge/utils"
)

func HealthHandler(c *gin.Context) {
	status := utils.GetHealthStatus()
	state := "ok"
	if !status.CheckedAt.IsZero() && !status.Healthy() {
		state = "degraded"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":       state,
		"message":      "Hi, I'm Quoteforge",
		"dependencies": status,
	})
}
