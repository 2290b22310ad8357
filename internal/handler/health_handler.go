package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health 是存活检查。
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Neuvera.ai API is running", "status": "healthy"})
}
