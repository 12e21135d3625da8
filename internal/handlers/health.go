package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hack2025/volunteer-hub/internal/models"
	"gorm.io/gorm"
)

// HealthHandler reports whether the service and its database are usable.
type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// CheckHealth returns the health status of all subsystems.
func (h *HealthHandler) CheckHealth(c *gin.Context) {
	overall := "healthy"
	status := http.StatusOK

	dbStatus := "ok"
	if err := models.Ping(h.db); err != nil {
		dbStatus = "error: " + err.Error()
		overall = "unhealthy"
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":  overall,
		"service": "volunteer-hub",
		"components": gin.H{
			"database": dbStatus,
		},
	})
}
